package settings

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dashpos/internal/domain"
)

var hhmm = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type Handler struct {
	repo RepositoryInterface
	log  *zap.Logger
}

func NewHandler(repo RepositoryInterface, log *zap.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/:business_id", h.get)
	rg.PUT("/:business_id", h.update)
	rg.GET("/:business_id/working-hours", h.getWorkingHours)
	rg.PUT("/:business_id/working-hours", h.putWorkingHours)
}

func (h *Handler) fail(c *gin.Context, action string, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.log.Error(action, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func (h *Handler) get(c *gin.Context) {
	s, err := h.repo.Get(c.Request.Context(), c.Param("business_id"))
	if err != nil {
		h.fail(c, "get_settings_failed", err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) update(c *gin.Context) {
	var req domain.UpdateBusinessSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s, err := h.repo.Update(c.Request.Context(), c.Param("business_id"), req)
	if err != nil {
		h.fail(c, "update_settings_failed", err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) getWorkingHours(c *gin.Context) {
	hours, err := h.repo.GetWorkingHours(c.Request.Context(), c.Param("business_id"))
	if err != nil {
		h.fail(c, "get_working_hours_failed", err)
		return
	}
	c.JSON(http.StatusOK, hours)
}

func (h *Handler) putWorkingHours(c *gin.Context) {
	var inputs []domain.WorkingHoursInput
	if err := c.ShouldBindJSON(&inputs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	businessID := c.Param("business_id")
	seen := map[int]bool{}
	hours := make([]domain.WorkingHours, 0, len(inputs))
	for _, in := range inputs {
		if seen[in.DayOfWeek] {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("duplicate day_of_week %d", in.DayOfWeek)})
			return
		}
		seen[in.DayOfWeek] = true
		if !in.IsClosed && (!hhmm.MatchString(in.OpensAt) || !hhmm.MatchString(in.ClosesAt)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "opens_at and closes_at must be HH:MM"})
			return
		}
		hours = append(hours, domain.WorkingHours{
			BusinessID: businessID,
			DayOfWeek:  in.DayOfWeek,
			OpensAt:    in.OpensAt,
			ClosesAt:   in.ClosesAt,
			IsClosed:   in.IsClosed,
		})
	}

	if err := h.repo.ReplaceWorkingHours(c.Request.Context(), businessID, hours); err != nil {
		h.fail(c, "update_working_hours_failed", err)
		return
	}
	c.JSON(http.StatusOK, hours)
}
