package reviews

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dashpos/internal/auth"
	"dashpos/internal/domain"
)

type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register wires the authenticated review endpoints. Review submission itself
// is public (customers post after scanning a QR code), see RegisterPublic.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.GET("/stats", h.stats)
	rg.DELETE("/:review_id", h.delete)
}

func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.POST("/:business_id", h.create)
}

func (h *Handler) fail(c *gin.Context, action string, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.log.Error(action, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func (h *Handler) create(c *gin.Context) {
	var req domain.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rev, err := h.svc.Create(c.Request.Context(), c.Param("business_id"), req)
	if err != nil {
		h.fail(c, "create_review_failed", err)
		return
	}
	c.JSON(http.StatusCreated, rev)
}

func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	revs, err := h.svc.List(c.Request.Context(),
		c.Query("business_id"), c.Query("menu_item_id"), limit, offset)
	if err != nil {
		h.fail(c, "list_reviews_failed", err)
		return
	}
	c.JSON(http.StatusOK, revs)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("review_id")); err != nil {
		h.fail(c, "delete_review_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(),
		c.Query("business_id"), c.Query("menu_item_id"))
	if err != nil {
		h.fail(c, "review_stats_failed", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
