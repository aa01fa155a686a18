package analytics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dashpos/internal/domain"
)

type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/revenue/overview", h.overview)
	rg.GET("/revenue/trend", h.trend)
	rg.GET("/revenue/breakdown", h.breakdown)
	rg.GET("/top-items", h.topItems)
	rg.GET("/sales/summary", h.salesSummary)
	rg.GET("/financial/summary", h.financialSummary)
	rg.GET("/revenue/projection", h.projection)
}

func (h *Handler) fail(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		h.log.Error(action, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// period reads start_date / end_date query params as YYYY-MM-DD, leaving zero
// times for the service defaults.
func period(c *gin.Context) (from, to time.Time, ok bool) {
	ok = true
	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
			return from, to, false
		}
		from = t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
			return from, to, false
		}
		to = t.Add(24 * time.Hour)
	}
	return from, to, ok
}

func (h *Handler) overview(c *gin.Context) {
	from, to, ok := period(c)
	if !ok {
		return
	}
	o, err := h.svc.Overview(c.Request.Context(), c.Query("business_id"), from, to)
	if err != nil {
		h.fail(c, "revenue_overview_failed", err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *Handler) trend(c *gin.Context) {
	from, to, ok := period(c)
	if !ok {
		return
	}
	t, err := h.svc.Trend(c.Request.Context(), c.Query("business_id"), c.Query("granularity"), from, to)
	if err != nil {
		h.fail(c, "revenue_trend_failed", err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) breakdown(c *gin.Context) {
	from, to, ok := period(c)
	if !ok {
		return
	}
	b, err := h.svc.Breakdown(c.Request.Context(), c.Query("business_id"),
		c.DefaultQuery("dimension", "channel"), from, to)
	if err != nil {
		h.fail(c, "revenue_breakdown_failed", err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) topItems(c *gin.Context) {
	from, to, ok := period(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	items, err := h.svc.TopItems(c.Request.Context(), c.Query("business_id"), from, to, limit)
	if err != nil {
		h.fail(c, "top_items_failed", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) salesSummary(c *gin.Context) {
	from, to, ok := period(c)
	if !ok {
		return
	}
	sum, err := h.svc.SalesSummary(c.Request.Context(), c.Query("business_id"), from, to)
	if err != nil {
		h.fail(c, "sales_summary_failed", err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h *Handler) financialSummary(c *gin.Context) {
	from, to, ok := period(c)
	if !ok {
		return
	}
	sum, err := h.svc.FinancialSummary(c.Request.Context(), c.Query("business_id"), from, to)
	if err != nil {
		h.fail(c, "financial_summary_failed", err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h *Handler) projection(c *gin.Context) {
	basedOn, _ := strconv.Atoi(c.DefaultQuery("based_on_months", "6"))
	project, _ := strconv.Atoi(c.DefaultQuery("project_months", "3"))
	p, err := h.svc.Projection(c.Request.Context(), c.Query("business_id"), basedOn, project)
	if err != nil {
		h.fail(c, "revenue_projection_failed", err)
		return
	}
	c.JSON(http.StatusOK, p)
}
