package qr

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

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/generate", h.generate)
	rg.POST("/bulk-generate", h.bulkGenerate)
	rg.GET("", h.list)
	rg.GET("/:qr_id", h.get)
	rg.DELETE("/:qr_id", h.revoke)
}

// RegisterPublic wires the endpoints customers hit without a token: scanning,
// and the PNG itself so image_url works inside an <img> tag.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.POST("/:qr_id/scan", h.scan)
	rg.GET("/:qr_id/image", h.image)
}

func (h *Handler) fail(c *gin.Context, action string, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.log.Error(action, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func (h *Handler) generate(c *gin.Context) {
	var req domain.GenerateQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !auth.SameBusiness(c, req.BusinessID) {
		return
	}
	resp, err := h.svc.Generate(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "generate_qr_failed", err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) bulkGenerate(c *gin.Context) {
	var req domain.BulkGenerateQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !auth.SameBusiness(c, req.BusinessID) {
		return
	}
	resps, err := h.svc.BulkGenerate(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "bulk_generate_qr_failed", err)
		return
	}
	c.JSON(http.StatusCreated, resps)
}

func (h *Handler) list(c *gin.Context) {
	var isActive *bool
	if v := c.Query("is_active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid is_active"})
			return
		}
		isActive = &b
	}
	codes, err := h.svc.List(c.Request.Context(), c.Query("business_id"), c.Query("type"), isActive)
	if err != nil {
		h.fail(c, "list_qr_failed", err)
		return
	}
	c.JSON(http.StatusOK, codes)
}

func (h *Handler) get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("qr_id"))
	if err != nil {
		h.fail(c, "get_qr_failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) image(c *gin.Context) {
	png, err := h.svc.Image(c.Request.Context(), c.Param("qr_id"))
	if err != nil {
		h.fail(c, "qr_image_failed", err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h *Handler) scan(c *gin.Context) {
	res, err := h.svc.Scan(c.Request.Context(), c.Param("qr_id"))
	if err != nil {
		h.fail(c, "scan_qr_failed", err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) revoke(c *gin.Context) {
	if err := h.svc.Revoke(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("qr_id")); err != nil {
		h.fail(c, "revoke_qr_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}
