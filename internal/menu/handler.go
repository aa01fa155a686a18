package menu

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
	rg.POST("/categories", h.createCategory)
	rg.GET("/categories", h.listCategories)
	rg.GET("/categories/:category_id", h.getCategory)
	rg.PUT("/categories/:category_id", h.updateCategory)
	rg.DELETE("/categories/:category_id", h.deleteCategory)

	rg.POST("/items", h.createItem)
	rg.GET("/items", h.listItems)
	rg.GET("/items/:item_id", h.getItem)
	rg.PUT("/items/:item_id", h.updateItem)
	rg.DELETE("/items/:item_id", h.deleteItem)
	rg.POST("/items/bulk-update", h.bulkUpdate)
	rg.POST("/items/:item_id/duplicate", h.duplicateItem)
}

func (h *Handler) fail(c *gin.Context, action string, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.log.Error(action, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func (h *Handler) createCategory(c *gin.Context) {
	var req domain.CreateMenuCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !auth.SameBusiness(c, req.BusinessID) {
		return
	}
	cat, err := h.svc.CreateCategory(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "create_category_failed", err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *Handler) listCategories(c *gin.Context) {
	businessID := c.Query("business_id")
	var parentID *string
	if v := c.Query("parent_id"); v != "" {
		parentID = &v
	}
	var isActive *bool
	if v := c.Query("is_active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid is_active"})
			return
		}
		isActive = &b
	}
	cats, err := h.svc.ListCategories(c.Request.Context(), businessID, parentID, isActive)
	if err != nil {
		h.fail(c, "list_categories_failed", err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

func (h *Handler) getCategory(c *gin.Context) {
	cat, err := h.svc.GetCategory(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("category_id"))
	if err != nil {
		h.fail(c, "get_category_failed", err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *Handler) updateCategory(c *gin.Context) {
	var req domain.UpdateMenuCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cat, err := h.svc.UpdateCategory(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("category_id"), req)
	if err != nil {
		h.fail(c, "update_category_failed", err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *Handler) deleteCategory(c *gin.Context) {
	if err := h.svc.DeleteCategory(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("category_id")); err != nil {
		h.fail(c, "delete_category_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) createItem(c *gin.Context) {
	var req domain.CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !auth.SameBusiness(c, req.BusinessID) {
		return
	}
	it, err := h.svc.CreateItem(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "create_item_failed", err)
		return
	}
	c.JSON(http.StatusCreated, it)
}

func (h *Handler) listItems(c *gin.Context) {
	f := domain.MenuItemFilter{
		BusinessID: c.Query("business_id"),
		CategoryID: c.Query("category_id"),
		Search:     c.Query("search"),
	}
	if v := c.Query("is_available"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid is_available"})
			return
		}
		f.IsAvailable = &b
	}
	if v := c.Query("min_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_price"})
			return
		}
		f.MinPrice = &p
	}
	if v := c.Query("max_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_price"})
			return
		}
		f.MaxPrice = &p
	}
	if v := c.Query("tags"); v != "" {
		f.Tags = c.QueryArray("tags")
	}
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	f.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.svc.ListItems(c.Request.Context(), f)
	if err != nil {
		h.fail(c, "list_items_failed", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) getItem(c *gin.Context) {
	d, err := h.svc.GetItemDetails(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("item_id"))
	if err != nil {
		h.fail(c, "get_item_failed", err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) updateItem(c *gin.Context) {
	var req domain.UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	it, err := h.svc.UpdateItem(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("item_id"), req)
	if err != nil {
		h.fail(c, "update_item_failed", err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *Handler) deleteItem(c *gin.Context) {
	soft := true
	if v := c.Query("soft_delete"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid soft_delete"})
			return
		}
		soft = b
	}
	if err := h.svc.DeleteItem(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("item_id"), !soft); err != nil {
		h.fail(c, "delete_item_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) bulkUpdate(c *gin.Context) {
	var req domain.BulkMenuItemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := h.svc.BulkUpdateItems(c.Request.Context(), auth.BusinessIDFrom(c), req)
	if err != nil {
		h.fail(c, "bulk_update_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated_count": n, "item_ids": req.ItemIDs})
}

func (h *Handler) duplicateItem(c *gin.Context) {
	it, err := h.svc.DuplicateItem(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("item_id"), c.Query("new_name"))
	if err != nil {
		h.fail(c, "duplicate_item_failed", err)
		return
	}
	c.JSON(http.StatusCreated, it)
}
