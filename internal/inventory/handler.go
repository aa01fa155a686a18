package inventory

import (
	"errors"
	"net/http"
	"strconv"
	"time"

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
	rg.POST("/items", h.createItem)
	rg.GET("/items", h.listItems)
	rg.GET("/items/:item_id", h.getItem)
	rg.PUT("/items/:item_id", h.updateItem)
	rg.DELETE("/items/:item_id", h.deleteItem)

	rg.POST("/adjustments", h.adjustStock)
	rg.GET("/transactions", h.listTransactions)
	rg.GET("/alerts", h.listAlerts)
	rg.GET("/summary", h.summary)

	rg.POST("/suppliers", h.createSupplier)
	rg.GET("/suppliers", h.listSuppliers)
	rg.GET("/suppliers/:supplier_id", h.getSupplier)
	rg.PUT("/suppliers/:supplier_id", h.updateSupplier)
	rg.DELETE("/suppliers/:supplier_id", h.deleteSupplier)

	rg.POST("/purchase-orders", h.createPurchaseOrder)
	rg.GET("/purchase-orders", h.listPurchaseOrders)
	rg.GET("/purchase-orders/:po_id", h.getPurchaseOrder)
	rg.PUT("/purchase-orders/:po_id/status", h.updatePurchaseOrderStatus)
	rg.POST("/purchase-orders/:po_id/receive", h.receivePurchaseOrder)
}

func (h *Handler) fail(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error(action, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func userID(c *gin.Context) *string {
	if claims := auth.ClaimsFrom(c); claims != nil {
		return &claims.UserID
	}
	return nil
}

func (h *Handler) createItem(c *gin.Context) {
	var req domain.CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !auth.SameBusiness(c, req.BusinessID) {
		return
	}
	it, err := h.svc.CreateItem(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "create_inventory_item_failed", err)
		return
	}
	c.JSON(http.StatusCreated, it)
}

func (h *Handler) listItems(c *gin.Context) {
	lowOnly := false
	if v := c.Query("low_stock_only"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid low_stock_only"})
			return
		}
		lowOnly = b
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.svc.ListItems(c.Request.Context(),
		c.Query("business_id"), c.Query("category"), lowOnly, limit, offset)
	if err != nil {
		h.fail(c, "list_inventory_items_failed", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) getItem(c *gin.Context) {
	it, err := h.svc.GetItem(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("item_id"))
	if err != nil {
		h.fail(c, "get_inventory_item_failed", err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *Handler) updateItem(c *gin.Context) {
	var req domain.UpdateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	it, err := h.svc.UpdateItem(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("item_id"), req)
	if err != nil {
		h.fail(c, "update_inventory_item_failed", err)
		return
	}
	c.JSON(http.StatusOK, it)
}

func (h *Handler) deleteItem(c *gin.Context) {
	if err := h.svc.DeleteItem(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("item_id")); err != nil {
		h.fail(c, "delete_inventory_item_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) adjustStock(c *gin.Context) {
	var req domain.StockAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	it, tx, err := h.svc.AdjustStock(c.Request.Context(), auth.BusinessIDFrom(c), req, userID(c))
	if err != nil {
		h.fail(c, "adjust_stock_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": it, "transaction": tx})
}

func (h *Handler) listTransactions(c *gin.Context) {
	f := domain.InventoryTransactionFilter{
		BusinessID:      c.Query("business_id"),
		InventoryItemID: c.Query("inventory_item_id"),
		Type:            c.Query("type"),
	}
	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
			return
		}
		f.StartDate = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
			return
		}
		f.EndDate = &t
	}
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))
	f.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	txs, err := h.svc.ListTransactions(c.Request.Context(), f)
	if err != nil {
		h.fail(c, "list_transactions_failed", err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

func (h *Handler) listAlerts(c *gin.Context) {
	alerts, err := h.svc.ActiveAlerts(c.Request.Context(), c.Query("business_id"))
	if err != nil {
		h.fail(c, "list_alerts_failed", err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}

func (h *Handler) summary(c *gin.Context) {
	sum, err := h.svc.Summary(c.Request.Context(), c.Query("business_id"))
	if err != nil {
		h.fail(c, "inventory_summary_failed", err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h *Handler) createSupplier(c *gin.Context) {
	var req domain.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !auth.SameBusiness(c, req.BusinessID) {
		return
	}
	sup, err := h.svc.CreateSupplier(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "create_supplier_failed", err)
		return
	}
	c.JSON(http.StatusCreated, sup)
}

func (h *Handler) listSuppliers(c *gin.Context) {
	var isActive *bool
	if v := c.Query("is_active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid is_active"})
			return
		}
		isActive = &b
	}
	sups, err := h.svc.ListSuppliers(c.Request.Context(), c.Query("business_id"), isActive)
	if err != nil {
		h.fail(c, "list_suppliers_failed", err)
		return
	}
	c.JSON(http.StatusOK, sups)
}

func (h *Handler) getSupplier(c *gin.Context) {
	sup, err := h.svc.GetSupplier(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("supplier_id"))
	if err != nil {
		h.fail(c, "get_supplier_failed", err)
		return
	}
	c.JSON(http.StatusOK, sup)
}

func (h *Handler) updateSupplier(c *gin.Context) {
	var req domain.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sup, err := h.svc.UpdateSupplier(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("supplier_id"), req)
	if err != nil {
		h.fail(c, "update_supplier_failed", err)
		return
	}
	c.JSON(http.StatusOK, sup)
}

func (h *Handler) deleteSupplier(c *gin.Context) {
	if err := h.svc.DeleteSupplier(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("supplier_id")); err != nil {
		h.fail(c, "delete_supplier_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) createPurchaseOrder(c *gin.Context) {
	var req domain.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !auth.SameBusiness(c, req.BusinessID) {
		return
	}
	po, err := h.svc.CreatePurchaseOrder(c.Request.Context(), req, userID(c))
	if err != nil {
		h.fail(c, "create_purchase_order_failed", err)
		return
	}
	c.JSON(http.StatusCreated, po)
}

func (h *Handler) listPurchaseOrders(c *gin.Context) {
	pos, err := h.svc.ListPurchaseOrders(c.Request.Context(),
		c.Query("business_id"), c.Query("supplier_id"), c.Query("status"))
	if err != nil {
		h.fail(c, "list_purchase_orders_failed", err)
		return
	}
	c.JSON(http.StatusOK, pos)
}

func (h *Handler) getPurchaseOrder(c *gin.Context) {
	po, err := h.svc.GetPurchaseOrder(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("po_id"))
	if err != nil {
		h.fail(c, "get_purchase_order_failed", err)
		return
	}
	c.JSON(http.StatusOK, po)
}

func (h *Handler) updatePurchaseOrderStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	po, err := h.svc.UpdatePurchaseOrderStatus(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("po_id"), req.Status)
	if err != nil {
		h.fail(c, "update_purchase_order_failed", err)
		return
	}
	c.JSON(http.StatusOK, po)
}

func (h *Handler) receivePurchaseOrder(c *gin.Context) {
	var req domain.ReceivePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	po, err := h.svc.ReceivePurchaseOrder(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("po_id"), req, userID(c))
	if err != nil {
		h.fail(c, "receive_purchase_order_failed", err)
		return
	}
	c.JSON(http.StatusOK, po)
}
