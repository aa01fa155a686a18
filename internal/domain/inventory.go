package domain

import "time"

type InventoryItem struct {
	ID           string    `json:"id"`
	BusinessID   string    `json:"business_id"`
	Name         string    `json:"name"`
	Category     *string   `json:"category"`
	Unit         string    `json:"unit"` // kg, l, pcs, ...
	CurrentStock float64   `json:"current_stock"`
	MinStock     float64   `json:"min_stock"`
	MaxStock     float64   `json:"max_stock"`
	UnitCost     float64   `json:"unit_cost"`
	SupplierID   *string   `json:"supplier_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// InventoryItemMetrics decorates an item with the derived dashboard fields.
type InventoryItemMetrics struct {
	InventoryItem
	StockPercentage float64 `json:"stock_percentage"`
	NeedsReorder    bool    `json:"needs_reorder"`
	StockValue      float64 `json:"stock_value"`
}

const (
	TxRestock    = "restock"
	TxUsage      = "usage"
	TxWaste      = "waste"
	TxAdjustment = "adjustment"
)

type InventoryTransaction struct {
	ID              string    `json:"id"`
	BusinessID      string    `json:"business_id"`
	InventoryItemID string    `json:"inventory_item_id"`
	Type            string    `json:"type"`
	QuantityChange  float64   `json:"quantity_change"`
	QuantityAfter   float64   `json:"quantity_after"`
	Reason          *string   `json:"reason"`
	PerformedBy     *string   `json:"performed_by"`
	CreatedAt       time.Time `json:"created_at"`
}

type StockAlert struct {
	InventoryItemID string  `json:"inventory_item_id"`
	ItemName        string  `json:"item_name"`
	CurrentStock    float64 `json:"current_stock"`
	MinStock        float64 `json:"min_stock"`
	Severity        string  `json:"severity"` // high | medium
	NeedsReorder    bool    `json:"needs_reorder"`
}

type Supplier struct {
	ID           string    `json:"id"`
	BusinessID   string    `json:"business_id"`
	Name         string    `json:"name"`
	ContactName  *string   `json:"contact_name"`
	Email        *string   `json:"email"`
	Phone        *string   `json:"phone"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

const (
	POPending           = "pending"
	POPartiallyReceived = "partially_received"
	POReceived          = "received"
	POCancelled         = "cancelled"
)

type PurchaseOrderItem struct {
	InventoryItemID string  `json:"inventory_item_id"`
	Quantity        float64 `json:"quantity"`
	UnitCost        float64 `json:"unit_cost"`
	ReceivedQty     float64 `json:"received_qty"`
}

type PurchaseOrder struct {
	ID          string              `json:"id"`
	BusinessID  string              `json:"business_id"`
	OrderNumber string              `json:"order_number"`
	SupplierID  string              `json:"supplier_id"`
	Status      string              `json:"status"`
	Items       []PurchaseOrderItem `json:"items"`
	TotalAmount float64             `json:"total_amount"`
	OrderDate   time.Time           `json:"order_date"`
	CreatedBy   *string             `json:"created_by"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type CreateInventoryItemRequest struct {
	BusinessID   string  `json:"business_id" binding:"required,uuid"`
	Name         string  `json:"name" binding:"required,max=255"`
	Category     *string `json:"category"`
	Unit         string  `json:"unit" binding:"required"`
	CurrentStock float64 `json:"current_stock" binding:"gte=0"`
	MinStock     float64 `json:"min_stock" binding:"gte=0"`
	MaxStock     float64 `json:"max_stock" binding:"gte=0"`
	UnitCost     float64 `json:"unit_cost" binding:"gte=0"`
	SupplierID   *string `json:"supplier_id" binding:"omitempty,uuid"`
}

type UpdateInventoryItemRequest struct {
	Name       *string  `json:"name" binding:"omitempty,max=255"`
	Category   *string  `json:"category"`
	Unit       *string  `json:"unit"`
	MinStock   *float64 `json:"min_stock" binding:"omitempty,gte=0"`
	MaxStock   *float64 `json:"max_stock" binding:"omitempty,gte=0"`
	UnitCost   *float64 `json:"unit_cost" binding:"omitempty,gte=0"`
	SupplierID *string  `json:"supplier_id" binding:"omitempty,uuid"`
}

type StockAdjustmentRequest struct {
	InventoryItemID string  `json:"inventory_item_id" binding:"required,uuid"`
	NewQuantity     float64 `json:"new_quantity" binding:"gte=0"`
	Type            string  `json:"type" binding:"omitempty,oneof=restock usage waste adjustment"`
	Reason          *string `json:"reason"`
}

type CreateSupplierRequest struct {
	BusinessID  string  `json:"business_id" binding:"required,uuid"`
	Name        string  `json:"name" binding:"required,max=255"`
	ContactName *string `json:"contact_name"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone"`
}

type UpdateSupplierRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	ContactName *string `json:"contact_name"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone"`
	IsActive    *bool   `json:"is_active"`
}

type CreatePurchaseOrderRequest struct {
	BusinessID string                   `json:"business_id" binding:"required,uuid"`
	SupplierID string                   `json:"supplier_id" binding:"required,uuid"`
	Items      []PurchaseOrderItemInput `json:"items" binding:"required,min=1,dive"`
}

type PurchaseOrderItemInput struct {
	InventoryItemID string  `json:"inventory_item_id" binding:"required,uuid"`
	Quantity        float64 `json:"quantity" binding:"gt=0"`
	UnitCost        float64 `json:"unit_cost" binding:"gte=0"`
}

type ReceivePurchaseOrderRequest struct {
	Items []ReceivedItemInput `json:"items" binding:"required,min=1,dive"`
}

type ReceivedItemInput struct {
	InventoryItemID  string  `json:"inventory_item_id" binding:"required,uuid"`
	QuantityReceived float64 `json:"quantity_received" binding:"gt=0"`
}

type InventorySummary struct {
	BusinessID      string                 `json:"business_id"`
	ReportDate      time.Time              `json:"report_date"`
	TotalItems      int                    `json:"total_items"`
	TotalValue      float64                `json:"total_value"`
	LowStockItems   int                    `json:"low_stock_items"`
	OutOfStockItems int                    `json:"out_of_stock_items"`
	ValueByCategory map[string]float64     `json:"value_by_category"`
	TopValueItems   []InventoryItemMetrics `json:"top_value_items"`
}

type InventoryTransactionFilter struct {
	BusinessID      string
	InventoryItemID string
	Type            string
	StartDate       *time.Time
	EndDate         *time.Time
	Limit           int
	Offset          int
}
