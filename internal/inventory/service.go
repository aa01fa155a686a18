package inventory

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"dashpos/internal/domain"
)

type eventBus interface {
	Publish(ctx context.Context, businessID, event string, data any)
}

type Service struct {
	repo   RepositoryInterface
	events eventBus
}

func NewService(repo RepositoryInterface, events eventBus) *Service {
	return &Service{repo: repo, events: events}
}

// ItemMetrics derives the stock figures shown next to every inventory row.
func ItemMetrics(it domain.InventoryItem) domain.InventoryItemMetrics {
	m := domain.InventoryItemMetrics{
		InventoryItem: it,
		NeedsReorder:  it.CurrentStock <= it.MinStock,
		StockValue:    round2(it.CurrentStock * it.UnitCost),
	}
	if it.MaxStock > 0 {
		m.StockPercentage = round2(it.CurrentStock / it.MaxStock * 100)
	}
	return m
}

// AlertSeverity is high once stock falls to half the minimum.
func AlertSeverity(current, min float64) string {
	if current <= min*0.5 {
		return "high"
	}
	return "medium"
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *Service) CreateItem(ctx context.Context, req domain.CreateInventoryItemRequest) (*domain.InventoryItemMetrics, error) {
	it := domain.InventoryItem{
		ID:           uuid.New().String(),
		BusinessID:   req.BusinessID,
		Name:         req.Name,
		Category:     req.Category,
		Unit:         req.Unit,
		CurrentStock: req.CurrentStock,
		MinStock:     req.MinStock,
		MaxStock:     req.MaxStock,
		UnitCost:     req.UnitCost,
		SupplierID:   req.SupplierID,
	}
	if err := s.repo.CreateItem(ctx, it); err != nil {
		return nil, err
	}
	created, err := s.repo.GetItem(ctx, it.ID)
	if err != nil {
		return nil, err
	}
	s.maybeAlert(ctx, *created)
	m := ItemMetrics(*created)
	return &m, nil
}

// item loads an inventory item and hides rows belonging to other businesses.
func (s *Service) item(ctx context.Context, businessID, id string) (*domain.InventoryItem, error) {
	it, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if it.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	return it, nil
}

func (s *Service) GetItem(ctx context.Context, businessID, id string) (*domain.InventoryItemMetrics, error) {
	it, err := s.item(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	m := ItemMetrics(*it)
	return &m, nil
}

func (s *Service) ListItems(ctx context.Context, businessID, category string, lowStockOnly bool, limit, offset int) ([]domain.InventoryItemMetrics, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	items, err := s.repo.ListItems(ctx, businessID, category, lowStockOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]domain.InventoryItemMetrics, len(items))
	for i, it := range items {
		out[i] = ItemMetrics(it)
	}
	return out, nil
}

func (s *Service) UpdateItem(ctx context.Context, businessID, id string, req domain.UpdateInventoryItemRequest) (*domain.InventoryItemMetrics, error) {
	if _, err := s.item(ctx, businessID, id); err != nil {
		return nil, err
	}
	it, err := s.repo.UpdateItem(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.maybeAlert(ctx, *it)
	m := ItemMetrics(*it)
	return &m, nil
}

func (s *Service) DeleteItem(ctx context.Context, businessID, id string) error {
	if _, err := s.item(ctx, businessID, id); err != nil {
		return err
	}
	return s.repo.DeleteItem(ctx, id)
}

// AdjustStock sets an item's quantity to the requested value and records the
// delta as a transaction. Crossing the minimum threshold downward raises an
// inventory alert on the event bus.
func (s *Service) AdjustStock(ctx context.Context, businessID string, req domain.StockAdjustmentRequest, performedBy *string) (*domain.InventoryItemMetrics, *domain.InventoryTransaction, error) {
	if req.NewQuantity < 0 {
		return nil, nil, fmt.Errorf("%w: stock cannot go negative", domain.ErrInvalidInput)
	}
	it, err := s.item(ctx, businessID, req.InventoryItemID)
	if err != nil {
		return nil, nil, err
	}

	txType := req.Type
	if txType == "" {
		txType = domain.TxAdjustment
	}

	t := domain.InventoryTransaction{
		ID:              uuid.New().String(),
		BusinessID:      it.BusinessID,
		InventoryItemID: it.ID,
		Type:            txType,
		QuantityChange:  req.NewQuantity - it.CurrentStock,
		QuantityAfter:   req.NewQuantity,
		Reason:          req.Reason,
		PerformedBy:     performedBy,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.repo.AdjustStock(ctx, t); err != nil {
		return nil, nil, err
	}

	wasLow := it.CurrentStock <= it.MinStock
	it.CurrentStock = req.NewQuantity
	if !wasLow && it.CurrentStock <= it.MinStock {
		s.publishAlert(ctx, *it)
	}
	m := ItemMetrics(*it)
	return &m, &t, nil
}

func (s *Service) ListTransactions(ctx context.Context, f domain.InventoryTransactionFilter) ([]domain.InventoryTransaction, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 100
	}
	return s.repo.ListTransactions(ctx, f)
}

// ActiveAlerts lists every item at or below its minimum stock, worst first.
func (s *Service) ActiveAlerts(ctx context.Context, businessID string) ([]domain.StockAlert, error) {
	items, err := s.repo.LowStockItems(ctx, businessID)
	if err != nil {
		return nil, err
	}
	alerts := make([]domain.StockAlert, 0, len(items))
	for _, it := range items {
		alerts = append(alerts, toAlert(it))
	}
	return alerts, nil
}

func (s *Service) CreateSupplier(ctx context.Context, req domain.CreateSupplierRequest) (*domain.Supplier, error) {
	sup := domain.Supplier{
		ID:          uuid.New().String(),
		BusinessID:  req.BusinessID,
		Name:        req.Name,
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
		IsActive:    true,
	}
	if err := s.repo.CreateSupplier(ctx, sup); err != nil {
		return nil, err
	}
	return s.repo.GetSupplier(ctx, sup.ID)
}

func (s *Service) GetSupplier(ctx context.Context, businessID, id string) (*domain.Supplier, error) {
	sup, err := s.repo.GetSupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	if sup.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	return sup, nil
}

func (s *Service) ListSuppliers(ctx context.Context, businessID string, isActive *bool) ([]domain.Supplier, error) {
	return s.repo.ListSuppliers(ctx, businessID, isActive)
}

func (s *Service) UpdateSupplier(ctx context.Context, businessID, id string, req domain.UpdateSupplierRequest) (*domain.Supplier, error) {
	if _, err := s.GetSupplier(ctx, businessID, id); err != nil {
		return nil, err
	}
	return s.repo.UpdateSupplier(ctx, id, req)
}

func (s *Service) DeleteSupplier(ctx context.Context, businessID, id string) error {
	if _, err := s.GetSupplier(ctx, businessID, id); err != nil {
		return err
	}
	return s.repo.DeleteSupplier(ctx, id)
}

// OrderNumber builds PO-YYYYMMDD-XXXXXXXX, the suffix being the first block
// of the order id uppercased.
func OrderNumber(now time.Time, id string) string {
	suffix := id
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return fmt.Sprintf("PO-%s-%s", now.Format("20060102"), strings.ToUpper(suffix))
}

// OrderTotal sums quantity times unit cost across the line items.
func OrderTotal(items []domain.PurchaseOrderItem) float64 {
	var total float64
	for _, li := range items {
		total += li.Quantity * li.UnitCost
	}
	return round2(total)
}

func (s *Service) CreatePurchaseOrder(ctx context.Context, req domain.CreatePurchaseOrderRequest, createdBy *string) (*domain.PurchaseOrder, error) {
	if req.SupplierID != "" {
		if _, err := s.GetSupplier(ctx, req.BusinessID, req.SupplierID); err != nil {
			return nil, err
		}
	}
	items := make([]domain.PurchaseOrderItem, len(req.Items))
	for i, li := range req.Items {
		it, err := s.item(ctx, req.BusinessID, li.InventoryItemID)
		if err != nil {
			return nil, fmt.Errorf("line item %d: %w", i, err)
		}
		items[i] = domain.PurchaseOrderItem{
			InventoryItemID: it.ID,
			Quantity:        li.Quantity,
			UnitCost:        li.UnitCost,
		}
		if items[i].UnitCost == 0 {
			items[i].UnitCost = it.UnitCost
		}
	}

	now := time.Now().UTC()
	id := uuid.New().String()
	po := domain.PurchaseOrder{
		ID:          id,
		BusinessID:  req.BusinessID,
		OrderNumber: OrderNumber(now, id),
		SupplierID:  req.SupplierID,
		Status:      domain.POPending,
		Items:       items,
		TotalAmount: OrderTotal(items),
		OrderDate:   now,
		CreatedBy:   createdBy,
	}
	if err := s.repo.CreatePurchaseOrder(ctx, po); err != nil {
		return nil, err
	}
	return s.repo.GetPurchaseOrder(ctx, po.ID)
}

func (s *Service) GetPurchaseOrder(ctx context.Context, businessID, id string) (*domain.PurchaseOrder, error) {
	po, err := s.repo.GetPurchaseOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if po.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	return po, nil
}

func (s *Service) ListPurchaseOrders(ctx context.Context, businessID, supplierID, status string) ([]domain.PurchaseOrder, error) {
	return s.repo.ListPurchaseOrders(ctx, businessID, supplierID, status)
}

func (s *Service) UpdatePurchaseOrderStatus(ctx context.Context, businessID, id, status string) (*domain.PurchaseOrder, error) {
	switch status {
	case domain.POPending, domain.POCancelled:
	default:
		return nil, fmt.Errorf("%w: cannot set status %q directly", domain.ErrInvalidInput, status)
	}
	po, err := s.GetPurchaseOrder(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if po.Status == domain.POReceived || po.Status == domain.POPartiallyReceived {
		return nil, fmt.Errorf("%w: order %s already received", domain.ErrConflict, po.OrderNumber)
	}
	po.Status = status
	if err := s.repo.UpdatePurchaseOrder(ctx, *po); err != nil {
		return nil, err
	}
	return po, nil
}

// ReceivePurchaseOrder applies received quantities to stock. Lines not listed
// stay outstanding and the order is left partially_received until everything
// has arrived.
func (s *Service) ReceivePurchaseOrder(ctx context.Context, businessID, id string, req domain.ReceivePurchaseOrderRequest, receivedBy *string) (*domain.PurchaseOrder, error) {
	po, err := s.GetPurchaseOrder(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	switch po.Status {
	case domain.POPending, domain.POPartiallyReceived:
	default:
		return nil, fmt.Errorf("%w: order %s is %s", domain.ErrConflict, po.OrderNumber, po.Status)
	}

	received := map[string]float64{}
	for _, ri := range req.Items {
		received[ri.InventoryItemID] += ri.QuantityReceived
	}

	var txs []domain.InventoryTransaction
	complete := true
	for i := range po.Items {
		li := &po.Items[i]
		outstanding := li.Quantity - li.ReceivedQty
		if outstanding <= 0 {
			continue
		}
		qty := received[li.InventoryItemID]
		if qty <= 0 {
			complete = false
			continue
		}
		if qty > outstanding {
			qty = outstanding
		}
		li.ReceivedQty += qty
		if li.ReceivedQty < li.Quantity {
			complete = false
		}
		reason := "purchase order " + po.OrderNumber
		txs = append(txs, domain.InventoryTransaction{
			ID:              uuid.New().String(),
			BusinessID:      po.BusinessID,
			InventoryItemID: li.InventoryItemID,
			Type:            domain.TxRestock,
			QuantityChange:  qty,
			Reason:          &reason,
			PerformedBy:     receivedBy,
			CreatedAt:       time.Now().UTC(),
		})
	}
	if len(txs) == 0 {
		return nil, fmt.Errorf("%w: nothing to receive", domain.ErrInvalidInput)
	}

	if complete {
		po.Status = domain.POReceived
	} else {
		po.Status = domain.POPartiallyReceived
	}
	if err := s.repo.ReceivePurchaseOrder(ctx, *po, txs); err != nil {
		return nil, err
	}
	s.events.Publish(ctx, po.BusinessID, domain.EventInventoryAlert,
		map[string]any{"action": "purchase_order_received", "order_number": po.OrderNumber, "status": po.Status})
	return po, nil
}

// Summary rolls up the stock position for the dashboard header cards.
func (s *Service) Summary(ctx context.Context, businessID string) (*domain.InventorySummary, error) {
	totalItems, outOfStock, totalValue, byCategory, err := s.repo.Valuation(ctx, businessID)
	if err != nil {
		return nil, err
	}
	low, err := s.repo.LowStockItems(ctx, businessID)
	if err != nil {
		return nil, err
	}
	top, err := s.repo.TopValueItems(ctx, businessID, 5)
	if err != nil {
		return nil, err
	}

	sum := &domain.InventorySummary{
		BusinessID:      businessID,
		ReportDate:      time.Now().UTC(),
		TotalItems:      totalItems,
		TotalValue:      round2(totalValue),
		LowStockItems:   len(low),
		OutOfStockItems: outOfStock,
		ValueByCategory: byCategory,
		TopValueItems:   make([]domain.InventoryItemMetrics, len(top)),
	}
	for i, it := range top {
		sum.TopValueItems[i] = ItemMetrics(it)
	}
	return sum, nil
}

func toAlert(it domain.InventoryItem) domain.StockAlert {
	return domain.StockAlert{
		InventoryItemID: it.ID,
		ItemName:        it.Name,
		CurrentStock:    it.CurrentStock,
		MinStock:        it.MinStock,
		Severity:        AlertSeverity(it.CurrentStock, it.MinStock),
		NeedsReorder:    true,
	}
}

func (s *Service) maybeAlert(ctx context.Context, it domain.InventoryItem) {
	if it.CurrentStock <= it.MinStock {
		s.publishAlert(ctx, it)
	}
}

func (s *Service) publishAlert(ctx context.Context, it domain.InventoryItem) {
	s.events.Publish(ctx, it.BusinessID, domain.EventInventoryAlert, toAlert(it))
}
