package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashpos/internal/domain"
)

type fakeRepo struct {
	RepositoryInterface
	items    map[string]domain.InventoryItem
	received *domain.PurchaseOrder
	txs      []domain.InventoryTransaction
	po       *domain.PurchaseOrder
}

func (f *fakeRepo) GetItem(_ context.Context, id string) (*domain.InventoryItem, error) {
	it, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &it, nil
}

func (f *fakeRepo) GetPurchaseOrder(_ context.Context, id string) (*domain.PurchaseOrder, error) {
	if f.po == nil || f.po.ID != id {
		return nil, domain.ErrNotFound
	}
	po := *f.po
	po.Items = append([]domain.PurchaseOrderItem(nil), f.po.Items...)
	return &po, nil
}

func (f *fakeRepo) ReceivePurchaseOrder(_ context.Context, po domain.PurchaseOrder, txs []domain.InventoryTransaction) error {
	f.received = &po
	f.txs = txs
	return nil
}

func (f *fakeRepo) AdjustStock(_ context.Context, tx domain.InventoryTransaction) error {
	f.txs = append(f.txs, tx)
	it := f.items[tx.InventoryItemID]
	it.CurrentStock = tx.QuantityAfter
	f.items[tx.InventoryItemID] = it
	return nil
}

type fakeBus struct {
	events []string
}

func (f *fakeBus) Publish(_ context.Context, _, event string, _ any) {
	f.events = append(f.events, event)
}

func TestItemMetrics(t *testing.T) {
	tests := []struct {
		name       string
		item       domain.InventoryItem
		percentage float64
		reorder    bool
		value      float64
	}{
		{
			name:       "healthy stock",
			item:       domain.InventoryItem{CurrentStock: 50, MinStock: 10, MaxStock: 100, UnitCost: 2},
			percentage: 50, reorder: false, value: 100,
		},
		{
			name:       "at minimum",
			item:       domain.InventoryItem{CurrentStock: 10, MinStock: 10, MaxStock: 100, UnitCost: 1.5},
			percentage: 10, reorder: true, value: 15,
		},
		{
			name:       "max stock unset",
			item:       domain.InventoryItem{CurrentStock: 5, MinStock: 1, MaxStock: 0, UnitCost: 3},
			percentage: 0, reorder: false, value: 15,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ItemMetrics(tt.item)
			assert.InDelta(t, tt.percentage, m.StockPercentage, 0.001)
			assert.Equal(t, tt.reorder, m.NeedsReorder)
			assert.InDelta(t, tt.value, m.StockValue, 0.001)
		})
	}
}

func TestAlertSeverity(t *testing.T) {
	assert.Equal(t, "high", AlertSeverity(5, 10))
	assert.Equal(t, "high", AlertSeverity(0, 10))
	assert.Equal(t, "medium", AlertSeverity(6, 10))
	assert.Equal(t, "medium", AlertSeverity(10, 10))
}

func TestOrderNumber(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	got := OrderNumber(now, "a1b2c3d4-0000-0000-0000-000000000000")
	assert.Equal(t, "PO-20250314-A1B2C3D4", got)
}

func TestOrderTotal(t *testing.T) {
	items := []domain.PurchaseOrderItem{
		{Quantity: 10, UnitCost: 2.5},
		{Quantity: 3, UnitCost: 1.2},
	}
	assert.InDelta(t, 28.6, OrderTotal(items), 0.001)
	assert.Zero(t, OrderTotal(nil))
}

func TestReceivePurchaseOrderPartial(t *testing.T) {
	repo := &fakeRepo{
		po: &domain.PurchaseOrder{
			ID:          "po1",
			BusinessID:  "biz",
			OrderNumber: "PO-20250314-ABC",
			Status:      domain.POPending,
			Items: []domain.PurchaseOrderItem{
				{InventoryItemID: "flour", Quantity: 10, UnitCost: 2},
				{InventoryItemID: "yeast", Quantity: 5, UnitCost: 1},
			},
		},
	}
	bus := &fakeBus{}
	svc := NewService(repo, bus)

	po, err := svc.ReceivePurchaseOrder(context.Background(), "biz", "po1", domain.ReceivePurchaseOrderRequest{
		Items: []domain.ReceivedItemInput{{InventoryItemID: "flour", QuantityReceived: 10}},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, domain.POPartiallyReceived, po.Status)
	require.Len(t, repo.txs, 1)
	assert.Equal(t, domain.TxRestock, repo.txs[0].Type)
	assert.InDelta(t, 10, repo.txs[0].QuantityChange, 0.001)
	assert.Contains(t, bus.events, domain.EventInventoryAlert)
}

func TestReceivePurchaseOrderComplete(t *testing.T) {
	repo := &fakeRepo{
		po: &domain.PurchaseOrder{
			ID:         "po1",
			BusinessID: "biz",
			Status:     domain.POPartiallyReceived,
			Items: []domain.PurchaseOrderItem{
				{InventoryItemID: "flour", Quantity: 10, ReceivedQty: 6, UnitCost: 2},
			},
		},
	}
	svc := NewService(repo, &fakeBus{})

	po, err := svc.ReceivePurchaseOrder(context.Background(), "biz", "po1", domain.ReceivePurchaseOrderRequest{
		Items: []domain.ReceivedItemInput{{InventoryItemID: "flour", QuantityReceived: 4}},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.POReceived, po.Status)
	assert.InDelta(t, 10, po.Items[0].ReceivedQty, 0.001)
}

func TestReceivePurchaseOrderOverDelivery(t *testing.T) {
	repo := &fakeRepo{
		po: &domain.PurchaseOrder{
			ID:         "po1",
			BusinessID: "biz",
			Status:     domain.POPending,
			Items: []domain.PurchaseOrderItem{
				{InventoryItemID: "flour", Quantity: 10, UnitCost: 2},
			},
		},
	}
	svc := NewService(repo, &fakeBus{})

	// Quantities above what is outstanding are clamped.
	po, err := svc.ReceivePurchaseOrder(context.Background(), "biz", "po1", domain.ReceivePurchaseOrderRequest{
		Items: []domain.ReceivedItemInput{{InventoryItemID: "flour", QuantityReceived: 25}},
	}, nil)
	require.NoError(t, err)
	assert.InDelta(t, 10, po.Items[0].ReceivedQty, 0.001)
	assert.Equal(t, domain.POReceived, po.Status)
}

func TestAdjustStockRaisesAlertOnThresholdCross(t *testing.T) {
	repo := &fakeRepo{items: map[string]domain.InventoryItem{
		"flour": {ID: "flour", BusinessID: "biz", CurrentStock: 20, MinStock: 10},
	}}
	bus := &fakeBus{}
	svc := NewService(repo, bus)

	m, tx, err := svc.AdjustStock(context.Background(), "biz", domain.StockAdjustmentRequest{
		InventoryItemID: "flour",
		NewQuantity:     8,
		Type:            domain.TxUsage,
	}, nil)
	require.NoError(t, err)
	assert.InDelta(t, -12, tx.QuantityChange, 0.001)
	assert.True(t, m.NeedsReorder)
	assert.Contains(t, bus.events, domain.EventInventoryAlert)
}

func TestAdjustStockNoAlertWhenAlreadyLow(t *testing.T) {
	repo := &fakeRepo{items: map[string]domain.InventoryItem{
		"flour": {ID: "flour", BusinessID: "biz", CurrentStock: 5, MinStock: 10},
	}}
	bus := &fakeBus{}
	svc := NewService(repo, bus)

	_, _, err := svc.AdjustStock(context.Background(), "biz", domain.StockAdjustmentRequest{
		InventoryItemID: "flour",
		NewQuantity:     4,
	}, nil)
	require.NoError(t, err)
	assert.Empty(t, bus.events)
}

func TestReceivePurchaseOrderAlreadyReceived(t *testing.T) {
	repo := &fakeRepo{
		po: &domain.PurchaseOrder{ID: "po1", BusinessID: "biz", Status: domain.POReceived},
	}
	svc := NewService(repo, &fakeBus{})

	_, err := svc.ReceivePurchaseOrder(context.Background(), "biz", "po1", domain.ReceivePurchaseOrderRequest{
		Items: []domain.ReceivedItemInput{{InventoryItemID: "flour", QuantityReceived: 1}},
	}, nil)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestOtherBusinessItemStaysHidden(t *testing.T) {
	repo := &fakeRepo{items: map[string]domain.InventoryItem{
		"flour": {ID: "flour", BusinessID: "biz-b", CurrentStock: 20, MinStock: 10},
	}}
	svc := NewService(repo, &fakeBus{})

	_, err := svc.GetItem(context.Background(), "biz-a", "flour")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = svc.AdjustStock(context.Background(), "biz-a", domain.StockAdjustmentRequest{
		InventoryItemID: "flour",
		NewQuantity:     5,
	}, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceivePurchaseOrderOtherBusiness(t *testing.T) {
	repo := &fakeRepo{
		po: &domain.PurchaseOrder{ID: "po1", BusinessID: "biz-b", Status: domain.POPending,
			Items: []domain.PurchaseOrderItem{{InventoryItemID: "flour", Quantity: 10}}},
	}
	svc := NewService(repo, &fakeBus{})

	_, err := svc.ReceivePurchaseOrder(context.Background(), "biz-a", "po1", domain.ReceivePurchaseOrderRequest{
		Items: []domain.ReceivedItemInput{{InventoryItemID: "flour", QuantityReceived: 10}},
	}, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
