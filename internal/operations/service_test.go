package operations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashpos/internal/domain"
)

func tp(t time.Time) *time.Time { return &t }

type fakeRepo struct {
	RepositoryInterface
	tables map[string]domain.Table
}

func (f *fakeRepo) GetTable(_ context.Context, id string) (*domain.Table, error) {
	t, ok := f.tables[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (f *fakeRepo) SetTableState(_ context.Context, id, status string, orderID *string, occupiedSince *time.Time) (*domain.Table, error) {
	t, ok := f.tables[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	t.Status = status
	t.CurrentOrderID = orderID
	t.OccupiedSince = occupiedSince
	f.tables[id] = t
	return &t, nil
}

type fakeBus struct {
	events []string
	data   []any
}

func (f *fakeBus) Publish(_ context.Context, _, event string, data any) {
	f.events = append(f.events, event)
	f.data = append(f.data, data)
}

func TestKDSMetrics(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("completed ticket", func(t *testing.T) {
		o := domain.KDSOrder{
			Status:        domain.KDSReady,
			PrepStartTime: tp(now.Add(-20 * time.Minute)),
			PrepEndTime:   tp(now.Add(-5 * time.Minute)),
			TargetTime:    tp(now.Add(10 * time.Minute)),
		}
		m := KDSMetrics(o, now)
		require.NotNil(t, m.PrepDuration)
		assert.Equal(t, 15, *m.PrepDuration)
		assert.False(t, m.IsLate)
		require.NotNil(t, m.TimeRemaining)
		assert.Equal(t, 10, *m.TimeRemaining)
	})

	t.Run("in progress and overdue", func(t *testing.T) {
		o := domain.KDSOrder{
			Status:        domain.KDSPreparing,
			PrepStartTime: tp(now.Add(-30 * time.Minute)),
			TargetTime:    tp(now.Add(-5 * time.Minute)),
		}
		m := KDSMetrics(o, now)
		require.NotNil(t, m.PrepDuration)
		assert.Equal(t, 30, *m.PrepDuration)
		assert.True(t, m.IsLate)
		require.NotNil(t, m.TimeRemaining)
		assert.Equal(t, -5, *m.TimeRemaining)
	})

	t.Run("served late", func(t *testing.T) {
		o := domain.KDSOrder{
			Status:        domain.KDSServed,
			PrepStartTime: tp(now.Add(-40 * time.Minute)),
			PrepEndTime:   tp(now.Add(-2 * time.Minute)),
			TargetTime:    tp(now.Add(-10 * time.Minute)),
		}
		m := KDSMetrics(o, now)
		assert.True(t, m.IsLate)
		assert.Nil(t, m.TimeRemaining)
	})

	t.Run("not started", func(t *testing.T) {
		m := KDSMetrics(domain.KDSOrder{Status: domain.KDSPending}, now)
		assert.Nil(t, m.PrepDuration)
		assert.False(t, m.IsLate)
	})
}

func TestKDSTransitions(t *testing.T) {
	tests := []struct {
		from, to string
		ok       bool
	}{
		{domain.KDSPending, domain.KDSPreparing, true},
		{domain.KDSPreparing, domain.KDSReady, true},
		{domain.KDSReady, domain.KDSServed, true},
		{domain.KDSPending, domain.KDSCancelled, true},
		{domain.KDSPreparing, domain.KDSCancelled, true},
		{domain.KDSPending, domain.KDSReady, false},
		{domain.KDSReady, domain.KDSPreparing, false},
		{domain.KDSServed, domain.KDSCancelled, false},
		{domain.KDSCancelled, domain.KDSPending, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ok, canTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestWorkedHours(t *testing.T) {
	in := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("regular shift", func(t *testing.T) {
		total, overtime := WorkedHours(in, in.Add(7*time.Hour), nil, nil)
		assert.InDelta(t, 7.0, total, 0.001)
		assert.Zero(t, overtime)
	})

	t.Run("break deducted", func(t *testing.T) {
		bs := in.Add(4 * time.Hour)
		be := bs.Add(30 * time.Minute)
		total, overtime := WorkedHours(in, in.Add(8*time.Hour), &bs, &be)
		assert.InDelta(t, 7.5, total, 0.001)
		assert.Zero(t, overtime)
	})

	t.Run("overtime past eight hours", func(t *testing.T) {
		total, overtime := WorkedHours(in, in.Add(10*time.Hour+30*time.Minute), nil, nil)
		assert.InDelta(t, 10.5, total, 0.001)
		assert.InDelta(t, 2.5, overtime, 0.001)
	})

	t.Run("clock skew never goes negative", func(t *testing.T) {
		total, overtime := WorkedHours(in, in.Add(-time.Minute), nil, nil)
		assert.Zero(t, total)
		assert.Zero(t, overtime)
	})
}

func TestReleaseTablePublishesRevenueUpdate(t *testing.T) {
	orderID := "order-42"
	since := time.Now().UTC().Add(-45 * time.Minute)
	repo := &fakeRepo{tables: map[string]domain.Table{
		"t1": {
			ID: "t1", BusinessID: "biz", TableNumber: "5",
			Status:         domain.TableOccupied,
			CurrentOrderID: &orderID,
			OccupiedSince:  &since,
		},
	}}
	bus := &fakeBus{}
	svc := NewService(repo, bus)

	released, minutes, err := svc.ReleaseTable(context.Background(), "biz", "t1")
	require.NoError(t, err)
	assert.Equal(t, domain.TableCleaning, released.Status)
	assert.InDelta(t, 45, minutes, 1)
	assert.Contains(t, bus.events, domain.EventTableUpdate)
	require.Contains(t, bus.events, domain.EventRevenueUpdate)

	for i, ev := range bus.events {
		if ev != domain.EventRevenueUpdate {
			continue
		}
		payload, ok := bus.data[i].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "order_closed", payload["action"])
		assert.Equal(t, orderID, payload["order_id"])
	}
}

func TestReleaseTableWithoutOrderSkipsRevenueUpdate(t *testing.T) {
	since := time.Now().UTC().Add(-10 * time.Minute)
	repo := &fakeRepo{tables: map[string]domain.Table{
		"t1": {ID: "t1", BusinessID: "biz", Status: domain.TableOccupied, OccupiedSince: &since},
	}}
	bus := &fakeBus{}
	svc := NewService(repo, bus)

	_, _, err := svc.ReleaseTable(context.Background(), "biz", "t1")
	require.NoError(t, err)
	assert.NotContains(t, bus.events, domain.EventRevenueUpdate)
}

func TestReleaseTableOtherBusinessIsNotFound(t *testing.T) {
	repo := &fakeRepo{tables: map[string]domain.Table{
		"t1": {ID: "t1", BusinessID: "biz-b", Status: domain.TableOccupied},
	}}
	svc := NewService(repo, &fakeBus{})

	_, _, err := svc.ReleaseTable(context.Background(), "biz-a", "t1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
