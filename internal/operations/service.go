package operations

import (
	"context"
	"errors"
	"fmt"
	"math"
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

func (s *Service) CreateLocation(ctx context.Context, req domain.CreateLocationRequest) (*domain.Location, error) {
	tz := req.Timezone
	if tz == "" {
		tz = "UTC"
	}
	l := domain.Location{
		ID:         uuid.New().String(),
		BusinessID: req.BusinessID,
		Name:       req.Name,
		Address:    req.Address,
		Phone:      req.Phone,
		Timezone:   tz,
		IsActive:   true,
	}
	if err := s.repo.CreateLocation(ctx, l); err != nil {
		return nil, err
	}
	return s.repo.GetLocation(ctx, l.ID)
}

// GetLocation hides rows belonging to other businesses.
func (s *Service) GetLocation(ctx context.Context, businessID, id string) (*domain.Location, error) {
	l, err := s.repo.GetLocation(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	return l, nil
}

func (s *Service) ListLocations(ctx context.Context, businessID string) ([]domain.Location, error) {
	return s.repo.ListLocations(ctx, businessID)
}

func (s *Service) UpdateLocation(ctx context.Context, businessID, id string, req domain.UpdateLocationRequest) (*domain.Location, error) {
	if _, err := s.GetLocation(ctx, businessID, id); err != nil {
		return nil, err
	}
	return s.repo.UpdateLocation(ctx, id, req)
}

func (s *Service) DeleteLocation(ctx context.Context, businessID, id string) error {
	if _, err := s.GetLocation(ctx, businessID, id); err != nil {
		return err
	}
	return s.repo.DeleteLocation(ctx, id)
}

func (s *Service) CreateTable(ctx context.Context, req domain.CreateTableRequest) (*domain.Table, error) {
	t := domain.Table{
		ID:          uuid.New().String(),
		BusinessID:  req.BusinessID,
		LocationID:  req.LocationID,
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		Status:      domain.TableAvailable,
	}
	if err := s.repo.CreateTable(ctx, t); err != nil {
		return nil, err
	}
	created, err := s.repo.GetTable(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	s.publishTable(ctx, *created, "table_created")
	return created, nil
}

// table loads a table and hides rows belonging to other businesses.
func (s *Service) table(ctx context.Context, businessID, id string) (*domain.Table, error) {
	t, err := s.repo.GetTable(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (s *Service) GetTable(ctx context.Context, businessID, id string) (*domain.Table, error) {
	return s.table(ctx, businessID, id)
}

func (s *Service) ListTables(ctx context.Context, businessID, locationID, status string) ([]domain.Table, error) {
	return s.repo.ListTables(ctx, businessID, locationID, status)
}

func (s *Service) UpdateTable(ctx context.Context, businessID, id string, req domain.UpdateTableRequest) (*domain.Table, error) {
	if _, err := s.table(ctx, businessID, id); err != nil {
		return nil, err
	}
	t, err := s.repo.UpdateTable(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.publishTable(ctx, *t, "table_updated")
	return t, nil
}

func (s *Service) DeleteTable(ctx context.Context, businessID, id string) error {
	t, err := s.table(ctx, businessID, id)
	if err != nil {
		return err
	}
	if t.Status == domain.TableOccupied {
		return fmt.Errorf("%w: table %s is occupied", domain.ErrConflict, t.TableNumber)
	}
	if err := s.repo.DeleteTable(ctx, id); err != nil {
		return err
	}
	s.publishTable(ctx, *t, "table_deleted")
	return nil
}

// AssignTable seats a party: the table must be free and big enough.
func (s *Service) AssignTable(ctx context.Context, businessID, id string, req domain.AssignTableRequest) (*domain.Table, error) {
	t, err := s.table(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	if t.Status != domain.TableAvailable && t.Status != domain.TableReserved {
		return nil, fmt.Errorf("%w: table %s is %s", domain.ErrConflict, t.TableNumber, t.Status)
	}
	if req.PartySize > t.Capacity {
		return nil, fmt.Errorf("%w: party of %d exceeds capacity %d", domain.ErrInvalidInput, req.PartySize, t.Capacity)
	}
	now := time.Now().UTC()
	updated, err := s.repo.SetTableState(ctx, id, domain.TableOccupied, &req.OrderID, &now)
	if err != nil {
		return nil, err
	}
	s.publishTable(ctx, *updated, "table_assigned")
	return updated, nil
}

// ReleaseTable clears the order and puts the table into cleaning so the floor
// staff can turn it over before it shows as available again. Returns how many
// minutes the party held the table.
func (s *Service) ReleaseTable(ctx context.Context, businessID, id string) (*domain.Table, int, error) {
	t, err := s.table(ctx, businessID, id)
	if err != nil {
		return nil, 0, err
	}
	if t.Status != domain.TableOccupied {
		return nil, 0, fmt.Errorf("%w: table %s is not occupied", domain.ErrConflict, t.TableNumber)
	}
	occupiedMinutes := 0
	if t.OccupiedSince != nil {
		occupiedMinutes = int(math.Round(time.Since(*t.OccupiedSince).Minutes()))
	}
	updated, err := s.repo.SetTableState(ctx, id, domain.TableCleaning, nil, nil)
	if err != nil {
		return nil, 0, err
	}
	s.publishTable(ctx, *updated, "table_released")
	if t.CurrentOrderID != nil {
		s.events.Publish(ctx, t.BusinessID, domain.EventRevenueUpdate,
			map[string]any{"action": "order_closed", "order_id": *t.CurrentOrderID, "table_id": t.ID})
	}
	return updated, occupiedMinutes, nil
}

func (s *Service) AvailableTables(ctx context.Context, businessID string, partySize int) ([]domain.Table, error) {
	if partySize < 1 {
		partySize = 1
	}
	return s.repo.AvailableTables(ctx, businessID, partySize)
}

// KDSMetrics derives the timing fields the kitchen screen renders per ticket.
func KDSMetrics(o domain.KDSOrder, now time.Time) domain.KDSOrderMetrics {
	m := domain.KDSOrderMetrics{KDSOrder: o}
	if o.PrepStartTime != nil {
		end := now
		if o.PrepEndTime != nil {
			end = *o.PrepEndTime
		}
		d := int(math.Round(end.Sub(*o.PrepStartTime).Minutes()))
		m.PrepDuration = &d
	}
	if o.TargetTime != nil {
		switch o.Status {
		case domain.KDSServed, domain.KDSCancelled:
			m.IsLate = o.PrepEndTime != nil && o.PrepEndTime.After(*o.TargetTime)
		default:
			m.IsLate = now.After(*o.TargetTime)
			rem := int(math.Round(o.TargetTime.Sub(now).Minutes()))
			m.TimeRemaining = &rem
		}
	}
	return m
}

func (s *Service) CreateKDSOrder(ctx context.Context, req domain.CreateKDSOrderRequest) (*domain.KDSOrderMetrics, error) {
	o := domain.KDSOrder{
		ID:         uuid.New().String(),
		BusinessID: req.BusinessID,
		OrderID:    req.OrderID,
		Station:    req.Station,
		Items:      req.Items,
		Priority:   req.Priority,
		Status:     domain.KDSPending,
		TargetTime: req.TargetTime,
	}
	if err := s.repo.CreateKDSOrder(ctx, o); err != nil {
		return nil, err
	}
	created, err := s.repo.GetKDSOrder(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	m := KDSMetrics(*created, time.Now().UTC())
	s.events.Publish(ctx, o.BusinessID, domain.EventKDSUpdate,
		map[string]any{"action": "order_created", "order": m})
	return &m, nil
}

// kdsOrder loads a ticket and hides rows belonging to other businesses.
func (s *Service) kdsOrder(ctx context.Context, businessID, id string) (*domain.KDSOrder, error) {
	o, err := s.repo.GetKDSOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (s *Service) GetKDSOrder(ctx context.Context, businessID, id string) (*domain.KDSOrderMetrics, error) {
	o, err := s.kdsOrder(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	m := KDSMetrics(*o, time.Now().UTC())
	return &m, nil
}

func (s *Service) ListKDSOrders(ctx context.Context, businessID, station string, statuses []string) ([]domain.KDSOrderMetrics, error) {
	if len(statuses) == 0 {
		statuses = []string{domain.KDSPending, domain.KDSPreparing, domain.KDSReady}
	}
	orders, err := s.repo.ListKDSOrders(ctx, businessID, station, statuses)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	out := make([]domain.KDSOrderMetrics, len(orders))
	for i, o := range orders {
		out[i] = KDSMetrics(o, now)
	}
	return out, nil
}

// kdsTransitions lists the statuses each ticket status may move to.
var kdsTransitions = map[string][]string{
	domain.KDSPending:   {domain.KDSPreparing, domain.KDSCancelled},
	domain.KDSPreparing: {domain.KDSReady, domain.KDSCancelled},
	domain.KDSReady:     {domain.KDSServed, domain.KDSCancelled},
}

func canTransition(from, to string) bool {
	for _, t := range kdsTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// UpdateKDSOrder moves a ticket through the kitchen flow, stamping prep times
// as it starts and finishes.
func (s *Service) UpdateKDSOrder(ctx context.Context, businessID, id string, req domain.UpdateKDSOrderRequest) (*domain.KDSOrderMetrics, error) {
	o, err := s.kdsOrder(ctx, businessID, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if req.Status != nil && *req.Status != o.Status {
		if !canTransition(o.Status, *req.Status) {
			return nil, fmt.Errorf("%w: cannot move ticket from %s to %s", domain.ErrConflict, o.Status, *req.Status)
		}
		o.Status = *req.Status
		switch o.Status {
		case domain.KDSPreparing:
			o.PrepStartTime = &now
		case domain.KDSReady:
			o.PrepEndTime = &now
		}
	}
	if req.AssignedTo != nil {
		o.AssignedTo = req.AssignedTo
	}

	if err := s.repo.SaveKDSOrder(ctx, *o); err != nil {
		return nil, err
	}
	m := KDSMetrics(*o, now)
	s.events.Publish(ctx, o.BusinessID, domain.EventKDSUpdate,
		map[string]any{"action": "order_updated", "order": m})
	return &m, nil
}

// KitchenPerformance reports today's prep stats for the kitchen screen header.
func (s *Service) KitchenPerformance(ctx context.Context, businessID string) (*domain.KitchenPerformance, error) {
	since := time.Now().UTC().Truncate(24 * time.Hour)
	p, err := s.repo.KitchenStats(ctx, businessID, since)
	if err != nil {
		return nil, err
	}
	p.AvgPrepMinutes = round2(p.AvgPrepMinutes)
	if p.CompletedOrders > 0 {
		p.LatePercentage = round2(float64(p.LateOrders) / float64(p.CompletedOrders) * 100)
	}
	return p, nil
}

func (s *Service) CreateStaffMember(ctx context.Context, req domain.CreateStaffMemberRequest) (*domain.StaffMember, error) {
	m := domain.StaffMember{
		ID:         uuid.New().String(),
		BusinessID: req.BusinessID,
		UserID:     req.UserID,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Position:   req.Position,
		HourlyRate: req.HourlyRate,
		HireDate:   req.HireDate,
		Status:     "active",
	}
	if err := s.repo.CreateStaffMember(ctx, m); err != nil {
		return nil, err
	}
	created, err := s.repo.GetStaffMember(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	s.events.Publish(ctx, m.BusinessID, domain.EventStaffUpdate,
		map[string]any{"action": "staff_created", "staff": created})
	return created, nil
}

// staffMember loads a staff member and hides rows belonging to other businesses.
func (s *Service) staffMember(ctx context.Context, businessID, id string) (*domain.StaffMember, error) {
	m, err := s.repo.GetStaffMember(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

func (s *Service) GetStaffMember(ctx context.Context, businessID, id string) (*domain.StaffMember, error) {
	return s.staffMember(ctx, businessID, id)
}

func (s *Service) ListStaffMembers(ctx context.Context, businessID, status string) ([]domain.StaffMember, error) {
	return s.repo.ListStaffMembers(ctx, businessID, status)
}

func (s *Service) UpdateStaffMember(ctx context.Context, businessID, id string, req domain.UpdateStaffMemberRequest) (*domain.StaffMember, error) {
	if _, err := s.staffMember(ctx, businessID, id); err != nil {
		return nil, err
	}
	m, err := s.repo.UpdateStaffMember(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.events.Publish(ctx, m.BusinessID, domain.EventStaffUpdate,
		map[string]any{"action": "staff_updated", "staff": m})
	return m, nil
}

func (s *Service) CreateSchedule(ctx context.Context, req domain.CreateScheduleRequest) (*domain.StaffSchedule, error) {
	if _, err := s.staffMember(ctx, req.BusinessID, req.StaffID); err != nil {
		return nil, err
	}
	sch := domain.StaffSchedule{
		ID:            uuid.New().String(),
		BusinessID:    req.BusinessID,
		StaffID:       req.StaffID,
		LocationID:    req.LocationID,
		ShiftDate:     req.ShiftDate,
		ShiftStart:    req.ShiftStart,
		ShiftEnd:      req.ShiftEnd,
		BreakDuration: req.BreakDuration,
		Position:      req.Position,
		Notes:         req.Notes,
		Status:        domain.ShiftScheduled,
	}
	if err := s.repo.CreateSchedule(ctx, sch); err != nil {
		return nil, err
	}
	created, err := s.repo.GetSchedule(ctx, sch.ID)
	if err != nil {
		return nil, err
	}
	s.events.Publish(ctx, sch.BusinessID, domain.EventStaffUpdate,
		map[string]any{"action": "schedule_created", "schedule": created})
	return created, nil
}

func (s *Service) ListSchedules(ctx context.Context, businessID, staffID string, from, to *time.Time) ([]domain.StaffSchedule, error) {
	return s.repo.ListSchedules(ctx, businessID, staffID, from, to)
}

// schedule loads a shift and hides rows belonging to other businesses.
func (s *Service) schedule(ctx context.Context, businessID, id string) (*domain.StaffSchedule, error) {
	sch, err := s.repo.GetSchedule(ctx, id)
	if err != nil {
		return nil, err
	}
	if sch.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	return sch, nil
}

func (s *Service) UpdateSchedule(ctx context.Context, businessID, id string, req domain.UpdateScheduleRequest) (*domain.StaffSchedule, error) {
	if _, err := s.schedule(ctx, businessID, id); err != nil {
		return nil, err
	}
	sch, err := s.repo.UpdateSchedule(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.events.Publish(ctx, sch.BusinessID, domain.EventStaffUpdate,
		map[string]any{"action": "schedule_updated", "schedule": sch})
	return sch, nil
}

func (s *Service) DeleteSchedule(ctx context.Context, businessID, id string) error {
	if _, err := s.schedule(ctx, businessID, id); err != nil {
		return err
	}
	return s.repo.DeleteSchedule(ctx, id)
}

// ClockIn opens a time clock entry. A staff member with an open entry cannot
// clock in again.
func (s *Service) ClockIn(ctx context.Context, req domain.ClockInRequest) (*domain.TimeClockEntry, error) {
	if _, err := s.staffMember(ctx, req.BusinessID, req.StaffID); err != nil {
		return nil, err
	}
	if _, err := s.repo.ActiveClockEntry(ctx, req.StaffID); err == nil {
		return nil, fmt.Errorf("%w: already clocked in", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	e := domain.TimeClockEntry{
		ID:         uuid.New().String(),
		BusinessID: req.BusinessID,
		StaffID:    req.StaffID,
		ClockIn:    time.Now().UTC(),
		Notes:      req.Notes,
	}
	if err := s.repo.CreateClockEntry(ctx, e); err != nil {
		return nil, err
	}
	s.events.Publish(ctx, e.BusinessID, domain.EventStaffUpdate,
		map[string]any{"action": "clock_in", "staff_id": e.StaffID})
	return &e, nil
}

// ClockOut closes the open entry and settles the hours: time on the clock
// minus any break, with everything past eight hours counted as overtime.
func (s *Service) ClockOut(ctx context.Context, businessID, staffID string) (*domain.TimeClockEntry, error) {
	if _, err := s.staffMember(ctx, businessID, staffID); err != nil {
		return nil, err
	}
	e, err := s.repo.ActiveClockEntry(ctx, staffID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: not clocked in", domain.ErrConflict)
		}
		return nil, err
	}

	now := time.Now().UTC()
	e.ClockOut = &now
	total, overtime := WorkedHours(e.ClockIn, now, e.BreakStart, e.BreakEnd)
	e.TotalHours = &total
	e.OvertimeHours = &overtime

	if err := s.repo.SaveClockEntry(ctx, *e); err != nil {
		return nil, err
	}
	s.events.Publish(ctx, e.BusinessID, domain.EventStaffUpdate,
		map[string]any{"action": "clock_out", "staff_id": e.StaffID, "total_hours": total})
	return e, nil
}

// WorkedHours returns total and overtime hours, both rounded to two decimals.
func WorkedHours(in, out time.Time, breakStart, breakEnd *time.Time) (total, overtime float64) {
	worked := out.Sub(in)
	if breakStart != nil && breakEnd != nil && breakEnd.After(*breakStart) {
		worked -= breakEnd.Sub(*breakStart)
	}
	if worked < 0 {
		worked = 0
	}
	total = round2(worked.Hours())
	if total > 8 {
		overtime = round2(total - 8)
	}
	return total, overtime
}

// BreakStart marks the start of a break on the open entry. One break per shift.
func (s *Service) BreakStart(ctx context.Context, businessID, staffID string) (*domain.TimeClockEntry, error) {
	if _, err := s.staffMember(ctx, businessID, staffID); err != nil {
		return nil, err
	}
	e, err := s.repo.ActiveClockEntry(ctx, staffID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: not clocked in", domain.ErrConflict)
		}
		return nil, err
	}
	if e.BreakStart != nil {
		return nil, fmt.Errorf("%w: break already taken", domain.ErrConflict)
	}
	now := time.Now().UTC()
	e.BreakStart = &now
	if err := s.repo.SaveClockEntry(ctx, *e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) BreakEnd(ctx context.Context, businessID, staffID string) (*domain.TimeClockEntry, error) {
	if _, err := s.staffMember(ctx, businessID, staffID); err != nil {
		return nil, err
	}
	e, err := s.repo.ActiveClockEntry(ctx, staffID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: not clocked in", domain.ErrConflict)
		}
		return nil, err
	}
	if e.BreakStart == nil {
		return nil, fmt.Errorf("%w: no break in progress", domain.ErrConflict)
	}
	if e.BreakEnd != nil {
		return nil, fmt.Errorf("%w: break already ended", domain.ErrConflict)
	}
	now := time.Now().UTC()
	e.BreakEnd = &now
	if err := s.repo.SaveClockEntry(ctx, *e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) ListClockEntries(ctx context.Context, businessID, staffID string, from, to *time.Time) ([]domain.TimeClockEntry, error) {
	return s.repo.ListClockEntries(ctx, businessID, staffID, from, to)
}

// Dashboard snapshots the floor, the kitchen and the clock for the ops view.
func (s *Service) Dashboard(ctx context.Context, businessID string) (*domain.OperationsDashboard, error) {
	now := time.Now().UTC()
	since := now.Truncate(24 * time.Hour)

	tables, err := s.repo.TableCounts(ctx, businessID)
	if err != nil {
		return nil, err
	}
	kitchen, err := s.repo.KDSCounts(ctx, businessID)
	if err != nil {
		return nil, err
	}
	clockedIn, err := s.repo.ClockedInCount(ctx, businessID)
	if err != nil {
		return nil, err
	}
	orders, revenue, err := s.repo.OrderCountsToday(ctx, businessID, since)
	if err != nil {
		return nil, err
	}

	return &domain.OperationsDashboard{
		BusinessID:   businessID,
		Timestamp:    now,
		Tables:       tables,
		Kitchen:      kitchen,
		Staff:        map[string]int{"clocked_in": clockedIn},
		Orders:       orders,
		RevenueToday: round2(revenue),
	}, nil
}

func (s *Service) publishTable(ctx context.Context, t domain.Table, action string) {
	s.events.Publish(ctx, t.BusinessID, domain.EventTableUpdate,
		map[string]any{"action": action, "table": t})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
