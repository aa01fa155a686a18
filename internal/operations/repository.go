package operations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"dashpos/internal/connections/database"
	"dashpos/internal/domain"
)

type RepositoryInterface interface {
	CreateLocation(ctx context.Context, l domain.Location) error
	GetLocation(ctx context.Context, id string) (*domain.Location, error)
	ListLocations(ctx context.Context, businessID string) ([]domain.Location, error)
	UpdateLocation(ctx context.Context, id string, req domain.UpdateLocationRequest) (*domain.Location, error)
	DeleteLocation(ctx context.Context, id string) error

	CreateTable(ctx context.Context, t domain.Table) error
	GetTable(ctx context.Context, id string) (*domain.Table, error)
	ListTables(ctx context.Context, businessID, locationID, status string) ([]domain.Table, error)
	UpdateTable(ctx context.Context, id string, req domain.UpdateTableRequest) (*domain.Table, error)
	SetTableState(ctx context.Context, id, status string, orderID *string, occupiedSince *time.Time) (*domain.Table, error)
	DeleteTable(ctx context.Context, id string) error
	AvailableTables(ctx context.Context, businessID string, minCapacity int) ([]domain.Table, error)
	TableCounts(ctx context.Context, businessID string) (map[string]int, error)

	CreateKDSOrder(ctx context.Context, o domain.KDSOrder) error
	GetKDSOrder(ctx context.Context, id string) (*domain.KDSOrder, error)
	ListKDSOrders(ctx context.Context, businessID, station string, statuses []string) ([]domain.KDSOrder, error)
	SaveKDSOrder(ctx context.Context, o domain.KDSOrder) error
	KDSCounts(ctx context.Context, businessID string) (map[string]int, error)
	KitchenStats(ctx context.Context, businessID string, since time.Time) (*domain.KitchenPerformance, error)

	CreateStaffMember(ctx context.Context, m domain.StaffMember) error
	GetStaffMember(ctx context.Context, id string) (*domain.StaffMember, error)
	ListStaffMembers(ctx context.Context, businessID, status string) ([]domain.StaffMember, error)
	UpdateStaffMember(ctx context.Context, id string, req domain.UpdateStaffMemberRequest) (*domain.StaffMember, error)

	CreateSchedule(ctx context.Context, s domain.StaffSchedule) error
	GetSchedule(ctx context.Context, id string) (*domain.StaffSchedule, error)
	ListSchedules(ctx context.Context, businessID, staffID string, from, to *time.Time) ([]domain.StaffSchedule, error)
	UpdateSchedule(ctx context.Context, id string, req domain.UpdateScheduleRequest) (*domain.StaffSchedule, error)
	DeleteSchedule(ctx context.Context, id string) error

	ActiveClockEntry(ctx context.Context, staffID string) (*domain.TimeClockEntry, error)
	CreateClockEntry(ctx context.Context, e domain.TimeClockEntry) error
	SaveClockEntry(ctx context.Context, e domain.TimeClockEntry) error
	ListClockEntries(ctx context.Context, businessID, staffID string, from, to *time.Time) ([]domain.TimeClockEntry, error)
	ClockedInCount(ctx context.Context, businessID string) (int, error)

	OrderCountsToday(ctx context.Context, businessID string, since time.Time) (map[string]int, float64, error)
}

type Repository struct {
	db *database.Conn
}

func NewRepository(db *database.Conn) RepositoryInterface {
	return &Repository{db: db}
}

const locationCols = "id, business_id, name, address, phone, timezone, is_active, created_at, updated_at"

func scanLocation(row pgx.Row) (*domain.Location, error) {
	var l domain.Location
	err := row.Scan(&l.ID, &l.BusinessID, &l.Name, &l.Address, &l.Phone,
		&l.Timezone, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan location: %w", err)
	}
	return &l, nil
}

func (r *Repository) CreateLocation(ctx context.Context, l domain.Location) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO locations (id, business_id, name, address, phone, timezone, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`, l.ID, l.BusinessID, l.Name, l.Address, l.Phone, l.Timezone, l.IsActive)
	if err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

func (r *Repository) GetLocation(ctx context.Context, id string) (*domain.Location, error) {
	return scanLocation(r.db.QueryRow(ctx, "SELECT "+locationCols+" FROM locations WHERE id = $1", id))
}

func (r *Repository) ListLocations(ctx context.Context, businessID string) ([]domain.Location, error) {
	rows, err := r.db.Query(ctx, "SELECT "+locationCols+" FROM locations WHERE business_id = $1 ORDER BY name", businessID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var out []domain.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateLocation(ctx context.Context, id string, req domain.UpdateLocationRequest) (*domain.Location, error) {
	sets := []string{}
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Address != nil {
		add("address", *req.Address)
	}
	if req.Phone != nil {
		add("phone", *req.Phone)
	}
	if req.Timezone != nil {
		add("timezone", *req.Timezone)
	}
	if req.IsActive != nil {
		add("is_active", *req.IsActive)
	}
	if len(sets) == 0 {
		return r.GetLocation(ctx, id)
	}
	add("updated_at", time.Now().UTC())

	q := fmt.Sprintf("UPDATE locations SET %s WHERE id = $1 RETURNING %s",
		strings.Join(sets, ", "), locationCols)
	return scanLocation(r.db.QueryRow(ctx, q, args...))
}

func (r *Repository) DeleteLocation(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM locations WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const tableCols = "id, business_id, location_id, table_number, capacity, status, current_order_id, occupied_since, created_at, updated_at"

func scanTable(row pgx.Row) (*domain.Table, error) {
	var t domain.Table
	err := row.Scan(&t.ID, &t.BusinessID, &t.LocationID, &t.TableNumber, &t.Capacity,
		&t.Status, &t.CurrentOrderID, &t.OccupiedSince, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan table: %w", err)
	}
	return &t, nil
}

func (r *Repository) CreateTable(ctx context.Context, t domain.Table) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO tables (id, business_id, location_id, table_number, capacity, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`, t.ID, t.BusinessID, t.LocationID, t.TableNumber, t.Capacity, t.Status)
	if err != nil {
		return fmt.Errorf("insert table: %w", err)
	}
	return nil
}

func (r *Repository) GetTable(ctx context.Context, id string) (*domain.Table, error) {
	return scanTable(r.db.QueryRow(ctx, "SELECT "+tableCols+" FROM tables WHERE id = $1", id))
}

func (r *Repository) ListTables(ctx context.Context, businessID, locationID, status string) ([]domain.Table, error) {
	q := "SELECT " + tableCols + " FROM tables WHERE business_id = $1"
	args := []any{businessID}
	if locationID != "" {
		args = append(args, locationID)
		q += fmt.Sprintf(" AND location_id = $%d", len(args))
	}
	if status != "" {
		args = append(args, status)
		q += fmt.Sprintf(" AND status = $%d", len(args))
	}
	q += " ORDER BY table_number"

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var out []domain.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateTable(ctx context.Context, id string, req domain.UpdateTableRequest) (*domain.Table, error) {
	sets := []string{}
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if req.TableNumber != nil {
		add("table_number", *req.TableNumber)
	}
	if req.Capacity != nil {
		add("capacity", *req.Capacity)
	}
	if req.Status != nil {
		add("status", *req.Status)
	}
	if req.LocationID != nil {
		add("location_id", *req.LocationID)
	}
	if len(sets) == 0 {
		return r.GetTable(ctx, id)
	}
	add("updated_at", time.Now().UTC())

	q := fmt.Sprintf("UPDATE tables SET %s WHERE id = $1 RETURNING %s",
		strings.Join(sets, ", "), tableCols)
	return scanTable(r.db.QueryRow(ctx, q, args...))
}

func (r *Repository) SetTableState(ctx context.Context, id, status string, orderID *string, occupiedSince *time.Time) (*domain.Table, error) {
	return scanTable(r.db.QueryRow(ctx, `
		UPDATE tables SET status = $2, current_order_id = $3, occupied_since = $4, updated_at = NOW()
		WHERE id = $1 RETURNING `+tableCols,
		id, status, orderID, occupiedSince))
}

func (r *Repository) DeleteTable(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM tables WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete table: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) AvailableTables(ctx context.Context, businessID string, minCapacity int) ([]domain.Table, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+tableCols+" FROM tables WHERE business_id = $1 AND status = $2 AND capacity >= $3 ORDER BY capacity, table_number",
		businessID, domain.TableAvailable, minCapacity)
	if err != nil {
		return nil, fmt.Errorf("available tables: %w", err)
	}
	defer rows.Close()

	var out []domain.Table
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *Repository) TableCounts(ctx context.Context, businessID string) (map[string]int, error) {
	return r.countsBy(ctx, "SELECT status, COUNT(*) FROM tables WHERE business_id = $1 GROUP BY status", businessID)
}

const kdsCols = "id, business_id, order_id, station, items, priority, status, target_time, prep_start_time, prep_end_time, assigned_to, created_at, updated_at"

func scanKDSOrder(row pgx.Row) (*domain.KDSOrder, error) {
	var o domain.KDSOrder
	err := row.Scan(&o.ID, &o.BusinessID, &o.OrderID, &o.Station, &o.Items,
		&o.Priority, &o.Status, &o.TargetTime, &o.PrepStartTime, &o.PrepEndTime,
		&o.AssignedTo, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan kds order: %w", err)
	}
	return &o, nil
}

func (r *Repository) CreateKDSOrder(ctx context.Context, o domain.KDSOrder) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO kds_orders (id, business_id, order_id, station, items, priority, status, target_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`, o.ID, o.BusinessID, o.OrderID, o.Station, o.Items, o.Priority, o.Status, o.TargetTime)
	if err != nil {
		return fmt.Errorf("insert kds order: %w", err)
	}
	return nil
}

func (r *Repository) GetKDSOrder(ctx context.Context, id string) (*domain.KDSOrder, error) {
	return scanKDSOrder(r.db.QueryRow(ctx, "SELECT "+kdsCols+" FROM kds_orders WHERE id = $1", id))
}

func (r *Repository) ListKDSOrders(ctx context.Context, businessID, station string, statuses []string) ([]domain.KDSOrder, error) {
	q := "SELECT " + kdsCols + " FROM kds_orders WHERE business_id = $1"
	args := []any{businessID}
	if station != "" {
		args = append(args, station)
		q += fmt.Sprintf(" AND station = $%d", len(args))
	}
	if len(statuses) > 0 {
		args = append(args, statuses)
		q += fmt.Sprintf(" AND status = ANY($%d)", len(args))
	}
	q += " ORDER BY priority DESC, created_at"

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list kds orders: %w", err)
	}
	defer rows.Close()

	var out []domain.KDSOrder
	for rows.Next() {
		o, err := scanKDSOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *Repository) SaveKDSOrder(ctx context.Context, o domain.KDSOrder) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE kds_orders
		SET status = $2, priority = $3, prep_start_time = $4, prep_end_time = $5, assigned_to = $6, updated_at = NOW()
		WHERE id = $1
	`, o.ID, o.Status, o.Priority, o.PrepStartTime, o.PrepEndTime, o.AssignedTo)
	if err != nil {
		return fmt.Errorf("update kds order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) KDSCounts(ctx context.Context, businessID string) (map[string]int, error) {
	return r.countsBy(ctx, `
		SELECT status, COUNT(*) FROM kds_orders
		WHERE business_id = $1 AND status NOT IN ('served', 'cancelled')
		GROUP BY status
	`, businessID)
}

func (r *Repository) KitchenStats(ctx context.Context, businessID string, since time.Time) (*domain.KitchenPerformance, error) {
	var p domain.KitchenPerformance
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (prep_end_time - prep_start_time)) / 60), 0),
		       COUNT(*),
		       COUNT(*) FILTER (WHERE target_time IS NOT NULL AND prep_end_time > target_time)
		FROM kds_orders
		WHERE business_id = $1 AND created_at >= $2
		  AND prep_start_time IS NOT NULL AND prep_end_time IS NOT NULL
	`, businessID, since).Scan(&p.AvgPrepMinutes, &p.CompletedOrders, &p.LateOrders)
	if err != nil {
		return nil, fmt.Errorf("kitchen stats: %w", err)
	}

	byStation, err := r.countsBy(ctx,
		"SELECT station, COUNT(*) FROM kds_orders WHERE business_id = $1 AND created_at >= $2 GROUP BY station",
		businessID, since)
	if err != nil {
		return nil, err
	}
	p.OrdersByStation = byStation
	return &p, nil
}

const staffCols = "id, business_id, user_id, first_name, last_name, email, phone, position, hourly_rate, hire_date, status, created_at, updated_at"

func scanStaff(row pgx.Row) (*domain.StaffMember, error) {
	var m domain.StaffMember
	err := row.Scan(&m.ID, &m.BusinessID, &m.UserID, &m.FirstName, &m.LastName,
		&m.Email, &m.Phone, &m.Position, &m.HourlyRate, &m.HireDate, &m.Status,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan staff member: %w", err)
	}
	return &m, nil
}

func (r *Repository) CreateStaffMember(ctx context.Context, m domain.StaffMember) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO staff_members (id, business_id, user_id, first_name, last_name, email, phone, position, hourly_rate, hire_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`, m.ID, m.BusinessID, m.UserID, m.FirstName, m.LastName, m.Email, m.Phone,
		m.Position, m.HourlyRate, m.HireDate, m.Status)
	if err != nil {
		return fmt.Errorf("insert staff member: %w", err)
	}
	return nil
}

func (r *Repository) GetStaffMember(ctx context.Context, id string) (*domain.StaffMember, error) {
	return scanStaff(r.db.QueryRow(ctx, "SELECT "+staffCols+" FROM staff_members WHERE id = $1", id))
}

func (r *Repository) ListStaffMembers(ctx context.Context, businessID, status string) ([]domain.StaffMember, error) {
	q := "SELECT " + staffCols + " FROM staff_members WHERE business_id = $1"
	args := []any{businessID}
	if status != "" {
		args = append(args, status)
		q += fmt.Sprintf(" AND status = $%d", len(args))
	}
	q += " ORDER BY last_name, first_name"

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list staff members: %w", err)
	}
	defer rows.Close()

	var out []domain.StaffMember
	for rows.Next() {
		m, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateStaffMember(ctx context.Context, id string, req domain.UpdateStaffMemberRequest) (*domain.StaffMember, error) {
	sets := []string{}
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if req.FirstName != nil {
		add("first_name", *req.FirstName)
	}
	if req.LastName != nil {
		add("last_name", *req.LastName)
	}
	if req.Email != nil {
		add("email", *req.Email)
	}
	if req.Phone != nil {
		add("phone", *req.Phone)
	}
	if req.Position != nil {
		add("position", *req.Position)
	}
	if req.HourlyRate != nil {
		add("hourly_rate", *req.HourlyRate)
	}
	if req.Status != nil {
		add("status", *req.Status)
	}
	if len(sets) == 0 {
		return r.GetStaffMember(ctx, id)
	}
	add("updated_at", time.Now().UTC())

	q := fmt.Sprintf("UPDATE staff_members SET %s WHERE id = $1 RETURNING %s",
		strings.Join(sets, ", "), staffCols)
	return scanStaff(r.db.QueryRow(ctx, q, args...))
}

const scheduleCols = "id, business_id, staff_id, location_id, shift_date, shift_start, shift_end, break_duration, position, notes, status, created_at, updated_at"

func scanSchedule(row pgx.Row) (*domain.StaffSchedule, error) {
	var s domain.StaffSchedule
	err := row.Scan(&s.ID, &s.BusinessID, &s.StaffID, &s.LocationID, &s.ShiftDate,
		&s.ShiftStart, &s.ShiftEnd, &s.BreakDuration, &s.Position, &s.Notes,
		&s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan schedule: %w", err)
	}
	return &s, nil
}

func (r *Repository) CreateSchedule(ctx context.Context, s domain.StaffSchedule) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO staff_schedules (id, business_id, staff_id, location_id, shift_date, shift_start, shift_end, break_duration, position, notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`, s.ID, s.BusinessID, s.StaffID, s.LocationID, s.ShiftDate, s.ShiftStart,
		s.ShiftEnd, s.BreakDuration, s.Position, s.Notes, s.Status)
	if err != nil {
		return fmt.Errorf("insert schedule: %w", err)
	}
	return nil
}

func (r *Repository) GetSchedule(ctx context.Context, id string) (*domain.StaffSchedule, error) {
	return scanSchedule(r.db.QueryRow(ctx, "SELECT "+scheduleCols+" FROM staff_schedules WHERE id = $1", id))
}

func (r *Repository) ListSchedules(ctx context.Context, businessID, staffID string, from, to *time.Time) ([]domain.StaffSchedule, error) {
	q := "SELECT " + scheduleCols + " FROM staff_schedules WHERE business_id = $1"
	args := []any{businessID}
	if staffID != "" {
		args = append(args, staffID)
		q += fmt.Sprintf(" AND staff_id = $%d", len(args))
	}
	if from != nil {
		args = append(args, *from)
		q += fmt.Sprintf(" AND shift_date >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		q += fmt.Sprintf(" AND shift_date <= $%d", len(args))
	}
	q += " ORDER BY shift_date, shift_start"

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	var out []domain.StaffSchedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateSchedule(ctx context.Context, id string, req domain.UpdateScheduleRequest) (*domain.StaffSchedule, error) {
	sets := []string{}
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if req.ShiftDate != nil {
		add("shift_date", *req.ShiftDate)
	}
	if req.ShiftStart != nil {
		add("shift_start", *req.ShiftStart)
	}
	if req.ShiftEnd != nil {
		add("shift_end", *req.ShiftEnd)
	}
	if req.BreakDuration != nil {
		add("break_duration", *req.BreakDuration)
	}
	if req.Position != nil {
		add("position", *req.Position)
	}
	if req.Notes != nil {
		add("notes", *req.Notes)
	}
	if req.Status != nil {
		add("status", *req.Status)
	}
	if len(sets) == 0 {
		return r.GetSchedule(ctx, id)
	}
	add("updated_at", time.Now().UTC())

	q := fmt.Sprintf("UPDATE staff_schedules SET %s WHERE id = $1 RETURNING %s",
		strings.Join(sets, ", "), scheduleCols)
	return scanSchedule(r.db.QueryRow(ctx, q, args...))
}

func (r *Repository) DeleteSchedule(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM staff_schedules WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const clockCols = "id, business_id, staff_id, clock_in, clock_out, break_start, break_end, total_hours, overtime_hours, notes, created_at, updated_at"

func scanClockEntry(row pgx.Row) (*domain.TimeClockEntry, error) {
	var e domain.TimeClockEntry
	err := row.Scan(&e.ID, &e.BusinessID, &e.StaffID, &e.ClockIn, &e.ClockOut,
		&e.BreakStart, &e.BreakEnd, &e.TotalHours, &e.OvertimeHours, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan clock entry: %w", err)
	}
	return &e, nil
}

func (r *Repository) ActiveClockEntry(ctx context.Context, staffID string) (*domain.TimeClockEntry, error) {
	return scanClockEntry(r.db.QueryRow(ctx,
		"SELECT "+clockCols+" FROM time_clock_entries WHERE staff_id = $1 AND clock_out IS NULL ORDER BY clock_in DESC LIMIT 1",
		staffID))
}

func (r *Repository) CreateClockEntry(ctx context.Context, e domain.TimeClockEntry) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO time_clock_entries (id, business_id, staff_id, clock_in, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`, e.ID, e.BusinessID, e.StaffID, e.ClockIn, e.Notes)
	if err != nil {
		return fmt.Errorf("insert clock entry: %w", err)
	}
	return nil
}

func (r *Repository) SaveClockEntry(ctx context.Context, e domain.TimeClockEntry) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE time_clock_entries
		SET clock_out = $2, break_start = $3, break_end = $4, total_hours = $5, overtime_hours = $6, notes = $7, updated_at = NOW()
		WHERE id = $1
	`, e.ID, e.ClockOut, e.BreakStart, e.BreakEnd, e.TotalHours, e.OvertimeHours, e.Notes)
	if err != nil {
		return fmt.Errorf("update clock entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) ListClockEntries(ctx context.Context, businessID, staffID string, from, to *time.Time) ([]domain.TimeClockEntry, error) {
	q := "SELECT " + clockCols + " FROM time_clock_entries WHERE business_id = $1"
	args := []any{businessID}
	if staffID != "" {
		args = append(args, staffID)
		q += fmt.Sprintf(" AND staff_id = $%d", len(args))
	}
	if from != nil {
		args = append(args, *from)
		q += fmt.Sprintf(" AND clock_in >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		q += fmt.Sprintf(" AND clock_in <= $%d", len(args))
	}
	q += " ORDER BY clock_in DESC"

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list clock entries: %w", err)
	}
	defer rows.Close()

	var out []domain.TimeClockEntry
	for rows.Next() {
		e, err := scanClockEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *Repository) ClockedInCount(ctx context.Context, businessID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM time_clock_entries WHERE business_id = $1 AND clock_out IS NULL",
		businessID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("clocked in count: %w", err)
	}
	return n, nil
}

func (r *Repository) OrderCountsToday(ctx context.Context, businessID string, since time.Time) (map[string]int, float64, error) {
	counts, err := r.countsBy(ctx,
		"SELECT status, COUNT(*) FROM orders WHERE business_id = $1 AND created_at >= $2 GROUP BY status",
		businessID, since)
	if err != nil {
		return nil, 0, err
	}

	var revenue float64
	err = r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount), 0) FROM orders
		WHERE business_id = $1 AND created_at >= $2 AND status = 'completed'
	`, businessID, since).Scan(&revenue)
	if err != nil {
		return nil, 0, fmt.Errorf("revenue today: %w", err)
	}
	return counts, revenue, nil
}

func (r *Repository) countsBy(ctx context.Context, query string, args ...any) (map[string]int, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("counts query: %w", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var k string
		var n int
		if err := rows.Scan(&k, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		out[k] = n
	}
	return out, rows.Err()
}
