package domain

import "time"

const (
	TableAvailable   = "available"
	TableOccupied    = "occupied"
	TableReserved    = "reserved"
	TableCleaning    = "cleaning"
	TableMaintenance = "maintenance"
)

const (
	KDSPending   = "pending"
	KDSPreparing = "preparing"
	KDSReady     = "ready"
	KDSServed    = "served"
	KDSCancelled = "cancelled"
)

const (
	ShiftScheduled  = "scheduled"
	ShiftConfirmed  = "confirmed"
	ShiftInProgress = "in_progress"
	ShiftCompleted  = "completed"
	ShiftCancelled  = "cancelled"
	ShiftNoShow     = "no_show"
)

type Location struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"business_id"`
	Name       string    `json:"name"`
	Address    *string   `json:"address"`
	Phone      *string   `json:"phone"`
	Timezone   string    `json:"timezone"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Table struct {
	ID             string    `json:"id"`
	BusinessID     string    `json:"business_id"`
	LocationID     *string   `json:"location_id"`
	TableNumber    string    `json:"table_number"`
	Capacity       int       `json:"capacity"`
	Status         string    `json:"status"`
	CurrentOrderID *string   `json:"current_order_id"`
	OccupiedSince  *time.Time `json:"occupied_since"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type KDSOrderItem struct {
	MenuItemID          string   `json:"menu_item_id"`
	Name                string   `json:"name"`
	Quantity            int      `json:"quantity"`
	Modifiers           []string `json:"modifiers"`
	SpecialInstructions string   `json:"special_instructions,omitempty"`
}

type KDSOrder struct {
	ID            string         `json:"id"`
	BusinessID    string         `json:"business_id"`
	OrderID       string         `json:"order_id"`
	Station       string         `json:"station"` // grill, fryer, salad, bar
	Items         []KDSOrderItem `json:"items"`
	Priority      int            `json:"priority"`
	Status        string         `json:"status"`
	TargetTime    *time.Time     `json:"target_time"`
	PrepStartTime *time.Time     `json:"prep_start_time"`
	PrepEndTime   *time.Time     `json:"prep_end_time"`
	AssignedTo    *string        `json:"assigned_to"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// KDSOrderMetrics adds the screen-facing timing fields.
type KDSOrderMetrics struct {
	KDSOrder
	PrepDuration  *int `json:"prep_duration"`  // minutes
	IsLate        bool `json:"is_late"`
	TimeRemaining *int `json:"time_remaining"` // minutes, negative when overdue
}

type StaffMember struct {
	ID         string     `json:"id"`
	BusinessID string     `json:"business_id"`
	UserID     *string    `json:"user_id"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	Email      *string    `json:"email"`
	Phone      *string    `json:"phone"`
	Position   *string    `json:"position"`
	HourlyRate *float64   `json:"hourly_rate"`
	HireDate   *time.Time `json:"hire_date"`
	Status     string     `json:"status"` // active | inactive | terminated
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type StaffSchedule struct {
	ID            string    `json:"id"`
	BusinessID    string    `json:"business_id"`
	StaffID       string    `json:"staff_id"`
	LocationID    *string   `json:"location_id"`
	ShiftDate     time.Time `json:"shift_date"`
	ShiftStart    string    `json:"shift_start"` // HH:MM
	ShiftEnd      string    `json:"shift_end"`
	BreakDuration *int      `json:"break_duration"` // minutes
	Position      *string   `json:"position"`
	Notes         *string   `json:"notes"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type TimeClockEntry struct {
	ID            string     `json:"id"`
	BusinessID    string     `json:"business_id"`
	StaffID       string     `json:"staff_id"`
	ClockIn       time.Time  `json:"clock_in"`
	ClockOut      *time.Time `json:"clock_out"`
	BreakStart    *time.Time `json:"break_start"`
	BreakEnd      *time.Time `json:"break_end"`
	TotalHours    *float64   `json:"total_hours"`
	OvertimeHours *float64   `json:"overtime_hours"`
	Notes         *string    `json:"notes"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type OperationsDashboard struct {
	BusinessID   string         `json:"business_id"`
	Timestamp    time.Time      `json:"timestamp"`
	Tables       map[string]int `json:"tables"`
	Kitchen      map[string]int `json:"kitchen"`
	Staff        map[string]int `json:"staff"`
	Orders       map[string]int `json:"orders"`
	RevenueToday float64        `json:"revenue_today"`
}

type KitchenPerformance struct {
	AvgPrepMinutes  float64        `json:"avg_prep_minutes"`
	CompletedOrders int            `json:"completed_orders"`
	LateOrders      int            `json:"late_orders"`
	LatePercentage  float64        `json:"late_percentage"`
	OrdersByStation map[string]int `json:"orders_by_station"`
}

type CreateLocationRequest struct {
	BusinessID string  `json:"business_id" binding:"required,uuid"`
	Name       string  `json:"name" binding:"required,max=255"`
	Address    *string `json:"address"`
	Phone      *string `json:"phone"`
	Timezone   string  `json:"timezone"`
}

type UpdateLocationRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=255"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone"`
	Timezone *string `json:"timezone"`
	IsActive *bool   `json:"is_active"`
}

type CreateTableRequest struct {
	BusinessID  string  `json:"business_id" binding:"required,uuid"`
	LocationID  *string `json:"location_id" binding:"omitempty,uuid"`
	TableNumber string  `json:"table_number" binding:"required,max=50"`
	Capacity    int     `json:"capacity" binding:"required,gte=1,lte=50"`
}

type UpdateTableRequest struct {
	TableNumber *string `json:"table_number" binding:"omitempty,max=50"`
	Capacity    *int    `json:"capacity" binding:"omitempty,gte=1,lte=50"`
	Status      *string `json:"status" binding:"omitempty,oneof=available occupied reserved cleaning maintenance"`
	LocationID  *string `json:"location_id" binding:"omitempty,uuid"`
}

type AssignTableRequest struct {
	OrderID   string `json:"order_id" binding:"required,uuid"`
	PartySize int    `json:"party_size" binding:"required,gte=1"`
}

type CreateKDSOrderRequest struct {
	BusinessID string         `json:"business_id" binding:"required,uuid"`
	OrderID    string         `json:"order_id" binding:"required,uuid"`
	Station    string         `json:"station" binding:"required,max=100"`
	Items      []KDSOrderItem `json:"items" binding:"required,min=1"`
	Priority   int            `json:"priority" binding:"gte=0,lte=10"`
	TargetTime *time.Time     `json:"target_time"`
}

type UpdateKDSOrderRequest struct {
	Status     *string `json:"status" binding:"omitempty,oneof=pending preparing ready served cancelled"`
	AssignedTo *string `json:"assigned_to" binding:"omitempty,uuid"`
}

type CreateStaffMemberRequest struct {
	BusinessID string     `json:"business_id" binding:"required,uuid"`
	UserID     *string    `json:"user_id" binding:"omitempty,uuid"`
	FirstName  string     `json:"first_name" binding:"required,max=255"`
	LastName   string     `json:"last_name" binding:"required,max=255"`
	Email      *string    `json:"email" binding:"omitempty,email"`
	Phone      *string    `json:"phone"`
	Position   *string    `json:"position"`
	HourlyRate *float64   `json:"hourly_rate" binding:"omitempty,gte=0"`
	HireDate   *time.Time `json:"hire_date"`
}

type UpdateStaffMemberRequest struct {
	FirstName  *string  `json:"first_name" binding:"omitempty,max=255"`
	LastName   *string  `json:"last_name" binding:"omitempty,max=255"`
	Email      *string  `json:"email" binding:"omitempty,email"`
	Phone      *string  `json:"phone"`
	Position   *string  `json:"position"`
	HourlyRate *float64 `json:"hourly_rate" binding:"omitempty,gte=0"`
	Status     *string  `json:"status" binding:"omitempty,oneof=active inactive terminated"`
}

type CreateScheduleRequest struct {
	BusinessID    string    `json:"business_id" binding:"required,uuid"`
	StaffID       string    `json:"staff_id" binding:"required,uuid"`
	LocationID    *string   `json:"location_id" binding:"omitempty,uuid"`
	ShiftDate     time.Time `json:"shift_date" binding:"required"`
	ShiftStart    string    `json:"shift_start" binding:"required"`
	ShiftEnd      string    `json:"shift_end" binding:"required"`
	BreakDuration *int      `json:"break_duration" binding:"omitempty,gte=0"`
	Position      *string   `json:"position"`
	Notes         *string   `json:"notes"`
}

type UpdateScheduleRequest struct {
	ShiftDate     *time.Time `json:"shift_date"`
	ShiftStart    *string    `json:"shift_start"`
	ShiftEnd      *string    `json:"shift_end"`
	BreakDuration *int       `json:"break_duration" binding:"omitempty,gte=0"`
	Position      *string    `json:"position"`
	Notes         *string    `json:"notes"`
	Status        *string    `json:"status" binding:"omitempty,oneof=scheduled confirmed in_progress completed cancelled no_show"`
}

type ClockInRequest struct {
	BusinessID string  `json:"business_id" binding:"required,uuid"`
	StaffID    string  `json:"staff_id" binding:"required,uuid"`
	Notes      *string `json:"notes"`
}
