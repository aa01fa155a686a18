package domain

import "time"

// Event names carried on the bus and pushed to websocket clients.
const (
	EventMenuUpdate     = "menu_update"
	EventTableUpdate    = "table_update"
	EventKDSUpdate      = "kds_update"
	EventInventoryAlert = "inventory_alert"
	EventStaffUpdate    = "staff_update"
	EventRevenueUpdate  = "revenue_update"
)

type Event struct {
	Event      string    `json:"event"`
	BusinessID string    `json:"business_id"`
	Timestamp  time.Time `json:"timestamp"`
	Data       any       `json:"data"`
}
