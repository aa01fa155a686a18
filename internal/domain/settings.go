package domain

import "time"

type BusinessSettings struct {
	BusinessID string         `json:"business_id"`
	Name       string         `json:"name"`
	Currency   string         `json:"currency"`
	Timezone   string         `json:"timezone"`
	TaxRate    float64        `json:"tax_rate"`
	Extras     map[string]any `json:"extras"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

type UpdateBusinessSettingsRequest struct {
	Name     *string         `json:"name" binding:"omitempty,max=255"`
	Currency *string         `json:"currency" binding:"omitempty,len=3"`
	Timezone *string         `json:"timezone"`
	TaxRate  *float64        `json:"tax_rate" binding:"omitempty,gte=0,lte=100"`
	Extras   *map[string]any `json:"extras"`
}

// WorkingHours covers one weekday; 0=Monday .. 6=Sunday.
type WorkingHours struct {
	BusinessID string `json:"business_id"`
	DayOfWeek  int    `json:"day_of_week"`
	OpensAt    string `json:"opens_at"`  // HH:MM
	ClosesAt   string `json:"closes_at"` // HH:MM
	IsClosed   bool   `json:"is_closed"`
}

type WorkingHoursInput struct {
	DayOfWeek int    `json:"day_of_week" binding:"gte=0,lte=6"`
	OpensAt   string `json:"opens_at"`
	ClosesAt  string `json:"closes_at"`
	IsClosed  bool   `json:"is_closed"`
}
