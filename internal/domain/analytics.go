package domain

import "time"

type RevenueOverview struct {
	BusinessID     string    `json:"business_id"`
	PeriodStart    time.Time `json:"period_start"`
	PeriodEnd      time.Time `json:"period_end"`
	TotalRevenue   float64   `json:"total_revenue"`
	OrderCount     int       `json:"order_count"`
	AvgOrderValue  float64   `json:"avg_order_value"`
	RevenueGrowth  float64   `json:"revenue_growth"` // % vs previous equal-length period
	DailyRevenue   float64   `json:"daily_revenue"`
	DailyGrowth    float64   `json:"daily_growth"`
	WeeklyRevenue  float64   `json:"weekly_revenue"`
	WeeklyGrowth   float64   `json:"weekly_growth"`
	MonthlyRevenue float64   `json:"monthly_revenue"`
	MonthlyGrowth  float64   `json:"monthly_growth"`
}

type RevenuePoint struct {
	Bucket  time.Time `json:"bucket"`
	Revenue float64   `json:"revenue"`
	Orders  int       `json:"orders"`
}

type RevenueTrend struct {
	BusinessID  string         `json:"business_id"`
	Granularity string         `json:"granularity"` // day | hour
	Points      []RevenuePoint `json:"points"`
}

// RevenueShare is one slice of a percentage breakdown (channel, payment
// method, or category).
type RevenueShare struct {
	Key        string  `json:"key"`
	Revenue    float64 `json:"revenue"`
	Orders     int     `json:"orders"`
	Percentage float64 `json:"percentage"`
}

type RevenueBreakdown struct {
	BusinessID   string         `json:"business_id"`
	Dimension    string         `json:"dimension"`
	TotalRevenue float64        `json:"total_revenue"`
	Shares       []RevenueShare `json:"shares"`
}

type TopItem struct {
	MenuItemID string  `json:"menu_item_id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	Revenue    float64 `json:"revenue"`
}

type SalesSummary struct {
	BusinessID    string  `json:"business_id"`
	GrossSales    float64 `json:"gross_sales"`
	Discounts     float64 `json:"discounts"`
	NetSales      float64 `json:"net_sales"`
	Tax           float64 `json:"tax"`
	OrderCount    int     `json:"order_count"`
	AvgOrderValue float64 `json:"avg_order_value"`
}

type FinancialSummary struct {
	BusinessID   string  `json:"business_id"`
	TotalRevenue float64 `json:"total_revenue"`
	TotalCOGS    float64 `json:"total_cogs"`
	LaborCost    float64 `json:"labor_cost"`
	GrossProfit  float64 `json:"gross_profit"`
	NetProfit    float64 `json:"net_profit"`
	GrossMargin  float64 `json:"gross_margin"` // %
	NetMargin    float64 `json:"net_margin"`   // %
}

type RevenueProjection struct {
	BusinessID      string    `json:"business_id"`
	BasedOnMonths   int       `json:"based_on_months"`
	AvgGrowthRate   float64   `json:"avg_growth_rate"` // fraction, not %
	CurrentMonth    float64   `json:"current_month"`
	ProjectedMonths []float64 `json:"projected_months"`
}
