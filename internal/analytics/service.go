package analytics

import (
	"context"
	"fmt"
	"math"
	"time"

	"dashpos/internal/domain"
)

type Service struct {
	repo RepositoryInterface
}

func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// Growth returns the percentage change from prev to cur, rounded to two
// decimals. A previous period of zero reads as 100% growth when anything came
// in, and flat otherwise.
func Growth(cur, prev float64) float64 {
	if prev == 0 {
		if cur > 0 {
			return 100
		}
		return 0
	}
	return round2((cur - prev) / prev * 100)
}

// SharePercentage is part of total as a percentage, one decimal.
func SharePercentage(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(part/total*1000) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Overview compares today, this week and this month against the preceding
// equal-length windows.
func (s *Service) Overview(ctx context.Context, businessID string, from, to time.Time) (*domain.RevenueOverview, error) {
	now := time.Now().UTC()
	if to.IsZero() {
		to = now
	}
	if from.IsZero() {
		from = to.AddDate(0, -1, 0)
	}

	total, orders, err := s.repo.RevenueBetween(ctx, businessID, from, to)
	if err != nil {
		return nil, err
	}
	prevTotal, _, err := s.repo.RevenueBetween(ctx, businessID, from.Add(-to.Sub(from)), from)
	if err != nil {
		return nil, err
	}

	o := &domain.RevenueOverview{
		BusinessID:    businessID,
		PeriodStart:   from,
		PeriodEnd:     to,
		TotalRevenue:  round2(total),
		OrderCount:    orders,
		RevenueGrowth: Growth(total, prevTotal),
	}
	if orders > 0 {
		o.AvgOrderValue = round2(total / float64(orders))
	}

	dayStart := now.Truncate(24 * time.Hour)
	weekStart := dayStart.AddDate(0, 0, -int((dayStart.Weekday()+6)%7)) // Monday
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	windows := []struct {
		start  time.Time
		prev   time.Time
		rev    *float64
		growth *float64
	}{
		{dayStart, dayStart.AddDate(0, 0, -1), &o.DailyRevenue, &o.DailyGrowth},
		{weekStart, weekStart.AddDate(0, 0, -7), &o.WeeklyRevenue, &o.WeeklyGrowth},
		{monthStart, monthStart.AddDate(0, -1, 0), &o.MonthlyRevenue, &o.MonthlyGrowth},
	}
	for _, w := range windows {
		cur, _, err := s.repo.RevenueBetween(ctx, businessID, w.start, now)
		if err != nil {
			return nil, err
		}
		prev, _, err := s.repo.RevenueBetween(ctx, businessID, w.prev, w.start)
		if err != nil {
			return nil, err
		}
		*w.rev = round2(cur)
		*w.growth = Growth(cur, prev)
	}
	return o, nil
}

func (s *Service) Trend(ctx context.Context, businessID, granularity string, from, to time.Time) (*domain.RevenueTrend, error) {
	switch granularity {
	case "":
		granularity = "day"
	case "day", "hour":
	default:
		return nil, fmt.Errorf("%w: granularity must be day or hour", domain.ErrInvalidInput)
	}
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		if granularity == "hour" {
			from = to.AddDate(0, 0, -1)
		} else {
			from = to.AddDate(0, -1, 0)
		}
	}

	points, err := s.repo.RevenueSeries(ctx, businessID, granularity, from, to)
	if err != nil {
		return nil, err
	}
	for i := range points {
		points[i].Revenue = round2(points[i].Revenue)
	}
	return &domain.RevenueTrend{
		BusinessID:  businessID,
		Granularity: granularity,
		Points:      points,
	}, nil
}

// Breakdown slices revenue by channel, payment method, or menu category.
func (s *Service) Breakdown(ctx context.Context, businessID, dimension string, from, to time.Time) (*domain.RevenueBreakdown, error) {
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.AddDate(0, -1, 0)
	}

	var shares []domain.RevenueShare
	var err error
	switch dimension {
	case "channel":
		shares, err = s.repo.RevenueBy(ctx, businessID, "channel", from, to)
	case "payment_method":
		shares, err = s.repo.RevenueBy(ctx, businessID, "payment_method", from, to)
	case "category":
		shares, err = s.repo.RevenueByCategory(ctx, businessID, from, to)
	default:
		return nil, fmt.Errorf("%w: dimension must be channel, payment_method or category", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}

	var total float64
	for _, sh := range shares {
		total += sh.Revenue
	}
	for i := range shares {
		shares[i].Revenue = round2(shares[i].Revenue)
		shares[i].Percentage = SharePercentage(shares[i].Revenue, total)
	}
	return &domain.RevenueBreakdown{
		BusinessID:   businessID,
		Dimension:    dimension,
		TotalRevenue: round2(total),
		Shares:       shares,
	}, nil
}

func (s *Service) TopItems(ctx context.Context, businessID string, from, to time.Time, limit int) ([]domain.TopItem, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.AddDate(0, -1, 0)
	}
	items, err := s.repo.TopItems(ctx, businessID, from, to, limit)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Revenue = round2(items[i].Revenue)
	}
	return items, nil
}

func (s *Service) SalesSummary(ctx context.Context, businessID string, from, to time.Time) (*domain.SalesSummary, error) {
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.AddDate(0, -1, 0)
	}
	sum, err := s.repo.SalesTotals(ctx, businessID, from, to)
	if err != nil {
		return nil, err
	}
	sum.GrossSales = round2(sum.GrossSales)
	sum.Discounts = round2(sum.Discounts)
	sum.Tax = round2(sum.Tax)
	sum.NetSales = round2(sum.GrossSales - sum.Discounts)
	if sum.OrderCount > 0 {
		sum.AvgOrderValue = round2(sum.NetSales / float64(sum.OrderCount))
	}
	return sum, nil
}

func (s *Service) FinancialSummary(ctx context.Context, businessID string, from, to time.Time) (*domain.FinancialSummary, error) {
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.AddDate(0, -1, 0)
	}

	revenue, _, err := s.repo.RevenueBetween(ctx, businessID, from, to)
	if err != nil {
		return nil, err
	}
	cogs, err := s.repo.COGSBetween(ctx, businessID, from, to)
	if err != nil {
		return nil, err
	}
	labor, err := s.repo.LaborCostBetween(ctx, businessID, from, to)
	if err != nil {
		return nil, err
	}

	f := &domain.FinancialSummary{
		BusinessID:   businessID,
		TotalRevenue: round2(revenue),
		TotalCOGS:    round2(cogs),
		LaborCost:    round2(labor),
		GrossProfit:  round2(revenue - cogs),
		NetProfit:    round2(revenue - cogs - labor),
	}
	if revenue > 0 {
		f.GrossMargin = round2(f.GrossProfit / revenue * 100)
		f.NetMargin = round2(f.NetProfit / revenue * 100)
	}
	return f, nil
}

// Projection extrapolates the coming months from the average month-over-month
// growth of the trailing window.
func (s *Service) Projection(ctx context.Context, businessID string, basedOnMonths, projectMonths int) (*domain.RevenueProjection, error) {
	if basedOnMonths < 2 || basedOnMonths > 24 {
		basedOnMonths = 6
	}
	if projectMonths < 1 || projectMonths > 12 {
		projectMonths = 3
	}

	history, err := s.repo.MonthlyRevenue(ctx, businessID, basedOnMonths)
	if err != nil {
		return nil, err
	}

	rate := AvgGrowthRate(history)
	current := history[len(history)-1]

	projected := make([]float64, projectMonths)
	v := current
	for i := range projected {
		v = v * (1 + rate)
		projected[i] = round2(v)
	}
	return &domain.RevenueProjection{
		BusinessID:      businessID,
		BasedOnMonths:   basedOnMonths,
		AvgGrowthRate:   math.Round(rate*10000) / 10000,
		CurrentMonth:    round2(current),
		ProjectedMonths: projected,
	}, nil
}

// AvgGrowthRate averages month-over-month growth as a fraction, skipping
// transitions out of a zero month.
func AvgGrowthRate(history []float64) float64 {
	var sum float64
	var n int
	for i := 1; i < len(history); i++ {
		if history[i-1] == 0 {
			continue
		}
		sum += (history[i] - history[i-1]) / history[i-1]
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
