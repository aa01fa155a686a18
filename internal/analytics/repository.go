package analytics

import (
	"context"
	"fmt"
	"time"

	"dashpos/internal/connections/database"
	"dashpos/internal/domain"
)

type RepositoryInterface interface {
	// RevenueBetween sums completed-order revenue and counts orders inside
	// [from, to).
	RevenueBetween(ctx context.Context, businessID string, from, to time.Time) (float64, int, error)
	RevenueSeries(ctx context.Context, businessID, bucket string, from, to time.Time) ([]domain.RevenuePoint, error)
	RevenueBy(ctx context.Context, businessID, column string, from, to time.Time) ([]domain.RevenueShare, error)
	RevenueByCategory(ctx context.Context, businessID string, from, to time.Time) ([]domain.RevenueShare, error)
	TopItems(ctx context.Context, businessID string, from, to time.Time, limit int) ([]domain.TopItem, error)
	SalesTotals(ctx context.Context, businessID string, from, to time.Time) (*domain.SalesSummary, error)
	COGSBetween(ctx context.Context, businessID string, from, to time.Time) (float64, error)
	LaborCostBetween(ctx context.Context, businessID string, from, to time.Time) (float64, error)
	MonthlyRevenue(ctx context.Context, businessID string, months int) ([]float64, error)
}

type Repository struct {
	db *database.Conn
}

func NewRepository(db *database.Conn) RepositoryInterface {
	return &Repository{db: db}
}

func (r *Repository) RevenueBetween(ctx context.Context, businessID string, from, to time.Time) (float64, int, error) {
	var revenue float64
	var orders int
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_amount), 0), COUNT(*)
		FROM orders
		WHERE business_id = $1 AND status = 'completed'
		  AND created_at >= $2 AND created_at < $3
	`, businessID, from, to).Scan(&revenue, &orders)
	if err != nil {
		return 0, 0, fmt.Errorf("revenue between: %w", err)
	}
	return revenue, orders, nil
}

func (r *Repository) RevenueSeries(ctx context.Context, businessID, bucket string, from, to time.Time) ([]domain.RevenuePoint, error) {
	// bucket is validated by the service; only 'day' and 'hour' reach here.
	q := fmt.Sprintf(`
		SELECT date_trunc('%s', created_at) AS bucket, SUM(total_amount), COUNT(*)
		FROM orders
		WHERE business_id = $1 AND status = 'completed'
		  AND created_at >= $2 AND created_at < $3
		GROUP BY bucket ORDER BY bucket
	`, bucket)

	rows, err := r.db.Query(ctx, q, businessID, from, to)
	if err != nil {
		return nil, fmt.Errorf("revenue series: %w", err)
	}
	defer rows.Close()

	var out []domain.RevenuePoint
	for rows.Next() {
		var p domain.RevenuePoint
		if err := rows.Scan(&p.Bucket, &p.Revenue, &p.Orders); err != nil {
			return nil, fmt.Errorf("scan revenue point: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) RevenueBy(ctx context.Context, businessID, column string, from, to time.Time) ([]domain.RevenueShare, error) {
	// column is one of the fixed names picked by the service.
	q := fmt.Sprintf(`
		SELECT COALESCE(%s, 'unknown'), SUM(total_amount), COUNT(*)
		FROM orders
		WHERE business_id = $1 AND status = 'completed'
		  AND created_at >= $2 AND created_at < $3
		GROUP BY 1 ORDER BY 2 DESC
	`, column)
	return r.scanShares(ctx, q, businessID, from, to)
}

func (r *Repository) RevenueByCategory(ctx context.Context, businessID string, from, to time.Time) ([]domain.RevenueShare, error) {
	q := `
		SELECT COALESCE(mc.name, 'uncategorized'), SUM(oi.quantity * oi.unit_price), COUNT(DISTINCT o.id)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		LEFT JOIN menu_items mi ON mi.id = oi.menu_item_id
		LEFT JOIN menu_categories mc ON mc.id = mi.category_id
		WHERE o.business_id = $1 AND o.status = 'completed'
		  AND o.created_at >= $2 AND o.created_at < $3
		GROUP BY 1 ORDER BY 2 DESC
	`
	return r.scanShares(ctx, q, businessID, from, to)
}

func (r *Repository) scanShares(ctx context.Context, q string, args ...any) ([]domain.RevenueShare, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("revenue breakdown: %w", err)
	}
	defer rows.Close()

	var out []domain.RevenueShare
	for rows.Next() {
		var sh domain.RevenueShare
		if err := rows.Scan(&sh.Key, &sh.Revenue, &sh.Orders); err != nil {
			return nil, fmt.Errorf("scan revenue share: %w", err)
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

func (r *Repository) TopItems(ctx context.Context, businessID string, from, to time.Time, limit int) ([]domain.TopItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT oi.menu_item_id, COALESCE(mi.name, oi.item_name), SUM(oi.quantity), SUM(oi.quantity * oi.unit_price)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		LEFT JOIN menu_items mi ON mi.id = oi.menu_item_id
		WHERE o.business_id = $1 AND o.status = 'completed'
		  AND o.created_at >= $2 AND o.created_at < $3
		GROUP BY oi.menu_item_id, COALESCE(mi.name, oi.item_name)
		ORDER BY 4 DESC LIMIT $4
	`, businessID, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("top items: %w", err)
	}
	defer rows.Close()

	var out []domain.TopItem
	for rows.Next() {
		var t domain.TopItem
		if err := rows.Scan(&t.MenuItemID, &t.Name, &t.Quantity, &t.Revenue); err != nil {
			return nil, fmt.Errorf("scan top item: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repository) SalesTotals(ctx context.Context, businessID string, from, to time.Time) (*domain.SalesSummary, error) {
	var s domain.SalesSummary
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(subtotal), 0),
		       COALESCE(SUM(discount_amount), 0),
		       COALESCE(SUM(tax_amount), 0),
		       COUNT(*)
		FROM orders
		WHERE business_id = $1 AND status = 'completed'
		  AND created_at >= $2 AND created_at < $3
	`, businessID, from, to).Scan(&s.GrossSales, &s.Discounts, &s.Tax, &s.OrderCount)
	if err != nil {
		return nil, fmt.Errorf("sales totals: %w", err)
	}
	s.BusinessID = businessID
	return &s, nil
}

func (r *Repository) COGSBetween(ctx context.Context, businessID string, from, to time.Time) (float64, error) {
	var cogs float64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(oi.quantity * mi.cost), 0)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN menu_items mi ON mi.id = oi.menu_item_id
		WHERE o.business_id = $1 AND o.status = 'completed'
		  AND o.created_at >= $2 AND o.created_at < $3
		  AND mi.cost IS NOT NULL
	`, businessID, from, to).Scan(&cogs)
	if err != nil {
		return 0, fmt.Errorf("cogs between: %w", err)
	}
	return cogs, nil
}

func (r *Repository) LaborCostBetween(ctx context.Context, businessID string, from, to time.Time) (float64, error) {
	var cost float64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(tce.total_hours * sm.hourly_rate), 0)
		FROM time_clock_entries tce
		JOIN staff_members sm ON sm.id = tce.staff_id
		WHERE tce.business_id = $1 AND tce.clock_out IS NOT NULL
		  AND tce.clock_in >= $2 AND tce.clock_in < $3
		  AND sm.hourly_rate IS NOT NULL
	`, businessID, from, to).Scan(&cost)
	if err != nil {
		return 0, fmt.Errorf("labor cost between: %w", err)
	}
	return cost, nil
}

// MonthlyRevenue returns the last n calendar months oldest first, the current
// month included, with zeros for empty months.
func (r *Repository) MonthlyRevenue(ctx context.Context, businessID string, months int) ([]float64, error) {
	rows, err := r.db.Query(ctx, `
		SELECT date_trunc('month', created_at) AS m, SUM(total_amount)
		FROM orders
		WHERE business_id = $1 AND status = 'completed'
		  AND created_at >= date_trunc('month', NOW()) - ($2 - 1) * INTERVAL '1 month'
		GROUP BY m ORDER BY m
	`, businessID, months)
	if err != nil {
		return nil, fmt.Errorf("monthly revenue: %w", err)
	}
	defer rows.Close()

	byMonth := map[string]float64{}
	for rows.Next() {
		var m time.Time
		var v float64
		if err := rows.Scan(&m, &v); err != nil {
			return nil, fmt.Errorf("scan monthly revenue: %w", err)
		}
		byMonth[m.Format("2006-01")] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)
	out := make([]float64, months)
	for i := 0; i < months; i++ {
		out[i] = byMonth[first.AddDate(0, i, 0).Format("2006-01")]
	}
	return out, nil
}
