package settings

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
	Get(ctx context.Context, businessID string) (*domain.BusinessSettings, error)
	Update(ctx context.Context, businessID string, req domain.UpdateBusinessSettingsRequest) (*domain.BusinessSettings, error)
	GetWorkingHours(ctx context.Context, businessID string) ([]domain.WorkingHours, error)
	ReplaceWorkingHours(ctx context.Context, businessID string, hours []domain.WorkingHours) error
}

type Repository struct {
	db *database.Conn
}

func NewRepository(db *database.Conn) RepositoryInterface {
	return &Repository{db: db}
}

const settingsCols = "business_id, name, currency, timezone, tax_rate, extras, updated_at"

func scanSettings(row pgx.Row) (*domain.BusinessSettings, error) {
	var s domain.BusinessSettings
	err := row.Scan(&s.BusinessID, &s.Name, &s.Currency, &s.Timezone, &s.TaxRate,
		&s.Extras, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan settings: %w", err)
	}
	return &s, nil
}

func (r *Repository) Get(ctx context.Context, businessID string) (*domain.BusinessSettings, error) {
	return scanSettings(r.db.QueryRow(ctx,
		"SELECT "+settingsCols+" FROM business_settings WHERE business_id = $1", businessID))
}

func (r *Repository) Update(ctx context.Context, businessID string, req domain.UpdateBusinessSettingsRequest) (*domain.BusinessSettings, error) {
	sets := []string{}
	args := []any{businessID}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Currency != nil {
		add("currency", strings.ToUpper(*req.Currency))
	}
	if req.Timezone != nil {
		add("timezone", *req.Timezone)
	}
	if req.TaxRate != nil {
		add("tax_rate", *req.TaxRate)
	}
	if req.Extras != nil {
		add("extras", *req.Extras)
	}
	if len(sets) == 0 {
		return r.Get(ctx, businessID)
	}
	add("updated_at", time.Now().UTC())

	q := fmt.Sprintf("UPDATE business_settings SET %s WHERE business_id = $1 RETURNING %s",
		strings.Join(sets, ", "), settingsCols)
	return scanSettings(r.db.QueryRow(ctx, q, args...))
}

func (r *Repository) GetWorkingHours(ctx context.Context, businessID string) ([]domain.WorkingHours, error) {
	rows, err := r.db.Query(ctx, `
		SELECT business_id, day_of_week, opens_at, closes_at, is_closed
		FROM working_hours WHERE business_id = $1 ORDER BY day_of_week
	`, businessID)
	if err != nil {
		return nil, fmt.Errorf("get working hours: %w", err)
	}
	defer rows.Close()

	var out []domain.WorkingHours
	for rows.Next() {
		var wh domain.WorkingHours
		if err := rows.Scan(&wh.BusinessID, &wh.DayOfWeek, &wh.OpensAt, &wh.ClosesAt, &wh.IsClosed); err != nil {
			return nil, fmt.Errorf("scan working hours: %w", err)
		}
		out = append(out, wh)
	}
	return out, rows.Err()
}

func (r *Repository) ReplaceWorkingHours(ctx context.Context, businessID string, hours []domain.WorkingHours) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM working_hours WHERE business_id = $1", businessID); err != nil {
		return fmt.Errorf("clear working hours: %w", err)
	}
	for _, wh := range hours {
		if _, err := tx.Exec(ctx, `
			INSERT INTO working_hours (business_id, day_of_week, opens_at, closes_at, is_closed)
			VALUES ($1, $2, $3, $4, $5)
		`, businessID, wh.DayOfWeek, wh.OpensAt, wh.ClosesAt, wh.IsClosed); err != nil {
			return fmt.Errorf("insert working hours: %w", err)
		}
	}
	return tx.Commit(ctx)
}
