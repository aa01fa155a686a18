package qr

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"dashpos/internal/connections/database"
	"dashpos/internal/domain"
)

type RepositoryInterface interface {
	Create(ctx context.Context, code domain.QRCode) error
	Get(ctx context.Context, id string) (*domain.QRCode, error)
	List(ctx context.Context, businessID, qrType string, isActive *bool) ([]domain.QRCode, error)
	IncrementScanCount(ctx context.Context, id string) (*domain.QRCode, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type Repository struct {
	db *database.Conn
}

func NewRepository(db *database.Conn) RepositoryInterface {
	return &Repository{db: db}
}

const qrCols = "id, business_id, type, target_id, payload, size, scan_count, is_active, created_at"

func scanQR(row pgx.Row) (*domain.QRCode, error) {
	var q domain.QRCode
	err := row.Scan(&q.ID, &q.BusinessID, &q.Type, &q.TargetID, &q.Payload,
		&q.Size, &q.ScanCount, &q.IsActive, &q.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan qr code: %w", err)
	}
	return &q, nil
}

func (r *Repository) Create(ctx context.Context, code domain.QRCode) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO qr_codes (id, business_id, type, target_id, payload, size, scan_count, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, true, NOW())
	`, code.ID, code.BusinessID, code.Type, code.TargetID, code.Payload, code.Size)
	if err != nil {
		return fmt.Errorf("insert qr code: %w", err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*domain.QRCode, error) {
	return scanQR(r.db.QueryRow(ctx, "SELECT "+qrCols+" FROM qr_codes WHERE id = $1", id))
}

func (r *Repository) List(ctx context.Context, businessID, qrType string, isActive *bool) ([]domain.QRCode, error) {
	q := "SELECT " + qrCols + " FROM qr_codes WHERE business_id = $1"
	args := []any{businessID}
	if qrType != "" {
		args = append(args, qrType)
		q += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if isActive != nil {
		args = append(args, *isActive)
		q += fmt.Sprintf(" AND is_active = $%d", len(args))
	}
	q += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list qr codes: %w", err)
	}
	defer rows.Close()

	var out []domain.QRCode
	for rows.Next() {
		code, err := scanQR(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *code)
	}
	return out, rows.Err()
}

func (r *Repository) IncrementScanCount(ctx context.Context, id string) (*domain.QRCode, error) {
	return scanQR(r.db.QueryRow(ctx,
		"UPDATE qr_codes SET scan_count = scan_count + 1 WHERE id = $1 AND is_active RETURNING "+qrCols, id))
}

func (r *Repository) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.db.Exec(ctx, "UPDATE qr_codes SET is_active = $2 WHERE id = $1", id, active)
	if err != nil {
		return fmt.Errorf("set qr active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
