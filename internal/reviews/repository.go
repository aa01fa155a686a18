package reviews

import (
	"context"
	"fmt"

	"dashpos/internal/connections/database"
	"dashpos/internal/domain"
)

type RepositoryInterface interface {
	Create(ctx context.Context, r domain.Review) error
	List(ctx context.Context, businessID, menuItemID string, limit, offset int) ([]domain.Review, error)
	Stats(ctx context.Context, businessID, menuItemID string) (count int, sum int, distribution map[int]int, err error)
	Delete(ctx context.Context, businessID, id string) error
}

type Repository struct {
	db *database.Conn
}

func NewRepository(db *database.Conn) RepositoryInterface {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, rev domain.Review) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO reviews (id, business_id, menu_item_id, rating, comment, customer_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`, rev.ID, rev.BusinessID, rev.MenuItemID, rev.Rating, rev.Comment, rev.CustomerName)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (r *Repository) List(ctx context.Context, businessID, menuItemID string, limit, offset int) ([]domain.Review, error) {
	q := `SELECT id, business_id, menu_item_id, rating, comment, customer_name, created_at
		FROM reviews WHERE business_id = $1`
	args := []any{businessID}
	if menuItemID != "" {
		args = append(args, menuItemID)
		q += fmt.Sprintf(" AND menu_item_id = $%d", len(args))
	}
	q += " ORDER BY created_at DESC"
	args = append(args, limit)
	q += fmt.Sprintf(" LIMIT $%d", len(args))
	if offset > 0 {
		args = append(args, offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(&rev.ID, &rev.BusinessID, &rev.MenuItemID, &rev.Rating,
			&rev.Comment, &rev.CustomerName, &rev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, businessID, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1 AND business_id = $2`, id, businessID)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) Stats(ctx context.Context, businessID, menuItemID string) (int, int, map[int]int, error) {
	q := "SELECT rating, COUNT(*) FROM reviews WHERE business_id = $1"
	args := []any{businessID}
	if menuItemID != "" {
		args = append(args, menuItemID)
		q += fmt.Sprintf(" AND menu_item_id = $%d", len(args))
	}
	q += " GROUP BY rating"

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("review stats: %w", err)
	}
	defer rows.Close()

	distribution := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	var count, sum int
	for rows.Next() {
		var rating, n int
		if err := rows.Scan(&rating, &n); err != nil {
			return 0, 0, nil, fmt.Errorf("scan review stats: %w", err)
		}
		distribution[rating] = n
		count += n
		sum += rating * n
	}
	return count, sum, distribution, rows.Err()
}
