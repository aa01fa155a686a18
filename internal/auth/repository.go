package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"dashpos/internal/connections/database"
	"dashpos/internal/domain"
)

type Repository struct {
	db *database.Conn
}

func NewRepository(db *database.Conn) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateUserWithBusiness(ctx context.Context, user domain.User, business domain.Business) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, email, full_name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`, user.ID, user.Email, user.FullName, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO businesses (id, name, business_type, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
	`, business.ID, business.Name, business.Type)
	if err != nil {
		return fmt.Errorf("insert business: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO user_business_roles (user_id, business_id, role)
		VALUES ($1, $2, $3)
	`, user.ID, business.ID, domain.RoleOwner)
	if err != nil {
		return fmt.Errorf("insert role: %w", err)
	}

	// Settings row seeded so GET /settings never 404s for a fresh business.
	_, err = tx.Exec(ctx, `
		INSERT INTO business_settings (business_id, name, currency, timezone, tax_rate, extras, updated_at)
		VALUES ($1, $2, 'USD', 'UTC', 0, '{}', NOW())
	`, business.ID, business.Name)
	if err != nil {
		return fmt.Errorf("insert settings: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx, `
		SELECT id, email, full_name, password_hash, created_at, updated_at
		FROM users WHERE email = $1
	`, email).Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

func (r *Repository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx, `
		SELECT id, email, full_name, password_hash, created_at, updated_at
		FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &u, nil
}

func (r *Repository) GetRoles(ctx context.Context, userID string) ([]domain.BusinessRole, error) {
	rows, err := r.db.Query(ctx, `
		SELECT business_id, role FROM user_business_roles WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("get roles: %w", err)
	}
	defer rows.Close()

	var roles []domain.BusinessRole
	for rows.Next() {
		var br domain.BusinessRole
		if err := rows.Scan(&br.BusinessID, &br.Role); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, br)
	}
	return roles, rows.Err()
}

func (r *Repository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1
	`, userID, passwordHash, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
