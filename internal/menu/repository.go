package menu

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
	CreateCategory(ctx context.Context, c domain.MenuCategory) error
	GetCategory(ctx context.Context, id string) (*domain.MenuCategory, error)
	ListCategories(ctx context.Context, businessID string, parentID *string, isActive *bool) ([]domain.MenuCategory, error)
	UpdateCategory(ctx context.Context, id string, req domain.UpdateMenuCategoryRequest) (*domain.MenuCategory, error)
	DeleteCategory(ctx context.Context, id string) error

	CreateItem(ctx context.Context, it domain.MenuItem) error
	GetItem(ctx context.Context, id string) (*domain.MenuItem, error)
	ListItems(ctx context.Context, f domain.MenuItemFilter) ([]domain.MenuItem, error)
	UpdateItem(ctx context.Context, id string, req domain.UpdateMenuItemRequest) (*domain.MenuItem, error)
	SoftDeleteItem(ctx context.Context, id string) error
	HardDeleteItem(ctx context.Context, id string) error
	BulkUpdateItems(ctx context.Context, businessID string, ids []string, req domain.UpdateMenuItemRequest) (int, error)
}

type Repository struct {
	db *database.Conn
}

func NewRepository(db *database.Conn) RepositoryInterface {
	return &Repository{db: db}
}

const categoryCols = "id, business_id, name, description, parent_id, display_order, icon_url, is_active, created_at, updated_at"

func (r *Repository) CreateCategory(ctx context.Context, c domain.MenuCategory) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO menu_categories (id, business_id, name, description, parent_id, display_order, icon_url, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`, c.ID, c.BusinessID, c.Name, c.Description, c.ParentID, c.DisplayOrder, c.IconURL, c.IsActive)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func scanCategory(row pgx.Row) (*domain.MenuCategory, error) {
	var c domain.MenuCategory
	err := row.Scan(&c.ID, &c.BusinessID, &c.Name, &c.Description, &c.ParentID,
		&c.DisplayOrder, &c.IconURL, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan category: %w", err)
	}
	return &c, nil
}

func (r *Repository) GetCategory(ctx context.Context, id string) (*domain.MenuCategory, error) {
	row := r.db.QueryRow(ctx, "SELECT "+categoryCols+" FROM menu_categories WHERE id = $1", id)
	return scanCategory(row)
}

func (r *Repository) ListCategories(ctx context.Context, businessID string, parentID *string, isActive *bool) ([]domain.MenuCategory, error) {
	q := "SELECT " + categoryCols + " FROM menu_categories WHERE business_id = $1"
	args := []any{businessID}
	if parentID != nil {
		args = append(args, *parentID)
		q += fmt.Sprintf(" AND parent_id = $%d", len(args))
	}
	if isActive != nil {
		args = append(args, *isActive)
		q += fmt.Sprintf(" AND is_active = $%d", len(args))
	}
	q += " ORDER BY display_order, name"

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []domain.MenuCategory
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateCategory(ctx context.Context, id string, req domain.UpdateMenuCategoryRequest) (*domain.MenuCategory, error) {
	sets := []string{}
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.ParentID != nil {
		add("parent_id", *req.ParentID)
	}
	if req.DisplayOrder != nil {
		add("display_order", *req.DisplayOrder)
	}
	if req.IconURL != nil {
		add("icon_url", *req.IconURL)
	}
	if req.IsActive != nil {
		add("is_active", *req.IsActive)
	}
	if len(sets) == 0 {
		return r.GetCategory(ctx, id)
	}
	add("updated_at", time.Now().UTC())

	q := fmt.Sprintf("UPDATE menu_categories SET %s WHERE id = $1 RETURNING %s",
		strings.Join(sets, ", "), categoryCols)
	return scanCategory(r.db.QueryRow(ctx, q, args...))
}

func (r *Repository) DeleteCategory(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM menu_categories WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const itemCols = "id, business_id, category_id, name, description, price, cost, image_url, sku, is_available, prep_time, calories, allergens, tags, variants, modifiers, created_at, updated_at"

func (r *Repository) CreateItem(ctx context.Context, it domain.MenuItem) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO menu_items (id, business_id, category_id, name, description, price, cost, image_url, sku, is_available, prep_time, calories, allergens, tags, variants, modifiers, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
	`, it.ID, it.BusinessID, it.CategoryID, it.Name, it.Description, it.Price, it.Cost,
		it.ImageURL, it.SKU, it.IsAvailable, it.PrepTime, it.Calories, it.Allergens, it.Tags, it.Variants, it.Modifiers)
	if err != nil {
		return fmt.Errorf("insert menu item: %w", err)
	}
	return nil
}

func scanItem(row pgx.Row) (*domain.MenuItem, error) {
	var it domain.MenuItem
	err := row.Scan(&it.ID, &it.BusinessID, &it.CategoryID, &it.Name, &it.Description,
		&it.Price, &it.Cost, &it.ImageURL, &it.SKU, &it.IsAvailable, &it.PrepTime,
		&it.Calories, &it.Allergens, &it.Tags, &it.Variants, &it.Modifiers, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan menu item: %w", err)
	}
	return &it, nil
}

func (r *Repository) GetItem(ctx context.Context, id string) (*domain.MenuItem, error) {
	row := r.db.QueryRow(ctx, "SELECT "+itemCols+" FROM menu_items WHERE id = $1", id)
	return scanItem(row)
}

func (r *Repository) ListItems(ctx context.Context, f domain.MenuItemFilter) ([]domain.MenuItem, error) {
	q := "SELECT " + itemCols + " FROM menu_items WHERE business_id = $1"
	args := []any{f.BusinessID}
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		q += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if f.IsAvailable != nil {
		args = append(args, *f.IsAvailable)
		q += fmt.Sprintf(" AND is_available = $%d", len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		q += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}
	if f.MinPrice != nil {
		args = append(args, *f.MinPrice)
		q += fmt.Sprintf(" AND price >= $%d", len(args))
	}
	if f.MaxPrice != nil {
		args = append(args, *f.MaxPrice)
		q += fmt.Sprintf(" AND price <= $%d", len(args))
	}
	if len(f.Tags) > 0 {
		args = append(args, f.Tags)
		q += fmt.Sprintf(" AND tags @> $%d", len(args))
	}
	q += " ORDER BY name"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	var out []domain.MenuItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}

func itemUpdateClauses(req domain.UpdateMenuItemRequest, args *[]any) []string {
	sets := []string{}
	add := func(col string, v any) {
		*args = append(*args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(*args)))
	}
	if req.CategoryID != nil {
		add("category_id", *req.CategoryID)
	}
	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.Price != nil {
		add("price", *req.Price)
	}
	if req.Cost != nil {
		add("cost", *req.Cost)
	}
	if req.ImageURL != nil {
		add("image_url", *req.ImageURL)
	}
	if req.SKU != nil {
		add("sku", *req.SKU)
	}
	if req.IsAvailable != nil {
		add("is_available", *req.IsAvailable)
	}
	if req.PrepTime != nil {
		add("prep_time", *req.PrepTime)
	}
	if req.Calories != nil {
		add("calories", *req.Calories)
	}
	if req.Allergens != nil {
		add("allergens", *req.Allergens)
	}
	if req.Tags != nil {
		add("tags", *req.Tags)
	}
	if req.Variants != nil {
		add("variants", *req.Variants)
	}
	if req.Modifiers != nil {
		add("modifiers", *req.Modifiers)
	}
	return sets
}

func (r *Repository) UpdateItem(ctx context.Context, id string, req domain.UpdateMenuItemRequest) (*domain.MenuItem, error) {
	args := []any{id}
	sets := itemUpdateClauses(req, &args)
	if len(sets) == 0 {
		return r.GetItem(ctx, id)
	}
	args = append(args, time.Now().UTC())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))

	q := fmt.Sprintf("UPDATE menu_items SET %s WHERE id = $1 RETURNING %s",
		strings.Join(sets, ", "), itemCols)
	return scanItem(r.db.QueryRow(ctx, q, args...))
}

func (r *Repository) SoftDeleteItem(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE menu_items SET is_available = false, updated_at = NOW() WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("soft delete menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) HardDeleteItem(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM menu_items WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) BulkUpdateItems(ctx context.Context, businessID string, ids []string, req domain.UpdateMenuItemRequest) (int, error) {
	args := []any{ids, businessID}
	sets := itemUpdateClauses(req, &args)
	if len(sets) == 0 {
		return 0, nil
	}
	args = append(args, time.Now().UTC())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))

	q := fmt.Sprintf("UPDATE menu_items SET %s WHERE id = ANY($1) AND business_id = $2", strings.Join(sets, ", "))
	tag, err := r.db.Exec(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk update menu items: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
