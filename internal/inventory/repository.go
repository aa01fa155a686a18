package inventory

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
	CreateItem(ctx context.Context, it domain.InventoryItem) error
	GetItem(ctx context.Context, id string) (*domain.InventoryItem, error)
	ListItems(ctx context.Context, businessID, category string, lowStockOnly bool, limit, offset int) ([]domain.InventoryItem, error)
	UpdateItem(ctx context.Context, id string, req domain.UpdateInventoryItemRequest) (*domain.InventoryItem, error)
	DeleteItem(ctx context.Context, id string) error

	// AdjustStock sets the new quantity and records the transaction in one tx.
	AdjustStock(ctx context.Context, tx domain.InventoryTransaction) error
	ListTransactions(ctx context.Context, f domain.InventoryTransactionFilter) ([]domain.InventoryTransaction, error)
	LowStockItems(ctx context.Context, businessID string) ([]domain.InventoryItem, error)

	CreateSupplier(ctx context.Context, s domain.Supplier) error
	GetSupplier(ctx context.Context, id string) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context, businessID string, isActive *bool) ([]domain.Supplier, error)
	UpdateSupplier(ctx context.Context, id string, req domain.UpdateSupplierRequest) (*domain.Supplier, error)
	DeleteSupplier(ctx context.Context, id string) error

	CreatePurchaseOrder(ctx context.Context, po domain.PurchaseOrder) error
	GetPurchaseOrder(ctx context.Context, id string) (*domain.PurchaseOrder, error)
	ListPurchaseOrders(ctx context.Context, businessID, supplierID, status string) ([]domain.PurchaseOrder, error)
	UpdatePurchaseOrder(ctx context.Context, po domain.PurchaseOrder) error
	// ReceivePurchaseOrder bumps stock, writes restock transactions, and
	// updates the PO atomically.
	ReceivePurchaseOrder(ctx context.Context, po domain.PurchaseOrder, txs []domain.InventoryTransaction) error

	Valuation(ctx context.Context, businessID string) (totalItems, outOfStock int, totalValue float64, byCategory map[string]float64, err error)
	TopValueItems(ctx context.Context, businessID string, limit int) ([]domain.InventoryItem, error)
}

type Repository struct {
	db *database.Conn
}

func NewRepository(db *database.Conn) RepositoryInterface {
	return &Repository{db: db}
}

const itemCols = "id, business_id, name, category, unit, current_stock, min_stock, max_stock, unit_cost, supplier_id, created_at, updated_at"

func scanItem(row pgx.Row) (*domain.InventoryItem, error) {
	var it domain.InventoryItem
	err := row.Scan(&it.ID, &it.BusinessID, &it.Name, &it.Category, &it.Unit,
		&it.CurrentStock, &it.MinStock, &it.MaxStock, &it.UnitCost, &it.SupplierID,
		&it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan inventory item: %w", err)
	}
	return &it, nil
}

func (r *Repository) CreateItem(ctx context.Context, it domain.InventoryItem) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO inventory_items (id, business_id, name, category, unit, current_stock, min_stock, max_stock, unit_cost, supplier_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	`, it.ID, it.BusinessID, it.Name, it.Category, it.Unit, it.CurrentStock,
		it.MinStock, it.MaxStock, it.UnitCost, it.SupplierID)
	if err != nil {
		return fmt.Errorf("insert inventory item: %w", err)
	}
	return nil
}

func (r *Repository) GetItem(ctx context.Context, id string) (*domain.InventoryItem, error) {
	return scanItem(r.db.QueryRow(ctx, "SELECT "+itemCols+" FROM inventory_items WHERE id = $1", id))
}

func (r *Repository) ListItems(ctx context.Context, businessID, category string, lowStockOnly bool, limit, offset int) ([]domain.InventoryItem, error) {
	q := "SELECT " + itemCols + " FROM inventory_items WHERE business_id = $1"
	args := []any{businessID}
	if category != "" {
		args = append(args, category)
		q += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if lowStockOnly {
		q += " AND current_stock <= min_stock"
	}
	q += " ORDER BY name"
	if limit > 0 {
		args = append(args, limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	defer rows.Close()

	var out []domain.InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateItem(ctx context.Context, id string, req domain.UpdateInventoryItemRequest) (*domain.InventoryItem, error) {
	sets := []string{}
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Category != nil {
		add("category", *req.Category)
	}
	if req.Unit != nil {
		add("unit", *req.Unit)
	}
	if req.MinStock != nil {
		add("min_stock", *req.MinStock)
	}
	if req.MaxStock != nil {
		add("max_stock", *req.MaxStock)
	}
	if req.UnitCost != nil {
		add("unit_cost", *req.UnitCost)
	}
	if req.SupplierID != nil {
		add("supplier_id", *req.SupplierID)
	}
	if len(sets) == 0 {
		return r.GetItem(ctx, id)
	}
	add("updated_at", time.Now().UTC())

	q := fmt.Sprintf("UPDATE inventory_items SET %s WHERE id = $1 RETURNING %s",
		strings.Join(sets, ", "), itemCols)
	return scanItem(r.db.QueryRow(ctx, q, args...))
}

func (r *Repository) DeleteItem(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM inventory_items WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) AdjustStock(ctx context.Context, t domain.InventoryTransaction) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE inventory_items SET current_stock = $2, updated_at = NOW() WHERE id = $1
	`, t.InventoryItemID, t.QuantityAfter)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO inventory_transactions (id, business_id, inventory_item_id, type, quantity_change, quantity_after, reason, performed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	`, t.ID, t.BusinessID, t.InventoryItemID, t.Type, t.QuantityChange, t.QuantityAfter, t.Reason, t.PerformedBy)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *Repository) ListTransactions(ctx context.Context, f domain.InventoryTransactionFilter) ([]domain.InventoryTransaction, error) {
	q := `SELECT id, business_id, inventory_item_id, type, quantity_change, quantity_after, reason, performed_by, created_at
		FROM inventory_transactions WHERE business_id = $1`
	args := []any{f.BusinessID}
	if f.InventoryItemID != "" {
		args = append(args, f.InventoryItemID)
		q += fmt.Sprintf(" AND inventory_item_id = $%d", len(args))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		q += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if f.StartDate != nil {
		args = append(args, *f.StartDate)
		q += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if f.EndDate != nil {
		args = append(args, *f.EndDate)
		q += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	q += " ORDER BY created_at DESC"
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
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []domain.InventoryTransaction
	for rows.Next() {
		var t domain.InventoryTransaction
		if err := rows.Scan(&t.ID, &t.BusinessID, &t.InventoryItemID, &t.Type,
			&t.QuantityChange, &t.QuantityAfter, &t.Reason, &t.PerformedBy, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repository) LowStockItems(ctx context.Context, businessID string) ([]domain.InventoryItem, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+itemCols+" FROM inventory_items WHERE business_id = $1 AND current_stock <= min_stock ORDER BY current_stock / NULLIF(min_stock, 0)",
		businessID)
	if err != nil {
		return nil, fmt.Errorf("low stock items: %w", err)
	}
	defer rows.Close()

	var out []domain.InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}

const supplierCols = "id, business_id, name, contact_name, email, phone, is_active, created_at, updated_at"

func scanSupplier(row pgx.Row) (*domain.Supplier, error) {
	var s domain.Supplier
	err := row.Scan(&s.ID, &s.BusinessID, &s.Name, &s.ContactName, &s.Email,
		&s.Phone, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan supplier: %w", err)
	}
	return &s, nil
}

func (r *Repository) CreateSupplier(ctx context.Context, s domain.Supplier) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO suppliers (id, business_id, name, contact_name, email, phone, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`, s.ID, s.BusinessID, s.Name, s.ContactName, s.Email, s.Phone, s.IsActive)
	if err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

func (r *Repository) GetSupplier(ctx context.Context, id string) (*domain.Supplier, error) {
	return scanSupplier(r.db.QueryRow(ctx, "SELECT "+supplierCols+" FROM suppliers WHERE id = $1", id))
}

func (r *Repository) ListSuppliers(ctx context.Context, businessID string, isActive *bool) ([]domain.Supplier, error) {
	q := "SELECT " + supplierCols + " FROM suppliers WHERE business_id = $1"
	args := []any{businessID}
	if isActive != nil {
		args = append(args, *isActive)
		q += fmt.Sprintf(" AND is_active = $%d", len(args))
	}
	q += " ORDER BY name"

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var out []domain.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateSupplier(ctx context.Context, id string, req domain.UpdateSupplierRequest) (*domain.Supplier, error) {
	sets := []string{}
	args := []any{id}
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.ContactName != nil {
		add("contact_name", *req.ContactName)
	}
	if req.Email != nil {
		add("email", *req.Email)
	}
	if req.Phone != nil {
		add("phone", *req.Phone)
	}
	if req.IsActive != nil {
		add("is_active", *req.IsActive)
	}
	if len(sets) == 0 {
		return r.GetSupplier(ctx, id)
	}
	add("updated_at", time.Now().UTC())

	q := fmt.Sprintf("UPDATE suppliers SET %s WHERE id = $1 RETURNING %s",
		strings.Join(sets, ", "), supplierCols)
	return scanSupplier(r.db.QueryRow(ctx, q, args...))
}

func (r *Repository) DeleteSupplier(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM suppliers WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const poCols = "id, business_id, order_number, supplier_id, status, items, total_amount, order_date, created_by, created_at, updated_at"

func scanPO(row pgx.Row) (*domain.PurchaseOrder, error) {
	var po domain.PurchaseOrder
	err := row.Scan(&po.ID, &po.BusinessID, &po.OrderNumber, &po.SupplierID, &po.Status,
		&po.Items, &po.TotalAmount, &po.OrderDate, &po.CreatedBy, &po.CreatedAt, &po.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan purchase order: %w", err)
	}
	return &po, nil
}

func (r *Repository) CreatePurchaseOrder(ctx context.Context, po domain.PurchaseOrder) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO purchase_orders (id, business_id, order_number, supplier_id, status, items, total_amount, order_date, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`, po.ID, po.BusinessID, po.OrderNumber, po.SupplierID, po.Status, po.Items,
		po.TotalAmount, po.OrderDate, po.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert purchase order: %w", err)
	}
	return nil
}

func (r *Repository) GetPurchaseOrder(ctx context.Context, id string) (*domain.PurchaseOrder, error) {
	return scanPO(r.db.QueryRow(ctx, "SELECT "+poCols+" FROM purchase_orders WHERE id = $1", id))
}

func (r *Repository) ListPurchaseOrders(ctx context.Context, businessID, supplierID, status string) ([]domain.PurchaseOrder, error) {
	q := "SELECT " + poCols + " FROM purchase_orders WHERE business_id = $1"
	args := []any{businessID}
	if supplierID != "" {
		args = append(args, supplierID)
		q += fmt.Sprintf(" AND supplier_id = $%d", len(args))
	}
	if status != "" {
		args = append(args, status)
		q += fmt.Sprintf(" AND status = $%d", len(args))
	}
	q += " ORDER BY order_date DESC"

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()

	var out []domain.PurchaseOrder
	for rows.Next() {
		po, err := scanPO(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *po)
	}
	return out, rows.Err()
}

func (r *Repository) UpdatePurchaseOrder(ctx context.Context, po domain.PurchaseOrder) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE purchase_orders SET status = $2, items = $3, updated_at = NOW() WHERE id = $1
	`, po.ID, po.Status, po.Items)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) ReceivePurchaseOrder(ctx context.Context, po domain.PurchaseOrder, txs []domain.InventoryTransaction) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, t := range txs {
		if _, err := tx.Exec(ctx, `
			UPDATE inventory_items SET current_stock = current_stock + $2, updated_at = NOW() WHERE id = $1
		`, t.InventoryItemID, t.QuantityChange); err != nil {
			return fmt.Errorf("bump stock: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO inventory_transactions (id, business_id, inventory_item_id, type, quantity_change, quantity_after, reason, performed_by, created_at)
			SELECT $1, $2, $3, $4, $5, current_stock, $6, $7, NOW() FROM inventory_items WHERE id = $3
		`, t.ID, t.BusinessID, t.InventoryItemID, t.Type, t.QuantityChange, t.Reason, t.PerformedBy); err != nil {
			return fmt.Errorf("insert restock transaction: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `
		UPDATE purchase_orders SET status = $2, items = $3, updated_at = NOW() WHERE id = $1
	`, po.ID, po.Status, po.Items); err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *Repository) Valuation(ctx context.Context, businessID string) (int, int, float64, map[string]float64, error) {
	var totalItems, outOfStock int
	var totalValue float64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE current_stock <= 0),
		       COALESCE(SUM(current_stock * unit_cost), 0)
		FROM inventory_items WHERE business_id = $1
	`, businessID).Scan(&totalItems, &outOfStock, &totalValue)
	if err != nil {
		return 0, 0, 0, nil, fmt.Errorf("valuation totals: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT COALESCE(category, 'uncategorized'), SUM(current_stock * unit_cost)
		FROM inventory_items WHERE business_id = $1 GROUP BY 1
	`, businessID)
	if err != nil {
		return 0, 0, 0, nil, fmt.Errorf("valuation by category: %w", err)
	}
	defer rows.Close()

	byCategory := map[string]float64{}
	for rows.Next() {
		var cat string
		var v float64
		if err := rows.Scan(&cat, &v); err != nil {
			return 0, 0, 0, nil, fmt.Errorf("scan valuation: %w", err)
		}
		byCategory[cat] = v
	}
	return totalItems, outOfStock, totalValue, byCategory, rows.Err()
}

func (r *Repository) TopValueItems(ctx context.Context, businessID string, limit int) ([]domain.InventoryItem, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+itemCols+" FROM inventory_items WHERE business_id = $1 ORDER BY current_stock * unit_cost DESC LIMIT $2",
		businessID, limit)
	if err != nil {
		return nil, fmt.Errorf("top value items: %w", err)
	}
	defer rows.Close()

	var out []domain.InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}
