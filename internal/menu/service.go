package menu

import (
	"context"
	"math"

	"github.com/google/uuid"

	"dashpos/internal/domain"
)

type eventBus interface {
	Publish(ctx context.Context, businessID, event string, data any)
}

type Service struct {
	repo   RepositoryInterface
	events eventBus
}

func NewService(repo RepositoryInterface, events eventBus) *Service {
	return &Service{repo: repo, events: events}
}

// ProfitMargin returns (price-cost)/price*100 rounded to two decimals, or nil
// when the cost is unknown or the price is zero.
func ProfitMargin(price float64, cost *float64) *float64 {
	if cost == nil || *cost == 0 || price <= 0 {
		return nil
	}
	m := (price - *cost) / price * 100
	m = math.Round(m*100) / 100
	return &m
}

func (s *Service) CreateCategory(ctx context.Context, req domain.CreateMenuCategoryRequest) (*domain.MenuCategory, error) {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	c := domain.MenuCategory{
		ID:           uuid.New().String(),
		BusinessID:   req.BusinessID,
		Name:         req.Name,
		Description:  req.Description,
		ParentID:     req.ParentID,
		DisplayOrder: req.DisplayOrder,
		IconURL:      req.IconURL,
		IsActive:     active,
	}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return s.repo.GetCategory(ctx, c.ID)
}

// category loads a category and hides rows belonging to other businesses.
func (s *Service) category(ctx context.Context, businessID, id string) (*domain.MenuCategory, error) {
	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (s *Service) item(ctx context.Context, businessID, id string) (*domain.MenuItem, error) {
	it, err := s.repo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if it.BusinessID != businessID {
		return nil, domain.ErrNotFound
	}
	return it, nil
}

func (s *Service) GetCategory(ctx context.Context, businessID, id string) (*domain.MenuCategory, error) {
	return s.category(ctx, businessID, id)
}

func (s *Service) ListCategories(ctx context.Context, businessID string, parentID *string, isActive *bool) ([]domain.MenuCategory, error) {
	return s.repo.ListCategories(ctx, businessID, parentID, isActive)
}

func (s *Service) UpdateCategory(ctx context.Context, businessID, id string, req domain.UpdateMenuCategoryRequest) (*domain.MenuCategory, error) {
	if _, err := s.category(ctx, businessID, id); err != nil {
		return nil, err
	}
	return s.repo.UpdateCategory(ctx, id, req)
}

func (s *Service) DeleteCategory(ctx context.Context, businessID, id string) error {
	if _, err := s.category(ctx, businessID, id); err != nil {
		return err
	}
	return s.repo.DeleteCategory(ctx, id)
}

func (s *Service) CreateItem(ctx context.Context, req domain.CreateMenuItemRequest) (*domain.MenuItem, error) {
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	it := domain.MenuItem{
		ID:          uuid.New().String(),
		BusinessID:  req.BusinessID,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Cost:        req.Cost,
		ImageURL:    req.ImageURL,
		SKU:         req.SKU,
		IsAvailable: available,
		PrepTime:    req.PrepTime,
		Calories:    req.Calories,
		Allergens:   emptyIfNil(req.Allergens),
		Tags:        emptyIfNil(req.Tags),
		Variants:    req.Variants,
		Modifiers:   req.Modifiers,
	}
	if it.Variants == nil {
		it.Variants = []domain.MenuItemVariant{}
	}
	if it.Modifiers == nil {
		it.Modifiers = []domain.MenuItemModifier{}
	}
	if err := s.repo.CreateItem(ctx, it); err != nil {
		return nil, err
	}
	created, err := s.repo.GetItem(ctx, it.ID)
	if err != nil {
		return nil, err
	}
	s.events.Publish(ctx, it.BusinessID, domain.EventMenuUpdate,
		map[string]any{"action": "item_created", "item": created})
	return created, nil
}

func (s *Service) GetItemDetails(ctx context.Context, businessID, id string) (*domain.MenuItemDetails, error) {
	it, err := s.item(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	d := &domain.MenuItemDetails{
		MenuItem:     *it,
		ProfitMargin: ProfitMargin(it.Price, it.Cost),
	}
	if it.CategoryID != nil {
		if cat, err := s.repo.GetCategory(ctx, *it.CategoryID); err == nil {
			d.Category = cat
		}
	}
	return d, nil
}

func (s *Service) ListItems(ctx context.Context, f domain.MenuItemFilter) ([]domain.MenuItem, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}
	return s.repo.ListItems(ctx, f)
}

func (s *Service) UpdateItem(ctx context.Context, businessID, id string, req domain.UpdateMenuItemRequest) (*domain.MenuItem, error) {
	if _, err := s.item(ctx, businessID, id); err != nil {
		return nil, err
	}
	it, err := s.repo.UpdateItem(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.events.Publish(ctx, it.BusinessID, domain.EventMenuUpdate,
		map[string]any{"action": "item_updated", "item": it})
	return it, nil
}

// DeleteItem defaults to a soft delete: the row stays for reporting, the item
// just disappears from active menus.
func (s *Service) DeleteItem(ctx context.Context, businessID, id string, hard bool) error {
	it, err := s.item(ctx, businessID, id)
	if err != nil {
		return err
	}
	if hard {
		err = s.repo.HardDeleteItem(ctx, id)
	} else {
		err = s.repo.SoftDeleteItem(ctx, id)
	}
	if err != nil {
		return err
	}
	s.events.Publish(ctx, it.BusinessID, domain.EventMenuUpdate,
		map[string]any{"action": "item_deleted", "item_id": id, "hard": hard})
	return nil
}

func (s *Service) BulkUpdateItems(ctx context.Context, businessID string, req domain.BulkMenuItemUpdateRequest) (int, error) {
	n, err := s.repo.BulkUpdateItems(ctx, businessID, req.ItemIDs, req.Updates)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.events.Publish(ctx, businessID, domain.EventMenuUpdate,
			map[string]any{"action": "items_bulk_updated", "item_ids": req.ItemIDs})
	}
	return n, nil
}

// DuplicateItem copies every property of an existing item into a new row,
// optionally under a new name.
func (s *Service) DuplicateItem(ctx context.Context, businessID, id string, newName string) (*domain.MenuItem, error) {
	src, err := s.item(ctx, businessID, id)
	if err != nil {
		return nil, err
	}
	dup := *src
	dup.ID = uuid.New().String()
	if newName != "" {
		dup.Name = newName
	} else {
		dup.Name = src.Name + " (copy)"
	}
	dup.SKU = nil // SKUs are unique per business
	if err := s.repo.CreateItem(ctx, dup); err != nil {
		return nil, err
	}
	return s.repo.GetItem(ctx, dup.ID)
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
