package domain

import "time"

type MenuCategory struct {
	ID           string    `json:"id"`
	BusinessID   string    `json:"business_id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	ParentID     *string   `json:"parent_id"`
	DisplayOrder int       `json:"display_order"`
	IconURL      *string   `json:"icon_url"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type MenuItemVariant struct {
	Name            string  `json:"name"`
	PriceAdjustment float64 `json:"price_adjustment"`
	SKUSuffix       string  `json:"sku_suffix,omitempty"`
}

// MenuItemModifier is an optional add-on (extra cheese, oat milk) priced on
// top of the item.
type MenuItemModifier struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type MenuItem struct {
	ID          string             `json:"id"`
	BusinessID  string             `json:"business_id"`
	CategoryID  *string            `json:"category_id"`
	Name        string             `json:"name"`
	Description *string            `json:"description"`
	Price       float64            `json:"price"`
	Cost        *float64           `json:"cost"`
	ImageURL    *string            `json:"image_url"`
	SKU         *string            `json:"sku"`
	IsAvailable bool               `json:"is_available"`
	PrepTime    *int               `json:"prep_time"` // minutes
	Calories    *int               `json:"calories"`
	Allergens   []string           `json:"allergens"`
	Tags        []string           `json:"tags"`
	Variants    []MenuItemVariant  `json:"variants"`
	Modifiers   []MenuItemModifier `json:"modifiers"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// MenuItemDetails is the single-item response: joined category plus the
// computed profit margin.
type MenuItemDetails struct {
	MenuItem
	Category     *MenuCategory `json:"category,omitempty"`
	ProfitMargin *float64      `json:"profit_margin"`
}

type CreateMenuCategoryRequest struct {
	BusinessID   string  `json:"business_id" binding:"required,uuid"`
	Name         string  `json:"name" binding:"required,max=255"`
	Description  *string `json:"description"`
	ParentID     *string `json:"parent_id" binding:"omitempty,uuid"`
	DisplayOrder int     `json:"display_order" binding:"gte=0"`
	IconURL      *string `json:"icon_url"`
	IsActive     *bool   `json:"is_active"`
}

type UpdateMenuCategoryRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=255"`
	Description  *string `json:"description"`
	ParentID     *string `json:"parent_id" binding:"omitempty,uuid"`
	DisplayOrder *int    `json:"display_order" binding:"omitempty,gte=0"`
	IconURL      *string `json:"icon_url"`
	IsActive     *bool   `json:"is_active"`
}

type CreateMenuItemRequest struct {
	BusinessID  string             `json:"business_id" binding:"required,uuid"`
	CategoryID  *string            `json:"category_id" binding:"omitempty,uuid"`
	Name        string             `json:"name" binding:"required,max=255"`
	Description *string            `json:"description"`
	Price       float64            `json:"price" binding:"gte=0"`
	Cost        *float64           `json:"cost" binding:"omitempty,gte=0"`
	ImageURL    *string            `json:"image_url"`
	SKU         *string            `json:"sku" binding:"omitempty,max=100"`
	IsAvailable *bool              `json:"is_available"`
	PrepTime    *int               `json:"prep_time" binding:"omitempty,gte=0"`
	Calories    *int               `json:"calories" binding:"omitempty,gte=0"`
	Allergens   []string           `json:"allergens"`
	Tags        []string           `json:"tags"`
	Variants    []MenuItemVariant  `json:"variants"`
	Modifiers   []MenuItemModifier `json:"modifiers"`
}

type UpdateMenuItemRequest struct {
	CategoryID  *string             `json:"category_id" binding:"omitempty,uuid"`
	Name        *string             `json:"name" binding:"omitempty,max=255"`
	Description *string             `json:"description"`
	Price       *float64            `json:"price" binding:"omitempty,gte=0"`
	Cost        *float64            `json:"cost" binding:"omitempty,gte=0"`
	ImageURL    *string             `json:"image_url"`
	SKU         *string             `json:"sku" binding:"omitempty,max=100"`
	IsAvailable *bool               `json:"is_available"`
	PrepTime    *int                `json:"prep_time" binding:"omitempty,gte=0"`
	Calories    *int                `json:"calories" binding:"omitempty,gte=0"`
	Allergens   *[]string           `json:"allergens"`
	Tags        *[]string           `json:"tags"`
	Variants    *[]MenuItemVariant  `json:"variants"`
	Modifiers   *[]MenuItemModifier `json:"modifiers"`
}

type BulkMenuItemUpdateRequest struct {
	ItemIDs []string              `json:"item_ids" binding:"required,min=1,dive,uuid"`
	Updates UpdateMenuItemRequest `json:"updates"`
}

type MenuItemFilter struct {
	BusinessID  string
	CategoryID  string
	IsAvailable *bool
	Search      string
	Tags        []string
	MinPrice    *float64
	MaxPrice    *float64
	Limit       int
	Offset      int
}
