package domain

import "time"

type Review struct {
	ID           string    `json:"id"`
	BusinessID   string    `json:"business_id"`
	MenuItemID   *string   `json:"menu_item_id"`
	Rating       int       `json:"rating"`
	Comment      *string   `json:"comment"`
	CustomerName *string   `json:"customer_name"`
	CreatedAt    time.Time `json:"created_at"`
}

type CreateReviewRequest struct {
	MenuItemID   *string `json:"menu_item_id" binding:"omitempty,uuid"`
	Rating       int     `json:"rating" binding:"required,gte=1,lte=5"`
	Comment      *string `json:"comment"`
	CustomerName *string `json:"customer_name"`
}

type ReviewStats struct {
	BusinessID    string      `json:"business_id"`
	AverageRating float64     `json:"average_rating"`
	ReviewCount   int         `json:"review_count"`
	Distribution  map[int]int `json:"distribution"` // rating -> count
}
