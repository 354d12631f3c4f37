package models

import (
	"time"
)

// Sort keys accepted by the catalog listing. Anything else falls back to
// newest-first.
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

type Service struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Duration    int     `json:"duration"`
	Images      []string `json:"images"`
	UserID      int     `json:"user_id"`
	CategoryID  int     `json:"category_id"`
	Category    struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		Slug string `json:"slug"`
	} `json:"category"`
	Steward struct {
		ID           int     `json:"id"`
		Name         string  `json:"name"`
		Rating       float64 `json:"rating"`
		TotalReviews int     `json:"total_reviews"`
	} `json:"steward"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// ServiceFilter carries the normalized catalog listing parameters. Malformed
// query values are clamped or dropped before this struct is built, never
// rejected.
type ServiceFilter struct {
	CategorySlug string
	Search       string
	MinPrice     *float64
	MaxPrice     *float64
	SortBy       string
	Page         int
	Limit        int
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

type CreateServiceRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CategoryID  int      `json:"category_id"`
	Price       float64  `json:"price"`
	Currency    string   `json:"currency"`
	Duration    int      `json:"duration"`
	Images      []string `json:"images"`
}
