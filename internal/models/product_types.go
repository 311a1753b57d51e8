package models

import (
	"time"
)

// Product is the model for the 'shinji_products' table, joined with its
// category name and aggregated image URLs for the listing/search endpoints.
// Nullable join columns use pointers for clean JSON serialization.
type Product struct {
	ID                 int64     `json:"id" db:"id"`
	Title              string    `json:"title" db:"title"`
	Description        string    `json:"description" db:"description"`
	Price              float64   `json:"price" db:"price"`
	CategoryID         int64     `json:"category_id" db:"category_id"`
	SKU                string    `json:"sku" db:"sku"`
	DiscountPercentage float64   `json:"discount_percentage" db:"discount_percentage"`
	Rating             float64   `json:"rating" db:"rating"`
	Stock              int       `json:"stock" db:"stock"`
	Brand              string    `json:"brand" db:"brand"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`

	// Joins (not columns of the products table)
	CategoryName *string  `json:"category_name" db:"-"`
	Images       []string `json:"images" db:"-"`
}

// NewProduct carries the fields needed to insert a product row.
type NewProduct struct {
	Title              string
	Description        string
	Price              float64
	CategoryID         int64
	SKU                string
	DiscountPercentage float64
	Rating             float64
	Stock              int
	Brand              string
}

// ProductQuery narrows the paginated listing.
type ProductQuery struct {
	CategoryID *int64
	Limit      int
	Offset     int
}
