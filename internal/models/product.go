package models

import (
	"time"

	"github.com/lib/pq"
)

// Product availability values.
const (
	ProductInStock    = "IN_STOCK"
	ProductOutOfStock = "OUT_OF_STOCK"
	ProductPreorder   = "PREORDER"
	ProductDiscontinued = "DISCONTINUED"
)

// Product is a catalog entry owned by exactly one user. search_count is
// incremented whenever the product appears in a search result set.
type Product struct {
	ID             int64          `db:"id" json:"id"`
	UserID         int64          `db:"user_id" json:"user_id"`
	Name           string         `db:"name" json:"name"`
	Description    string         `db:"description" json:"description"`
	Category       string         `db:"category" json:"category"`
	Price          float64        `db:"price" json:"price"`
	Currency       string         `db:"currency" json:"currency"`
	Images         pq.StringArray `db:"images" json:"images"`
	Tags           pq.StringArray `db:"tags" json:"tags"`
	Specifications []byte         `db:"specifications" json:"-"`
	Availability   string         `db:"availability" json:"availability"`
	SearchCount    int64          `db:"search_count" json:"search_count"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// ValidAvailability reports whether s is one of the availability enum values.
func ValidAvailability(s string) bool {
	switch s {
	case ProductInStock, ProductOutOfStock, ProductPreorder, ProductDiscontinued:
		return true
	}
	return false
}

// CategoryCount is one row of GET /crystal/products/categories.
type CategoryCount struct {
	Category string `db:"category" json:"category"`
	Count    int64  `db:"count" json:"count"`
}

// ScoredProduct pairs a search candidate with its relevance score.
type ScoredProduct struct {
	Product *Product `json:"product"`
	Score   float64  `json:"score"`
}
