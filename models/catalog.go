package models

import "time"

// Product categories used by the upstream catalog.
const (
	CategoryMakeup = "maquillaje"
	CategoryBody   = "cuerpo"
	CategorySkin   = "piel"
)

// Availability labels on a retailer price entry.
const (
	AvailabilityInStock    = "in-stock"
	AvailabilityLowStock   = "low-stock"
	AvailabilityOutOfStock = "out-of-stock"
)

// Price is one retailer's offer for a product.
type Price struct {
	ID           string   `json:"id"`
	ProductID    string   `json:"product_id"`
	Site         string   `json:"site"`
	Price        float64  `json:"price"`
	Currency     string   `json:"currency"`
	Availability string   `json:"availability"`
	URL          string   `json:"url"`
	Shipping     *float64 `json:"shipping,omitempty"`
}

type ProductImage struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order"`
}

type Product struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Brand        string         `json:"brand"`
	Category     string         `json:"category"`
	Subcategory  *string        `json:"subcategory,omitempty"`
	Description  string         `json:"description"`
	Image        string         `json:"image"`
	Stock        int            `json:"stock"`
	SKU          *string        `json:"sku,omitempty"`
	IsActive     bool           `json:"is_active"`
	Rating       float64        `json:"rating"`
	Reviews      int            `json:"reviews"`
	Prices       []Price        `json:"prices"`
	Images       []ProductImage `json:"images"`
	PrimaryImage *string        `json:"primary_image,omitempty"`
}

// ProductList is the upstream's paginated list envelope.
type ProductList struct {
	Items []Product `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Size  int       `json:"size"`
	Pages int       `json:"pages"`
}

type Brand struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
