package product

import "github.com/shopspring/decimal"

// Product maps to the `products` table. Snake_case JSON tags match the
// storefront contract.
type Product struct {
	ID           int              `json:"id"`
	Name         string           `json:"name"`
	Price        decimal.Decimal  `json:"price"`
	PriceUnit    string           `json:"price_unit,omitempty"`
	ImageURL     string           `json:"image_url,omitempty"`
	OldPrice     *decimal.Decimal `json:"old_price,omitempty"`
	Discount     *int             `json:"discount,omitempty"`
	Category     string           `json:"category"`
	Description  string           `json:"description,omitempty"`
	Presentation string           `json:"presentation,omitempty"`
	Stock        int              `json:"stock"`
	IsActive     bool             `json:"is_active"`
	IsFeatured   bool             `json:"is_featured"`
	CreatedAt    string           `json:"created_at,omitempty"`
	UpdatedAt    string           `json:"updated_at,omitempty"`
}
