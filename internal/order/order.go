package order

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// monetary fields must serialize as exact decimal numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Order is the durable record of a checkout submission. It owns its items;
// after creation only the status field ever changes.
type Order struct {
	ID              string          `json:"id"`
	UserID          *int            `json:"userId,omitempty"`
	ClientName      string          `json:"clientName"`
	ClientEmail     string          `json:"clientEmail"`
	ClientPhone     string          `json:"clientPhone"`
	ShippingAddress string          `json:"shippingAddress"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          Status          `json:"status"`
	StatusLabel     string          `json:"statusLabel,omitempty"`
	PaymentMethod   string          `json:"paymentMethod"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	Items           []OrderItem     `json:"items"`
}

// OrderItem is one immutable line of an order. ProductName and ProductImage
// are snapshotted from the catalog at creation time so historical orders do
// not drift when the catalog entry is later edited or removed.
type OrderItem struct {
	ID           int              `json:"id"`
	OrderID      string           `json:"orderId"`
	ProductID    int              `json:"productId"`
	Quantity     int              `json:"quantity"`
	UnitPrice    decimal.Decimal  `json:"unitPrice"`
	TotalPrice   decimal.Decimal  `json:"totalPrice"`
	ProductName  string           `json:"-"`
	ProductImage string           `json:"-"`
	Product      *ProductSnapshot `json:"product,omitempty"`
}

// ProductSnapshot is the display block nested under each item in API
// responses. Name and image come from the snapshot taken at purchase time;
// price and presentation reflect the current catalog entry.
type ProductSnapshot struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	ImageURL     string          `json:"image_url,omitempty"`
	Presentation string          `json:"presentation,omitempty"`
}
