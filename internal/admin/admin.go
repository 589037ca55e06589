package admin

import (
	"github.com/shopspring/decimal"
)

// Stats is the dashboard headline block.
type Stats struct {
	TotalOrders  int             `json:"totalOrders"`
	NewUsers     int             `json:"newUsers"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

// RecentOrder is the condensed order row shown on the dashboard. UserName
// prefers the linked account's name and falls back to the name typed at
// checkout.
type RecentOrder struct {
	ID            string          `json:"id"`
	UserID        *int            `json:"userId,omitempty"`
	UserName      string          `json:"userName"`
	ClientEmail   string          `json:"clientEmail"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"paymentMethod"`
	CreatedAt     string          `json:"createdAt"`
}
