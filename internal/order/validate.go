package order

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest is the checkout submission body.
type CreateOrderRequest struct {
	Client          ClientInfo      `json:"client"`
	ShippingAddress string          `json:"shippingAddress"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	PaymentMethod   string          `json:"paymentMethod"`
	Items           []ItemRequest   `json:"items"`
}

type ClientInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type ItemRequest struct {
	ProductID int             `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// ValidationError carries every failure found in a submission so the client
// can fix them all in one round trip. Nothing is persisted when it is
// returned.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "invalid order request: " + strings.Join(e.Errors, "; ")
}

// ValidateCreate checks a raw checkout submission and returns a normalized
// copy: names and address trimmed, email lower-cased, phone reduced to
// digits. It is a pure function; the input is not modified.
func ValidateCreate(req CreateOrderRequest) (CreateOrderRequest, *ValidationError) {
	out := req
	out.Client.Name = strings.TrimSpace(req.Client.Name)
	out.Client.Email = strings.ToLower(strings.TrimSpace(req.Client.Email))
	out.Client.Phone = digitsOnly(req.Client.Phone)
	out.ShippingAddress = strings.TrimSpace(req.ShippingAddress)
	out.PaymentMethod = strings.TrimSpace(req.PaymentMethod)
	out.Items = append([]ItemRequest(nil), req.Items...)

	var errs []string
	if out.Client.Name == "" {
		errs = append(errs, "client name is required")
	}
	if out.Client.Email == "" {
		errs = append(errs, "client email is required")
	}
	if out.Client.Phone == "" {
		errs = append(errs, "client phone is required")
	}
	if out.ShippingAddress == "" {
		errs = append(errs, "shipping address is required")
	}
	if len(out.Items) == 0 {
		errs = append(errs, "order must contain at least one item")
	}
	for i, item := range out.Items {
		if item.ProductID <= 0 {
			errs = append(errs, itemError(i, "product id must be positive"))
		}
		if item.Quantity <= 0 {
			errs = append(errs, itemError(i, "quantity must be positive"))
		}
		if !item.Price.IsPositive() {
			errs = append(errs, itemError(i, "unit price must be positive"))
		}
	}
	if !out.TotalAmount.IsPositive() {
		errs = append(errs, "total amount must be positive")
	}

	if len(errs) > 0 {
		return CreateOrderRequest{}, &ValidationError{Errors: errs}
	}
	return out, nil
}

func itemError(index int, msg string) string {
	return "item " + strconv.Itoa(index+1) + ": " + msg
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
