package request

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the checkout payload submitted to the backend. Subtotals and
// the grand total are recomputed from price and quantity when the order
// is built, never copied from upstream state.
type Order struct {
	CustomerID  string          `validate:"required"          json:"customerId"`
	Email       string          `validate:"required,email"    json:"email"`
	Items       []OrderItem     `validate:"required,min=1,dive" json:"items"`
	Total       decimal.Decimal `validate:"required"          json:"total"`
	SubmittedAt time.Time       `validate:"required"          json:"submittedAt"`
}

type OrderItem struct {
	ProductID string          `validate:"required" json:"productId"`
	Name      string          `validate:"required" json:"name"`
	Price     decimal.Decimal `validate:"required" json:"price"`
	Quantity  int32           `validate:"required,gte=1" json:"quantity"`
	Subtotal  decimal.Decimal `validate:"required" json:"subtotal"`
}
