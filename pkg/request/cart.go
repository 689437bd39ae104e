package request

import (
	"github.com/shopspring/decimal"
)

type AddCartItem struct {
	ProductID string          `validate:"required" json:"product_id"`
	Name      string          `validate:"required" json:"name"`
	Price     decimal.Decimal `validate:"required" json:"price"`
	Quantity  int32           `validate:"gte=0"    json:"quantity"`
	ImageURL  string          `json:"image_url"`
	Category  string          `json:"category"`
}

type ChangeQuantity struct {
	Delta int32 `validate:"required" json:"delta"`
}
