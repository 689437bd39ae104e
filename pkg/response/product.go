package response

import (
	"github.com/shopspring/decimal"
)

type Product struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Brand        string          `json:"brand"`
	Category     string          `json:"category"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	PriceRange   string          `json:"priceRange,omitempty"`
	Availability string          `json:"availability,omitempty"`
	ImageURL     string          `json:"imageUrl,omitempty"`
}

type ProductPage struct {
	Content       []Product `json:"content"`
	TotalPages    int       `json:"totalPages"`
	TotalElements int64     `json:"totalElements"`
}
