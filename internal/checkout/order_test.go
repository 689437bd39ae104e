package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/asif-kamal/storefront/internal/cart"
	inErrors "github.com/asif-kamal/storefront/internal/errors"
	"github.com/asif-kamal/storefront/internal/token"
)

func TestBuildOrder(t *testing.T) {
	identity := token.Identity{ID: "user-1", Email: "jane@example.com", Name: "Jane Doe"}

	tests := []struct {
		name        string
		input       func() (cart.Cart, token.Identity)
		expectedErr error
	}{
		{
			name: "given empty cart should return ErrEmptyCart",
			input: func() (cart.Cart, token.Identity) {
				return cart.Cart{}, identity
			},
			expectedErr: inErrors.ErrEmptyCart,
		},
		{
			name: "given identity without id should return ErrNoIdentity",
			input: func() (cart.Cart, token.Identity) {
				crt := cart.Cart{}
				crt.AddItem(cart.Item{ID: "1", Name: "Mouse", Price: decimal.NewFromFloat(34.99), Quantity: 1})
				return crt, token.Identity{Email: "jane@example.com"}
			},
			expectedErr: inErrors.ErrNoIdentity,
		},
		{
			name: "given identity without email should return ErrNoIdentity",
			input: func() (cart.Cart, token.Identity) {
				crt := cart.Cart{}
				crt.AddItem(cart.Item{ID: "1", Name: "Mouse", Price: decimal.NewFromFloat(34.99), Quantity: 1})
				return crt, token.Identity{ID: "user-1"}
			},
			expectedErr: inErrors.ErrNoIdentity,
		},
		{
			name: "given item with blank name should return ErrInvalidCartItem",
			input: func() (cart.Cart, token.Identity) {
				crt := cart.Cart{Items: []cart.Item{
					{ID: "1", Name: "   ", Price: decimal.NewFromFloat(34.99), Quantity: 1},
				}}
				return crt, identity
			},
			expectedErr: inErrors.ErrInvalidCartItem,
		},
		{
			name: "given item with non-positive price should return ErrInvalidCartItem",
			input: func() (cart.Cart, token.Identity) {
				crt := cart.Cart{Items: []cart.Item{
					{ID: "1", Name: "Mouse", Price: decimal.Zero, Quantity: 1},
				}}
				return crt, identity
			},
			expectedErr: inErrors.ErrInvalidCartItem,
		},
		{
			name: "given item with non-positive quantity should return ErrInvalidCartItem",
			input: func() (cart.Cart, token.Identity) {
				crt := cart.Cart{Items: []cart.Item{
					{ID: "1", Name: "Mouse", Price: decimal.NewFromFloat(34.99), Quantity: 0},
				}}
				return crt, identity
			},
			expectedErr: inErrors.ErrInvalidCartItem,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			crt, id := test.input()

			_, err := BuildOrder(crt, id)

			assert.ErrorIs(t, err, test.expectedErr)
		})
	}
}

func TestBuildOrderTotals(t *testing.T) {
	crt := cart.Cart{}
	crt.AddItem(cart.Item{ID: "42", Name: "Mouse", Price: decimal.NewFromFloat(34.99), Quantity: 2})
	identity := token.Identity{ID: "user-1", Email: "jane@example.com"}

	order, err := BuildOrder(crt, identity)

	assert.NoError(t, err)
	assert.Equal(t, "user-1", order.CustomerID)
	assert.Equal(t, "jane@example.com", order.Email)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, "42", order.Items[0].ProductID)
	assert.Equal(t, "69.98", order.Items[0].Subtotal.String())
	assert.Equal(t, "69.98", order.Total.String())
	assert.False(t, order.SubmittedAt.IsZero())
}
