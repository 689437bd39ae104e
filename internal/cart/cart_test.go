package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAddItem(t *testing.T) {
	tests := []struct {
		name             string
		input            func() Cart
		expectedCount    int32
		expectedItems    int
		expectedQuantity int32
	}{
		{
			name: "given new item should append it",
			input: func() Cart {
				crt := Cart{}
				crt.AddItem(Item{ID: "1", Name: "Mouse", Price: decimal.NewFromFloat(34.99), Quantity: 1})
				return crt
			},
			expectedCount:    1,
			expectedItems:    1,
			expectedQuantity: 1,
		},
		{
			name: "given existing item should increment quantity not duplicate",
			input: func() Cart {
				crt := Cart{}
				crt.AddItem(Item{ID: "1", Name: "Mouse", Price: decimal.NewFromFloat(34.99), Quantity: 1})
				crt.AddItem(Item{ID: "1", Name: "Mouse", Price: decimal.NewFromFloat(34.99), Quantity: 2})
				return crt
			},
			expectedCount:    3,
			expectedItems:    1,
			expectedQuantity: 3,
		},
		{
			name: "given item with zero quantity should default to one",
			input: func() Cart {
				crt := Cart{}
				crt.AddItem(Item{ID: "1", Name: "Mouse", Price: decimal.NewFromFloat(34.99)})
				return crt
			},
			expectedCount:    1,
			expectedItems:    1,
			expectedQuantity: 1,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			crt := test.input()

			assert.Equal(t, test.expectedCount, crt.Count())
			assert.Len(t, crt.Items, test.expectedItems)
			assert.Equal(t, test.expectedQuantity, crt.Items[0].Quantity)
		})
	}
}

func TestChangeQuantity(t *testing.T) {
	tests := []struct {
		name          string
		quantity      int32
		delta         int32
		expectedHas   bool
		expectedCount int32
	}{
		{name: "given positive delta should increment", quantity: 1, delta: 2, expectedHas: true, expectedCount: 3},
		{name: "given negative delta above zero should decrement", quantity: 3, delta: -1, expectedHas: true, expectedCount: 2},
		{name: "given delta reaching zero should remove the item", quantity: 1, delta: -1, expectedHas: false, expectedCount: 0},
		{name: "given delta below zero should remove the item", quantity: 2, delta: -5, expectedHas: false, expectedCount: 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			crt := Cart{}
			crt.AddItem(Item{ID: "1", Name: "Mouse", Price: decimal.NewFromFloat(34.99), Quantity: test.quantity})

			crt.ChangeQuantity("1", test.delta)

			assert.Equal(t, test.expectedHas, crt.Has("1"))
			assert.Equal(t, test.expectedCount, crt.Count())
		})
	}

	t.Run("given unknown id should not change the cart", func(t *testing.T) {
		crt := Cart{}
		crt.AddItem(Item{ID: "1", Name: "Mouse", Price: decimal.NewFromFloat(34.99), Quantity: 2})

		crt.ChangeQuantity("missing", 1)

		assert.Equal(t, int32(2), crt.Count())
	})
}

func TestRemoveItem(t *testing.T) {
	crt := Cart{}
	crt.AddItem(Item{ID: "1", Name: "Mouse", Price: decimal.NewFromFloat(34.99), Quantity: 1})
	crt.AddItem(Item{ID: "2", Name: "Keyboard", Price: decimal.NewFromFloat(59.99), Quantity: 1})

	crt.RemoveItem("1")

	assert.False(t, crt.Has("1"))
	assert.True(t, crt.Has("2"))
	assert.Equal(t, int32(1), crt.Count())

	crt.RemoveItem("missing")
	assert.Equal(t, int32(1), crt.Count())
}

func TestClear(t *testing.T) {
	crt := Cart{}
	crt.AddItem(Item{ID: "1", Name: "Mouse", Price: decimal.NewFromFloat(34.99), Quantity: 3})

	crt.Clear()

	assert.Empty(t, crt.Items)
	assert.Equal(t, int32(0), crt.Count())
	assert.True(t, crt.Total().IsZero())
}

func TestTotal(t *testing.T) {
	tests := []struct {
		name     string
		input    func() Cart
		expected string
	}{
		{
			name:     "given empty cart should be zero",
			input:    func() Cart { return Cart{} },
			expected: "0",
		},
		{
			name: "given single item should multiply price by quantity",
			input: func() Cart {
				crt := Cart{}
				crt.AddItem(Item{ID: "1", Name: "Mouse", Price: decimal.NewFromFloat(34.99), Quantity: 2})
				return crt
			},
			expected: "69.98",
		},
		{
			name: "given multiple items should sum rounded to two decimals",
			input: func() Cart {
				crt := Cart{}
				crt.AddItem(Item{ID: "1", Name: "Mouse", Price: decimal.NewFromFloat(34.99), Quantity: 2})
				crt.AddItem(Item{ID: "2", Name: "Keyboard", Price: decimal.NewFromFloat(59.99), Quantity: 1})
				return crt
			},
			expected: "129.97",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			crt := test.input()

			assert.Equal(t, test.expected, crt.Total().String())
		})
	}
}
