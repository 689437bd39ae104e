package cart

import (
	"github.com/shopspring/decimal"
)

type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int32           `json:"quantity"`
	ImageURL string          `json:"image_url,omitempty"`
	Category string          `json:"category,omitempty"`
}

// Cart holds the items selected during a session. Items keep insertion
// order and are unique by id; an item whose quantity reaches zero is
// removed rather than kept at zero.
type Cart struct {
	Items []Item `json:"items"`
}

func (crt *Cart) indexOf(id string) int {
	for i, item := range crt.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (crt Cart) Has(id string) bool {
	return crt.indexOf(id) >= 0
}

// AddItem inserts the item or, when an item with the same id already
// exists, increments its quantity instead of duplicating the entry.
func (crt *Cart) AddItem(item Item) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	if i := crt.indexOf(item.ID); i >= 0 {
		crt.Items[i].Quantity += item.Quantity
		return
	}
	crt.Items = append(crt.Items, item)
}

// ChangeQuantity adjusts the quantity of the item by delta. The result
// is clamped at zero; reaching zero removes the entry entirely.
func (crt *Cart) ChangeQuantity(id string, delta int32) {
	i := crt.indexOf(id)
	if i < 0 {
		return
	}
	quantity := crt.Items[i].Quantity + delta
	if quantity <= 0 {
		crt.RemoveItem(id)
		return
	}
	crt.Items[i].Quantity = quantity
}

func (crt *Cart) RemoveItem(id string) {
	i := crt.indexOf(id)
	if i < 0 {
		return
	}
	crt.Items = append(crt.Items[:i], crt.Items[i+1:]...)
}

func (crt *Cart) Clear() {
	crt.Items = nil
}

// Count is the sum of the quantities of all items.
func (crt Cart) Count() int32 {
	var count int32
	for _, item := range crt.Items {
		count += item.Quantity
	}
	return count
}

// Total is the sum of price*quantity across all items rounded to two
// decimal places.
func (crt Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range crt.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt32(item.Quantity)))
	}
	return total.Round(2)
}
