package checkout

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/asif-kamal/storefront/internal/cart"
	inErrors "github.com/asif-kamal/storefront/internal/errors"
	"github.com/asif-kamal/storefront/internal/token"
	"github.com/asif-kamal/storefront/pkg/request"
)

// BuildOrder turns the session cart and identity into the checkout
// payload. Each item is validated defensively and its subtotal is
// recomputed from price and quantity; the grand total is summed from
// those subtotals, never taken from the cart. Any invalid item rejects
// the whole order, there is no partial submission.
func BuildOrder(crt cart.Cart, identity token.Identity) (request.Order, error) {
	if len(crt.Items) == 0 {
		return request.Order{}, inErrors.ErrEmptyCart
	}
	if identity.ID == "" || identity.Email == "" {
		return request.Order{}, inErrors.ErrNoIdentity
	}

	items := make([]request.OrderItem, 0, len(crt.Items))
	total := decimal.Zero
	for _, item := range crt.Items {
		id := strings.TrimSpace(item.ID)
		name := strings.TrimSpace(item.Name)
		if id == "" || name == "" {
			return request.Order{}, fmt.Errorf(
				"%w: missing identifier or name",
				inErrors.ErrInvalidCartItem,
			)
		}
		if !item.Price.IsPositive() {
			return request.Order{}, fmt.Errorf(
				"%w: item=%s has non-positive price=%s",
				inErrors.ErrInvalidCartItem, id, item.Price.String(),
			)
		}
		if item.Quantity <= 0 {
			return request.Order{}, fmt.Errorf(
				"%w: item=%s has non-positive quantity=%d",
				inErrors.ErrInvalidCartItem, id, item.Quantity,
			)
		}

		subtotal := item.Price.Mul(decimal.NewFromInt32(item.Quantity)).Round(2)
		if !subtotal.IsPositive() {
			return request.Order{}, fmt.Errorf(
				"%w: item=%s has non-positive subtotal=%s",
				inErrors.ErrInvalidCartItem, id, subtotal.String(),
			)
		}

		items = append(items, request.OrderItem{
			ProductID: id,
			Name:      name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Subtotal:  subtotal,
		})
		total = total.Add(subtotal)
	}

	order := request.Order{
		CustomerID:  identity.ID,
		Email:       identity.Email,
		Items:       items,
		Total:       total.Round(2),
		SubmittedAt: time.Now(),
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(order); err != nil {
		return request.Order{}, fmt.Errorf("failed validating order with error=%w", err)
	}
	return order, nil
}
