package errors

import (
	"errors"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrNoSession        = errors.New("missing session")
	ErrNoToken          = errors.New("no token stored")
	ErrTokenInvalid     = errors.New("invalid token")
	ErrReauthenticate   = errors.New("authentication expired, please log in again")
	ErrForbidden        = errors.New("you do not have permission to perform this action")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNoIdentity       = errors.New("identity is unavailable")
	ErrInvalidCartItem  = errors.New("cart contains an invalid item")
	ErrOrderEncoding    = errors.New("failed formatting order payload")
	ErrCheckoutInFlight = errors.New("a checkout is already in progress")
	ErrItemNotFound     = errors.New("item is not in the cart")
)

func HandleError(err error, span trace.Span) {
	if err == nil {
		return
	}
	span.AddEvent(err.Error())
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
}
