package controller

import (
	"errors"
	"net/http"

	"github.com/asif-kamal/storefront/internal/backend"
	inErrors "github.com/asif-kamal/storefront/internal/errors"
)

// statusOf maps a failed operation to the envelope status code. Backend
// statuses pass through unmodified; everything else is classified by
// sentinel.
func statusOf(err error) int {
	statusErr := &backend.StatusError{}
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	switch {
	case errors.Is(err, inErrors.ErrReauthenticate), errors.Is(err, inErrors.ErrNoToken):
		return http.StatusUnauthorized
	case errors.Is(err, inErrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, inErrors.ErrCheckoutInFlight):
		return http.StatusConflict
	case errors.Is(err, inErrors.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, inErrors.ErrEmptyCart),
		errors.Is(err, inErrors.ErrInvalidCartItem),
		errors.Is(err, inErrors.ErrNoIdentity),
		errors.Is(err, inErrors.ErrOrderEncoding):
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}
