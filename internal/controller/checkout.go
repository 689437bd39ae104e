package controller

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/asif-kamal/storefront/internal/checkout"
	inErrors "github.com/asif-kamal/storefront/internal/errors"
	inHttp "github.com/asif-kamal/storefront/internal/http"
	"github.com/asif-kamal/storefront/internal/log"
	"github.com/asif-kamal/storefront/internal/middleware"
	"github.com/asif-kamal/storefront/internal/otel"
	"github.com/asif-kamal/storefront/internal/session"
	"github.com/asif-kamal/storefront/internal/token"
)

type CheckoutController struct {
	service checkout.Service
}

func AttachCheckoutController(router *mux.Router, service checkout.Service, tokens *token.Store) {
	controller := CheckoutController{service: service}

	subrouter := router.PathPrefix("/checkout").Subrouter()
	subrouter.Use(middleware.Auth(tokens))
	subrouter.HandleFunc("", controller.Checkout).Methods(http.MethodPost)
}

func (t CheckoutController) Checkout(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutController Checkout").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "submitting order").Logger()
	logger.Info().Msg("submitting order")
	c = logger.WithContext(c)
	sessionID, err := session.FromContext(c)
	if err != nil {
		err = fmt.Errorf("failed submitting order with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusUnauthorized,
			"message":    err.Error(),
		})
		return
	}
	confirmation, err := t.service.Checkout(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed submitting order with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusOf(err),
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(log.KeyOrderTotal, confirmation.Total.String()).Logger()
	logger.Info().Msg("submitted order")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("order confirmation sent to %s", confirmation.Email),
		"data": map[string]interface{}{
			"confirmation": confirmation,
		},
	})
}
