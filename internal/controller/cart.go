package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/asif-kamal/storefront/internal/cart"
	inErrors "github.com/asif-kamal/storefront/internal/errors"
	inHttp "github.com/asif-kamal/storefront/internal/http"
	"github.com/asif-kamal/storefront/internal/log"
	"github.com/asif-kamal/storefront/internal/middleware"
	"github.com/asif-kamal/storefront/internal/otel"
	"github.com/asif-kamal/storefront/internal/session"
	"github.com/asif-kamal/storefront/internal/token"
	"github.com/asif-kamal/storefront/pkg/request"
)

type CartController struct {
	carts *cart.Store
}

func AttachCartController(router *mux.Router, carts *cart.Store, tokens *token.Store) {
	controller := CartController{carts: carts}

	subrouter := router.PathPrefix("/cart").Subrouter()
	subrouter.Use(middleware.Auth(tokens))
	subrouter.HandleFunc("", controller.GetCart).Methods(http.MethodGet)
	subrouter.HandleFunc("/items", controller.AddItem).Methods(http.MethodPost)
	subrouter.HandleFunc("/items/{productId}", controller.ChangeQuantity).
		Methods(http.MethodPatch)
	subrouter.HandleFunc("/items/{productId}", controller.RemoveItem).
		Methods(http.MethodDelete)
	subrouter.HandleFunc("", controller.ClearCart).Methods(http.MethodDelete)
}

func cartBody(crt cart.Cart) map[string]interface{} {
	return map[string]interface{}{
		"cart":  crt,
		"count": crt.Count(),
		"total": crt.Total(),
	}
}

func (t CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController GetCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController GetCart").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "fetching cart").Logger()
	logger.Info().Msg("fetching cart")
	c = logger.WithContext(c)
	sessionID, err := session.FromContext(c)
	if err != nil {
		err = fmt.Errorf("failed fetching cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusUnauthorized,
			"message":    err.Error(),
		})
		return
	}
	crt, err := t.carts.Get(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed fetching cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("fetched cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "fetched cart",
		"data":       cartBody(crt),
	})
}

func (t CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController AddItem").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.AddCartItem{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().
		Any(log.KeyRequestBody, reqBody).
		Str(log.KeyProductID, reqBody.ProductID).
		Logger()
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating request body").Logger()
	logger.Info().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(log.KeyProcess, "adding cart item").Logger()
	logger.Info().Msg("adding cart item")
	c = logger.WithContext(c)
	sessionID, err := session.FromContext(c)
	if err != nil {
		err = fmt.Errorf("failed adding cart item with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusUnauthorized,
			"message":    err.Error(),
		})
		return
	}
	crt, err := t.carts.Update(c, sessionID, func(crt *cart.Cart) error {
		crt.AddItem(cart.Item{
			ID:       reqBody.ProductID,
			Name:     reqBody.Name,
			Price:    reqBody.Price,
			Quantity: reqBody.Quantity,
			ImageURL: reqBody.ImageURL,
			Category: reqBody.Category,
		})
		return nil
	})
	if err != nil {
		err = fmt.Errorf("failed adding cart item with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusOf(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("added cart item")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("added product with id=%s to cart", reqBody.ProductID),
		"data":       cartBody(crt),
	})
}

func (t CartController) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ChangeQuantity")
	defer span.End()

	productID := strings.TrimSpace(mux.Vars(r)["productId"])
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController ChangeQuantity").
		Str(log.KeyProductID, productID).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.ChangeQuantity{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "changing cart item quantity").Logger()
	logger.Info().Msg("changing cart item quantity")
	c = logger.WithContext(c)
	sessionID, err := session.FromContext(c)
	if err != nil {
		err = fmt.Errorf("failed changing cart item quantity with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusUnauthorized,
			"message":    err.Error(),
		})
		return
	}
	crt, err := t.carts.Update(c, sessionID, func(crt *cart.Cart) error {
		if !crt.Has(productID) {
			return inErrors.ErrItemNotFound
		}
		crt.ChangeQuantity(productID, reqBody.Delta)
		return nil
	})
	if err != nil {
		err = fmt.Errorf("failed changing cart item quantity with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusOf(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("changed cart item quantity")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("changed quantity of product with id=%s", productID),
		"data":       cartBody(crt),
	})
}

func (t CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController RemoveItem")
	defer span.End()

	productID := strings.TrimSpace(mux.Vars(r)["productId"])
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController RemoveItem").
		Str(log.KeyProductID, productID).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "removing cart item").Logger()
	logger.Info().Msg("removing cart item")
	c = logger.WithContext(c)
	sessionID, err := session.FromContext(c)
	if err != nil {
		err = fmt.Errorf("failed removing cart item with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusUnauthorized,
			"message":    err.Error(),
		})
		return
	}
	crt, err := t.carts.Update(c, sessionID, func(crt *cart.Cart) error {
		crt.RemoveItem(productID)
		return nil
	})
	if err != nil {
		err = fmt.Errorf("failed removing cart item with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusOf(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("removed cart item")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("removed product with id=%s from cart", productID),
		"data":       cartBody(crt),
	})
}

func (t CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ClearCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController ClearCart").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "clearing cart").Logger()
	logger.Info().Msg("clearing cart")
	c = logger.WithContext(c)
	sessionID, err := session.FromContext(c)
	if err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusUnauthorized,
			"message":    err.Error(),
		})
		return
	}
	if err := t.carts.Clear(c, sessionID); err != nil {
		err = fmt.Errorf("failed clearing cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("cleared cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "cleared cart",
		"data":       cartBody(cart.Cart{Items: []cart.Item{}}),
	})
}
