package controller

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/asif-kamal/storefront/internal/backend"
	inErrors "github.com/asif-kamal/storefront/internal/errors"
	inHttp "github.com/asif-kamal/storefront/internal/http"
	"github.com/asif-kamal/storefront/internal/log"
	"github.com/asif-kamal/storefront/internal/otel"
	"github.com/asif-kamal/storefront/pkg/response"
)

const defaultPageSize = 12

type CatalogController struct {
	client *backend.Client
}

func AttachCatalogController(router *mux.Router, client *backend.Client) {
	controller := CatalogController{client: client}

	router.HandleFunc("/electronics", controller.Electronics).Methods(http.MethodGet)
	router.HandleFunc("/electronics/search", controller.Search).Methods(http.MethodGet)
	router.HandleFunc("/shop", controller.Shop).Methods(http.MethodGet)
}

func pageParams(r *http.Request) (page, size int) {
	page = 0
	size = defaultPageSize
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			page = parsed
		}
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			size = parsed
		}
	}
	return page, size
}

func (t CatalogController) Electronics(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController Electronics")
	defer span.End()

	page, size := pageParams(r)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogController Electronics").
		Int(log.KeyPage, page).
		Int(log.KeyPageSize, size).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "fetching electronics page").Logger()
	logger.Info().Msg("fetching electronics page")
	c = logger.WithContext(c)
	productPage, err := t.client.Electronics(c, page, size)
	if err != nil {
		err = fmt.Errorf("failed fetching electronics page with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusOf(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("fetched electronics page")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "fetched electronics page",
		"data": map[string]interface{}{
			"products": productPage,
		},
	})
}

func (t CatalogController) Search(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController Search")
	defer span.End()

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	page, size := pageParams(r)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogController Search").
		Str(log.KeyQuery, query).
		Int(log.KeyPage, page).
		Int(log.KeyPageSize, size).
		Logger()

	if query == "" {
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "success",
			"statusCode": http.StatusOK,
			"message":    "empty query",
			"data": map[string]interface{}{
				"products": response.ProductPage{Content: []response.Product{}},
			},
		})
		return
	}

	logger = logger.With().Str(log.KeyProcess, "searching products").Logger()
	logger.Info().Msg("searching products")
	c = logger.WithContext(c)
	productPage, err := t.client.Search(c, query, page, size)
	if err != nil {
		err = fmt.Errorf("failed searching products with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusOf(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("searched products")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("search results for %s", query),
		"data": map[string]interface{}{
			"products": productPage,
		},
	})
}

func (t CatalogController) Shop(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController Shop")
	defer span.End()

	_, size := pageParams(r)
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogController Shop").
		Int(log.KeyPageSize, size).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "fetching shop products").Logger()
	logger.Info().Msg("fetching shop products")
	c = logger.WithContext(c)
	productPage, err := t.client.Shop(c, size)
	if err != nil {
		err = fmt.Errorf("failed fetching shop products with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusOf(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("fetched shop products")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "fetched shop products",
		"data": map[string]interface{}{
			"products": productPage,
		},
	})
}
