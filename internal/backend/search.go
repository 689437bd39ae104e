package backend

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/asif-kamal/storefront/internal/log"
	"github.com/asif-kamal/storefront/internal/otel"
	"github.com/asif-kamal/storefront/pkg/response"
)

// Search queries the backend search endpoint. Backends that do not
// implement it yet answer 404 or 501; in that case one large unfiltered
// page is fetched and filtered locally with the same pagination shape.
func (cl *Client) Search(
	c context.Context,
	query string,
	page, size int,
) (response.ProductPage, error) {
	c, span := otel.Tracer.Start(c, "BackendClient Search")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "BackendClient Search").
		Str(log.KeyQuery, query).
		Int(log.KeyPage, page).
		Int(log.KeyPageSize, size).
		Logger()

	productPage := response.ProductPage{}
	values := url.Values{}
	values.Set("query", query)
	values.Set("page", strconv.Itoa(page))
	values.Set("size", strconv.Itoa(size))
	c = logger.WithContext(c)
	err := cl.do(
		c,
		call{method: http.MethodGet, path: "/electronics/search", query: values},
		&productPage,
	)
	if err == nil {
		return productPage, nil
	}

	statusErr := &StatusError{}
	if !errors.As(err, &statusErr) {
		return response.ProductPage{}, err
	}
	if statusErr.StatusCode != http.StatusNotFound &&
		statusErr.StatusCode != http.StatusNotImplemented {
		return response.ProductPage{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "search fallback").Logger()
	logger.Info().Msgf(
		"search endpoint answered status=%d, falling back to client-side filtering",
		statusErr.StatusCode,
	)
	return cl.searchFallback(c, query, page, size)
}

func (cl *Client) searchFallback(
	c context.Context,
	query string,
	page, size int,
) (response.ProductPage, error) {
	unfiltered, err := cl.Electronics(c, 0, cl.searchFallbackSize)
	if err != nil {
		return response.ProductPage{}, err
	}

	filtered := filterProducts(unfiltered.Content, query)

	start := page * size
	end := start + size
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	totalPages := (len(filtered) + size - 1) / size
	return response.ProductPage{
		Content:       filtered[start:end],
		TotalPages:    totalPages,
		TotalElements: int64(len(filtered)),
	}, nil
}

func filterProducts(products []response.Product, query string) []response.Product {
	if query == "" {
		return products
	}
	needle := strings.ToLower(query)
	matched := []response.Product{}
	for _, product := range products {
		if strings.Contains(strings.ToLower(product.Name), needle) ||
			strings.Contains(strings.ToLower(product.Brand), needle) ||
			strings.Contains(strings.ToLower(product.Category), needle) ||
			(product.Description != "" &&
				strings.Contains(strings.ToLower(product.Description), needle)) {
			matched = append(matched, product)
		}
	}
	return matched
}
