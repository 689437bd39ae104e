package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/asif-kamal/storefront/internal/config"
	"github.com/asif-kamal/storefront/pkg/request"
	"github.com/asif-kamal/storefront/pkg/response"
)

func newTestClient(baseURL string) *Client {
	return NewClient(config.Backend{BaseURL: baseURL, TimeoutSeconds: 5, SearchFallbackSize: 100})
}

func TestLoginSendsRealPassword(t *testing.T) {
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		assert.NoError(t, json.NewEncoder(w).Encode(response.Auth{Token: "abc.def.ghi"}))
	}))
	defer server.Close()

	auth, err := newTestClient(server.URL).
		Login(context.Background(), request.Login{Username: "jane", Password: "secret123"})

	assert.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", auth.Token)
	assert.Equal(t, "jane", received["username"])
	assert.Equal(t, "secret123", received["password"])
}

func TestVerifyEmailEmptyBodyIsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/verify", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	auth, err := newTestClient(server.URL).
		VerifyEmail(context.Background(), request.VerifyEmail{Username: "jane", Code: "123456"})

	assert.NoError(t, err)
	assert.Empty(t, auth.Token)
}

func TestStatusErrorCarriesRawBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad credentials"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Profile(context.Background(), "stale-token")

	statusErr := &StatusError{}
	assert.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.JSONEq(t, `{"error":"bad credentials"}`, string(statusErr.Body))
}

func TestProfileSendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer abc.def.ghi", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewEncoder(w).Encode(response.Profile{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane@example.com",
		}))
	}))
	defer server.Close()

	profile, err := newTestClient(server.URL).Profile(context.Background(), "abc.def.ghi")

	assert.NoError(t, err)
	assert.Equal(t, "jane@example.com", profile.Email)
}

func TestSearch(t *testing.T) {
	products := []response.Product{
		{ID: 1, Name: "Wireless Mouse", Brand: "Logi", Category: "peripherals", Price: decimal.NewFromFloat(34.99)},
		{ID: 2, Name: "Mechanical Keyboard", Brand: "Keych", Category: "peripherals", Price: decimal.NewFromFloat(59.99)},
		{ID: 3, Name: "Monitor", Brand: "Dell", Category: "displays", Price: decimal.NewFromFloat(199.99)},
	}

	t.Run("given backend search endpoint should use it", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/electronics/search", r.URL.Path)
			assert.Equal(t, "mouse", r.URL.Query().Get("query"))
			assert.NoError(t, json.NewEncoder(w).Encode(response.ProductPage{
				Content:       products[:1],
				TotalPages:    1,
				TotalElements: 1,
			}))
		}))
		defer server.Close()

		page, err := newTestClient(server.URL).Search(context.Background(), "mouse", 0, 12)

		assert.NoError(t, err)
		assert.Len(t, page.Content, 1)
		assert.Equal(t, "Wireless Mouse", page.Content[0].Name)
	})

	t.Run("given 404 from search endpoint should filter locally", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/electronics/search" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			assert.Equal(t, "/electronics", r.URL.Path)
			assert.Equal(t, "0", r.URL.Query().Get("page"))
			assert.Equal(t, "100", r.URL.Query().Get("size"))
			assert.NoError(t, json.NewEncoder(w).Encode(response.ProductPage{
				Content:       products,
				TotalPages:    1,
				TotalElements: int64(len(products)),
			}))
		}))
		defer server.Close()

		page, err := newTestClient(server.URL).Search(context.Background(), "peripherals", 0, 12)

		assert.NoError(t, err)
		assert.Len(t, page.Content, 2)
		assert.Equal(t, int64(2), page.TotalElements)
		assert.Equal(t, 1, page.TotalPages)
	})

	t.Run("given 500 from search endpoint should not fall back", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).Search(context.Background(), "mouse", 0, 12)

		statusErr := &StatusError{}
		assert.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	})
}

func TestSearchFallbackPagination(t *testing.T) {
	products := make([]response.Product, 0, 30)
	for i := range 30 {
		products = append(products, response.Product{
			ID:       int64(i + 1),
			Name:     "Gadget " + strconv.Itoa(i+1),
			Brand:    "Acme",
			Category: "gadgets",
			Price:    decimal.NewFromInt(10),
		})
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/electronics/search" {
			w.WriteHeader(http.StatusNotImplemented)
			return
		}
		assert.NoError(t, json.NewEncoder(w).Encode(response.ProductPage{
			Content:       products,
			TotalPages:    1,
			TotalElements: int64(len(products)),
		}))
	}))
	defer server.Close()

	page, err := newTestClient(server.URL).Search(context.Background(), "gadget", 2, 12)

	assert.NoError(t, err)
	assert.Len(t, page.Content, 6)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, int64(30), page.TotalElements)
	assert.Equal(t, int64(25), page.Content[0].ID)
}
