package checkout

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/asif-kamal/storefront/internal/backend"
	"github.com/asif-kamal/storefront/internal/cart"
	"github.com/asif-kamal/storefront/internal/config"
	inErrors "github.com/asif-kamal/storefront/internal/errors"
	"github.com/asif-kamal/storefront/internal/token"
	"github.com/asif-kamal/storefront/pkg/request"
	"github.com/asif-kamal/storefront/pkg/response"
)

func buildBearer(t *testing.T, expiresIn time.Duration) string {
	t.Helper()
	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	if err != nil {
		t.Fatalf("failed marshaling header with error: %s", err)
	}
	payload, err := json.Marshal(map[string]interface{}{
		"sub":   "user-1",
		"email": "jane@example.com",
		"name":  "Jane Doe",
		"exp":   time.Now().Add(expiresIn).Unix(),
	})
	if err != nil {
		t.Fatalf("failed marshaling claims with error: %s", err)
	}
	encode := base64.RawURLEncoding.EncodeToString
	return fmt.Sprintf("%s.%s.%s", encode(header), encode(payload), encode([]byte("sig")))
}

func setupService(
	t *testing.T,
	backendHandler http.HandlerFunc,
) (context.Context, Service, *cart.Store, *token.Store, func()) {
	t.Helper()
	c := context.Background()

	redisContainer, err := testRedis.Run(c, "redis:7.4.2-alpine3.21")
	if err != nil {
		t.Fatalf("failed running redis container with error: %s", err)
	}

	redisConnStr, err := redisContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting redis connection string with error: %s", err)
	}

	redisOpt, err := redis.ParseURL(redisConnStr)
	if err != nil {
		t.Fatalf("failed parsing redis connection string with error: %s", err)
	}

	redisClient := redis.NewClient(redisOpt)
	if err = redisClient.Ping(c).Err(); err != nil {
		t.Fatalf("failed ping redis client with error: %s", err)
	}

	server := httptest.NewServer(backendHandler)
	backendClient := backend.NewClient(config.Backend{BaseURL: server.URL, TimeoutSeconds: 5})

	tokens := token.NewStore(redisClient, time.Hour)
	carts := cart.NewStore(redisClient, time.Hour)
	service := NewService(backendClient, carts, tokens, redisClient)

	cleanup := func() {
		server.Close()
		redisClient.Close()
		if err := testcontainers.TerminateContainer(redisContainer); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}
	return c, service, carts, tokens, cleanup
}

func seedCart(t *testing.T, c context.Context, carts *cart.Store, sessionID string) {
	t.Helper()
	_, err := carts.Update(c, sessionID, func(crt *cart.Cart) error {
		crt.AddItem(cart.Item{ID: "42", Name: "Mouse", Price: decimal.NewFromFloat(34.99), Quantity: 2})
		return nil
	})
	if err != nil {
		t.Fatalf("failed seeding cart with error: %s", err)
	}
}

func TestCheckout(t *testing.T) {
	var receivedOrder request.Order
	var receivedIdempotencyKey string
	c, service, carts, tokens, cleanup := setupService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/receipts/checkout", r.URL.Path)
		receivedIdempotencyKey = r.Header.Get("Idempotency-Key")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&receivedOrder))
		assert.NoError(t, json.NewEncoder(w).Encode(response.Receipt{
			OrderID: "order-1",
			Status:  "CONFIRMED",
		}))
	})
	defer cleanup()

	assert.NoError(t, tokens.Save(c, "session-1", buildBearer(t, time.Hour)))
	seedCart(t, c, carts, "session-1")

	confirmation, err := service.Checkout(c, "session-1")

	assert.NoError(t, err)
	assert.Equal(t, "jane@example.com", confirmation.Email)
	assert.Equal(t, "69.98", confirmation.Total.String())
	assert.Equal(t, "order-1", confirmation.Receipt.OrderID)
	assert.NotEmpty(t, receivedIdempotencyKey)
	assert.Equal(t, "user-1", receivedOrder.CustomerID)
	assert.Len(t, receivedOrder.Items, 1)
	assert.Equal(t, "69.98", receivedOrder.Items[0].Subtotal.String())
	assert.Equal(t, "69.98", receivedOrder.Total.String())

	crt, err := carts.Get(c, "session-1")
	assert.NoError(t, err)
	assert.Empty(t, crt.Items)
}

func TestCheckoutWithoutToken(t *testing.T) {
	c, service, carts, _, cleanup := setupService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called without a token")
	})
	defer cleanup()

	seedCart(t, c, carts, "session-1")

	_, err := service.Checkout(c, "session-1")

	assert.ErrorIs(t, err, inErrors.ErrReauthenticate)
}

func TestCheckoutWithExpiredToken(t *testing.T) {
	c, service, carts, tokens, cleanup := setupService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called with an expired token")
	})
	defer cleanup()

	assert.NoError(t, tokens.Save(c, "session-1", buildBearer(t, -time.Hour)))
	seedCart(t, c, carts, "session-1")

	_, err := service.Checkout(c, "session-1")

	assert.ErrorIs(t, err, inErrors.ErrReauthenticate)

	_, err = tokens.Get(c, "session-1")
	assert.ErrorIs(t, err, inErrors.ErrNoToken)
}

func TestCheckoutWithEmptyCart(t *testing.T) {
	c, service, _, tokens, cleanup := setupService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called with an empty cart")
	})
	defer cleanup()

	assert.NoError(t, tokens.Save(c, "session-1", buildBearer(t, time.Hour)))

	_, err := service.Checkout(c, "session-1")

	assert.ErrorIs(t, err, inErrors.ErrEmptyCart)
}

func TestCheckoutInFlightGuard(t *testing.T) {
	c, service, carts, tokens, cleanup := setupService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("backend must not be called while another checkout is pending")
	})
	defer cleanup()

	assert.NoError(t, tokens.Save(c, "session-1", buildBearer(t, time.Hour)))
	seedCart(t, c, carts, "session-1")

	pendingKey := fmt.Sprintf(keyPendingCheckout, "session-1")
	assert.NoError(t, service.cache.SetNX(c, pendingKey, "other-attempt", time.Minute).Err())

	_, err := service.Checkout(c, "session-1")

	assert.ErrorIs(t, err, inErrors.ErrCheckoutInFlight)
}

func TestCheckoutBackendUnauthorized(t *testing.T) {
	c, service, carts, tokens, cleanup := setupService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	defer cleanup()

	assert.NoError(t, tokens.Save(c, "session-1", buildBearer(t, time.Hour)))
	seedCart(t, c, carts, "session-1")

	_, err := service.Checkout(c, "session-1")

	assert.ErrorIs(t, err, inErrors.ErrReauthenticate)

	_, err = tokens.Get(c, "session-1")
	assert.ErrorIs(t, err, inErrors.ErrNoToken)
}

func TestCheckoutBackendForbidden(t *testing.T) {
	c, service, carts, tokens, cleanup := setupService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	defer cleanup()

	assert.NoError(t, tokens.Save(c, "session-1", buildBearer(t, time.Hour)))
	seedCart(t, c, carts, "session-1")

	_, err := service.Checkout(c, "session-1")

	assert.ErrorIs(t, err, inErrors.ErrForbidden)

	crt, err := carts.Get(c, "session-1")
	assert.NoError(t, err)
	assert.True(t, crt.Has("42"))
}
