package cart

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setupCache(t *testing.T) (context.Context, *redis.Client, *testRedis.RedisContainer) {
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
	return c, redisClient, redisContainer
}

func teardownCache(t *testing.T, redisClient *redis.Client, redisContainer *testRedis.RedisContainer) {
	t.Helper()
	redisClient.Close()
	if err := testcontainers.TerminateContainer(redisContainer); err != nil {
		t.Fatalf("failed to terminate container: %s", err)
	}
}

func TestStoreGetMissingCart(t *testing.T) {
	c, redisClient, redisContainer := setupCache(t)
	defer teardownCache(t, redisClient, redisContainer)

	store := NewStore(redisClient, time.Hour)

	crt, err := store.Get(c, "session-1")

	assert.NoError(t, err)
	assert.Empty(t, crt.Items)
}

func TestStoreUpdatePersistsCart(t *testing.T) {
	c, redisClient, redisContainer := setupCache(t)
	defer teardownCache(t, redisClient, redisContainer)

	store := NewStore(redisClient, time.Hour)

	updated, err := store.Update(c, "session-1", func(crt *Cart) error {
		crt.AddItem(Item{ID: "1", Name: "Mouse", Price: decimal.NewFromFloat(34.99), Quantity: 2})
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, int32(2), updated.Count())

	persisted, err := store.Get(c, "session-1")
	assert.NoError(t, err)
	assert.True(t, persisted.Has("1"))
	assert.Equal(t, "69.98", persisted.Total().String())

	other, err := store.Get(c, "session-2")
	assert.NoError(t, err)
	assert.Empty(t, other.Items)
}

func TestStoreNotifiesSubscribers(t *testing.T) {
	c, redisClient, redisContainer := setupCache(t)
	defer teardownCache(t, redisClient, redisContainer)

	store := NewStore(redisClient, time.Hour)

	notified := make(chan Cart, 1)
	store.Subscribe(func(sessionID string, crt Cart) {
		assert.Equal(t, "session-1", sessionID)
		notified <- crt
	})

	_, err := store.Update(c, "session-1", func(crt *Cart) error {
		crt.AddItem(Item{ID: "1", Name: "Mouse", Price: decimal.NewFromFloat(34.99), Quantity: 1})
		return nil
	})
	assert.NoError(t, err)

	select {
	case crt := <-notified:
		assert.Equal(t, int32(1), crt.Count())
	case <-time.After(5 * time.Second):
		t.Fatal("subscriber was not notified")
	}
}

func TestStoreClear(t *testing.T) {
	c, redisClient, redisContainer := setupCache(t)
	defer teardownCache(t, redisClient, redisContainer)

	store := NewStore(redisClient, time.Hour)

	_, err := store.Update(c, "session-1", func(crt *Cart) error {
		crt.AddItem(Item{ID: "1", Name: "Mouse", Price: decimal.NewFromFloat(34.99), Quantity: 3})
		return nil
	})
	assert.NoError(t, err)

	assert.NoError(t, store.Clear(c, "session-1"))

	crt, err := store.Get(c, "session-1")
	assert.NoError(t, err)
	assert.Empty(t, crt.Items)
}
