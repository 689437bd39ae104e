package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/asif-kamal/storefront/internal/log"
	"github.com/asif-kamal/storefront/internal/otel"
)

const keyCart = "cart:%s"

type Subscriber func(sessionID string, cart Cart)

// Store shares session carts across views. Carts are persisted as JSON
// in redis keyed by session id; mutations run under a per-session lock
// and notify every subscriber with the resulting cart.
type Store struct {
	cache *redis.Client
	ttl   time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	subMu sync.RWMutex
	subs  []Subscriber
}

func NewStore(cache *redis.Client, ttl time.Duration) *Store {
	return &Store{cache: cache, ttl: ttl, locks: map[string]*sync.Mutex{}}
}

// Subscribe registers fn to be called after every cart mutation.
func (s *Store) Subscribe(fn Subscriber) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) notify(sessionID string, cart Cart) {
	s.subMu.RLock()
	defer s.subMu.RUnlock()
	for _, fn := range s.subs {
		fn(sessionID, cart)
	}
}

func (s *Store) lock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	mu, ok := s.locks[sessionID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[sessionID] = mu
	}
	return mu
}

func (s *Store) Get(c context.Context, sessionID string) (Cart, error) {
	c, span := otel.Tracer.Start(c, "CartStore Get")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartStore Get").
		Str(log.KeySessionID, sessionID).
		Logger()

	cacheKey := fmt.Sprintf(keyCart, sessionID)
	raw, err := s.cache.Get(c, cacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Cart{}, nil
		}
		err = fmt.Errorf("failed finding cart in cache with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Cart{}, err
	}

	cart := Cart{}
	if err := json.Unmarshal(raw, &cart); err != nil {
		err = fmt.Errorf("failed unmarshaling cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Cart{}, err
	}
	return cart, nil
}

// Update loads the session cart, applies fn, persists the result, and
// notifies subscribers. The read-modify-write sequence runs under the
// session lock so concurrent updates resolve in call order.
func (s *Store) Update(
	c context.Context,
	sessionID string,
	fn func(cart *Cart) error,
) (Cart, error) {
	c, span := otel.Tracer.Start(c, "CartStore Update")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartStore Update").
		Str(log.KeySessionID, sessionID).
		Logger()

	mu := s.lock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	cart, err := s.Get(c, sessionID)
	if err != nil {
		return Cart{}, err
	}

	if err := fn(&cart); err != nil {
		return cart, err
	}

	raw, err := json.Marshal(cart)
	if err != nil {
		err = fmt.Errorf("failed marshaling cart with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Cart{}, err
	}

	cacheKey := fmt.Sprintf(keyCart, sessionID)
	logger = logger.With().
		Str(log.KeyProcess, "saving cart to cache").
		Str(log.KeyCacheKey, cacheKey).
		Logger()
	logger.Info().Msg("saving cart to cache")
	if err := s.cache.Set(c, cacheKey, raw, s.ttl).Err(); err != nil {
		err = fmt.Errorf("failed saving cart to cache with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Cart{}, err
	}
	logger.Info().Msg("saved cart to cache")

	s.notify(sessionID, cart)
	return cart, nil
}

func (s *Store) Clear(c context.Context, sessionID string) error {
	_, err := s.Update(c, sessionID, func(cart *Cart) error {
		cart.Clear()
		return nil
	})
	return err
}
