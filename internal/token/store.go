package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	inErrors "github.com/asif-kamal/storefront/internal/errors"
	"github.com/asif-kamal/storefront/internal/log"
	"github.com/asif-kamal/storefront/internal/otel"
)

const keyToken = "token:%s"

type Store struct {
	cache *redis.Client
	ttl   time.Duration
}

func NewStore(cache *redis.Client, ttl time.Duration) *Store {
	return &Store{cache: cache, ttl: ttl}
}

func (s *Store) Save(c context.Context, sessionID string, token string) error {
	c, span := otel.Tracer.Start(c, "TokenStore Save")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "TokenStore Save").
		Str(log.KeySessionID, sessionID).
		Logger()

	cacheKey := fmt.Sprintf(keyToken, sessionID)
	logger = logger.With().
		Str(log.KeyProcess, "saving token").
		Str(log.KeyCacheKey, cacheKey).
		Logger()
	logger.Info().Msg("saving token")
	err := s.cache.Set(c, cacheKey, token, s.ttl).Err()
	if err != nil {
		err = fmt.Errorf("failed saving token with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("saved token")

	return nil
}

func (s *Store) Get(c context.Context, sessionID string) (string, error) {
	c, span := otel.Tracer.Start(c, "TokenStore Get")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "TokenStore Get").
		Str(log.KeySessionID, sessionID).
		Logger()

	cacheKey := fmt.Sprintf(keyToken, sessionID)
	token, err := s.cache.Get(c, cacheKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", inErrors.ErrNoToken
		}
		err = fmt.Errorf("failed getting token with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}
	return token, nil
}

func (s *Store) Remove(c context.Context, sessionID string) error {
	c, span := otel.Tracer.Start(c, "TokenStore Remove")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "TokenStore Remove").
		Str(log.KeySessionID, sessionID).
		Logger()

	cacheKey := fmt.Sprintf(keyToken, sessionID)
	logger = logger.With().
		Str(log.KeyProcess, "removing token").
		Str(log.KeyCacheKey, cacheKey).
		Logger()
	logger.Info().Msg("removing token")
	err := s.cache.Del(c, cacheKey).Err()
	if err != nil {
		err = fmt.Errorf("failed removing token with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("removed token")

	return nil
}
