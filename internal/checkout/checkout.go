package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/asif-kamal/storefront/internal/backend"
	"github.com/asif-kamal/storefront/internal/cart"
	inErrors "github.com/asif-kamal/storefront/internal/errors"
	"github.com/asif-kamal/storefront/internal/log"
	"github.com/asif-kamal/storefront/internal/otel"
	"github.com/asif-kamal/storefront/internal/token"
	"github.com/asif-kamal/storefront/pkg/response"
)

const keyPendingCheckout = "checkout:pending:%s"

type Confirmation struct {
	Email   string           `json:"email"`
	Total   decimal.Decimal  `json:"total"`
	Receipt response.Receipt `json:"receipt"`
}

type Service struct {
	backend *backend.Client
	carts   *cart.Store
	tokens  *token.Store
	cache   *redis.Client
}

func NewService(
	backendClient *backend.Client,
	carts *cart.Store,
	tokens *token.Store,
	cache *redis.Client,
) Service {
	return Service{backend: backendClient, carts: carts, tokens: tokens, cache: cache}
}

// Checkout builds the order payload for the session and submits it.
// Each attempt carries a fresh idempotency key and only one attempt per
// session may be in flight; a duplicate submit while the first is
// pending is refused rather than creating a second backend order.
func (svc Service) Checkout(c context.Context, sessionID string) (Confirmation, error) {
	c, span := otel.Tracer.Start(c, "CheckoutService Checkout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutService Checkout").
		Str(log.KeySessionID, sessionID).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "getting token").Logger()
	logger.Info().Msg("getting token")
	c = logger.WithContext(c)
	bearer, err := svc.tokens.Get(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed getting token with error=%w", errors.Join(err, inErrors.ErrReauthenticate))
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Confirmation{}, err
	}
	if !token.IsAuthenticated(bearer) {
		_ = svc.tokens.Remove(c, sessionID)
		err = fmt.Errorf("token is expired with error=%w", inErrors.ErrReauthenticate)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Confirmation{}, err
	}
	logger.Info().Msg("got token")

	logger = logger.With().Str(log.KeyProcess, "getting identity").Logger()
	logger.Info().Msg("getting identity")
	identity, err := token.IdentityFromToken(bearer)
	if err != nil {
		err = fmt.Errorf("failed getting identity with error=%w", errors.Join(err, inErrors.ErrNoIdentity))
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Confirmation{}, err
	}
	logger = logger.With().Str(log.KeyEmail, identity.Email).Logger()
	logger.Info().Msg("got identity")

	logger = logger.With().Str(log.KeyProcess, "getting cart").Logger()
	logger.Info().Msg("getting cart")
	c = logger.WithContext(c)
	crt, err := svc.carts.Get(c, sessionID)
	if err != nil {
		err = fmt.Errorf("failed getting cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Confirmation{}, err
	}
	logger = logger.With().Int(log.KeyCartItems, len(crt.Items)).Logger()
	logger.Info().Msg("got cart")

	logger = logger.With().Str(log.KeyProcess, "building order").Logger()
	logger.Info().Msg("building order")
	order, err := BuildOrder(crt, identity)
	if err != nil {
		err = fmt.Errorf("failed building order with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Confirmation{}, err
	}
	logger = logger.With().Str(log.KeyOrderTotal, order.Total.String()).Logger()
	logger.Info().Msg("built order")

	logger = logger.With().Str(log.KeyProcess, "encoding order").Logger()
	logger.Info().Msg("encoding order")
	if _, err := json.Marshal(order); err != nil {
		err = fmt.Errorf("%w: %w", inErrors.ErrOrderEncoding, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Confirmation{}, err
	}
	logger.Info().Msg("encoded order")

	idempotencyKey := uuid.NewString()
	logger = logger.With().
		Str(log.KeyProcess, "acquiring checkout guard").
		Str(log.KeyIdempotencyKey, idempotencyKey).
		Logger()
	logger.Info().Msg("acquiring checkout guard")
	pendingKey := fmt.Sprintf(keyPendingCheckout, sessionID)
	acquired, err := svc.cache.SetNX(c, pendingKey, idempotencyKey, 2*time.Minute).Result()
	if err != nil {
		err = fmt.Errorf("failed acquiring checkout guard with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Confirmation{}, err
	}
	if !acquired {
		err = inErrors.ErrCheckoutInFlight
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Confirmation{}, err
	}
	defer func() {
		if err := svc.cache.Del(context.WithoutCancel(c), pendingKey).Err(); err != nil {
			logger.Error().Err(err).Msg("failed releasing checkout guard")
		}
	}()
	logger.Info().Msg("acquired checkout guard")

	logger = logger.With().Str(log.KeyProcess, "submitting order").Logger()
	logger.Info().Msg("submitting order")
	c = logger.WithContext(c)
	receipt, err := svc.backend.Checkout(c, bearer, idempotencyKey, order)
	if err != nil {
		statusErr := &backend.StatusError{}
		if errors.As(err, &statusErr) {
			switch statusErr.StatusCode {
			case http.StatusUnauthorized:
				_ = svc.tokens.Remove(c, sessionID)
				err = fmt.Errorf("%w: %w", inErrors.ErrReauthenticate, err)
			case http.StatusForbidden:
				err = fmt.Errorf("%w: %w", inErrors.ErrForbidden, err)
			}
		}
		err = fmt.Errorf("failed submitting order with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Confirmation{}, err
	}
	logger.Info().Msg("submitted order")

	logger = logger.With().Str(log.KeyProcess, "clearing cart").Logger()
	logger.Info().Msg("clearing cart")
	if err := svc.carts.Clear(c, sessionID); err != nil {
		err = fmt.Errorf("failed clearing cart after checkout with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("cleared cart")

	return Confirmation{Email: identity.Email, Total: order.Total, Receipt: receipt}, nil
}
