package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/asif-kamal/storefront/internal/config"
	"github.com/asif-kamal/storefront/internal/log"
	"github.com/asif-kamal/storefront/internal/otel"
	"github.com/asif-kamal/storefront/internal/token"
)

const keyPendingExchange = "oauth:pending:%s"

type State string

const (
	StateStuck   State = "stuck"
	StateError   State = "error"
	StatePending State = "pending"
	StateTimeout State = "timeout"
	StateSuccess State = "success"
	StateNoToken State = "no_token"
)

// Outcome is the terminal (or pending) result of resolving a callback.
type Outcome struct {
	State      State  `json:"state"`
	Message    string `json:"message"`
	RedirectTo string `json:"redirectTo,omitempty"`
}

type Handler struct {
	tokens       *token.Store
	cache        *redis.Client
	waitWindow   time.Duration
	providerHost string
}

func NewHandler(tokens *token.Store, cache *redis.Client, cfg config.Oauth) Handler {
	waitWindow := time.Duration(cfg.WaitWindowSeconds) * time.Second
	if cfg.WaitWindowSeconds <= 0 {
		waitWindow = 5 * time.Second
	}
	providerHost := cfg.ProviderHost
	if providerHost == "" {
		providerHost = "accounts.google.com"
	}
	return Handler{
		tokens:       tokens,
		cache:        cache,
		waitWindow:   waitWindow,
		providerHost: providerHost,
	}
}

// Resolve runs the callback state machine over the merged query and
// fragment parameters of the redirect URL:
//
//   - the reported page URL still on the provider host means the flow
//     never left the provider, a configuration error;
//   - an authorization code without token or error means the backend is
//     still exchanging the code server side and should redirect again
//     with a token before the wait window closes;
//   - an error parameter is terminal and never stores a token;
//   - a token parameter is stored exactly as received;
//   - anything else means no token arrived at all.
func (h Handler) Resolve(
	c context.Context,
	sessionID string,
	params url.Values,
) (Outcome, error) {
	c, span := otel.Tracer.Start(c, "OauthHandler Resolve")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OauthHandler Resolve").
		Str(log.KeySessionID, sessionID).
		Logger()

	if callbackURL := params.Get("callback_url"); callbackURL != "" &&
		strings.Contains(callbackURL, h.providerHost) {
		logger.Error().
			Str(log.KeyCallbackState, string(StateStuck)).
			Msgf("callback is still on provider host=%s", h.providerHost)
		return Outcome{
			State:   StateStuck,
			Message: "Sign-in flow is stuck on the provider page. Check backend OAuth2 configuration.",
		}, nil
	}

	callbackToken := params.Get("token")
	if callbackToken == "" {
		callbackToken = params.Get("access_token")
	}
	callbackError := params.Get("error")
	errorDescription := params.Get("error_description")
	code := params.Get("code")

	if code != "" && callbackToken == "" && callbackError == "" {
		return h.resolvePending(c, sessionID)
	}

	if callbackError != "" {
		message := mapErrorMessage(callbackError, errorDescription)
		logger.Error().
			Str(log.KeyCallbackState, string(StateError)).
			Msgf("callback carried error=%s description=%s", callbackError, errorDescription)
		return Outcome{State: StateError, Message: message}, nil
	}

	if callbackToken != "" {
		logger = logger.With().Str(log.KeyProcess, "saving token").Logger()
		logger.Info().Msg("saving token")
		c = logger.WithContext(c)
		if err := h.tokens.Save(c, sessionID, callbackToken); err != nil {
			err = fmt.Errorf("failed saving token with error=%w", err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return Outcome{}, err
		}
		logger.Info().Str(log.KeyCallbackState, string(StateSuccess)).Msg("saved token")
		return Outcome{
			State:      StateSuccess,
			Message:    "Authentication successful.",
			RedirectTo: "/account",
		}, nil
	}

	logger.Error().
		Str(log.KeyCallbackState, string(StateNoToken)).
		Msg("no token received from callback")
	return Outcome{
		State:      StateNoToken,
		Message:    "No authentication token received.",
		RedirectTo: "/login",
	}, nil
}

// resolvePending tracks the wait window for a server-side code
// exchange. The first call records a deadline; calls after the deadline
// with still no token are a timeout.
func (h Handler) resolvePending(c context.Context, sessionID string) (Outcome, error) {
	c, span := otel.Tracer.Start(c, "OauthHandler resolvePending")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OauthHandler resolvePending").
		Str(log.KeySessionID, sessionID).
		Logger()

	pendingKey := fmt.Sprintf(keyPendingExchange, sessionID)
	raw, err := h.cache.Get(c, pendingKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			err = fmt.Errorf("failed reading pending exchange marker with error=%w", err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return Outcome{}, err
		}

		deadline := time.Now().Add(h.waitWindow)
		err = h.cache.Set(c, pendingKey, deadline.Format(time.RFC3339Nano), 2*h.waitWindow).Err()
		if err != nil {
			err = fmt.Errorf("failed recording pending exchange marker with error=%w", err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return Outcome{}, err
		}
		logger.Info().Str(log.KeyCallbackState, string(StatePending)).Msg("code exchange pending")
		return Outcome{State: StatePending, Message: "Processing your sign-in..."}, nil
	}

	deadline, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil || time.Now().After(deadline) {
		if err := h.cache.Del(c, pendingKey).Err(); err != nil {
			logger.Error().Err(err).Msg("failed clearing pending exchange marker")
		}
		logger.Error().
			Str(log.KeyCallbackState, string(StateTimeout)).
			Msg("code exchange did not finish within the wait window")
		return Outcome{
			State:   StateTimeout,
			Message: "Authentication is taking longer than expected. The backend may need configuration.",
		}, nil
	}

	logger.Info().Str(log.KeyCallbackState, string(StatePending)).Msg("code exchange still pending")
	return Outcome{State: StatePending, Message: "Processing your sign-in..."}, nil
}

func mapErrorMessage(code, description string) string {
	switch code {
	case "access_denied":
		return "Access was denied. Please try again."
	case "invalid_request":
		return "Invalid request. Please check OAuth2 configuration."
	case "handler_error":
		return "Backend authentication handler error. Check backend logs for details."
	case "no_email":
		return "No email address received from the provider. Please ensure your account has an email address."
	case "user_creation_failed":
		return "Failed to create or update user account."
	case "token_generation_failed":
		return "Failed to generate authentication token."
	}
	if after, ok := strings.CutPrefix(code, "handler_error_"); ok {
		return fmt.Sprintf("Backend error: %s. Check backend logs for details.", after)
	}
	if description != "" {
		return fmt.Sprintf("Authentication failed: %s", description)
	}
	return fmt.Sprintf("Authentication failed: %s", code)
}
