package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/asif-kamal/storefront/internal/backend"
	inErrors "github.com/asif-kamal/storefront/internal/errors"
	inHttp "github.com/asif-kamal/storefront/internal/http"
	"github.com/asif-kamal/storefront/internal/log"
	"github.com/asif-kamal/storefront/internal/middleware"
	"github.com/asif-kamal/storefront/internal/otel"
	"github.com/asif-kamal/storefront/internal/session"
	"github.com/asif-kamal/storefront/internal/token"
	"github.com/asif-kamal/storefront/pkg/request"
)

type AccountController struct {
	client *backend.Client
	tokens *token.Store
}

func AttachAccountController(router *mux.Router, client *backend.Client, tokens *token.Store) {
	controller := AccountController{client: client, tokens: tokens}

	subrouter := router.PathPrefix("/user").Subrouter()
	subrouter.Use(middleware.Auth(tokens))
	subrouter.HandleFunc("/profile", controller.Profile).Methods(http.MethodGet)
	subrouter.HandleFunc("/profile", controller.UpdateProfile).Methods(http.MethodPut)
}

// sessionToken loads the bearer token for the current session. A 401 from the
// backend later on means the token went stale after the auth middleware check,
// in which case the caller drops it so the next request forces a fresh login.
func (t AccountController) sessionToken(c context.Context) (string, string, error) {
	sessionID, err := session.FromContext(c)
	if err != nil {
		return "", "", err
	}
	bearer, err := t.tokens.Get(c, sessionID)
	if err != nil {
		return "", "", err
	}
	return sessionID, bearer, nil
}

func (t AccountController) Profile(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AccountController Profile")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AccountController Profile").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "fetching profile").Logger()
	logger.Info().Msg("fetching profile")
	c = logger.WithContext(c)
	sessionID, bearer, err := t.sessionToken(c)
	if err != nil {
		err = fmt.Errorf("failed fetching profile with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusUnauthorized,
			"message":    err.Error(),
		})
		return
	}
	profile, err := t.client.Profile(c, bearer)
	if err != nil {
		statusErr := &backend.StatusError{}
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized {
			if removeErr := t.tokens.Remove(c, sessionID); removeErr != nil {
				logger.Error().Err(removeErr).Msg("failed removing stale token")
			}
			err = errors.Join(err, inErrors.ErrReauthenticate)
		}
		err = fmt.Errorf("failed fetching profile with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusOf(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("fetched profile")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "fetched profile",
		"data": map[string]interface{}{
			"profile": profile,
		},
	})
}

func (t AccountController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AccountController UpdateProfile")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AccountController UpdateProfile").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.UpdateProfile{}
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
	logger = logger.With().Any(log.KeyRequestBody, reqBody).Logger()
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

	logger = logger.With().Str(log.KeyProcess, "updating profile").Logger()
	logger.Info().Msg("updating profile")
	c = logger.WithContext(c)
	sessionID, bearer, err := t.sessionToken(c)
	if err != nil {
		err = fmt.Errorf("failed updating profile with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusUnauthorized,
			"message":    err.Error(),
		})
		return
	}
	profile, err := t.client.UpdateProfile(c, bearer, reqBody)
	if err != nil {
		statusErr := &backend.StatusError{}
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized {
			if removeErr := t.tokens.Remove(c, sessionID); removeErr != nil {
				logger.Error().Err(removeErr).Msg("failed removing stale token")
			}
			err = errors.Join(err, inErrors.ErrReauthenticate)
		}
		err = fmt.Errorf("failed updating profile with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusOf(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("updated profile")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "updated profile",
		"data": map[string]interface{}{
			"profile": profile,
		},
	})
}
