package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/asif-kamal/storefront/internal/backend"
	inErrors "github.com/asif-kamal/storefront/internal/errors"
	inHttp "github.com/asif-kamal/storefront/internal/http"
	"github.com/asif-kamal/storefront/internal/log"
	"github.com/asif-kamal/storefront/internal/otel"
	"github.com/asif-kamal/storefront/internal/session"
	"github.com/asif-kamal/storefront/internal/token"
	"github.com/asif-kamal/storefront/pkg/request"
)

type AuthController struct {
	client *backend.Client
	tokens *token.Store
}

func AttachAuthController(router *mux.Router, client *backend.Client, tokens *token.Store) {
	controller := AuthController{client: client, tokens: tokens}

	subrouter := router.PathPrefix("/auth").Subrouter()
	subrouter.HandleFunc("/login", controller.Login).Methods(http.MethodPost)
	subrouter.HandleFunc("/register", controller.Register).Methods(http.MethodPost)
	subrouter.HandleFunc("/verify", controller.VerifyEmail).Methods(http.MethodPost)
	subrouter.HandleFunc("/resend-verification", controller.ResendVerification).
		Methods(http.MethodPost)
	subrouter.HandleFunc("/logout", controller.Logout).Methods(http.MethodGet)
}

func (t AuthController) Login(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AuthController Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AuthController Login").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.Login{}
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

	logger = logger.With().Str(log.KeyProcess, "login").Logger()
	logger.Info().Msg("login")
	c = logger.WithContext(c)
	auth, err := t.client.Login(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed login with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusOf(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("login success")

	logger = logger.With().Str(log.KeyProcess, "saving token").Logger()
	logger.Info().Msg("saving token")
	sessionID, err := session.FromContext(c)
	if err == nil && auth.Token != "" {
		err = t.tokens.Save(c, sessionID, auth.Token)
	}
	if err != nil {
		err = fmt.Errorf("failed saving token with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("saved token")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "login success",
		"data": map[string]interface{}{
			"token": auth.Token,
		},
	})
}

func (t AuthController) Register(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AuthController Register")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AuthController Register").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.Register{}
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

	logger = logger.With().Str(log.KeyProcess, "registering user").Logger()
	logger.Info().Msg("registering user")
	c = logger.WithContext(c)
	auth, err := t.client.Register(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed registering user with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusOf(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("registered user")

	if auth.Token == "" {
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "success",
			"statusCode": http.StatusOK,
			"message":    fmt.Sprintf("verification code sent to %s", reqBody.Email),
			"data": map[string]interface{}{
				"verificationRequired": true,
				"email":                reqBody.Email,
			},
		})
		return
	}

	logger = logger.With().Str(log.KeyProcess, "saving token").Logger()
	logger.Info().Msg("saving token")
	sessionID, err := session.FromContext(c)
	if err == nil {
		err = t.tokens.Save(c, sessionID, auth.Token)
	}
	if err != nil {
		err = fmt.Errorf("failed saving token with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("saved token")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("user with email=%s is registered", reqBody.Email),
		"data": map[string]interface{}{
			"token": auth.Token,
		},
	})
}

func (t AuthController) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AuthController VerifyEmail")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AuthController VerifyEmail").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.VerifyEmail{}
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

	logger = logger.With().Str(log.KeyProcess, "verifying email").Logger()
	logger.Info().Msg("verifying email")
	c = logger.WithContext(c)
	auth, err := t.client.VerifyEmail(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed verifying email with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusOf(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("verified email")

	if auth.Token != "" {
		logger = logger.With().Str(log.KeyProcess, "saving token").Logger()
		logger.Info().Msg("saving token")
		if sessionID, err := session.FromContext(c); err == nil {
			if err := t.tokens.Save(c, sessionID, auth.Token); err != nil {
				err = fmt.Errorf("failed saving token with error=%w", err)
				inErrors.HandleError(err, span)
				logger.Error().Err(err).Msg(err.Error())
			}
		}
		logger.Info().Msg("saved token")
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "email verified, your account is now active",
	})
}

func (t AuthController) ResendVerification(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AuthController ResendVerification")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AuthController ResendVerification").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding request body").Logger()
	logger.Info().Msg("decoding request body")
	reqBody := request.ResendVerification{}
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
	logger = logger.With().Str(log.KeyEmail, reqBody.Email).Logger()
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

	logger = logger.With().Str(log.KeyProcess, "resending verification code").Logger()
	logger.Info().Msg("resending verification code")
	c = logger.WithContext(c)
	if err := t.client.ResendVerification(c, reqBody); err != nil {
		err = fmt.Errorf("failed resending verification code with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusOf(err),
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("resent verification code")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("verification code sent to %s", reqBody.Email),
	})
}

func (t AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "AuthController Logout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AuthController Logout").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "removing token").Logger()
	logger.Info().Msg("removing token")
	sessionID, err := session.FromContext(c)
	if err == nil {
		err = t.tokens.Remove(c, sessionID)
	}
	if err != nil {
		err = fmt.Errorf("failed removing token with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("removed token")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "logged out",
	})
}
