package controller

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inErrors "github.com/asif-kamal/storefront/internal/errors"
	inHttp "github.com/asif-kamal/storefront/internal/http"
	"github.com/asif-kamal/storefront/internal/log"
	"github.com/asif-kamal/storefront/internal/oauth"
	"github.com/asif-kamal/storefront/internal/otel"
	"github.com/asif-kamal/storefront/internal/session"
)

type OauthController struct {
	handler oauth.Handler
}

func AttachOauthController(router *mux.Router, handler oauth.Handler) {
	controller := OauthController{handler: handler}

	router.HandleFunc("/oauth2/callback", controller.Callback).Methods(http.MethodGet)
}

// callbackParams merges the query string with any parameters the provider put
// in the URL fragment. Browsers never send fragments to the server, so the
// frontend forwards them in a fragment query parameter.
func callbackParams(r *http.Request) url.Values {
	params := r.URL.Query()
	fragment := params.Get("fragment")
	if fragment == "" {
		return params
	}
	parsed, err := url.ParseQuery(fragment)
	if err != nil {
		return params
	}
	for key, values := range parsed {
		for _, value := range values {
			params.Add(key, value)
		}
	}
	return params
}

func (t OauthController) Callback(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OauthController Callback")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OauthController Callback").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "resolving oauth callback").Logger()
	logger.Info().Msg("resolving oauth callback")
	c = logger.WithContext(c)
	sessionID, err := session.FromContext(c)
	if err != nil {
		err = fmt.Errorf("failed resolving oauth callback with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusUnauthorized,
			"message":    err.Error(),
		})
		return
	}
	outcome, err := t.handler.Resolve(c, sessionID, callbackParams(r))
	if err != nil {
		err = fmt.Errorf("failed resolving oauth callback with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(log.KeyCallbackState, string(outcome.State)).Logger()
	logger.Info().Msg("resolved oauth callback")

	statusCode := http.StatusOK
	status := "success"
	switch outcome.State {
	case oauth.StateSuccess:
		statusCode = http.StatusOK
	case oauth.StatePending:
		statusCode = http.StatusAccepted
	case oauth.StateStuck, oauth.StateError, oauth.StateTimeout, oauth.StateNoToken:
		statusCode = http.StatusUnauthorized
		status = "failed"
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     status,
		"statusCode": statusCode,
		"message":    outcome.Message,
		"data": map[string]interface{}{
			"state":      outcome.State,
			"redirectTo": outcome.RedirectTo,
		},
	})
}
