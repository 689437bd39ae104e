package middleware

import (
	"net/http"

	"github.com/rs/zerolog"

	inErrors "github.com/asif-kamal/storefront/internal/errors"
	inHttp "github.com/asif-kamal/storefront/internal/http"
	"github.com/asif-kamal/storefront/internal/log"
	"github.com/asif-kamal/storefront/internal/session"
	"github.com/asif-kamal/storefront/internal/token"
)

// Auth gates routes that need a signed-in user. The session token is
// checked with the unverified decode only; a missing or expired token
// is cleared and answered with 401 so the client can send the user back
// to the login view. The backend remains the authority on every call.
func Auth(tokens *token.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := r.Context()
			logger := zerolog.Ctx(c).With().Str(log.KeyTag, "middleware Auth").Logger()

			sessionID, err := session.FromContext(c)
			if err != nil {
				logger.Error().Err(err).Msg(err.Error())
				inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
					"status":     "failed",
					"statusCode": http.StatusUnauthorized,
					"message":    inErrors.ErrNoSession.Error(),
				})
				return
			}

			bearer, err := tokens.Get(c, sessionID)
			if err != nil || !token.IsAuthenticated(bearer) {
				if err == nil {
					_ = tokens.Remove(c, sessionID)
				}
				logger.Error().
					Err(inErrors.ErrReauthenticate).
					Msg(inErrors.ErrReauthenticate.Error())
				inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
					"status":     "failed",
					"statusCode": http.StatusUnauthorized,
					"message":    "Please log in to continue",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
