package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/asif-kamal/storefront/internal/log"
	"github.com/asif-kamal/storefront/internal/session"
)

// Session assigns a browser-session cookie when absent and attaches the
// session id to the request context. All per-user gateway state (token,
// cart, checkout guard) is keyed by this id.
func Session(cookieName string, ttl time.Duration) func(http.Handler) http.Handler {
	if cookieName == "" {
		cookieName = session.DefaultCookieName
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := zerolog.Ctx(r.Context()).
				With().
				Str(log.KeyTag, "middleware Session").
				Logger()

			sessionID := ""
			if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
				sessionID = cookie.Value
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
				logger.Trace().Str(log.KeySessionID, sessionID).Msg("assigned new session")
			}

			logger = logger.With().Str(log.KeySessionID, sessionID).Logger()
			c := session.AttachToContext(r.Context(), sessionID)
			c = logger.WithContext(c)
			next.ServeHTTP(w, r.WithContext(c))
		})
	}
}
