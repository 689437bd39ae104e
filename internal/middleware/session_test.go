package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/asif-kamal/storefront/internal/session"
)

func TestSessionAssignsCookie(t *testing.T) {
	var attached string
	handler := Session("storefront_session", time.Hour)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := session.FromContext(r.Context())
			assert.NoError(t, err)
			attached = id
		}),
	)

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/cart", nil))

	cookies := recorder.Result().Cookies()
	assert.Len(t, cookies, 1)
	assert.Equal(t, "storefront_session", cookies[0].Name)
	assert.Equal(t, attached, cookies[0].Value)
	assert.NoError(t, uuid.Validate(cookies[0].Value))
	assert.True(t, cookies[0].HttpOnly)
}

func TestSessionReusesCookie(t *testing.T) {
	existing := uuid.NewString()
	var attached string
	handler := Session("storefront_session", time.Hour)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := session.FromContext(r.Context())
			assert.NoError(t, err)
			attached = id
		}),
	)

	request := httptest.NewRequest(http.MethodGet, "/cart", nil)
	request.AddCookie(&http.Cookie{Name: "storefront_session", Value: existing})
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, existing, attached)
	assert.Empty(t, recorder.Result().Cookies())
}
