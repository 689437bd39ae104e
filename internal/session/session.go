package session

import (
	"context"

	inErrors "github.com/asif-kamal/storefront/internal/errors"
)

const DefaultCookieName = "storefront_session"

type sessionId struct{}

func FromContext(c context.Context) (string, error) {
	id, ok := c.Value(sessionId{}).(string)
	if !ok || id == "" {
		return "", inErrors.ErrNoSession
	}
	return id, nil
}

func AttachToContext(c context.Context, id string) context.Context {
	return context.WithValue(c, sessionId{}, id)
}
