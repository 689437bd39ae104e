package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	inErrors "github.com/asif-kamal/storefront/internal/errors"
)

type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// IsAuthenticated reports whether the stored bearer token is usable for
// backend calls. The payload is decoded without signature verification;
// authorization is enforced by the backend, this check only gates UI
// state. Any malformed or unparsable token counts as unauthenticated.
func IsAuthenticated(token string) bool {
	if token == "" {
		return false
	}
	if len(strings.Split(token, ".")) != 3 {
		return false
	}

	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.After(time.Now())
}

// IdentityFromToken extracts the identity claims from the token payload
// without verifying the signature.
func IdentityFromToken(token string) (Identity, error) {
	if token == "" {
		return Identity{}, inErrors.ErrNoToken
	}

	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return Identity{}, inErrors.ErrTokenInvalid
	}

	identity := Identity{}
	if sub, err := claims.GetSubject(); err == nil {
		identity.ID = sub
	}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		identity.Name = name
	}
	return identity, nil
}
