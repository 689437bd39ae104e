package token

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	inErrors "github.com/asif-kamal/storefront/internal/errors"
)

// buildToken builds an unsigned jwt so expiry and claims are under test
// control. The signature segment is garbage on purpose, it is never
// verified.
func buildToken(t *testing.T, claims map[string]interface{}) string {
	t.Helper()
	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	if err != nil {
		t.Fatalf("failed marshaling header with error: %s", err)
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		t.Fatalf("failed marshaling claims with error: %s", err)
	}
	encode := base64.RawURLEncoding.EncodeToString
	return fmt.Sprintf("%s.%s.%s", encode(header), encode(payload), encode([]byte("sig")))
}

func TestIsAuthenticated(t *testing.T) {
	tests := []struct {
		name     string
		input    func() string
		expected bool
	}{
		{
			name:     "given empty token should be unauthenticated",
			input:    func() string { return "" },
			expected: false,
		},
		{
			name:     "given token without three segments should be unauthenticated",
			input:    func() string { return "abc.def" },
			expected: false,
		},
		{
			name:     "given token with garbage payload should be unauthenticated",
			input:    func() string { return "abc.def.ghi" },
			expected: false,
		},
		{
			name: "given token without exp claim should be unauthenticated",
			input: func() string {
				return buildToken(t, map[string]interface{}{"sub": "user-1"})
			},
			expected: false,
		},
		{
			name: "given expired token should be unauthenticated",
			input: func() string {
				return buildToken(t, map[string]interface{}{
					"sub": "user-1",
					"exp": time.Now().Add(-time.Hour).Unix(),
				})
			},
			expected: false,
		},
		{
			name: "given token expiring in the future should be authenticated",
			input: func() string {
				return buildToken(t, map[string]interface{}{
					"sub": "user-1",
					"exp": time.Now().Add(time.Hour).Unix(),
				})
			},
			expected: true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, IsAuthenticated(test.input()))
		})
	}
}

func TestIdentityFromToken(t *testing.T) {
	t.Run("given empty token should return ErrNoToken", func(t *testing.T) {
		_, err := IdentityFromToken("")

		assert.ErrorIs(t, err, inErrors.ErrNoToken)
	})

	t.Run("given malformed token should return ErrTokenInvalid", func(t *testing.T) {
		_, err := IdentityFromToken("abc.def.ghi")

		assert.ErrorIs(t, err, inErrors.ErrTokenInvalid)
	})

	t.Run("given valid token should extract identity claims", func(t *testing.T) {
		input := buildToken(t, map[string]interface{}{
			"sub":   "user-1",
			"email": "jane@example.com",
			"name":  "Jane Doe",
			"exp":   time.Now().Add(time.Hour).Unix(),
		})

		identity, err := IdentityFromToken(input)

		assert.NoError(t, err)
		assert.Equal(t, "user-1", identity.ID)
		assert.Equal(t, "jane@example.com", identity.Email)
		assert.Equal(t, "Jane Doe", identity.Name)
	})
}
