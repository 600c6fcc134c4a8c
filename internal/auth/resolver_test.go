package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelify-app/modelify-backend/config"
	"github.com/modelify-app/modelify-backend/internal/auth"
	"github.com/modelify-app/modelify-backend/internal/auth/domain"
)

const testSecret = "super-secret-signing-key"

func newResolver() *auth.Resolver {
	return auth.NewResolver(&config.AuthConfig{JWTSecret: testSecret})
}

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.MapClaims) string {
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestResolver_Authenticate(t *testing.T) {
	r := newResolver()

	t.Run("accepts a valid token", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":   "user-1",
			"email": "jo@example.com",
			"exp":   time.Now().Add(time.Hour).Unix(),
		})

		id, err := r.Authenticate(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", id.ID)
		assert.Equal(t, "jo@example.com", id.Email)
	})

	t.Run("carries user metadata through", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":   "user-1",
			"email": "jo@example.com",
			"exp":   time.Now().Add(time.Hour).Unix(),
			"user_metadata": map[string]interface{}{
				"first_name": "Jo",
			},
		})

		id, err := r.Authenticate(context.Background(), token)
		require.NoError(t, err)
		require.NotNil(t, id.Metadata)
		assert.Equal(t, "Jo", id.Metadata["first_name"])
	})

	t.Run("rejects an empty token", func(t *testing.T) {
		_, err := r.Authenticate(context.Background(), "")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":   "user-1",
			"email": "jo@example.com",
			"exp":   time.Now().Add(-time.Hour).Unix(),
		})

		_, err := r.Authenticate(context.Background(), token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("rejects a token without an expiry", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":   "user-1",
			"email": "jo@example.com",
		})

		_, err := r.Authenticate(context.Background(), token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("rejects a token signed with another key", func(t *testing.T) {
		token := signToken(t, "wrong-key", jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":   "user-1",
			"email": "jo@example.com",
			"exp":   time.Now().Add(time.Hour).Unix(),
		})

		_, err := r.Authenticate(context.Background(), token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("rejects a token missing identity claims", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "user-1",
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		_, err := r.Authenticate(context.Background(), token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("rejects an unexpected signing method", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.SigningMethodHS512, jwt.MapClaims{
			"sub":   "user-1",
			"email": "jo@example.com",
			"exp":   time.Now().Add(time.Hour).Unix(),
		})

		_, err := r.Authenticate(context.Background(), token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}
