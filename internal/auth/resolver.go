package auth

import (
	"context"
	"log"

	"github.com/golang-jwt/jwt/v5"

	"github.com/modelify-app/modelify-backend/config"
	"github.com/modelify-app/modelify-backend/internal/auth/domain"
)

// Resolver validates bearer tokens. When a JWT secret is configured it
// verifies HS256 signatures locally without a network call; otherwise (or when
// the local check fails) it delegates to the auth service.
type Resolver struct {
	secret   []byte
	fallback *GoTrueClient
}

func NewResolver(cfg *config.AuthConfig) *Resolver {
	r := &Resolver{}
	if cfg.JWTSecret != "" {
		r.secret = []byte(cfg.JWTSecret)
	}
	if cfg.SupabaseURL != "" {
		r.fallback = NewGoTrueClient(cfg.SupabaseURL, cfg.ServiceKey)
	}
	return r
}

// Authenticate resolves a bearer token to an Identity. Every failure mode
// maps to domain.ErrUnauthorized; internal detail is logged, not returned.
func (r *Resolver) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}

	if r.secret != nil {
		if id, err := r.verifyLocal(token); err == nil {
			return id, nil
		} else if r.fallback == nil {
			log.Printf("auth: local verification failed: %v", err)
			return nil, domain.ErrUnauthorized
		}
	}

	if r.fallback == nil {
		return nil, domain.ErrUnauthorized
	}

	id, err := r.fallback.VerifyToken(ctx, token)
	if err != nil {
		log.Printf("auth: token verification via auth service failed: %v", err)
		return nil, domain.ErrUnauthorized
	}
	return id, nil
}

func (r *Resolver) verifyLocal(token string) (*domain.Identity, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (interface{}, error) { return r.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if sub == "" || email == "" {
		return nil, domain.ErrUnauthorized
	}

	id := &domain.Identity{ID: sub, Email: email}
	if meta, ok := claims["user_metadata"].(map[string]interface{}); ok {
		id.Metadata = meta
	}
	return id, nil
}
