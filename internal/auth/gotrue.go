package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelify-app/modelify-backend/internal/auth/domain"
)

// GoTrueClient asks the hosted auth service (GoTrue) to validate a token by
// fetching the user it belongs to.
type GoTrueClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewGoTrueClient(baseURL, apiKey string) *GoTrueClient {
	return &GoTrueClient{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

type gotrueUser struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
}

// VerifyToken presents the token to GoTrue's user endpoint. A 2xx answer with
// a user id means the token is valid.
func (g *GoTrueClient) VerifyToken(ctx context.Context, token string) (*domain.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if g.apiKey != "" {
		req.Header.Set("apikey", g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("auth service returned %d", resp.StatusCode)
	}

	var u gotrueUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, fmt.Errorf("decode auth response: %w", err)
	}
	if u.ID == "" {
		return nil, domain.ErrUnauthorized
	}

	return &domain.Identity{ID: u.ID, Email: u.Email, Metadata: u.UserMetadata}, nil
}
