package domain

import "errors"

// ErrUnauthorized covers every authentication failure: missing, malformed,
// expired or unverifiable credentials. Callers never see the underlying cause.
var ErrUnauthorized = errors.New("unauthorized")

// Identity is the per-request authenticated identity. It is synthesized from
// the bearer token (or the auth service's answer) and never persisted.
type Identity struct {
	ID       string                 `json:"id"`
	Email    string                 `json:"email"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}
