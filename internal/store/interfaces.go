// Package store implements the client-side persistence layer: a single-slot
// durable token store backed by SQLite. The token survives process restarts
// so a returning user is verified against the server instead of logging in
// again.
package store

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/token_repository_mock.go -package=mock

// TokenRepository is the durable slot holding the current bearer token.
// The token is an opaque credential; no validation of its contents happens
// at this layer.
type TokenRepository interface {
	// Get returns the stored token, or an empty string when no token is
	// stored. The empty string is not an error: an anonymous client simply
	// has no session slot filled.
	Get(ctx context.Context) (string, error)

	// Set stores token, replacing any previously stored value.
	Set(ctx context.Context, token string) error

	// Clear removes the stored token. Clearing an empty slot is a no-op.
	Clear(ctx context.Context) error
}
