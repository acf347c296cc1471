// Package service implements the client-side session and
// balance-consistency layer: the authentication state machine, the
// transaction coordinator with its optimistic cache reconciliation, and the
// observable account state the UI reads from.
package service

import (
	"context"
	"time"

	"github.com/avitali/borsellino/models"
)

//go:generate mockgen -source=interfaces.go -destination=mock_services_test.go -package=service

// AuthService owns the session state machine over anonymous/loading/
// authenticated and is, together with the transport's renewal adoption, the
// only writer of the durable token slot.
type AuthService interface {
	// Bootstrap restores the session at startup: with no stored token it
	// settles on anonymous immediately; with one it verifies the token by
	// fetching the profile. Any verification failure (expired token,
	// unreachable server) lands in anonymous with the token cleared and is
	// reported to the caller.
	Bootstrap(ctx context.Context) error

	// Login authenticates with credentials. On success the token is
	// persisted and the session becomes authenticated with the returned
	// profile. Failures leave the session state untouched; a 422 surfaces
	// as *adapter.ValidationError.
	Login(ctx context.Context, email, password string) error

	// Register creates an account from the full registration payload. Same
	// contract as Login, including the validation-error distinction.
	Register(ctx context.Context, req models.RegisterRequest) error

	// Logout clears the token and profile and settles on anonymous. It is
	// synchronous and cannot fail.
	Logout()

	// RefreshProfile re-fetches the profile with the current token. Success
	// replaces the cached snapshot; any failure forces a logout transition
	// in addition to being returned.
	RefreshProfile(ctx context.Context) error
}

// RechargeOrder is the caller-side description of a top-up: either an
// opaque saved-card token, or the raw fields of a new card (with an optional
// request to persist it).
type RechargeOrder struct {
	Amount float64

	// CardToken selects a saved card. Ignored when NewCard is set.
	CardToken string

	// NewCard carries the raw card fields when the caller explicitly
	// selected "new card". A fresh opaque token is generated for it.
	NewCard *models.CardData

	// SaveCard requests server-side persistence of NewCard. Only honored
	// for new cards.
	SaveCard bool
}

// WalletService coordinates money movement and card management through the
// server, keeping the cached balance and history consistent via the
// apply-delta-on-success rule. A 401 on any operation forces a logout
// transition in addition to surfacing the error.
type WalletService interface {
	// Transfer sends amount to the user identified by toEmail. Guard rails
	// checked before any network call: amount must be positive and not
	// exceed the cached balance. On success the cached balance is
	// decremented and the transaction prepended to history.
	Transfer(ctx context.Context, toEmail string, amount float64, description string) (models.Transaction, error)

	// Recharge tops up the balance. Guard rails: amount within (0, 10000];
	// a new card requires all card fields; otherwise a saved card must be
	// selected. On success the cached balance is incremented and the
	// transaction prepended. The second return reports whether a card save
	// was requested, prompting the caller to reload the card list.
	Recharge(ctx context.Context, order RechargeOrder) (models.Transaction, bool, error)

	// LoadTransactions refetches the full history into the account cache.
	LoadTransactions(ctx context.Context) error

	// Cards returns the saved-card snapshot from the server.
	Cards(ctx context.Context) ([]models.Card, error)

	// SetDefaultCard and DeleteCard are passthrough commands; the caller
	// reloads the list afterwards instead of mutating any local copy.
	SetDefaultCard(ctx context.Context, cardID int64) error
	DeleteCard(ctx context.Context, cardID int64) error
}

// RefreshJob periodically re-fetches the authenticated profile in the
// background, picking up server-side balance changes and keeping the
// sliding session alive.
type RefreshJob interface {
	Start(ctx context.Context, interval time.Duration)
	Stop()
}
