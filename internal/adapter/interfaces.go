// Package adapter provides the transport layer for communicating with the
// wallet server.
//
// The primary abstraction is [ServerAdapter], which decouples the service
// layer from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]) that attaches the bearer token to
// every authenticated call and transparently adopts sliding-session token
// renewals issued by the server.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] and [errors.As] for
// transport-agnostic error handling (e.g. [ErrUnauthorized] for 401,
// [*ValidationError] for 422).
package adapter

import (
	"context"

	"github.com/avitali/borsellino/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the wallet
// server. Implementations are responsible for serialisation, authentication
// header management, sliding-session token adoption, and mapping
// transport-level errors to the taxonomy defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token that will be attached to all
	// subsequent authenticated requests. The session layer calls it after
	// restoring a persisted token; Login and Register call it internally.
	SetToken(token string)

	// Token returns the bearer token currently held by the adapter, or an
	// empty string if none has been set.
	Token() string

	// Login authenticates with email/password credentials. On success the
	// returned access token is stored via SetToken. A 422 response surfaces
	// as *ValidationError with per-field messages.
	Login(ctx context.Context, req models.LoginRequest) (models.AuthResponse, error)

	// Register creates a new account from the full registration payload.
	// Same contract as Login, including the validation-error distinction.
	Register(ctx context.Context, req models.RegisterRequest) (models.AuthResponse, error)

	// GetProfile fetches the authenticated user's profile from GET /me.
	GetProfile(ctx context.Context) (models.User, error)

	// GetTransactions fetches the user's transaction history, newest first.
	GetTransactions(ctx context.Context) ([]models.Transaction, error)

	// Transfer sends money to another user and returns the created
	// transaction. Domain rejections (insufficient balance, unknown
	// recipient, self-transfer) surface as *DomainError.
	Transfer(ctx context.Context, req models.TransferRequest) (models.Transaction, error)

	// Recharge tops up the balance through a card and returns the created
	// transaction. Raw card data is only present in req when the caller
	// selected a new card.
	Recharge(ctx context.Context, req models.RechargeRequest) (models.Transaction, error)

	// GetCards fetches the saved-card snapshot. The client never mutates
	// cards locally; it reissues this call after card commands.
	GetCards(ctx context.Context) (models.CardListResponse, error)

	// SetDefaultCard marks the card as the default one. Exactly one card is
	// default at a time, enforced server-side.
	SetDefaultCard(ctx context.Context, cardID int64) error

	// DeleteCard removes a saved card.
	DeleteCard(ctx context.Context, cardID int64) error
}
