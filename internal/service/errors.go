package service

import "errors"

// Guard-rail errors returned before any network call is made. They are
// optimistic, non-authoritative checks: the server remains the final
// authority and may still reject a request that passed them.
var (
	// ErrAmountNotPositive rejects zero or negative amounts.
	ErrAmountNotPositive = errors.New("amount must be greater than zero")
	// ErrInsufficientBalance rejects a transfer exceeding the cached
	// balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrRechargeLimit rejects a recharge above the per-operation cap.
	ErrRechargeLimit = errors.New("recharge amount exceeds the limit")
	// ErrCardDetailsRequired rejects a new-card recharge with missing card
	// fields.
	ErrCardDetailsRequired = errors.New("all card fields are required")
	// ErrNoCardSelected rejects a recharge with neither a saved card nor
	// new card details.
	ErrNoCardSelected = errors.New("no card selected")
	// ErrNotAuthenticated rejects wallet operations outside an
	// authenticated session.
	ErrNotAuthenticated = errors.New("not authenticated")
)
