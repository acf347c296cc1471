package models

import "time"

// Transaction types as reported by the server in the transaction_type field.
const (
	TransactionTransfer = "transfer"
	TransactionRecharge = "recharge"
)

// Transaction is a single ledger movement. It is immutable once received
// from the server; the client only prepends new transactions to its cached
// history.
type Transaction struct {
	// ID is the server-assigned transaction identifier.
	ID int64 `json:"id"`

	// FromUserID is the sender; nil for external recharges.
	FromUserID *int64 `json:"from_user_id,omitempty"`

	// ToUserID is the recipient of the money movement.
	ToUserID *int64 `json:"to_user_id,omitempty"`

	// Amount is always positive; the direction is carried by Type and the
	// from/to pair.
	Amount float64 `json:"amount"`

	// Type is one of [TransactionTransfer] or [TransactionRecharge].
	Type string `json:"transaction_type"`

	// Description is the free-form note attached to the movement. The
	// server fills a default when the sender leaves it empty.
	Description string `json:"description,omitempty"`

	// CreatedAt is the server-side timestamp of the movement.
	CreatedAt time.Time `json:"created_at"`
}

// TransferRequest is the body of POST /transfer.
type TransferRequest struct {
	ToEmail     string  `json:"to_email"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

// CardData carries raw card fields for a recharge with a new card. It is
// only ever attached to a request when the caller explicitly selected
// "new card"; saved-card recharges send the opaque token alone.
type CardData struct {
	CardNumber     string `json:"card_number"`
	ExpiryDate     string `json:"expiry_date"`
	CVV            string `json:"cvv"`
	CardholderName string `json:"cardholder_name"`
}

// RechargeRequest is the body of POST /recharge.
type RechargeRequest struct {
	Amount    float64   `json:"amount"`
	CardToken string    `json:"card_token"`
	SaveCard  bool      `json:"save_card"`
	CardData  *CardData `json:"card_data,omitempty"`
}
