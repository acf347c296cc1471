package models

import "time"

// Card is a saved payment card as stored by the server. The client never
// sees the raw PAN: CardToken is an opaque reference and CardLast4 exists
// for display only.
type Card struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	CardToken string     `json:"card_token"`
	CardLast4 string     `json:"card_last4"`
	CardBrand string     `json:"card_brand"`
	IsDefault bool       `json:"is_default"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// CardListResponse is the body of GET /cards.
type CardListResponse struct {
	Cards []Card `json:"cards"`
	Total int    `json:"total"`
}
