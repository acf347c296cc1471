package models

import "time"

// User is the authenticated account profile as returned by the server.
// The client treats it as a snapshot: it is replaced wholesale on login,
// registration, and profile refresh, and only the Balance field is adjusted
// in place after a confirmed transaction.
type User struct {
	// ID is the server-side unique identifier of the user.
	ID int64 `json:"id"`

	// Email is the unique account identifier used during authentication
	// and as the recipient address for transfers.
	Email string `json:"email"`

	// FirstName and LastName are the legal name parts collected at
	// registration.
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	// PhoneNumber is the contact phone collected at registration.
	PhoneNumber string `json:"phone_number"`

	// DateOfBirth is an ISO date string (YYYY-MM-DD); the client never
	// interprets it beyond display.
	DateOfBirth string `json:"date_of_birth"`

	// Address, City, PostalCode and Country form the postal address
	// collected at registration.
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`

	// Balance is the current wallet balance. The server is authoritative;
	// the client caches it and applies confirmed transaction deltas
	// without refetching.
	Balance float64 `json:"balance"`

	// IsVerified reports whether the account passed server-side
	// verification.
	IsVerified bool `json:"is_verified"`

	// CreatedAt is the account creation timestamp.
	CreatedAt time.Time `json:"created_at"`

	// FullName and DisplayName are derived server-side from the name
	// parts; the client shows them as-is.
	FullName    string `json:"full_name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}
