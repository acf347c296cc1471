package adapter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/avitali/borsellino/models"
)

// Sentinel errors mapped from transport-level failures. Callers discriminate
// with errors.Is; the session layer reacts to ErrUnauthorized by forcing a
// logout transition.
var (
	// ErrConnection indicates the server could not be reached at all
	// (network error or request timeout). Distinct from HTTP error
	// responses, which always carry one of the other variants.
	ErrConnection = errors.New("server unreachable")

	// ErrUnauthorized maps HTTP 401: the bearer token is expired, revoked
	// or invalid.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrServer maps HTTP 5xx responses.
	ErrServer = errors.New("server error")
)

// ValidationError carries the per-field messages of an HTTP 422 response.
// It never changes session state; callers format the field details for the
// user.
type ValidationError struct {
	Fields []models.FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// DomainError carries the human-readable detail of a non-422 4xx response
// (insufficient balance, duplicate email, card not found, self-transfer).
// The detail is surfaced verbatim from the server.
type DomainError struct {
	Status int
	Detail string
}

func (e *DomainError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("request rejected (http %d)", e.Status)
	}
	return e.Detail
}
