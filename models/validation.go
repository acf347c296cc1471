package models

// FieldError is a single entry of the structured 422 validation response.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

// ValidationResponse is the body the server sends with HTTP 422.
type ValidationResponse struct {
	Detail      []FieldError `json:"detail"`
	Message     string       `json:"message,omitempty"`
	ErrorsCount int          `json:"errors_count,omitempty"`
}

// ErrorResponse is the generic error body carried by non-422 HTTP errors.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
