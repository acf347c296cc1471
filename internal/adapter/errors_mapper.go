package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/avitali/borsellino/models"
)

// mapHTTPError converts a non-2xx response into the error taxonomy: 401
// becomes ErrUnauthorized, 422 a *ValidationError, 5xx ErrServer, and any
// other 4xx a *DomainError with the server detail preserved verbatim.
func mapHTTPError(resp *resty.Response) error {
	status := resp.StatusCode()
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		return nil
	}

	switch {
	case status == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, responseDetail(resp))
	case status == http.StatusUnprocessableEntity:
		return validationError(resp)
	case status >= http.StatusInternalServerError:
		return fmt.Errorf("%w: http %d: %s", ErrServer, status, responseDetail(resp))
	default:
		return &DomainError{Status: status, Detail: responseDetail(resp)}
	}
}

func validationError(resp *resty.Response) error {
	var vr models.ValidationResponse
	if err := json.Unmarshal(resp.Body(), &vr); err != nil || len(vr.Detail) == 0 {
		// 422 without the structured shape degrades to a domain error
		return &DomainError{Status: resp.StatusCode(), Detail: responseDetail(resp)}
	}
	return &ValidationError{Fields: vr.Detail}
}

// responseDetail extracts the "detail" field of a JSON error body, falling
// back to the raw body and then the status text.
func responseDetail(resp *resty.Response) string {
	var er models.ErrorResponse
	if err := json.Unmarshal(resp.Body(), &er); err == nil && er.Detail != "" {
		return er.Detail
	}

	if body := strings.TrimSpace(string(resp.Body())); body != "" {
		return body
	}
	return http.StatusText(resp.StatusCode())
}
