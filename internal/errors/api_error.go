package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// APIError is the canonical shape of an HTTP failure from the ResumePilot API.
// The server answers with several body layouts (a bare string, {"error", "field"},
// {"detail"}, or a field -> message-list map for validation failures); all of them
// are normalized into this one type at the service-module boundary so forms can
// consume a single shape.
type APIError struct {
	StatusCode  int               `json:"status_code"`
	Message     string            `json:"message"`
	Field       string            `json:"field,omitempty"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("api error %d: %s (field: %s)", e.StatusCode, e.Message, e.Field)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsAuthFailure reports whether this failure must trigger the global
// logout-and-redirect path instead of local error handling.
func (e *APIError) IsAuthFailure() bool {
	return e.StatusCode == http.StatusUnauthorized
}

func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// FormMessage joins field-level errors into a banner-ready multi-line message.
// When no field errors are present it returns the plain message.
func (e *APIError) FormMessage() string {
	if len(e.FieldErrors) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.FieldErrors))
	for k := range e.FieldErrors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", k, e.FieldErrors[k]))
	}
	return strings.Join(lines, "\n")
}

// NormalizeAPIResponse builds an APIError from a non-2xx response body.
func NormalizeAPIResponse(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Message:    defaultMessage(statusCode),
	}

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return apiErr
	}

	// Bare string body.
	var plain string
	if err := json.Unmarshal(body, &plain); err == nil {
		apiErr.Message = plain
		return apiErr
	}

	var shaped map[string]json.RawMessage
	if err := json.Unmarshal(body, &shaped); err != nil {
		// Not JSON at all; keep the raw text so the user still sees something.
		apiErr.Message = trimmed
		return apiErr
	}

	if raw, ok := shaped["error"]; ok {
		var msg string
		if json.Unmarshal(raw, &msg) == nil && msg != "" {
			apiErr.Message = msg
		}
		if rawField, ok := shaped["field"]; ok {
			var field string
			if json.Unmarshal(rawField, &field) == nil {
				apiErr.Field = field
			}
		}
		return apiErr
	}

	if raw, ok := shaped["detail"]; ok {
		var msg string
		if json.Unmarshal(raw, &msg) == nil && msg != "" {
			apiErr.Message = msg
		}
		return apiErr
	}

	// Validation map: field -> message or field -> [messages].
	fieldErrors := make(map[string]string, len(shaped))
	for key, raw := range shaped {
		var many []string
		if json.Unmarshal(raw, &many) == nil {
			fieldErrors[key] = strings.Join(many, ", ")
			continue
		}
		var one string
		if json.Unmarshal(raw, &one) == nil {
			fieldErrors[key] = one
			continue
		}
		fieldErrors[key] = string(raw)
	}
	if len(fieldErrors) > 0 {
		apiErr.FieldErrors = fieldErrors
		apiErr.Message = apiErr.FormMessage()
		if len(fieldErrors) == 1 {
			for k := range fieldErrors {
				apiErr.Field = k
			}
		}
	}
	return apiErr
}

func defaultMessage(statusCode int) string {
	if text := http.StatusText(statusCode); text != "" {
		return text
	}
	return fmt.Sprintf("request failed with status %d", statusCode)
}

// AsAPIError unwraps err to an *APIError if one is present in the chain.
func AsAPIError(err error) (*APIError, bool) {
	for err != nil {
		if apiErr, ok := err.(*APIError); ok {
			return apiErr, true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = unwrapper.Unwrap()
	}
	return nil, false
}
