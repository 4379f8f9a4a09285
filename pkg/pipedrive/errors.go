package pipedrive

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TransportError wraps a connection-level failure (DNS, timeout, reset). The
// underlying cause is preserved for errors.Is/As.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("pipedrive: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError is a response outside the 2xx range. Message is taken from the
// body's "error" field, then "message", then the literal HTTP status code.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pipedrive: %s: %s", e.Op, e.Message)
}

// ProtocolError is a transport- and status-successful response that violates
// the expected contract: missing id, wrong id type, or a non-JSON body. A
// bounded excerpt of the raw body is kept for diagnosis.
type ProtocolError struct {
	Op          string
	StatusCode  int
	Reason      string
	BodyExcerpt string
}

func (e *ProtocolError) Error() string {
	if e.BodyExcerpt == "" {
		return fmt.Sprintf("pipedrive: %s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("pipedrive: %s: %s; excerpt: %s", e.Op, e.Reason, e.BodyExcerpt)
}

// errorMessage extracts a human-readable message from an error response body,
// falling back to the HTTP status line when the body has neither an "error"
// nor a "message" field.
func errorMessage(body []byte, statusCode int) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return fmt.Sprintf("HTTP %d", statusCode)
}

// excerpt returns at most n bytes of the body with surrounding whitespace
// stripped.
func excerpt(body []byte, n int) string {
	s := strings.TrimSpace(string(body))
	if len(s) > n {
		s = s[:n]
	}
	return s
}
