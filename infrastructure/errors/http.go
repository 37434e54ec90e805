// Package errors turns failed upstream HTTP responses into typed errors.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxBody caps how much of an error body is retained.
const maxBody = 4 << 10

// HTTPError is a non-2xx upstream response.
type HTTPError struct {
	StatusCode int
	Status     string
	Message    string
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream returned %d", e.StatusCode)
}

// Retryable reports whether the request may succeed if repeated:
// rate limiting and server-side failures.
func (e *HTTPError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// FromResponse returns nil for 1xx-3xx responses. Otherwise it reads (part of)
// the body and extracts a message from the common JSON error envelopes:
//
//	{"error": "text"}
//	{"message": "text"}
//	{"error": {"type": "...", "message": "text"}}  (Airtable, MediaStack)
func FromResponse(resp *http.Response) error {
	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}

	httpErr := &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		httpErr.Message = "unreadable error body"
		return httpErr
	}
	httpErr.Body = string(body)
	httpErr.Message = messageFrom(body)

	return httpErr
}

func messageFrom(body []byte) string {
	var envelope struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if json.Unmarshal(body, &envelope) != nil {
		return strings.TrimSpace(string(body))
	}

	if len(envelope.Error) > 0 {
		var text string
		if json.Unmarshal(envelope.Error, &text) == nil && text != "" {
			return text
		}
		var nested struct {
			Type    string `json:"type"`
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(envelope.Error, &nested) == nil {
			switch {
			case nested.Message != "":
				return nested.Message
			case nested.Type != "":
				return nested.Type
			case nested.Code != "":
				return nested.Code
			}
		}
	}

	return envelope.Message
}

// StatusCode extracts the status of a wrapped HTTPError.
func StatusCode(err error) (int, bool) {
	var httpErr *HTTPError
	if stderrors.As(err, &httpErr) {
		return httpErr.StatusCode, true
	}
	return 0, false
}

// IsRetryable reports whether err wraps a retryable HTTPError. Errors that are
// not HTTP responses (connection resets, timeouts) are treated as retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var httpErr *HTTPError
	if stderrors.As(err, &httpErr) {
		return httpErr.Retryable()
	}
	return true
}
