package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxErrorBody = 64 << 10

var (
	// ErrAuthorization signals a 401: missing, wrong or expired credentials.
	ErrAuthorization = errors.New("authorization failed")
	// ErrForbidden signals a 403: authenticated but not allowed.
	ErrForbidden = errors.New("access denied")
	// ErrNotFound signals a 404.
	ErrNotFound = errors.New("not found")
	// ErrNoCredentials is returned before any request is sent when the
	// endpoint needs credentials and the store has none.
	ErrNoCredentials = errors.New("not logged in")
)

// Error is a non-2xx response. Message is what the backend said, if anything.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return fmt.Sprintf("server returned status %d: %s", e.Status, e.Message)
}

// Unwrap maps well-known statuses onto the package sentinels so callers can
// use errors.Is without caring about the message.
func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrAuthorization
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Message returns the most user-friendly text for err: the backend's own
// message when there is one, the error text otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

// errorFromResponse reads the body of a failed response into an *Error.
// The backend answers with {"message": ...}, {"error": ...} or plain text.
func errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &Error{Status: resp.StatusCode, Message: extractMessage(body)}
}

func extractMessage(body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Message != "":
			return payload.Message
		case payload.Error != "":
			return payload.Error
		}
		// Valid JSON without a known field: nothing readable to show.
		if strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[") {
			return ""
		}
	}
	return text
}
