package quizapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"quiz_portal_backend/internal/util"
)

// APIError is returned for every non-2xx answer from the backend.
type APIError struct {
	Status   int
	Message  string
	Method   string
	Endpoint string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *APIError) HTTPStatusCode() int { return e.Status }

// Unwrap lets errors.Is(err, util.ErrNotFound) match backend 404s.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return util.ErrNotFound
	}
	return nil
}

func newAPIError(method, endpoint string, status int, body []byte) *APIError {
	msg := errorMessage(body)
	if msg == "" {
		if status == http.StatusNotFound {
			msg = "resource not found"
		} else {
			msg = fmt.Sprintf("API error: %d", status)
		}
	}
	return &APIError{Status: status, Message: msg, Method: method, Endpoint: endpoint}
}

// errorMessage pulls the message out of {"message": ...} or {"error": ...}
// bodies, falling back to the raw text.
func errorMessage(body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return ""
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return text
	}
	for _, key := range []string{"message", "error"} {
		if s, ok := payload[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
