package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// HTTPError is a non-success response. Body holds the raw response text and
// Data the decoded JSON document when the body parses as JSON.
type HTTPError struct {
	Op         string
	StatusCode int
	Status     string
	Body       string
	Data       any
	RetryAfter time.Duration
}

func (e *HTTPError) Error() string {
	body := e.message()
	switch {
	case e.Op != "" && body != "":
		return fmt.Sprintf("%s failed with status %d: %s", e.Op, e.StatusCode, body)
	case e.Op != "":
		return fmt.Sprintf("%s failed with status %d", e.Op, e.StatusCode)
	case body != "":
		return fmt.Sprintf("http status %d: %s", e.StatusCode, body)
	default:
		return fmt.Sprintf("http status %d", e.StatusCode)
	}
}

// message prefers a "message" or "error" string from a JSON body.
func (e *HTTPError) message() string {
	if m, ok := e.Data.(map[string]any); ok {
		for _, key := range []string{"message", "error"} {
			if s, ok := m[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return string(bytes.TrimSpace([]byte(e.Body)))
}

// NewHTTPError constructs an HTTPError from a response and its body.
func NewHTTPError(op string, resp *http.Response, body []byte) *HTTPError {
	he := &HTTPError{
		Op:   op,
		Body: string(body),
	}
	if resp != nil {
		he.Status = resp.Status
		he.StatusCode = resp.StatusCode
		if d, ok := ParseRetryAfter(resp); ok {
			he.RetryAfter = d
		}
	}
	var data any
	if len(bytes.TrimSpace(body)) > 0 && json.Unmarshal(body, &data) == nil {
		he.Data = data
	}
	return he
}

// IsHTTPStatus checks whether an error represents a specific HTTP status.
func IsHTTPStatus(err error, status int) bool {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode == status
	}
	return false
}

// IsUnauthorized checks for 401/403 HTTP errors.
func IsUnauthorized(err error) bool {
	return IsHTTPStatus(err, http.StatusUnauthorized) || IsHTTPStatus(err, http.StatusForbidden)
}

// EncodeError reports a payload that could not be serialized. No request is
// sent when it is returned.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encoding request body: %v", e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// IsEncodeError reports whether err is or wraps an *EncodeError.
func IsEncodeError(err error) bool {
	var ee *EncodeError
	return errors.As(err, &ee)
}
