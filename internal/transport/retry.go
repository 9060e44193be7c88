package transport

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"
)

// The client never retries on its own. These helpers let a caller decide
// whether a failed request is worth sending again and when.

// ParseRetryAfter parses the Retry-After header if present.
func ParseRetryAfter(resp *http.Response) (time.Duration, bool) {
	if resp == nil {
		return 0, false
	}
	value := resp.Header.Get("Retry-After")
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if t, err := http.ParseTime(value); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}

// IsRetriableStatus reports if an HTTP status code is retriable.
func IsRetriableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// IsRetriableError reports if a transport-level error is a network
// timeout. An expired or cancelled context is the caller's own deadline and
// is never retriable.
func IsRetriableError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

// IsRetriable classifies any error returned by Client: a retriable HTTP
// status or a network timeout. Encode and validation failures never are.
func IsRetriable(err error) bool {
	if err == nil || IsEncodeError(err) {
		return false
	}
	var he *HTTPError
	if errors.As(err, &he) {
		return IsRetriableStatus(he.StatusCode)
	}
	return IsRetriableError(err)
}
