package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// RecordedRequest is a request as the server received it.
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// JSON decodes the recorded body into v.
func (r RecordedRequest) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// MockServer provides HTTP mocking for client tests.
type MockServer struct {
	Server   *httptest.Server
	mu       sync.Mutex
	routes   map[string]map[string]http.HandlerFunc // method -> path -> handler
	requests []RecordedRequest
}

// NewMockServer creates a test server.
func NewMockServer() *MockServer {
	ms := &MockServer{
		routes: make(map[string]map[string]http.HandlerFunc),
	}

	ms.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body) //nolint:errcheck // recorded best-effort
		r.Body = io.NopCloser(bytes.NewReader(body))

		ms.mu.Lock()
		ms.requests = append(ms.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   body,
		})
		handler, ok := ms.routes[r.Method][r.URL.Path]
		ms.mu.Unlock()

		if ok {
			handler(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		//nolint:errcheck // test utility: encoding errors not actionable
		json.NewEncoder(w).Encode(map[string]string{
			"error": "not found",
			"path":  r.URL.Path,
		})
	}))

	return ms
}

// Close shuts down the server.
func (m *MockServer) Close() {
	m.Server.Close()
}

// URL returns the server URL.
func (m *MockServer) URL() string {
	return m.Server.URL
}

// Client returns an HTTP client wired to the server.
func (m *MockServer) Client() *http.Client {
	return m.Server.Client()
}

// Handle registers a handler for a path and method.
func (m *MockServer) Handle(method, path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.routes[method] == nil {
		m.routes[method] = make(map[string]http.HandlerFunc)
	}
	m.routes[method][path] = handler
}

// HandleJSON registers a handler that returns JSON.
func (m *MockServer) HandleJSON(method, path string, statusCode int, response any) {
	m.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		//nolint:errcheck // test utility: encoding errors not actionable
		json.NewEncoder(w).Encode(response)
	})
}

// HandleError registers a handler that returns a JSON error document.
func (m *MockServer) HandleError(method, path string, statusCode int, message string) {
	m.HandleJSON(method, path, statusCode, map[string]string{
		"error":   http.StatusText(statusCode),
		"message": message,
	})
}

// HandleText registers a handler that returns body verbatim.
func (m *MockServer) HandleText(method, path string, statusCode int, body string) {
	m.Handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(statusCode)
		_, _ = io.WriteString(w, body)
	})
}

// Requests returns every request received so far, oldest first.
func (m *MockServer) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]RecordedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// LastRequest returns the most recent request.
func (m *MockServer) LastRequest() (RecordedRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.requests) == 0 {
		return RecordedRequest{}, false
	}
	return m.requests[len(m.requests)-1], true
}
