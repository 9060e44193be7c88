// Package formserver accepts form submissions over local HTTP and runs them
// through the calculation and post flows. Each response carries what the
// result and error areas of a form page would show.
package formserver

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/salmonumbrella/formkit/internal/calc"
	"github.com/salmonumbrella/formkit/internal/form"
	"github.com/salmonumbrella/formkit/internal/logging"
	"github.com/salmonumbrella/formkit/internal/posts"
	"github.com/salmonumbrella/formkit/internal/submit"
	"github.com/salmonumbrella/formkit/internal/transport"
)

// KeyHeader carries the access key on every request.
const KeyHeader = "X-Formkit-Key"

// DefaultAddr binds to loopback on a free port.
const DefaultAddr = "127.0.0.1:0"

// maxFormBytes bounds a submitted form body.
const maxFormBytes = 1 << 20

// ErrNoSaver is reported when posts are submitted but no endpoint is set up.
var ErrNoSaver = errors.New("post submission is not configured")

// Response is the JSON body of every form endpoint.
type Response struct {
	Kind      string `json:"kind,omitempty"`
	Result    string `json:"result"`
	Error     string `json:"error,omitempty"`
	Submitted bool   `json:"submitted,omitempty"`
	Reply     any    `json:"reply,omitempty"`
}

// Server handles form submissions.
type Server struct {
	addr    string
	key     string
	saver   submit.Saver
	logger  *slog.Logger
	limiter *rate.Limiter
	metrics *metrics
	server  *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithKey fixes the access key instead of generating one.
func WithKey(key string) Option {
	return func(s *Server) { s.key = key }
}

// WithSaver enables /posts.
func WithSaver(saver submit.Saver) Option {
	return func(s *Server) { s.saver = saver }
}

// WithRateLimit caps form submissions at rps per second with bursts of
// burst. Non-positive values leave submissions unlimited.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps > 0 && burst > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		} else {
			s.limiter = nil
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Server. Without WithKey a random key is generated.
func New(opts ...Option) (*Server, error) {
	s := &Server{
		addr:    DefaultAddr,
		logger:  logging.Discard(),
		metrics: newMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.key == "" {
		key, err := generateKey()
		if err != nil {
			return nil, err
		}
		s.key = key
	}
	return s, nil
}

// Key returns the access key clients must send in KeyHeader.
func (s *Server) Key() string {
	return s.key
}

func generateKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate access key: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Handler returns the routes. Form endpoints take POST only and require
// the access key; /healthz and /metrics are open.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())

	r.Group(func(r chi.Router) {
		r.Use(s.requireKey, s.rateLimit)
		r.Post("/calculate", s.handleCalculate)
		r.Post("/posts", s.handlePost)
	})
	return r
}

// Listen binds the listen address.
func (s *Server) Listen() (net.Listener, error) {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return listener, nil
}

// Serve handles requests on listener until ctx is done.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx) //nolint:errcheck // best-effort shutdown
		return nil
	}
}

func (s *Server) requireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get(KeyHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.key)) != 1 {
			writeJSON(w, http.StatusForbidden, Response{Error: "Invalid access key"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			s.metrics.limited.Inc()
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, Response{Error: "Too many requests"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func parseForm(w http.ResponseWriter, r *http.Request) (form.Values, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{Error: "Invalid form body"})
		return nil, false
	}
	return form.FromURLValues(r.PostForm), true
}

// resultArea is the calc.Display of one response.
type resultArea struct {
	text string
}

func (a *resultArea) Show(text string) error {
	a.text = text
	return nil
}

// errorArea is the submit.ErrorDisplay of one response. Each message
// replaces the previous one.
type errorArea struct {
	message string
}

func (a *errorArea) ShowError(message string) error {
	a.message = message
	return nil
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	values, ok := parseForm(w, r)
	if !ok {
		return
	}

	area := &resultArea{}
	result, err := submit.Calculation(values, area)
	resp := Response{Kind: result.Kind().String(), Result: area.text}
	if err != nil {
		resp.Error = err.Error()
	}
	s.logger.Debug("calculate", "kind", resp.Kind)
	s.metrics.record("calculate", resp.Kind)

	status := http.StatusOK
	if result.Kind() == calc.KindInvalid {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	values, ok := parseForm(w, r)
	if !ok {
		return
	}

	saver := s.saver
	if saver == nil {
		saver = noSaver{}
	}

	area := &errorArea{}
	outcome, err := submit.Post(r.Context(), values, saver, area)
	resp := Response{Submitted: outcome.Submitted, Reply: outcome.Response, Error: area.message}
	s.logger.Debug("post", "submitted", outcome.Submitted, "error", err)

	status, result := http.StatusOK, outcomeSubmitted
	switch {
	case err == nil:
		if !outcome.Submitted {
			result = outcomeSkipped
		}
	case errors.Is(err, ErrNoSaver):
		status, result = http.StatusServiceUnavailable, outcomeFailed
	case outcome.Post == nil:
		status, result = http.StatusUnprocessableEntity, outcomeRejected
	default:
		status, result = http.StatusBadGateway, outcomeFailed
		var he *transport.HTTPError
		if errors.As(err, &he) && he.RetryAfter > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(he.RetryAfter.Round(time.Second)/time.Second)))
		}
	}
	s.metrics.record("posts", result)
	writeJSON(w, status, resp)
}

type noSaver struct{}

func (noSaver) Save(context.Context, *posts.PostData) (any, error) {
	return nil, ErrNoSaver
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data) //nolint:errcheck // best-effort JSON encode
}
