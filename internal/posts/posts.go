// Package posts extracts post submissions from form values and sends them.
package posts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/salmonumbrella/formkit/internal/form"
	"github.com/salmonumbrella/formkit/internal/validation"
)

// Messages attached to blank required fields.
const (
	MsgTitleRequired   = "A title must be provided."
	MsgContentRequired = "Content must not be empty!"
)

// ErrNoPostData is returned by Save when there is nothing to send.
var ErrNoPostData = errors.New("no post data")

// PostData is one post submission.
type PostData struct {
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Author  string    `json:"author,omitempty"`
	Created time.Time `json:"created"`
}

// ExtractPostData reads title and content from values.
//
// When either field is missing it returns (nil, nil): there is nothing to
// submit, which is not an error. A field submitted blank fails with a
// *validation.ValidationError carrying that field's message. Values are
// returned exactly as submitted, without trimming.
func ExtractPostData(values form.Values) (*PostData, error) {
	in := form.DecodePostInputs(values)
	if in.Title.Missing() || in.Content.Missing() {
		return nil, nil
	}

	if err := validation.NotEmpty(in.Title.Value, MsgTitleRequired); err != nil {
		return nil, err
	}
	if err := validation.NotEmpty(in.Content.Value, MsgContentRequired); err != nil {
		return nil, err
	}

	return &PostData{
		Title:   in.Title.Value,
		Content: in.Content.Value,
	}, nil
}

// Sender delivers a JSON payload and returns the decoded reply.
// *transport.Client satisfies it.
type Sender interface {
	SendDataRequest(ctx context.Context, payload any) (any, error)
}

// Service saves posts through a Sender.
type Service struct {
	sender Sender
	now    func() time.Time
	author string
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the time source used for Created.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithAuthor fills Author on posts that do not name one.
func WithAuthor(email string) Option {
	return func(s *Service) { s.author = email }
}

// NewService creates a Service.
func NewService(sender Sender, opts ...Option) *Service {
	s := &Service{
		sender: sender,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save stamps post.Created with the current time and sends it once. The
// response body is returned unchanged. Remote failures come back as the
// sender reported them, wrapped.
func (s *Service) Save(ctx context.Context, post *PostData) (any, error) {
	if post == nil {
		return nil, ErrNoPostData
	}

	post.Created = s.now().UTC()
	if post.Author == "" {
		post.Author = s.author
	}

	data, err := s.sender.SendDataRequest(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("saving post: %w", err)
	}
	return data, nil
}
