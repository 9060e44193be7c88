package posts

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salmonumbrella/formkit/internal/form"
	"github.com/salmonumbrella/formkit/internal/testutil"
	"github.com/salmonumbrella/formkit/internal/transport"
	"github.com/salmonumbrella/formkit/internal/validation"
)

func TestExtractPostData(t *testing.T) {
	post, err := ExtractPostData(form.Values{"title": "Foo", "content": "Bar"})
	require.NoError(t, err)
	require.NotNil(t, post)

	assert.Equal(t, "Foo", post.Title)
	assert.Equal(t, "Bar", post.Content)
	assert.True(t, post.Created.IsZero())
}

func TestExtractPostData_KeepsValuesVerbatim(t *testing.T) {
	post, err := ExtractPostData(form.Values{"title": "  Foo ", "content": "line\n"})
	require.NoError(t, err)

	assert.Equal(t, "  Foo ", post.Title)
	assert.Equal(t, "line\n", post.Content)
}

func TestExtractPostData_Missing(t *testing.T) {
	tests := []struct {
		name   string
		values form.Values
	}{
		{name: "no title", values: form.Values{"content": "Bar"}},
		{name: "no content", values: form.Values{"title": "Foo"}},
		{name: "empty title", values: form.Values{"title": "", "content": "Bar"}},
		{name: "nothing", values: form.Values{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, err := ExtractPostData(tt.values)
			assert.NoError(t, err)
			assert.Nil(t, post)
		})
	}
}

func TestExtractPostData_Blank(t *testing.T) {
	tests := []struct {
		name    string
		values  form.Values
		message string
	}{
		{name: "blank title", values: form.Values{"title": "   ", "content": "Bar"}, message: MsgTitleRequired},
		{name: "blank content", values: form.Values{"title": "Foo", "content": "\t\n"}, message: MsgContentRequired},
		{name: "both blank reports title", values: form.Values{"title": " ", "content": " "}, message: MsgTitleRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, err := ExtractPostData(tt.values)
			require.Error(t, err)
			assert.Nil(t, post)
			assert.True(t, validation.IsValidationError(err))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

// spySender records what it was asked to send.
type spySender struct {
	calls    int
	payloads []any
	reply    any
	err      error
}

func (s *spySender) SendDataRequest(_ context.Context, payload any) (any, error) {
	s.calls++
	s.payloads = append(s.payloads, payload)
	return s.reply, s.err
}

func TestService_Save(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	sender := &spySender{reply: map[string]any{"id": "42"}}
	svc := NewService(sender, WithClock(func() time.Time { return fixed }), WithAuthor("max@example.com"))

	post := &PostData{Title: "Foo", Content: "Bar"}
	data, err := svc.Save(context.Background(), post)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"id": "42"}, data)
	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, fixed.UTC(), post.Created)
	assert.Equal(t, "max@example.com", post.Author)
	assert.Same(t, post, sender.payloads[0])
}

func TestService_Save_KeepsExplicitAuthor(t *testing.T) {
	sender := &spySender{}
	svc := NewService(sender, WithAuthor("default@example.com"))

	post := &PostData{Title: "Foo", Content: "Bar", Author: "other@example.com"}
	_, err := svc.Save(context.Background(), post)
	require.NoError(t, err)

	assert.Equal(t, "other@example.com", post.Author)
	assert.False(t, post.Created.IsZero())
}

func TestService_Save_Nil(t *testing.T) {
	sender := &spySender{}

	_, err := NewService(sender).Save(context.Background(), nil)

	assert.ErrorIs(t, err, ErrNoPostData)
	assert.Zero(t, sender.calls)
}

func TestService_Save_RemoteFailure(t *testing.T) {
	remote := &transport.HTTPError{StatusCode: 500, Data: map[string]any{"error": "down"}}
	sender := &spySender{err: remote}

	data, err := NewService(sender).Save(context.Background(), &PostData{Title: "Foo", Content: "Bar"})

	require.Error(t, err)
	assert.Nil(t, data)
	assert.Equal(t, 1, sender.calls)

	var he *transport.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, 500, he.StatusCode)
}

func TestService_Save_OverHTTP(t *testing.T) {
	ms := testutil.NewMockServer()
	defer ms.Close()
	ms.HandleJSON("POST", "/posts", http.StatusCreated, map[string]string{"testKey": "testData"})

	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := NewService(transport.NewClient(ms.URL()+"/posts"), WithClock(func() time.Time { return fixed }))

	data, err := svc.Save(context.Background(), &PostData{Title: "Foo", Content: "Bar"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"testKey": "testData"}, data)

	req, ok := ms.LastRequest()
	require.True(t, ok)

	var sent map[string]any
	require.NoError(t, req.JSON(&sent))
	assert.Equal(t, map[string]any{
		"title":   "Foo",
		"content": "Bar",
		"created": "2026-01-02T03:04:05Z",
	}, sent)
}
