package submit

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salmonumbrella/formkit/internal/calc"
	"github.com/salmonumbrella/formkit/internal/form"
	"github.com/salmonumbrella/formkit/internal/posts"
	"github.com/salmonumbrella/formkit/internal/testutil"
	"github.com/salmonumbrella/formkit/internal/transport"
	"github.com/salmonumbrella/formkit/internal/validation"
)

// fakeDisplay records everything written to either area.
type fakeDisplay struct {
	results []string
	errors  []string
	err     error
}

func (d *fakeDisplay) Show(text string) error {
	d.results = append(d.results, text)
	return d.err
}

func (d *fakeDisplay) ShowError(msg string) error {
	d.errors = append(d.errors, msg)
	return d.err
}

func TestCalculation(t *testing.T) {
	tests := []struct {
		name    string
		values  form.Values
		text    string
		kind    calc.Kind
		wantErr bool
	}{
		{name: "two numbers", values: form.Values{"num1": "1", "num2": "2"}, text: "Result: 3", kind: calc.KindTotal},
		{name: "one number", values: form.Values{"num1": "5"}, text: "Result: 5", kind: calc.KindTotal},
		{name: "empty fields", values: form.Values{"num1": "", "num2": ""}, text: "Result: 0", kind: calc.KindTotal},
		{name: "nothing", values: form.Values{}, text: "", kind: calc.KindNoCalc},
		{name: "blank", values: form.Values{"num1": "1", "num2": "  "}, text: calc.MsgInvalid, kind: calc.KindInvalid, wantErr: true},
		{name: "word", values: form.Values{"num1": "one", "num2": "2"}, text: calc.MsgInvalid, kind: calc.KindInvalid, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDisplay{}

			result, err := Calculation(tt.values, d)

			assert.Equal(t, tt.wantErr, err != nil)
			assert.Equal(t, tt.kind, result.Kind())
			assert.Equal(t, []string{tt.text}, d.results)
			assert.Empty(t, d.errors)
		})
	}
}

func TestCalculation_DisplayFailure(t *testing.T) {
	boom := errors.New("closed")

	_, err := Calculation(form.Values{"num1": "x"}, &fakeDisplay{err: boom})

	assert.ErrorIs(t, err, boom)
}

func TestCalculateFields(t *testing.T) {
	d := &fakeDisplay{}

	result, err := CalculateFields([]form.Field{form.Value("1"), form.Value("2"), form.Value("0x10")}, d)

	require.NoError(t, err)
	v, _ := result.Value()
	assert.Equal(t, float64(19), v)
	assert.Equal(t, []string{"Result: 19"}, d.results)
}

// fakeSaver returns canned results and counts calls.
type fakeSaver struct {
	calls int
	resp  any
	err   error
}

func (s *fakeSaver) Save(_ context.Context, post *posts.PostData) (any, error) {
	s.calls++
	return s.resp, s.err
}

func TestPost_Submits(t *testing.T) {
	saver := &fakeSaver{resp: map[string]any{"id": "1"}}
	d := &fakeDisplay{}

	out, err := Post(context.Background(), form.Values{"title": "Foo", "content": "Bar"}, saver, d)

	require.NoError(t, err)
	assert.True(t, out.Submitted)
	assert.Equal(t, "Foo", out.Post.Title)
	assert.Equal(t, map[string]any{"id": "1"}, out.Response)
	assert.Equal(t, 1, saver.calls)
	assert.Empty(t, d.errors)
}

func TestPost_MissingFieldSendsNothing(t *testing.T) {
	saver := &fakeSaver{}
	d := &fakeDisplay{}

	out, err := Post(context.Background(), form.Values{"title": "Foo"}, saver, d)

	require.NoError(t, err)
	assert.False(t, out.Submitted)
	assert.Nil(t, out.Post)
	assert.Zero(t, saver.calls)
	assert.Empty(t, d.errors)
}

func TestPost_BlankFieldShowsMessage(t *testing.T) {
	saver := &fakeSaver{}
	d := &fakeDisplay{}

	_, err := Post(context.Background(), form.Values{"title": "Foo", "content": "   "}, saver, d)

	require.Error(t, err)
	assert.True(t, validation.IsValidationError(err))
	assert.Equal(t, []string{posts.MsgContentRequired}, d.errors)
	assert.Zero(t, saver.calls)
}

func TestPost_RemoteFailureShowsMessage(t *testing.T) {
	ms := testutil.NewMockServer()
	defer ms.Close()
	ms.HandleError("POST", "/posts", http.StatusInternalServerError, "database offline")

	svc := posts.NewService(transport.NewClient(ms.URL()+"/posts"), posts.WithClock(func() time.Time {
		return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	}))
	d := &fakeDisplay{}

	out, err := Post(context.Background(), form.Values{"title": "Foo", "content": "Bar"}, svc, d)

	require.Error(t, err)
	assert.False(t, out.Submitted)
	assert.True(t, transport.IsHTTPStatus(err, http.StatusInternalServerError))
	require.Len(t, d.errors, 1)
	assert.Contains(t, d.errors[0], "database offline")
	assert.Len(t, ms.Requests(), 1)
}
