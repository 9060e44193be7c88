// Package ui is the terminal display: a result area on stdout and a status
// area on stderr, with optional color. It respects NO_COLOR.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
)

// ANSI palette indexes.
const (
	colorRed    = "1"
	colorGreen  = "2"
	colorYellow = "3"
)

type UI struct {
	out    io.Writer
	errOut *termenv.Output
	color  bool
}

type contextKey struct{}

// New creates a UI on stdout and stderr.
// colorMode can be "never", "always", or "auto".
func New(colorMode string) *UI {
	return NewWithWriters(colorMode, os.Stdout, os.Stderr)
}

// NewWithWriters creates a UI writing results to out and messages to errOut.
// The NO_COLOR environment variable overrides color=always.
func NewWithWriters(colorMode string, out, errOut io.Writer) *UI {
	var color bool
	termOut := termenv.NewOutput(errOut)

	switch colorMode {
	case "never":
		color = false
	case "always":
		color = true
		termOut = termenv.NewOutput(errOut, termenv.WithProfile(termenv.ANSI))
	default: // auto
		color = termOut.ColorProfile() != termenv.Ascii
	}

	if os.Getenv("NO_COLOR") != "" {
		color = false
	}

	return &UI{out: out, errOut: termOut, color: color}
}

// Show writes text to the result area. Empty text leaves the area blank.
func (u *UI) Show(text string) error {
	if text == "" {
		return nil
	}
	_, err := fmt.Fprintln(u.out, text)
	return err
}

// ShowError replaces the error area with msg, in red.
func (u *UI) ShowError(msg string) error {
	_, err := fmt.Fprintln(u.errOut, u.paint(msg, colorRed))
	return err
}

// Success prints a success message in green to stderr.
func (u *UI) Success(msg string) {
	fmt.Fprintln(u.errOut, u.paint(msg, colorGreen))
}

// Error prints an error message in red to stderr.
func (u *UI) Error(msg string) {
	fmt.Fprintln(u.errOut, u.paint(msg, colorRed))
}

// Warning prints a warning message in yellow to stderr.
func (u *UI) Warning(msg string) {
	fmt.Fprintln(u.errOut, u.paint(msg, colorYellow))
}

// Info prints an informational message to stderr.
func (u *UI) Info(msg string) {
	fmt.Fprintln(u.errOut, msg)
}

func (u *UI) paint(msg, color string) string {
	if !u.color {
		return msg
	}
	return u.errOut.String(msg).Foreground(u.errOut.Color(color)).String()
}

// WithUI stores the UI in the context.
func WithUI(ctx context.Context, u *UI) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

// FromContext retrieves the UI from the context.
// If no UI is found in the context, returns New("auto").
func FromContext(ctx context.Context) *UI {
	if u, ok := ctx.Value(contextKey{}).(*UI); ok {
		return u
	}
	return New("auto")
}
