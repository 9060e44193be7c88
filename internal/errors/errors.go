// Package errors attaches context and user-facing suggestions to errors.
package errors

import (
	"errors"
	"fmt"
)

// Suggestions shown under an error message.
const (
	SuggestionReauth         = "Run 'formkit auth add <email>' to store a fresh token for this endpoint"
	SuggestionCheckNumbers   = "Enter numbers such as 3, -1.5, 2e3 or 0x1F"
	SuggestionCheckEmail     = "Verify your email address is correct"
	SuggestionCheckNet       = "Check your network connection and try again"
	SuggestionRetryLater     = "The endpoint is busy or failing; try again later"
	SuggestionSetEndpoint    = "Pass --endpoint, set FORMKIT_ENDPOINT, or add 'endpoint' to the config file"
	SuggestionSigningSecret  = "Set FORMKIT_SIGNING_SECRET or enter the secret when prompted"
	SuggestionUnlockKeyring  = "Unlock your system keyring (for example GNOME Keyring or KWallet) and retry"
	SuggestionSerializeInput = "The post could not be encoded as JSON; check the field values"
)

// ContextError wraps an error with additional context and optional user-facing suggestion.
type ContextError struct {
	Context    string // e.g. "while saving post"
	Err        error
	Suggestion string
}

// Error returns "context: error", or just the error message if no context.
func (e *ContextError) Error() string {
	if e.Err == nil {
		return ""
	}
	if e.Context == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Context, e.Err.Error())
}

func (e *ContextError) Unwrap() error {
	return e.Err
}

// WithContext wraps an error with contextual information.
// Returns nil if the error is nil.
func WithContext(err error, context string) error {
	if err == nil {
		return nil
	}
	return &ContextError{
		Context: context,
		Err:     err,
	}
}

// WithSuggestion adds a user-facing suggestion to an error. A top-level
// *ContextError is copied, not modified. Returns nil if the error is nil.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	if ce, ok := err.(*ContextError); ok {
		cp := *ce
		cp.Suggestion = suggestion
		return &cp
	}

	return &ContextError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// ContainsSuggestion checks if an error, or anything it wraps, carries a
// suggestion.
func ContainsSuggestion(err error) bool {
	var ce *ContextError
	return errors.As(err, &ce) && ce.Suggestion != ""
}

// GetSuggestion extracts the outermost suggestion, or "".
func GetSuggestion(err error) string {
	for err != nil {
		var ce *ContextError
		if !errors.As(err, &ce) {
			return ""
		}
		if ce.Suggestion != "" {
			return ce.Suggestion
		}
		err = ce.Err
	}
	return ""
}
