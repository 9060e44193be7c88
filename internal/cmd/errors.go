package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/99designs/keyring"

	"github.com/salmonumbrella/formkit/internal/config"
	cerrors "github.com/salmonumbrella/formkit/internal/errors"
	"github.com/salmonumbrella/formkit/internal/token"
	"github.com/salmonumbrella/formkit/internal/transport"
	"github.com/salmonumbrella/formkit/internal/validation"
)

// mapCommandError adds common suggestions for known error types.
func mapCommandError(err error) error {
	if err == nil {
		return nil
	}
	if cerrors.ContainsSuggestion(err) {
		return err
	}

	var netErr net.Error
	switch {
	case validation.IsNumberError(err):
		return cerrors.WithSuggestion(err, cerrors.SuggestionCheckNumbers)
	case transport.IsUnauthorized(err):
		return cerrors.WithSuggestion(err, cerrors.SuggestionReauth)
	case errors.Is(err, context.DeadlineExceeded):
		return cerrors.WithSuggestion(err, cerrors.SuggestionCheckNet)
	case transport.IsRetriable(err):
		return cerrors.WithSuggestion(err, retrySuggestion(err))
	case transport.IsEncodeError(err):
		return cerrors.WithSuggestion(err, cerrors.SuggestionSerializeInput)
	case errors.Is(err, config.ErrAccountNotFound), errors.Is(err, keyring.ErrKeyNotFound):
		return cerrors.WithSuggestion(err, cerrors.SuggestionReauth)
	case errors.Is(err, token.ErrNoSecret):
		return cerrors.WithSuggestion(err, cerrors.SuggestionSigningSecret)
	case errors.As(err, &netErr):
		return cerrors.WithSuggestion(err, cerrors.SuggestionCheckNet)
	}

	return err
}

// retrySuggestion names the wait the endpoint asked for, if any.
func retrySuggestion(err error) string {
	var he *transport.HTTPError
	if errors.As(err, &he) && he.RetryAfter > 0 {
		return fmt.Sprintf("%s (the endpoint asked to wait %s)", cerrors.SuggestionRetryLater, he.RetryAfter.Round(time.Second))
	}
	return cerrors.SuggestionRetryLater
}
