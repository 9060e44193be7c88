package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/formkit/internal/config"
	cerrors "github.com/salmonumbrella/formkit/internal/errors"
	"github.com/salmonumbrella/formkit/internal/logging"
	"github.com/salmonumbrella/formkit/internal/outfmt"
	"github.com/salmonumbrella/formkit/internal/transport"
	"github.com/salmonumbrella/formkit/internal/ui"
)

type appKey struct{}

// errNoEndpoint is returned by Client when no endpoint is configured.
var errNoEndpoint = errors.New("no endpoint configured")

type App struct {
	Flags    *rootFlags
	Settings config.Settings
	UI       *ui.UI
	Logger   *slog.Logger
}

func NewApp() *App {
	flags := rootFlags{
		Color:    envOr("FORMKIT_COLOR", ""),
		Output:   envOr("FORMKIT_OUTPUT", ""),
		Endpoint: envOr("FORMKIT_ENDPOINT", ""),
		Account:  envOr("FORMKIT_ACCOUNT", ""),
	}
	return &App{Flags: &flags}
}

// applySettings fills flags left unset by the command line and environment
// from the settings file, then applies defaults.
func (a *App) applySettings() {
	f := a.Flags
	if f.Color == "" {
		f.Color = a.Settings.Color
	}
	if f.Output == "" {
		f.Output = a.Settings.Output
	}
	if f.Endpoint == "" {
		f.Endpoint = a.Settings.Endpoint
	}
	if f.Account == "" {
		f.Account = a.Settings.Account
	}

	if f.Color == "" {
		f.Color = "auto"
	}
	if f.Output == "" {
		f.Output = "text"
	}
}

func WithApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appKey{}, app)
}

func AppFromContext(ctx context.Context) *App {
	if app, ok := ctx.Value(appKey{}).(*App); ok {
		return app
	}
	return nil
}

// runE wraps a cobra RunE to inject the App and normalize errors.
func runE(app *App, fn func(cmd *cobra.Command, args []string, app *App) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if app == nil {
			app = AppFromContext(cmd.Context())
		}
		if app == nil {
			app = &App{Flags: &rootFlags{}}
		}
		return mapCommandError(fn(cmd, args, app))
	}
}

func (a *App) IsJSON(ctx context.Context) bool {
	mode, ok := ctx.Value(outputModeKey).(outfmt.Mode)
	return ok && mode == outfmt.JSON
}

func (a *App) Query(ctx context.Context) string {
	query, _ := ctx.Value(queryKey).(string)
	return query
}

func (a *App) PrintJSON(cmd *cobra.Command, v any) error {
	return outfmt.WriteJSONFiltered(cmd.OutOrStdout(), v, a.Query(cmd.Context()))
}

func (a *App) Confirm(cmd *cobra.Command, skip bool, prompt string, accepted ...string) (bool, error) {
	if skip || a.IsJSON(cmd.Context()) || (a.Flags != nil && a.Flags.Yes) {
		return true, nil
	}
	return confirmPrompt(os.Stdin, os.Stderr, prompt, accepted...)
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return logging.Discard()
}

func (a *App) RequireAccount() (string, error) {
	if a.Flags != nil && a.Flags.Account != "" {
		return a.Flags.Account, nil
	}

	// Auto-select primary/only account when not explicitly specified
	primary, err := config.GetPrimaryAccount()
	if err != nil {
		return "", fmt.Errorf("failed to get accounts: %w", err)
	}
	if primary != "" {
		return primary, nil
	}

	return "", fmt.Errorf("no accounts configured: run 'formkit auth add <email>' to set up an account")
}

// Client creates a transport client for the configured endpoint.
//
// An explicitly chosen account must have a stored token. Without one the
// primary account's token is used when it was stored for the same endpoint;
// otherwise the request is sent unauthenticated and the returned account
// is "".
func (a *App) Client() (*transport.Client, string, error) {
	endpoint := ""
	if a.Flags != nil {
		endpoint = a.Flags.Endpoint
	}

	account, tok, explicit, err := a.credentials()
	if err != nil {
		return nil, "", err
	}
	if endpoint == "" {
		endpoint = tok.Endpoint
	}
	if !explicit && tok.Endpoint != "" && tok.Endpoint != endpoint {
		a.logger().Debug("primary account belongs to another endpoint", "account", account)
		account = ""
	}
	if endpoint == "" {
		return nil, "", cerrors.WithSuggestion(errNoEndpoint, cerrors.SuggestionSetEndpoint)
	}

	opts := []transport.Option{
		transport.WithLogger(a.logger()),
		transport.WithUserAgent(transport.DefaultUserAgent + "/" + Version),
	}
	if account != "" {
		secret, err := config.GetToken(account)
		if err != nil {
			return nil, "", fmt.Errorf("failed to get token for %s: %w", account, err)
		}
		opts = append(opts, transport.WithToken(secret))
	}
	return transport.NewClient(endpoint, opts...), account, nil
}

func (a *App) credentials() (account string, tok config.Token, explicit bool, err error) {
	if a.Flags != nil && a.Flags.Account != "" {
		tok, err = config.GetAccount(a.Flags.Account)
		if err != nil {
			return "", config.Token{}, true, err
		}
		return tok.Email, tok, true, nil
	}

	primary, err := config.GetPrimaryAccount()
	if err != nil {
		a.logger().Debug("keyring unavailable, sending without token", "error", err)
		return "", config.Token{}, false, nil
	}
	if primary == "" {
		return "", config.Token{}, false, nil
	}
	tok, err = config.GetAccount(primary)
	if err != nil {
		return "", config.Token{}, false, err
	}
	return tok.Email, tok, false, nil
}

// Suggest wraps an error with a user-facing suggestion.
func Suggest(err error, suggestion string) error {
	return cerrors.WithSuggestion(err, suggestion)
}
