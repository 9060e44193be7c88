package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/formkit/internal/config"
	cerrors "github.com/salmonumbrella/formkit/internal/errors"
	"github.com/salmonumbrella/formkit/internal/logging"
	"github.com/salmonumbrella/formkit/internal/outfmt"
	"github.com/salmonumbrella/formkit/internal/ui"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

type rootFlags struct {
	Color          string
	Account        string
	Output         string
	Endpoint       string
	Config         string
	Debug          bool
	Query          string
	Yes            bool
	NoInput        bool
	NonInteractive bool
}

type contextKey string

const (
	outputModeKey contextKey = "outputMode"
	queryKey      contextKey = "query"
)

func Execute(args []string) error {
	app := NewApp()
	root := NewRootCmd(app)
	root.SetArgs(args)

	err := root.Execute()
	if err != nil {
		if app.Flags.Output == "json" {
			payload := map[string]any{
				"error": map[string]any{
					"message": err.Error(),
				},
			}
			if cerrors.ContainsSuggestion(err) {
				payload["error"].(map[string]any)["suggestion"] = cerrors.GetSuggestion(err)
			}
			_ = outfmt.WriteJSON(os.Stderr, payload)
		} else {
			var shown *displayedError
			if !errors.As(err, &shown) {
				fmt.Fprintln(os.Stderr, "Error:", err)
			}

			if cerrors.ContainsSuggestion(err) {
				fmt.Fprintln(os.Stderr, "")
				fmt.Fprintln(os.Stderr, "Suggestion:", cerrors.GetSuggestion(err))
			}
		}
	}
	return err
}

func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "formkit",
		Short:         "Validate, sum and submit form data from the command line",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Sum the calculator form
  formkit calc --num1 2 --num2 0x10
  formkit add 1 2.5 1e3

  # Save the result as a report under ./data
  formkit calc --num1 2 --num2 3 --save result.txt

  # Submit a post
  export FORMKIT_ENDPOINT=https://jsonplaceholder.typicode.com/posts
  formkit post --title "Hello" --content "First post"

  # Store a token for an endpoint
  formkit auth add you@example.com

  # JSON output for scripting
  formkit --output=json calc 1 2 | jq .total
`),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.LoadSettings(app.Flags.Config)
			if err != nil {
				return err
			}
			app.Settings = settings
			app.applySettings()

			// UI (must come first)
			u := ui.NewWithWriters(app.Flags.Color, cmd.OutOrStdout(), cmd.ErrOrStderr())
			ctx := ui.WithUI(cmd.Context(), u)
			app.UI = u

			mode, err := outfmt.ParseMode(app.Flags.Output)
			if err != nil {
				return err
			}
			ctx = context.WithValue(ctx, outputModeKey, mode)

			ctx = context.WithValue(ctx, queryKey, app.Flags.Query)

			// Non-interactive aliases
			if app.Flags.NoInput || app.Flags.NonInteractive {
				app.Flags.Yes = true
			}

			logger := logging.SetupWriter(cmd.ErrOrStderr(), app.Flags.Debug)
			ctx = logging.WithLogger(ctx, logger)
			app.Logger = logger
			if app.Flags.Config != "" {
				logger.Debug("loaded settings", "path", app.Flags.Config)
			}

			ctx = WithApp(ctx, app)
			cmd.SetContext(ctx)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&app.Flags.Color, "color", app.Flags.Color, "Color output: auto|always|never")
	root.PersistentFlags().StringVar(&app.Flags.Account, "account", app.Flags.Account, "Account whose stored token authenticates requests")
	root.PersistentFlags().StringVar(&app.Flags.Output, "output", app.Flags.Output, "Output format: text|json")
	root.PersistentFlags().StringVar(&app.Flags.Endpoint, "endpoint", app.Flags.Endpoint, "URL posts are sent to")
	root.PersistentFlags().StringVar(&app.Flags.Config, "config", envOr("FORMKIT_CONFIG", ""), "Settings file (default "+config.DefaultSettingsPath()+")")
	root.PersistentFlags().BoolVar(&app.Flags.Debug, "debug", envBool("FORMKIT_DEBUG", false), "Enable debug logging")
	root.PersistentFlags().StringVar(&app.Flags.Query, "query", "", "JQ filter expression for JSON output")
	root.PersistentFlags().BoolVarP(&app.Flags.Yes, "yes", "y", false, "Skip confirmation prompts (non-interactive)")
	root.PersistentFlags().BoolVar(&app.Flags.NoInput, "no-input", false, "Alias for --yes (non-interactive)")
	root.PersistentFlags().BoolVar(&app.Flags.NonInteractive, "non-interactive", false, "Alias for --yes (non-interactive)")
	_ = root.PersistentFlags().MarkHidden("no-input")
	_ = root.PersistentFlags().MarkHidden("non-interactive")

	root.AddCommand(newCalcCmd(app))
	root.AddCommand(newPostCmd(app))
	root.AddCommand(newAuthCmd(app))
	root.AddCommand(newTokenCmd(app))
	root.AddCommand(newServeCmd(app))
	root.AddCommand(newVersionCmd(app))

	// Desire paths
	root.AddCommand(newAddShortcutCmd(app))
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if v == "" {
		return fallback
	}
	switch v {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
