package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/salmonumbrella/formkit/internal/config"
	cerrors "github.com/salmonumbrella/formkit/internal/errors"
	"github.com/salmonumbrella/formkit/internal/logging"
	"github.com/salmonumbrella/formkit/internal/outfmt"
	"github.com/salmonumbrella/formkit/internal/ui"
	"github.com/salmonumbrella/formkit/internal/user"
)

const credentialWarningAge = 90 * 24 * time.Hour // 90 days

// checkCredentialAge returns a warning message if credentials are older than 90 days
func checkCredentialAge(created time.Time) string {
	if created.IsZero() {
		return ""
	}
	age := time.Since(created)
	if age > credentialWarningAge {
		days := int(age.Hours() / 24)
		return fmt.Sprintf("Warning: credentials are %d days old, consider rotating", days)
	}
	return ""
}

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication and account management",
		Long: `Manage the bearer tokens formkit sends to post endpoints.

Tokens are kept in the system keyring, one per account email. On hosts
without a keyring set FORMKIT_KEYRING_BACKEND=file to use an encrypted file.`,
		Args: cobra.NoArgs,
	}

	cmd.AddCommand(newAuthAddCmd(app))
	cmd.AddCommand(newAuthListCmd(app))
	cmd.AddCommand(newAuthRemoveCmd(app))
	cmd.AddCommand(newAuthPrimaryCmd(app))
	cmd.AddCommand(newAuthStatusCmd(app))

	return cmd
}

// parseAccount validates an account email argument.
func parseAccount(arg string) (string, error) {
	u, err := user.New(arg)
	if err != nil {
		return "", Suggest(err, cerrors.SuggestionCheckEmail)
	}
	return u.Email(), nil
}

func newAuthAddCmd(app *App) *cobra.Command {
	var tokenFlag string

	cmd := &cobra.Command{
		Use:   "add <email>",
		Short: "Store a token for an account (prompts for the token)",
		Long: `Stores the bearer token for <email>. The endpoint given with --endpoint,
FORMKIT_ENDPOINT or the config file is saved with it and used when no
endpoint is configured later.

The token is read from FORMKIT_TOKEN, or prompted for without echo.`,
		Args: cobra.ExactArgs(1),
		RunE: runE(app, func(cmd *cobra.Command, args []string, app *App) error {
			email, err := parseAccount(args[0])
			if err != nil {
				return err
			}

			var token string

			if tokenFlag != "" {
				// Security warning: --token flag exposes token in shell history and process listings
				fmt.Fprintln(os.Stderr, "Warning: Using --token flag exposes your token in shell history and process listings.")
				fmt.Fprintln(os.Stderr, "Consider using FORMKIT_TOKEN environment variable or interactive prompt instead.")
				token = strings.TrimSpace(tokenFlag)
			} else if envToken := os.Getenv("FORMKIT_TOKEN"); envToken != "" {
				token = strings.TrimSpace(envToken)
			} else {
				token, err = readSecret(fmt.Sprintf("Enter token for %s: ", email))
				if err != nil {
					return fmt.Errorf("failed to read token: %w", err)
				}
			}

			if token == "" {
				return fmt.Errorf("token cannot be empty")
			}

			if err := config.SaveToken(email, app.Flags.Endpoint, token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			if app.IsJSON(cmd.Context()) {
				return app.PrintJSON(cmd, map[string]any{
					"saved":    true,
					"email":    email,
					"endpoint": app.Flags.Endpoint,
				})
			}

			fmt.Fprintf(os.Stderr, "Saved token for %s\n", email)
			return nil
		}),
	}

	cmd.Flags().StringVar(&tokenFlag, "token", "", "Token (deprecated: use FORMKIT_TOKEN env var instead)")

	return cmd
}

// readSecret prompts on stderr and reads a line without echo.
func readSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin)) //nolint:unconvert // required for Windows where Stdin is uintptr
	fmt.Fprintln(os.Stderr)                         // newline after password input
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func newAuthListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List configured accounts",
		Args:    cobra.NoArgs,
		RunE: runE(app, func(cmd *cobra.Command, _ []string, app *App) error {
			tokens, err := config.ListTokens()
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}

			if app.IsJSON(cmd.Context()) {
				if tokens == nil {
					tokens = []config.Token{}
				}
				return app.PrintJSON(cmd, tokens)
			}

			if len(tokens) == 0 {
				printNoResults("No accounts configured")
				return nil
			}

			tw := outfmt.NewTabWriter(cmd.OutOrStdout())
			fmt.Fprintln(tw, "EMAIL\tENDPOINT\tCREATED\tPRIMARY")
			for _, tok := range tokens {
				createdAt := ""
				if !tok.CreatedAt.IsZero() {
					createdAt = tok.CreatedAt.UTC().Format(time.RFC3339)
				}
				primary := ""
				if tok.IsPrimary {
					primary = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					outfmt.SanitizeTab(tok.Email),
					outfmt.SanitizeTab(tok.Endpoint),
					createdAt,
					primary,
				)
			}
			return tw.Flush()
		}),
	}
}

func newAuthRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <email>",
		Aliases: []string{"rm"},
		Short:   "Remove a configured account",
		Args:    cobra.ExactArgs(1),
		RunE: runE(app, func(cmd *cobra.Command, args []string, app *App) error {
			email, err := parseAccount(args[0])
			if err != nil {
				return err
			}

			ok, err := app.Confirm(cmd, false, fmt.Sprintf("Remove token for %s? [y/N] ", email), "y", "yes")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(os.Stderr, "Cancelled")
				return nil
			}

			if err := config.DeleteToken(email); err != nil {
				if errors.Is(err, config.ErrAccountNotFound) {
					return err
				}
				return fmt.Errorf("failed to remove account: %w", err)
			}

			if app.IsJSON(cmd.Context()) {
				return app.PrintJSON(cmd, map[string]any{
					"deleted": true,
					"email":   email,
				})
			}

			fmt.Fprintf(os.Stderr, "Removed account: %s\n", email)
			return nil
		}),
	}
}

func newAuthPrimaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "primary <email>",
		Short: "Make an account the default",
		Args:  cobra.ExactArgs(1),
		RunE: runE(app, func(cmd *cobra.Command, args []string, app *App) error {
			email, err := parseAccount(args[0])
			if err != nil {
				return err
			}
			if err := config.SetPrimaryAccount(email); err != nil {
				return err
			}

			if app.IsJSON(cmd.Context()) {
				return app.PrintJSON(cmd, map[string]any{
					"primary": email,
				})
			}

			ui.FromContext(cmd.Context()).Success(fmt.Sprintf("%s is now the primary account", email))
			return nil
		}),
	}
}

func newAuthStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the account and endpoint posts would use",
		Args:  cobra.NoArgs,
		RunE: runE(app, func(cmd *cobra.Command, _ []string, app *App) error {
			logger := logging.FromContext(cmd.Context())
			logger.Debug("auth status command started")

			u := ui.FromContext(cmd.Context())

			envAccount := os.Getenv("FORMKIT_ACCOUNT")
			logger.Debug("checking environment", "FORMKIT_ACCOUNT", envAccount)

			tokens, err := config.ListTokens()
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}
			logger.Debug("retrieved accounts", "count", len(tokens))

			if len(tokens) == 0 {
				if app.IsJSON(cmd.Context()) {
					return app.PrintJSON(cmd, map[string]any{
						"default":  nil,
						"source":   "none",
						"endpoint": app.Flags.Endpoint,
					})
				}
				printNoResults("No accounts configured. Run: formkit auth add <email>")
				return nil
			}

			var current config.Token
			var source string
			switch {
			case app.Flags.Account != "" && envAccount != "" && strings.EqualFold(app.Flags.Account, envAccount):
				source = "FORMKIT_ACCOUNT"
				current.Email = envAccount
			case app.Flags.Account != "":
				source = "flag_or_config"
				current.Email = app.Flags.Account
			default:
				source = "first_account"
				current = tokens[0]
				for _, tok := range tokens {
					if tok.IsPrimary {
						source = "primary"
						current = tok
						break
					}
				}
			}
			for _, tok := range tokens {
				if strings.EqualFold(tok.Email, current.Email) {
					current = tok
				}
			}

			endpoint := app.Flags.Endpoint
			if endpoint == "" {
				endpoint = current.Endpoint
			}

			accounts := make([]string, len(tokens))
			for i, tok := range tokens {
				accounts[i] = tok.Email
			}

			if app.IsJSON(cmd.Context()) {
				return app.PrintJSON(cmd, map[string]any{
					"default":  current.Email,
					"source":   source,
					"endpoint": endpoint,
					"accounts": accounts,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Default account: %s (from %s)\n", current.Email, source)
			if endpoint != "" {
				fmt.Fprintf(out, "Endpoint: %s\n", endpoint)
			}

			if warning := checkCredentialAge(current.CreatedAt); warning != "" {
				u.Warning(warning)
			}

			fmt.Fprintf(out, "Available accounts:\n")
			for _, acc := range accounts {
				marker := " "
				if strings.EqualFold(acc, current.Email) {
					marker = "*"
				}
				fmt.Fprintf(out, "  %s %s\n", marker, acc)
			}
			return nil
		}),
	}
}
