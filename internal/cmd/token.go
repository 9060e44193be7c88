package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/formkit/internal/config"
	"github.com/salmonumbrella/formkit/internal/token"
)

const signingSecretEnv = "FORMKIT_SIGNING_SECRET"

func newTokenCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token [email]",
		Short: "Mint a signed token for an email address",
		Long: `Signs an HS256 token for [email], valid for one hour. Without an argument
the default account is used.

The signing secret is read from FORMKIT_SIGNING_SECRET, then the keyring
(see "formkit token secret set"), or prompted for without echo.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runE(app, func(cmd *cobra.Command, args []string, app *App) error {
			var email string
			if len(args) == 1 {
				var err error
				if email, err = parseAccount(args[0]); err != nil {
					return err
				}
			} else {
				var err error
				if email, err = app.RequireAccount(); err != nil {
					return err
				}
			}

			secret, err := signingSecret()
			if err != nil {
				return err
			}

			now := time.Now()
			var res token.Result
			select {
			case res = <-token.GenerateAsync(email, secret, now):
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			}
			if res.Err != nil {
				return res.Err
			}

			if app.IsJSON(cmd.Context()) {
				return app.PrintJSON(cmd, map[string]any{
					"email":      email,
					"token":      res.Token,
					"expires_at": now.Add(token.DefaultTTL).UTC().Format(time.RFC3339),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Token)
			return nil
		}),
	}

	cmd.AddCommand(newTokenVerifyCmd(app))
	cmd.AddCommand(newTokenSecretCmd(app))
	return cmd
}

func newTokenVerifyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <token>",
		Short: "Check a token's signature and expiry",
		Args:  cobra.ExactArgs(1),
		RunE: runE(app, func(cmd *cobra.Command, args []string, app *App) error {
			secret, err := signingSecret()
			if err != nil {
				return err
			}

			claims, err := token.Verify(args[0], secret, time.Now())
			if err != nil {
				return err
			}

			var expires string
			if claims.ExpiresAt != nil {
				expires = claims.ExpiresAt.UTC().Format(time.RFC3339)
			}
			if app.IsJSON(cmd.Context()) {
				return app.PrintJSON(cmd, map[string]any{
					"valid":      true,
					"email":      claims.Email,
					"expires_at": expires,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Valid token for %s (expires %s)\n", claims.Email, expires)
			return nil
		}),
	}
}

func newTokenSecretCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage the stored signing secret",
		Args:  cobra.NoArgs,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set",
		Short: "Store the signing secret in the keyring",
		Args:  cobra.NoArgs,
		RunE: runE(app, func(cmd *cobra.Command, _ []string, app *App) error {
			secret := os.Getenv(signingSecretEnv)
			if secret == "" {
				var err error
				if secret, err = readSecret("Signing secret: "); err != nil {
					return fmt.Errorf("failed to read signing secret: %w", err)
				}
			}
			if secret == "" {
				return token.ErrNoSecret
			}
			if err := config.SaveSigningSecret(secret); err != nil {
				return err
			}

			if app.IsJSON(cmd.Context()) {
				return app.PrintJSON(cmd, map[string]any{"saved": true})
			}
			fmt.Fprintln(os.Stderr, "Saved signing secret")
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "clear",
		Aliases: []string{"rm"},
		Short:   "Remove the stored signing secret",
		Args:    cobra.NoArgs,
		RunE: runE(app, func(cmd *cobra.Command, _ []string, app *App) error {
			if err := config.DeleteSigningSecret(); err != nil {
				return err
			}

			if app.IsJSON(cmd.Context()) {
				return app.PrintJSON(cmd, map[string]any{"deleted": true})
			}
			fmt.Fprintln(os.Stderr, "Removed signing secret")
			return nil
		}),
	})

	return cmd
}

// signingSecret looks in the environment, then the keyring, then prompts.
func signingSecret() ([]byte, error) {
	if s := os.Getenv(signingSecretEnv); s != "" {
		return []byte(s), nil
	}
	if s, err := config.LoadSigningSecret(); err == nil && s != "" {
		return []byte(s), nil
	}
	s, err := readSecret("Signing secret: ")
	if err != nil {
		return nil, fmt.Errorf("failed to read signing secret: %w", err)
	}
	if s == "" {
		return nil, token.ErrNoSecret
	}
	return []byte(s), nil
}
