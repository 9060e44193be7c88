package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/formkit/internal/update"
)

func newVersionCmd(app *App) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: runE(app, func(cmd *cobra.Command, _ []string, app *App) error {
			info := map[string]any{
				"version": Version,
				"commit":  Commit,
				"date":    Date,
			}

			var result *update.CheckResult
			if check {
				var err error
				result, err = update.Check(cmd.Context(), nil, Version)
				switch {
				case errors.Is(err, update.ErrDevBuild):
					app.logger().Debug("skipping update check", "reason", err)
				case err != nil:
					return fmt.Errorf("update check failed: %w", err)
				default:
					info["update"] = result
				}
			}

			if app.IsJSON(cmd.Context()) {
				return app.PrintJSON(cmd, info)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "formkit %s (commit %s, built %s)\n", Version, Commit, Date)
			if check && result == nil {
				fmt.Fprintln(out, "Update check skipped for development builds")
			}
			if result != nil {
				if result.UpdateAvailable {
					fmt.Fprintf(out, "Update available: %s -> %s\n", result.CurrentVersion, result.LatestVersion)
					if result.UpdateURL != "" {
						fmt.Fprintf(out, "  %s\n", result.UpdateURL)
					}
				} else {
					fmt.Fprintln(out, "You are running the latest version")
				}
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&check, "check", false, "Check for a newer release")
	return cmd
}
