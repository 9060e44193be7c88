package cmd

import (
	"maps"

	"github.com/spf13/cobra"
)

// printDryRun reports what a command would do. JSON mode merges extra into
// {"dryRun": true}; text mode prints header and items as a list.
func printDryRun(cmd *cobra.Command, app *App, header string, items []string, extra map[string]any) error {
	if app.IsJSON(cmd.Context()) {
		payload := map[string]any{"dryRun": true}
		maps.Copy(payload, extra)
		return app.PrintJSON(cmd, payload)
	}

	printList(cmd.OutOrStdout(), header, items)
	return nil
}
