package cmd

import (
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/formkit/internal/form"
)

// Shortcut commands are top-level desire paths for common calculations.

func newAddShortcutCmd(app *App) *cobra.Command {
	var save string

	cmd := &cobra.Command{
		Use:     "add <number>...",
		Aliases: []string{"sum"},
		Short:   "Sum numbers (shortcut for 'formkit calc <values...>')",
		Example: `  formkit add 1 2.5 1e3
  formkit add -- -1 2`,
		Args: cobra.MinimumNArgs(1),
		RunE: runE(app, func(cmd *cobra.Command, args []string, app *App) error {
			if save == "" {
				save = app.Settings.ReportFile
			}
			return runCalc(cmd, app, form.Values{}, args, save)
		}),
	}
	cmd.Flags().StringVar(&save, "save", "", "Write the result to ./data/<file>")
	cmd.SetFlagErrorFunc(negativeNumberHint)
	return cmd
}

// negativeNumberHint explains "unknown shorthand flag: '1' in -1": values
// starting with '-' must follow "--".
func negativeNumberHint(_ *cobra.Command, err error) error {
	msg := err.Error()
	if i := strings.Index(msg, " in -"); i >= 0 && strings.Contains(msg, "unknown shorthand flag") {
		rest := msg[i+len(" in -"):]
		if rest != "" && (unicode.IsDigit(rune(rest[0])) || rest[0] == '.' || strings.HasPrefix(rest, "Infinity")) {
			return Suggest(err, "Put negative numbers after --, e.g. formkit add -- -1 2")
		}
	}
	return err
}
