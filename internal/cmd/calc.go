package cmd

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/formkit/internal/calc"
	cerrors "github.com/salmonumbrella/formkit/internal/errors"
	"github.com/salmonumbrella/formkit/internal/form"
	"github.com/salmonumbrella/formkit/internal/report"
	"github.com/salmonumbrella/formkit/internal/submit"
	"github.com/salmonumbrella/formkit/internal/validation"
)

type calcOptions struct {
	num1   string
	num2   string
	fields []string
	save   string
}

// calcOutput is the JSON shape of a calculation. Total is null unless the
// result is a finite sum.
type calcOutput struct {
	Kind   string   `json:"kind"`
	Total  *float64 `json:"total"`
	Text   string   `json:"text"`
	Report string   `json:"report,omitempty"`
}

// capturedText is a calc.Display that keeps the text instead of printing it.
type capturedText struct {
	text string
}

func (c *capturedText) Show(text string) error {
	c.text = text
	return nil
}

func newCalcCmd(app *App) *cobra.Command {
	var opts calcOptions

	cmd := &cobra.Command{
		Use:   "calc [values...]",
		Short: "Validate and sum numbers",
		Long: `Runs the calculator form: every submitted value must be a number, and
the total is printed as "Result: <sum>".

Flags that are not given count as fields that were never submitted. A value
passed as "" is skipped, while a value of only spaces is rejected. Numbers
accept a sign, decimals, exponents, 0x/0o/0b prefixes and Infinity.`,
		Example: `  formkit calc --num1 2 --num2 3
  formkit calc 1 2 3
  formkit calc --field num1=0x10 --field num2=1e2
  formkit calc --num1 2 --num2 3 --save result.txt
  formkit calc -- -1 -2`,
		RunE: runE(app, func(cmd *cobra.Command, args []string, app *App) error {
			values, err := form.Parse(opts.fields)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("num1") {
				values[form.FieldNum1] = opts.num1
			}
			if cmd.Flags().Changed("num2") {
				values[form.FieldNum2] = opts.num2
			}
			if opts.save == "" {
				opts.save = app.Settings.ReportFile
			}
			return runCalc(cmd, app, values, args, opts.save)
		}),
	}

	cmd.Flags().StringVar(&opts.num1, "num1", "", "First number")
	cmd.Flags().StringVar(&opts.num2, "num2", "", "Second number")
	cmd.Flags().StringArrayVar(&opts.fields, "field", nil, "Form field as name=value (repeatable)")
	cmd.Flags().StringVar(&opts.save, "save", "", "Write the result to ./data/<file>")
	cmd.SetFlagErrorFunc(negativeNumberHint)

	return cmd
}

// runCalc sums the num1/num2 form fields followed by any extra values.
func runCalc(cmd *cobra.Command, app *App, values form.Values, extra []string, save string) error {
	logger := app.logger()

	captured := &capturedText{}
	var display calc.Display = captured
	if !app.IsJSON(cmd.Context()) && app.UI != nil {
		display = displayTee{primary: app.UI, mirror: captured}
	}

	var (
		result calc.Result
		err    error
	)
	if len(extra) == 0 {
		result, err = submit.Calculation(values, display)
	} else {
		fields := form.DecodeNumberInputs(values).Fields()
		for _, v := range extra {
			fields = append(fields, form.Value(v))
		}
		result, err = submit.CalculateFields(fields, display)
	}
	logger.Debug("calculated", "kind", result.Kind().String())
	if err != nil {
		if validation.IsValidationError(err) {
			return cerrors.WithSuggestion(err, cerrors.SuggestionCheckNumbers)
		}
		return err
	}

	out := calcOutput{Kind: result.Kind().String(), Text: captured.text}
	if v, ok := result.Value(); ok && !math.IsInf(v, 0) && !math.IsNaN(v) {
		out.Total = &v
	}

	if save != "" && result.Kind() == calc.KindTotal {
		data := report.GenerateReportData(captured.text, func(s string) {
			logger.Debug("report generated", "bytes", len(s))
		})
		path, err := report.WriteData(report.OSFileSystem{}, data, save)
		if err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		out.Report = path
		if !app.IsJSON(cmd.Context()) && app.UI != nil {
			app.UI.Info(fmt.Sprintf("Saved report to %s", path))
		}
	}

	if app.IsJSON(cmd.Context()) {
		return app.PrintJSON(cmd, out)
	}
	return nil
}

// displayTee shows text on both displays.
type displayTee struct {
	primary, mirror calc.Display
}

func (t displayTee) Show(text string) error {
	if err := t.mirror.Show(text); err != nil {
		return err
	}
	return t.primary.Show(text)
}
