// Package submit wires form values through a pipeline to an output port.
package submit

import (
	"context"

	"github.com/salmonumbrella/formkit/internal/calc"
	"github.com/salmonumbrella/formkit/internal/form"
	"github.com/salmonumbrella/formkit/internal/posts"
)

// Calculation decodes num1 and num2 from values, runs the summation
// pipeline and writes the result text to display. The display is written
// for every outcome, including invalid input; the returned error is the
// validation or parse failure, if any.
func Calculation(values form.Values, display calc.Display) (calc.Result, error) {
	inputs := form.DecodeNumberInputs(values)
	return CalculateFields(inputs.Fields(), display)
}

// CalculateFields is Calculation over an explicit list of inputs.
func CalculateFields(fields []form.Field, display calc.Display) (calc.Result, error) {
	result, calcErr := calc.Calculate(fields)
	if err := calc.OutputResult(display, calc.GenerateResultText(result)); err != nil {
		return result, err
	}
	return result, calcErr
}

// Saver persists a post.
type Saver interface {
	Save(ctx context.Context, post *posts.PostData) (any, error)
}

// ErrorDisplay shows a failure message, replacing any earlier one.
type ErrorDisplay interface {
	ShowError(message string) error
}

// PostOutcome reports what Post did.
type PostOutcome struct {
	Post      *posts.PostData
	Submitted bool
	Response  any
}

// Post extracts title and content from values and saves them.
//
// Missing fields are not an error: nothing is sent and Submitted is false.
// A blank field or a failed save shows the error message on errDisplay and
// returns the error.
func Post(ctx context.Context, values form.Values, saver Saver, errDisplay ErrorDisplay) (PostOutcome, error) {
	post, err := posts.ExtractPostData(values)
	if err != nil {
		return PostOutcome{}, report(errDisplay, err)
	}
	if post == nil {
		return PostOutcome{}, nil
	}

	resp, err := saver.Save(ctx, post)
	if err != nil {
		return PostOutcome{Post: post}, report(errDisplay, err)
	}
	return PostOutcome{Post: post, Submitted: true, Response: resp}, nil
}

func report(d ErrorDisplay, err error) error {
	if showErr := d.ShowError(err.Error()); showErr != nil {
		return showErr
	}
	return err
}
