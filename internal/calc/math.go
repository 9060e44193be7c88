// Package calc implements the number form: validate, parse, sum, and render.
package calc

import (
	"github.com/salmonumbrella/formkit/internal/form"
	"github.com/salmonumbrella/formkit/internal/format"
)

// MsgInvalid is the display text for any validation or parse failure.
const MsgInvalid = "Invalid input. You must enter valid numbers."

// Kind classifies a calculation outcome.
type Kind int

const (
	// KindNoCalc means nothing was submitted.
	KindNoCalc Kind = iota
	// KindTotal carries a sum.
	KindTotal
	// KindInvalid means validation or parsing failed.
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindTotal:
		return "total"
	case KindInvalid:
		return "invalid"
	default:
		return "no-calc"
	}
}

// Result is the outcome of one submission.
type Result struct {
	kind  Kind
	total float64
}

// Total returns a numeric result.
func Total(v float64) Result { return Result{kind: KindTotal, total: v} }

// NoCalc returns the "nothing submitted" result.
func NoCalc() Result { return Result{kind: KindNoCalc} }

// Invalid returns the failed-input result.
func Invalid() Result { return Result{kind: KindInvalid} }

// Kind reports the result class.
func (r Result) Kind() Kind { return r.kind }

// Value returns the total and whether the result is a total.
func (r Result) Value() (float64, bool) {
	return r.total, r.kind == KindTotal
}

// Add sums numbers; no numbers sum to 0.
func Add(numbers ...float64) float64 {
	var sum float64
	for _, n := range numbers {
		sum += n
	}
	return sum
}

// Calculate runs the pipeline over inputs. On failure it returns Invalid
// together with the *validation.ValidationError or *validation.NumberError
// that caused it; there is never a partial sum. NoCalc is returned only when
// no input was submitted at all.
func Calculate(inputs []form.Field) (Result, error) {
	submitted := false
	for _, in := range inputs {
		if in.Present {
			submitted = true
			break
		}
	}
	if !submitted {
		return NoCalc(), nil
	}

	numbers, err := CleanNumbers(inputs)
	if err != nil {
		return Invalid(), err
	}
	return Total(Add(numbers...)), nil
}

// GenerateResultText maps a result to display text.
func GenerateResultText(r Result) string {
	switch r.kind {
	case KindInvalid:
		return MsgInvalid
	case KindTotal:
		return "Result: " + format.Number(r.total)
	default:
		return ""
	}
}

// Display is the output area a result is written to.
type Display interface {
	Show(text string) error
}

// OutputResult writes text to d.
func OutputResult(d Display, text string) error {
	return d.Show(text)
}
