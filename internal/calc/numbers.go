package calc

import (
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/salmonumbrella/formkit/internal/form"
	"github.com/salmonumbrella/formkit/internal/validation"
)

var decimalLiteral = regexp.MustCompile(`^[+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)

// TransformStringToNumber converts a form value with browser unary-plus
// rules: surrounding whitespace is ignored, the empty string is 0, 0x/0o/0b
// prefixes select a radix, and "Infinity" is accepted. Anything else is NaN.
func TransformStringToNumber(value string) float64 {
	s := strings.Trim(strings.TrimSpace(value), "\ufeff")
	if s == "" {
		return 0
	}

	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' {
		if base := radix(s[1]); base != 0 {
			return parseRadix(s[2:], base)
		}
	}

	if !decimalLiteral.MatchString(s) {
		return math.NaN()
	}
	// Out-of-range literals come back as ±Inf or 0 alongside ErrRange.
	n, _ := strconv.ParseFloat(s, 64)
	return n
}

func radix(c byte) int {
	switch c {
	case 'x', 'X':
		return 16
	case 'o', 'O':
		return 8
	case 'b', 'B':
		return 2
	}
	return 0
}

func parseRadix(digits string, base int) float64 {
	i, ok := new(big.Int).SetString(digits, base)
	if !ok || strings.ContainsAny(digits, "_+-") {
		return math.NaN()
	}
	f, _ := new(big.Float).SetInt(i).Float64()
	return f
}

// CleanNumbers validates and parses the inputs in order. Missing fields are
// skipped; the first blank or non-numeric value aborts with its error.
func CleanNumbers(inputs []form.Field) ([]float64, error) {
	numbers := make([]float64, 0, len(inputs))
	for _, input := range inputs {
		if input.Missing() {
			continue
		}
		if err := validation.StringNotEmpty(input.Value); err != nil {
			return nil, err
		}
		n := TransformStringToNumber(input.Value)
		if err := validation.Number(n); err != nil {
			return nil, &validation.NumberError{Input: input.Value}
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}
