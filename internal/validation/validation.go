package validation

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

// Messages used when no caller-supplied message applies.
const (
	MsgEmptyInput    = "Invalid input - must not be empty."
	MsgInvalidNumber = "Invalid number input."
)

var simpleEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidationError is a local, pre-send input failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// NumberError reports a value that did not parse to a number.
type NumberError struct {
	Input string
}

func (e *NumberError) Error() string {
	return MsgInvalidNumber
}

// IsValidationError checks if an error is a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNumberError checks if an error is a NumberError
func IsNumberError(err error) bool {
	var ne *NumberError
	return errors.As(err, &ne)
}

// NotEmpty fails with message when value is empty or only whitespace.
// The message is carried verbatim, including the empty string.
func NotEmpty(value, message string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Message: message}
	}
	return nil
}

// StringNotEmpty is NotEmpty with the default empty-input message.
func StringNotEmpty(value string) error {
	return NotEmpty(value, MsgEmptyInput)
}

// Number rejects NaN.
func Number(n float64) error {
	if math.IsNaN(n) {
		return &NumberError{}
	}
	return nil
}

// IsValidEmail reports whether email looks like an address.
func IsValidEmail(email string) bool {
	return simpleEmailRegex.MatchString(email)
}

// Email validates email format using a simple regex pattern.
func Email(email string) error {
	if !IsValidEmail(email) {
		return &ValidationError{Field: "email", Message: fmt.Sprintf("invalid email format: %s", email)}
	}
	return nil
}

// Required checks for empty strings
func Required(name, value string) error {
	if value == "" {
		return fmt.Errorf("%s is required", name)
	}
	return nil
}

// PositiveInt checks that an integer value is greater than zero
func PositiveInt(name string, value int) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive", name)
	}
	return nil
}
