// Package form decodes raw field values at the input boundary.
//
// A Field records whether a value was submitted at all, so callers can tell an
// absent field from one submitted blank.
package form

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/salmonumbrella/formkit/internal/validation"
)

// Field names used by the built-in forms.
const (
	FieldNum1    = "num1"
	FieldNum2    = "num2"
	FieldTitle   = "title"
	FieldContent = "content"
)

// Field is a single submitted form value.
type Field struct {
	Value   string
	Present bool
}

// Value returns a present field holding v.
func Value(v string) Field {
	return Field{Value: v, Present: true}
}

// Absent returns a field that was not submitted.
func Absent() Field {
	return Field{}
}

// Missing reports whether the field carries no data: not submitted, or
// submitted as the empty string. A whitespace-only value is not missing.
func (f Field) Missing() bool {
	return !f.Present || f.Value == ""
}

// Values maps field names to submitted values.
type Values map[string]string

// Get returns the named field.
func (v Values) Get(name string) Field {
	val, ok := v[name]
	if !ok {
		return Absent()
	}
	return Value(val)
}

// Parse builds Values from key=value pairs. Later pairs override earlier ones.
func Parse(pairs []string) (Values, error) {
	values := make(Values, len(pairs))
	for _, pair := range pairs {
		key, val, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid field %q (expected name=value)", pair)
		}
		key = strings.TrimSpace(key)
		if err := validation.Required("field name", key); err != nil {
			return nil, fmt.Errorf("invalid field %q: %w", pair, err)
		}
		values[key] = val
	}
	return values, nil
}

// FromURLValues takes the first value of each key, matching FormData.get.
func FromURLValues(uv url.Values) Values {
	values := make(Values, len(uv))
	for key, vals := range uv {
		if len(vals) == 0 {
			continue
		}
		values[key] = vals[0]
	}
	return values
}

// NumberInputs is the calculator form.
type NumberInputs struct {
	Num1 Field
	Num2 Field
}

// DecodeNumberInputs reads num1 and num2.
func DecodeNumberInputs(v Values) NumberInputs {
	return NumberInputs{
		Num1: v.Get(FieldNum1),
		Num2: v.Get(FieldNum2),
	}
}

// Fields returns the inputs in form order.
func (n NumberInputs) Fields() []Field {
	return []Field{n.Num1, n.Num2}
}

// PostInputs is the post form.
type PostInputs struct {
	Title   Field
	Content Field
}

// DecodePostInputs reads title and content.
func DecodePostInputs(v Values) PostInputs {
	return PostInputs{
		Title:   v.Get(FieldTitle),
		Content: v.Get(FieldContent),
	}
}
