// Package outfmt writes command output as text or JSON.
package outfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/salmonumbrella/formkit/internal/filter"
)

type Mode int

const (
	Text Mode = iota
	JSON
)

func (m Mode) String() string {
	if m == JSON {
		return "json"
	}
	return "text"
}

// ParseMode parses an --output value.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return Text, nil
	case "json":
		return JSON, nil
	default:
		return Text, fmt.Errorf("unknown output format %q (expected text or json)", s)
	}
}

// WriteJSON writes v as indented JSON to w.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteJSONFiltered writes v as indented JSON to w, applying a jq expression.
// If query is empty, behaves like WriteJSON.
func WriteJSONFiltered(w io.Writer, v any, query string) error {
	if query == "" {
		return WriteJSON(w, v)
	}

	result, err := filter.Apply(v, query)
	if err != nil {
		return err
	}
	return WriteJSON(w, result)
}
