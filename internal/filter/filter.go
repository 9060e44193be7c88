// Package filter applies jq expressions to command output.
package filter

import (
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"
)

// Apply runs a jq expression over data. data may be any JSON-encodable Go
// value; it is first reduced to plain maps, slices, strings, float64s and
// bools, which is all gojq accepts. A single result is returned as is, no
// results as nil, several as a slice.
func Apply(data any, expression string) (any, error) {
	if expression == "" {
		return data, nil
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	input, err := Normalize(data)
	if err != nil {
		return nil, err
	}

	iter := query.Run(input)

	var results []any
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return nil, fmt.Errorf("filter error: %w", err)
		}
		results = append(results, v)
	}

	switch len(results) {
	case 0:
		return nil, nil
	case 1:
		return results[0], nil
	default:
		return results, nil
	}
}

// Normalize converts v to its generic JSON representation.
func Normalize(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding filter input: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding filter input: %w", err)
	}
	return out, nil
}

// ApplyToJSON applies filter to JSON bytes and returns filtered JSON bytes.
func ApplyToJSON(jsonData []byte, expression string) ([]byte, error) {
	if expression == "" {
		return jsonData, nil
	}

	var data any
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	result, err := Apply(data, expression)
	if err != nil {
		return nil, err
	}

	return json.MarshalIndent(result, "", "  ")
}
