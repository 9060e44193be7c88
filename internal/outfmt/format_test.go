package outfmt

import (
	"bytes"
	"fmt"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "", want: Text},
		{in: "text", want: Text},
		{in: " JSON ", want: JSON},
		{in: "yaml", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, map[string]any{"kind": "total", "total": 3}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	want := "{\n  \"kind\": \"total\",\n  \"total\": 3\n}\n"
	if buf.String() != want {
		t.Errorf("WriteJSON() = %q, want %q", buf.String(), want)
	}
}

func TestWriteJSONFiltered(t *testing.T) {
	v := struct {
		Kind string `json:"kind"`
		Text string `json:"text"`
	}{"total", "Result: 3"}

	var buf bytes.Buffer
	if err := WriteJSONFiltered(&buf, v, ".text"); err != nil {
		t.Fatalf("WriteJSONFiltered() error = %v", err)
	}
	if got := buf.String(); got != "\"Result: 3\"\n" {
		t.Errorf("WriteJSONFiltered() = %q", got)
	}

	buf.Reset()
	if err := WriteJSONFiltered(&buf, v, ""); err != nil {
		t.Fatalf("WriteJSONFiltered() error = %v", err)
	}
	if got := buf.String(); got != "{\n  \"kind\": \"total\",\n  \"text\": \"Result: 3\"\n}\n" {
		t.Errorf("WriteJSONFiltered(no query) = %q", got)
	}

	if err := WriteJSONFiltered(&buf, v, ".["); err == nil {
		t.Error("WriteJSONFiltered() accepted an invalid expression")
	}
}

func TestNewTabWriter(t *testing.T) {
	var buf bytes.Buffer
	tw := NewTabWriter(&buf)
	fmt.Fprintln(tw, "ACCOUNT\tPRIMARY")
	fmt.Fprintln(tw, SanitizeTab("a\tb@example.com")+"\tyes")
	if err := tw.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	want := "ACCOUNT          PRIMARY\na b@example.com  yes\n"
	if buf.String() != want {
		t.Errorf("table = %q, want %q", buf.String(), want)
	}
}

func TestSanitizeTab_LineBreaks(t *testing.T) {
	if got := SanitizeTab("https://x\r\n/posts"); got != "https://x  /posts" {
		t.Errorf("SanitizeTab() = %q", got)
	}
}
