package cmd

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/salmonumbrella/formkit/internal/outfmt"
)

func TestPrintDryRun_Text(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	out := captureStdout(t, func() {
		err := printDryRun(cmd, newTestApp(), "Would submit post:", []string{"a", "b"}, nil)
		if err != nil {
			t.Fatalf("printDryRun error: %v", err)
		}
	})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), out)
	}
	if lines[0] != "Would submit post:" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if lines[1] != "  - a" || lines[2] != "  - b" {
		t.Fatalf("unexpected items: %q", lines[1:])
	}
}

func TestPrintDryRun_JSON(t *testing.T) {
	cmd := &cobra.Command{}
	ctx := context.WithValue(context.Background(), outputModeKey, outfmt.JSON)
	cmd.SetContext(ctx)

	out := captureStdout(t, func() {
		err := printDryRun(cmd, newTestApp(), "ignored", nil, map[string]any{"endpoint": "https://example.com"})
		if err != nil {
			t.Fatalf("printDryRun error: %v", err)
		}
	})

	var payload map[string]any
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if payload["dryRun"] != true {
		t.Fatalf("expected dryRun true, got %v", payload["dryRun"])
	}
	if payload["endpoint"] != "https://example.com" {
		t.Fatalf("expected endpoint, got %v", payload["endpoint"])
	}
}

func TestPrintNoResults(t *testing.T) {
	out := captureStderr(t, func() {
		printNoResults("No widgets found for %s", "test")
	})

	if strings.TrimSpace(out) != "No widgets found for test" {
		t.Fatalf("unexpected output: %q", out)
	}
}
