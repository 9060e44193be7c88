package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestSetup_Levels(t *testing.T) {
	ctx := context.Background()

	if !Setup(true).Enabled(ctx, slog.LevelDebug) {
		t.Error("Setup(true) does not log at Debug")
	}

	info := Setup(false)
	if !info.Enabled(ctx, slog.LevelInfo) {
		t.Error("Setup(false) does not log at Info")
	}
	if info.Enabled(ctx, slog.LevelDebug) {
		t.Error("Setup(false) logs at Debug")
	}
}

func TestSetupWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupWriter(&buf, true)

	logger.Debug("sending request", "op", "POST /posts")

	out := buf.String()
	if !strings.Contains(out, "level=DEBUG") || !strings.Contains(out, `op="POST /posts"`) {
		t.Errorf("unexpected log line: %q", out)
	}
}

func TestDiscard(t *testing.T) {
	if Discard().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Discard() logger enabled at Debug")
	}
}

func TestWithLogger_FromContext_RoundTrip(t *testing.T) {
	logger := Setup(true)
	ctx := WithLogger(context.Background(), logger)

	if FromContext(ctx) != logger {
		t.Error("FromContext did not return the stored logger")
	}
}

func TestFromContext_ReturnsDefault(t *testing.T) {
	if FromContext(context.Background()) != slog.Default() {
		t.Error("FromContext should return slog.Default() when no logger is stored")
	}
}
