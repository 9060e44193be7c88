package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/salmonumbrella/formkit/internal/formserver"
	"github.com/salmonumbrella/formkit/internal/posts"
)

func TestServe_ReportsAddressAndStopsOnCancel(t *testing.T) {
	setupTestEnvironment(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	app := NewApp()
	root := NewRootCmd(app)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--output=json", "serve", "--key", "secret"})

	if err := root.ExecuteContext(ctx); err != nil {
		t.Fatalf("serve: %v", err)
	}

	var payload map[string]string
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("stdout is not valid JSON: %v; stdout=%q", err, out.String())
	}
	if payload["key"] != "secret" {
		t.Fatalf("key = %q", payload["key"])
	}
	if !strings.HasPrefix(payload["addr"], "127.0.0.1:") {
		t.Fatalf("addr = %q", payload["addr"])
	}
}

func TestServe_TextModeAnnouncesOnStderr(t *testing.T) {
	setupTestEnvironment(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	app := NewApp()
	root := NewRootCmd(app)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"serve"})

	if err := root.ExecuteContext(ctx); err != nil {
		t.Fatalf("serve: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected empty stdout, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "Access key: ") {
		t.Fatalf("stderr = %q", errOut.String())
	}
}

func TestServe_BadAddress(t *testing.T) {
	setupTestEnvironment(t)

	_, _, err := runCLI(t, "serve", "--addr", "not-an-address")
	if err == nil {
		t.Fatal("expected listen error")
	}
}

func TestServeSaver_NoEndpoint(t *testing.T) {
	setupTestEnvironment(t)

	_, err := serveSaver{app: newTestApp()}.Save(context.Background(), &posts.PostData{Title: "T", Content: "C"})
	if !errors.Is(err, formserver.ErrNoSaver) {
		t.Fatalf("err = %v, want ErrNoSaver", err)
	}
}
