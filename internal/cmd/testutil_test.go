package cmd

import (
	"bytes"
	"io"
	"os"
	"testing"
)

// setupTestEnvironment isolates a test from the user's config and keyring.
// Settings and tokens live in a temp dir, with the file keyring unlocked by a
// fixed password.
func setupTestEnvironment(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("FORMKIT_KEYRING_BACKEND", "file")
	t.Setenv("FORMKIT_KEYRING_PASSWORD", "test-password")
	for _, key := range []string{
		"FORMKIT_ACCOUNT",
		"FORMKIT_ENDPOINT",
		"FORMKIT_OUTPUT",
		"FORMKIT_COLOR",
		"FORMKIT_CONFIG",
		"FORMKIT_DEBUG",
		"FORMKIT_TOKEN",
		"FORMKIT_SIGNING_SECRET",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("NO_COLOR", "1")
	return dir
}

// captureStdout captures stdout output for assertions in tests.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	stdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = stdout

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	_ = r.Close()

	return buf.String()
}

// captureStderr captures stderr output for assertions in tests.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()

	stderr := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stderr = w

	fn()

	_ = w.Close()
	os.Stderr = stderr

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	_ = r.Close()

	return buf.String()
}

// runCLI executes args and returns stdout, stderr and the error.
func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	stderr = captureStderr(t, func() {
		stdout = captureStdout(t, func() {
			err = Execute(args)
		})
	})
	return stdout, stderr, err
}

// newTestApp returns a minimal App for command unit tests.
func newTestApp() *App {
	return &App{Flags: &rootFlags{}}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
