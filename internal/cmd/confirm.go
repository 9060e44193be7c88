package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"golang.org/x/term"
)

var errCancelled = errors.New("cancelled")

// confirmPrompt writes prompt to w and reads one answer from in. It
// reports whether the answer, lowercased, is one of accepted.
func confirmPrompt(in io.Reader, w io.Writer, prompt string, accepted ...string) (bool, error) {
	fmt.Fprint(w, prompt)

	scanner := bufio.NewScanner(in)
	if scanner.Scan() {
		answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
		return slices.Contains(accepted, answer), nil
	}
	if err := scanner.Err(); err != nil {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		return false, Suggest(errors.New("confirmation required in non-interactive mode"), "Re-run with --yes to skip confirmation")
	}
	return false, errCancelled
}
