package cmd

import (
	"fmt"
	"io"
	"os"
)

// printNoResults writes an empty-result notice to stderr so stdout stays
// clean for pipes.
func printNoResults(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

func printList(w io.Writer, header string, items []string) {
	fmt.Fprintln(w, header)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}
