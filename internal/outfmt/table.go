package outfmt

import (
	"io"
	"strings"
	"text/tabwriter"
)

// NewTabWriter returns a tabwriter for aligned text tables on w.
func NewTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

var cellReplacer = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

// SanitizeTab keeps a value inside one table cell: tabs and line breaks
// become spaces.
func SanitizeTab(s string) string {
	return cellReplacer.Replace(s)
}
