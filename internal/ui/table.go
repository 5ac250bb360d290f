package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Table renders rows of data in aligned columns, one header line on top.
type Table struct {
	w *tabwriter.Writer
}

// NewTable creates a table writer with the given column headers.
func NewTable(out io.Writer, headers ...string) *Table {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	styled := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = Header(h)
	}
	_, _ = fmt.Fprintln(tw, strings.Join(styled, "\t"))
	return &Table{w: tw}
}

// Row appends a row of values, one per column.
func (t *Table) Row(values ...any) {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%v", v)
	}
	_, _ = fmt.Fprintln(t.w, strings.Join(parts, "\t"))
}

// Flush writes the buffered output.
func (t *Table) Flush() error {
	return t.w.Flush()
}
