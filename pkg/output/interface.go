package output

import (
	"context"
	"io"
)

// Formatter renders a parse report in a specific format.
type Formatter interface {
	// Format renders the report to the given writer.
	Format(ctx context.Context, report *Report, w io.Writer) error

	// Name returns the format name (text, json).
	Name() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose includes per-message skip and error detail.
	Verbose bool

	// Quiet limits output to the summary.
	Quiet bool
}
