package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/careops/hl7siu/pkg/hl7"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	fmt.Fprintf(w, "hl7siu: %d messages, %d parsed, %d failed, %d skipped\n",
		report.Summary.MessagesFound,
		report.Summary.Parsed,
		report.Summary.Failed,
		report.Summary.Skipped)
	return nil
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	fmt.Fprintln(w, "=== HL7 SIU Parse Report ===")
	fmt.Fprintln(w)

	for _, appt := range report.Appointments {
		fmt.Fprintf(w, "[SIU^S12] appointment %s\n", orUnset(appt.ID))
		fmt.Fprintf(w, "  When:     %s\n", orUnset(appt.Datetime))
		fmt.Fprintf(w, "  Patient:  %s\n", orUnset(patientDisplay(appt.Patient)))
		if appt.Provider != nil {
			fmt.Fprintf(w, "  Provider: %s\n", orUnset(appt.Provider.Name))
		}
		if appt.Location != "" {
			fmt.Fprintf(w, "  Location: %s\n", appt.Location)
		}
		if appt.Reason != "" {
			fmt.Fprintf(w, "  Reason:   %s\n", appt.Reason)
		}
		if f.opts.Verbose {
			fmt.Fprintf(w, "  Control ID: %s\n", orUnset(appt.Metadata.ControlID))
		}
		fmt.Fprintln(w)
	}

	if len(report.Skipped) > 0 && f.opts.Verbose {
		fmt.Fprintf(w, "Skipped %d message(s):\n", len(report.Skipped))
		for _, skip := range report.Skipped {
			fmt.Fprintf(w, "  - message %d: %s\n", skip.Index, skip.Reason)
		}
		fmt.Fprintln(w)
	}

	if len(report.Errors) > 0 {
		fmt.Fprintf(w, "Failed %d message(s):\n", len(report.Errors))
		for _, rec := range report.Errors {
			fmt.Fprintf(w, "  - message %d: %s\n", rec.Index, rec.Detail)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d messages, %d parsed, %d failed, %d skipped\n",
		report.Summary.MessagesFound,
		report.Summary.Parsed,
		report.Summary.Failed,
		report.Summary.Skipped)

	if f.opts.Verbose {
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
	}

	return nil
}

func patientDisplay(p hl7.Patient) string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if p.ID == "" {
		return name
	}
	if name == "" {
		return p.ID
	}
	return fmt.Sprintf("%s (%s)", name, p.ID)
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}
