// Package output provides report assembly and formatting for parse results.
package output

import (
	"time"

	"github.com/careops/hl7siu/pkg/batch"
	"github.com/careops/hl7siu/pkg/hl7"
)

// Report is the complete parse run output.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Appointments are the successfully decoded records, in input order.
	Appointments []*hl7.Appointment `json:"appointments"`

	// Errors are the structural per-message failures, in input order.
	Errors []batch.ErrorRecord `json:"errors,omitempty"`

	// Skipped are the non-SIU or empty messages, in input order.
	Skipped []batch.SkipRecord `json:"skipped,omitempty"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics. Parsed, failed and skipped sum to
// the number of messages found in the input.
type Summary struct {
	// MessagesFound is the total number of message blocks in the input.
	MessagesFound int `json:"messages_found"`

	// Parsed is the number of successfully decoded appointments.
	Parsed int `json:"parsed"`

	// Failed is the number of structurally rejected messages.
	Failed int `json:"failed"`

	// Skipped is the number of non-SIU or empty messages.
	Skipped int `json:"skipped"`
}

// Metadata provides context about the parse run.
type Metadata struct {
	// Sources lists the input files that were processed.
	Sources []string `json:"sources,omitempty"`

	// ParsedAt is when the run was performed.
	ParsedAt time.Time `json:"parsed_at"`

	// Duration is how long the run took.
	Duration time.Duration `json:"duration"`
}

// NewReport creates a Report from a collect-mode result.
func NewReport(result *batch.Result, sources []string, started time.Time) *Report {
	return &Report{
		Summary: Summary{
			MessagesFound: result.Total(),
			Parsed:        len(result.Appointments),
			Failed:        len(result.Errors),
			Skipped:       len(result.Skipped),
		},
		Appointments: result.Appointments,
		Errors:       result.Errors,
		Skipped:      result.Skipped,
		Metadata: Metadata{
			Sources:  sources,
			ParsedAt: started,
			Duration: time.Since(started),
		},
	}
}

// HasErrors reports whether any structural failures were recorded.
func (r *Report) HasErrors() bool {
	return r.Summary.Failed > 0
}
