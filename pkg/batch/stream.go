package batch

import (
	"context"
	"io"

	"github.com/careops/hl7siu/pkg/hl7"
)

// Outcome is the per-message result yielded by a Stream. Exactly one of
// Appointment and Err is set.
type Outcome struct {
	// Index is the 0-based position of the message in the feed.
	Index int

	// Appointment is the decoded record, nil on failure.
	Appointment *hl7.Appointment

	// Err is the rejection for this message, nil on success.
	Err *hl7.ParseError
}

// Stream yields one Outcome per message from a line source, in input
// order, with memory bounded to a single message. The sequence is finite,
// forward-only and single-pass. Ceasing to call Next and calling Close
// releases the source; no cleanup beyond that is required.
type Stream struct {
	scanner  *hl7.MessageScanner
	index    int
	failFast bool
	done     bool
}

// StreamOption configures a Stream.
type StreamOption func(*streamConfig)

type streamConfig struct {
	failFast    bool
	scannerOpts []hl7.ScannerOption
}

// FailFast makes the stream stop at the first rejected message: that
// message's Outcome is still yielded, and every subsequent Next returns
// io.EOF.
func FailFast() StreamOption {
	return func(c *streamConfig) { c.failFast = true }
}

// WithScannerOptions forwards options to the underlying message scanner.
func WithScannerOptions(opts ...hl7.ScannerOption) StreamOption {
	return func(c *streamConfig) { c.scannerOpts = append(c.scannerOpts, opts...) }
}

// NewStream creates a Stream over the given line source. The stream takes
// ownership of the source; Close releases it.
func NewStream(source hl7.LineSource, opts ...StreamOption) *Stream {
	cfg := streamConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Stream{
		scanner:  hl7.NewMessageScanner(source, cfg.scannerOpts...),
		failFast: cfg.failFast,
	}
}

// Next returns the outcome for the next message. Returns io.EOF when the
// feed is exhausted (or, in fail-fast mode, after the first rejection).
// Any other returned error is run-fatal: a source read failure aborts the
// whole operation regardless of mode.
func (s *Stream) Next(ctx context.Context) (Outcome, error) {
	if s.done {
		return Outcome{}, io.EOF
	}

	message, err := s.scanner.Next(ctx)
	if err == io.EOF {
		s.done = true
		return Outcome{}, io.EOF
	}
	if err != nil {
		if perr, ok := err.(*hl7.ParseError); ok && perr.Kind != hl7.KindFileRead {
			// A single oversized or unsplittable message; scoped to this
			// message, the scan continues after it.
			return s.outcome(nil, perr), nil
		}
		s.done = true
		return Outcome{}, err
	}

	appt, perr := hl7.ParseMessage(message)
	return s.outcome(appt, asParseError(perr)), nil
}

func (s *Stream) outcome(appt *hl7.Appointment, perr *hl7.ParseError) Outcome {
	out := Outcome{Index: s.index, Appointment: appt, Err: perr}
	s.index++
	if perr != nil && s.failFast {
		s.done = true
	}
	return out
}

// Close releases the underlying source.
func (s *Stream) Close() error {
	s.done = true
	return s.scanner.Close()
}
