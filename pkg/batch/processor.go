// Package batch drives the message assembler over many messages, in
// collect-errors or fail-fast mode, over in-memory content or a streaming
// line source.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/careops/hl7siu/pkg/hl7"
)

// ErrorRecord describes one rejected message in collect mode.
type ErrorRecord struct {
	// Index is the 0-based position of the message in the input.
	Index int `json:"message_index" yaml:"message_index"`

	// Kind is the parse failure category.
	Kind hl7.ErrorKind `json:"kind" yaml:"kind"`

	// Detail is the human-readable failure description.
	Detail string `json:"detail" yaml:"detail"`
}

// SkipRecord describes one skipped message: a non-SIU type or an empty
// block. Skips represent expected heterogeneity in mixed feeds and are
// counted separately from structural errors.
type SkipRecord struct {
	Index  int           `json:"message_index" yaml:"message_index"`
	Kind   hl7.ErrorKind `json:"kind" yaml:"kind"`
	Reason string        `json:"reason" yaml:"reason"`
}

// Result is the outcome of collect-mode processing. Appointments, Errors
// and Skipped each preserve input order; together they account for every
// message in the input.
type Result struct {
	Appointments []*hl7.Appointment `json:"appointments" yaml:"appointments"`
	Errors       []ErrorRecord      `json:"errors,omitempty" yaml:"errors,omitempty"`
	Skipped      []SkipRecord       `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Total returns the number of messages accounted for.
func (r *Result) Total() int {
	return len(r.Appointments) + len(r.Errors) + len(r.Skipped)
}

// HasErrors reports whether any structural errors were recorded.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

func (r *Result) record(index int, appt *hl7.Appointment, perr *hl7.ParseError) {
	switch {
	case perr == nil:
		r.Appointments = append(r.Appointments, appt)
	case perr.Skippable():
		r.Skipped = append(r.Skipped, SkipRecord{Index: index, Kind: perr.Kind, Reason: perr.Detail})
	default:
		r.Errors = append(r.Errors, ErrorRecord{Index: index, Kind: perr.Kind, Detail: perr.Error()})
	}
}

// Process parses every message in content, collecting per-message errors
// instead of stopping. Field-level problems never appear here; only
// segment- and message-level failures are recorded.
func Process(content string) *Result {
	result := &Result{}
	for index, message := range hl7.SplitMessages(content) {
		appt, err := hl7.ParseMessage(message)
		result.record(index, appt, asParseError(err))
	}
	return result
}

// ProcessStrict parses messages in fail-fast mode: the first rejection stops
// processing and is returned, annotated with the failing message index.
// Appointments produced before the failure remain in the returned slice.
func ProcessStrict(content string) ([]*hl7.Appointment, error) {
	var appointments []*hl7.Appointment
	for index, message := range hl7.SplitMessages(content) {
		appt, err := hl7.ParseMessage(message)
		if err != nil {
			return appointments, fmt.Errorf("message %d: %w", index, err)
		}
		appointments = append(appointments, appt)
	}
	return appointments, nil
}

// Collect drives a streaming source to exhaustion in collect mode. Only a
// run-fatal source failure (e.g. unreadable file) returns a non-nil error;
// per-message rejections are recorded in the Result.
func Collect(ctx context.Context, source hl7.LineSource, opts ...StreamOption) (*Result, error) {
	stream := NewStream(source, opts...)
	defer stream.Close()

	result := &Result{}
	for {
		outcome, err := stream.Next(ctx)
		if err == io.EOF {
			return result, nil
		}
		if err != nil {
			return result, err
		}
		result.record(outcome.Index, outcome.Appointment, outcome.Err)
	}
}

// asParseError extracts the *ParseError from err, which ParseMessage
// guarantees to produce. A foreign error is folded into a malformed-segment
// record so collect mode never drops a message silently.
func asParseError(err error) *hl7.ParseError {
	if err == nil {
		return nil
	}
	var perr *hl7.ParseError
	if errors.As(err, &perr) {
		return perr
	}
	return &hl7.ParseError{Kind: hl7.KindMalformedSegment, Detail: err.Error()}
}
