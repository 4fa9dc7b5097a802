package hl7

import "fmt"

// ErrorKind is the closed set of parse failure categories. Callers match
// on kind, not on error type identity.
type ErrorKind string

const (
	// KindInvalidMessageType means the header decoded but the message type
	// was not SIU^S12. Skippable in mixed feeds, not corruption.
	KindInvalidMessageType ErrorKind = "invalid_message_type"

	// KindMissingSegment means a mandatory segment tag was not found.
	// Fatal for that message only.
	KindMissingSegment ErrorKind = "missing_segment"

	// KindMalformedSegment means a segment's text could not be interpreted
	// as a delimited record. Fatal for that message only.
	KindMalformedSegment ErrorKind = "malformed_segment"

	// KindEmptyMessage means a message block held no non-blank lines.
	KindEmptyMessage ErrorKind = "empty_message"

	// KindFileRead means the line source could not be opened or read.
	// Fatal for the whole run, not per-message.
	KindFileRead ErrorKind = "file_read"
)

// ParseError is the single error type produced by message decoding.
type ParseError struct {
	// Kind categorizes the failure.
	Kind ErrorKind

	// Segment is the 3-character tag involved, when one applies.
	Segment string

	// Detail is a human-readable description.
	Detail string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Segment != "" {
		return fmt.Sprintf("%s: segment %s: %s", e.Kind, e.Segment, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Skippable reports whether the error represents expected heterogeneity in
// a mixed feed (a non-SIU message or an empty block) rather than corruption.
func (e *ParseError) Skippable() bool {
	return e.Kind == KindInvalidMessageType || e.Kind == KindEmptyMessage
}

func invalidMessageType(actual string) *ParseError {
	return &ParseError{
		Kind:    KindInvalidMessageType,
		Segment: tagMSH,
		Detail:  fmt.Sprintf("expected %s, got %q", supportedMessageType, actual),
	}
}

func missingSegment(tag string) *ParseError {
	return &ParseError{
		Kind:    KindMissingSegment,
		Segment: tag,
		Detail:  "required segment not found in message",
	}
}

func malformedSegment(tag, reason string) *ParseError {
	return &ParseError{Kind: KindMalformedSegment, Segment: tag, Detail: reason}
}

func emptyMessage() *ParseError {
	return &ParseError{Kind: KindEmptyMessage, Detail: "message contains no segments"}
}

// FileReadError builds the run-fatal error for an unreadable line source.
func FileReadError(path string, reason error) *ParseError {
	return &ParseError{
		Kind:   KindFileRead,
		Detail: fmt.Sprintf("cannot read %s: %v", path, reason),
	}
}
