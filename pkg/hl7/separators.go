// Package hl7 implements decoding of HL7 v2 SIU^S12 scheduling messages
// into normalized Appointment records.
//
// The package is built around a small set of pure components: a bounds-safe
// field accessor, one decoder per segment type, a timestamp normalizer, a
// structural message splitter, and a streaming scanner that bounds memory to
// a single message. Field-level problems never surface as errors; they
// degrade to empty strings or raw passthrough values. Only segment- and
// message-level problems are reported, as *ParseError.
package hl7

// Separators holds the delimiter set declared by a message's MSH segment.
// Every message owns its own separator set; a later message in the same feed
// may redeclare different delimiters.
type Separators struct {
	// Field separates fields within a segment (MSH char at index 3).
	Field byte

	// Component separates components within a field.
	Component byte

	// Repetition separates repetitions of a field.
	Repetition byte

	// Escape introduces escape sequences.
	Escape byte

	// Subcomponent separates subcomponents within a component.
	Subcomponent byte
}

// DefaultSeparators returns the standard HL7 delimiter set (|^~\&),
// used when a message does not declare its own encoding characters.
func DefaultSeparators() Separators {
	return Separators{
		Field:        '|',
		Component:    '^',
		Repetition:   '~',
		Escape:       '\\',
		Subcomponent: '&',
	}
}
