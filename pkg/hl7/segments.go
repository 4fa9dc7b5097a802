package hl7

import "strings"

// Segment tags recognized by the assembler.
const (
	tagMSH = "MSH"
	tagSCH = "SCH"
	tagPID = "PID"
	tagPV1 = "PV1"
	tagAIL = "AIL"
)

// supportedMessageType is the only message type this package decodes.
const supportedMessageType = "SIU^S12"

// decodeMSH parses the message header segment. MSH is special: the
// character at index 3 is itself the field separator (MSH-1), and MSH-2
// holds the remaining four encoding characters. This is the only decoder
// that can fail, since every other decoder depends on the separator set it
// yields.
func decodeMSH(segment string) (Metadata, Separators, *ParseError) {
	seps := DefaultSeparators()

	if segment == "" {
		return Metadata{}, seps, malformedSegment(tagMSH, "segment is empty")
	}
	if !strings.HasPrefix(segment, tagMSH) {
		return Metadata{}, seps, malformedSegment(tagMSH, "segment does not start with MSH")
	}
	if len(segment) < 4 {
		return Metadata{}, seps, malformedSegment(tagMSH, "segment too short to declare a field separator")
	}

	seps.Field = segment[3]
	fields := strings.Split(segment, string(seps.Field))
	if len(fields) < 2 {
		return Metadata{}, seps, malformedSegment(tagMSH, "cannot extract encoding characters")
	}

	encoding := fields[1]
	if len(encoding) > 0 {
		seps.Component = encoding[0]
	}
	if len(encoding) > 1 {
		seps.Repetition = encoding[1]
	}
	if len(encoding) > 2 {
		seps.Escape = encoding[2]
	}
	if len(encoding) > 3 {
		seps.Subcomponent = encoding[3]
	}

	meta := Metadata{
		SendingApplication:   Field(fields, 3),
		SendingFacility:      Field(fields, 4),
		ReceivingApplication: Field(fields, 5),
		ReceivingFacility:    Field(fields, 6),
		Timestamp:            NormalizeTimestamp(Field(fields, 7)),
		MessageType:          Field(fields, 9),
		ControlID:            Field(fields, 10),
		Version:              Field(fields, 12),
	}
	return meta, seps, nil
}

// isSupportedType checks the first two components of MSH-9 against SIU^S12,
// case-insensitively. Trailing components (the message structure ID in
// newer HL7 versions) are ignored.
func isSupportedType(messageType string, seps Separators) bool {
	code := Component(messageType, 1, seps.Component)
	trigger := Component(messageType, 2, seps.Component)
	return strings.EqualFold(code, "SIU") && strings.EqualFold(trigger, "S12")
}

// schFields is the decoded shape of the schedule activity segment.
type schFields struct {
	placerID string
	fillerID string
	reason   string
	datetime string
	location string
}

// decodeSCH parses the SCH (schedule activity) segment. Total: missing or
// malformed fields decode to empty strings.
func decodeSCH(segment string, seps Separators) schFields {
	fields := strings.Split(segment, string(seps.Field))

	out := schFields{
		placerID: Component(Field(fields, 2), 1, seps.Component),
		fillerID: Component(Field(fields, 3), 1, seps.Component),
		datetime: datetimeFromTiming(Field(fields, 12), seps.Component),
	}

	// SCH-6 is a coded element; prefer the text description over the code.
	reason := Field(fields, 7)
	out.reason = Component(reason, 2, seps.Component)
	if out.reason == "" {
		out.reason = Component(reason, 1, seps.Component)
	}

	// Location lives in SCH-23 with SCH-20 as an older-feed fallback; a
	// field without components is used whole.
	out.location = coalesceLocation(Field(fields, 24), seps)
	if out.location == "" {
		out.location = coalesceLocation(Field(fields, 21), seps)
	}

	return out
}

func coalesceLocation(field string, seps Separators) string {
	if loc := Component(field, 1, seps.Component); loc != "" {
		return loc
	}
	return field
}

// decodePID parses the PID (patient identification) segment. Total.
func decodePID(segment string, seps Separators) Patient {
	fields := strings.Split(segment, string(seps.Field))

	// PID-3 may repeat; take the first identifier.
	id := FirstRepetition(Field(fields, 4), seps.Repetition)

	// PID-5 is Family^Given^Middle^Suffix^Prefix, possibly repeating.
	name := FirstRepetition(Field(fields, 6), seps.Repetition)

	return Patient{
		ID:        Component(id, 1, seps.Component),
		LastName:  Component(name, 1, seps.Component),
		FirstName: Component(name, 2, seps.Component),
		DOB:       NormalizeTimestamp(Field(fields, 8)),
		Gender:    Field(fields, 9),
	}
}

// decodePV1 parses the PV1 (patient visit) segment for provider
// information. The attending doctor (PV1-7) wins, falling back to the
// referring (PV1-8) and consulting (PV1-9) doctors. Total.
func decodePV1(segment string, seps Separators) Provider {
	fields := strings.Split(segment, string(seps.Field))

	doctor := Field(fields, 8)
	if doctor == "" {
		doctor = Field(fields, 9)
	}
	if doctor == "" {
		doctor = Field(fields, 10)
	}
	entry := FirstRepetition(doctor, seps.Repetition)

	// XCN components: ID^Family^Given^Middle^Suffix^Prefix.
	parts := make([]string, 0, 4)
	for _, idx := range []int{2, 3, 4, 5} {
		if p := Component(entry, idx, seps.Component); p != "" {
			parts = append(parts, p)
		}
	}

	return Provider{
		ID:   Component(entry, 1, seps.Component),
		Name: strings.Join(parts, " "),
	}
}

// decodeAIL parses the AIL (appointment location) segment and returns the
// location resource (AIL-3). Total.
func decodeAIL(segment string, seps Separators) string {
	fields := strings.Split(segment, string(seps.Field))
	return coalesceLocation(Field(fields, 4), seps)
}
