package hl7

import "strings"

// ParseMessage decodes one raw SIU^S12 message into an Appointment.
//
// The header is always decoded first: it declares the separator set used by
// every other decoder and gates the message type. A type mismatch rejects
// the message before any other segment is touched. The SCH and PID segments
// are mandatory; PV1 and AIL are optional and their absence degrades the
// provider to nil and the location to empty rather than failing.
//
// The returned error is always a *ParseError.
func ParseMessage(raw string) (*Appointment, error) {
	lines := segmentLines(raw)
	if len(lines) == 0 {
		return nil, emptyMessage()
	}

	mshLine := findSegment(lines, tagMSH)
	if mshLine == "" {
		return nil, missingSegment(tagMSH)
	}

	meta, seps, perr := decodeMSH(mshLine)
	if perr != nil {
		return nil, perr
	}

	if !isSupportedType(meta.MessageType, seps) {
		actual := meta.MessageType
		if actual == "" {
			actual = "UNKNOWN"
		}
		return nil, invalidMessageType(actual)
	}

	schLine := findSegment(lines, tagSCH)
	if schLine == "" {
		return nil, missingSegment(tagSCH)
	}
	pidLine := findSegment(lines, tagPID)
	if pidLine == "" {
		return nil, missingSegment(tagPID)
	}

	sch := decodeSCH(schLine, seps)
	patient := decodePID(pidLine, seps)

	var provider *Provider
	if pv1Line := findSegment(lines, tagPV1); pv1Line != "" {
		p := decodePV1(pv1Line, seps)
		provider = &p
	}

	location := sch.location
	if location == "" {
		if ailLine := findSegment(lines, tagAIL); ailLine != "" {
			location = decodeAIL(ailLine, seps)
		}
	}

	return &Appointment{
		ID:       resolveAppointmentID(sch),
		Datetime: NormalizeTimestamp(sch.datetime),
		Patient:  patient,
		Provider: provider,
		Location: location,
		Reason:   sch.reason,
		Metadata: meta,
	}, nil
}

// resolveAppointmentID prefers the filler appointment ID over the placer.
func resolveAppointmentID(sch schFields) string {
	if sch.fillerID != "" {
		return sch.fillerID
	}
	return sch.placerID
}

// segmentLines splits a raw message into trimmed, non-blank segment lines.
func segmentLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(normalizeNewlines(raw), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// findSegment returns the first line carrying the given 3-character tag,
// or "" when the tag is absent. Tag comparison is case-insensitive.
func findSegment(lines []string, tag string) string {
	for _, line := range lines {
		if len(line) >= 3 && strings.EqualFold(line[:3], tag) {
			return line
		}
	}
	return ""
}
