package hl7

import "strings"

// IsMessageHeader reports whether a line structurally begins a new message.
// The check is constant-time and positional, never a substring search:
//
//	- the first three characters are the MSH tag
//	- the character at index 3 is a plausible field separator
//	  (non-alphanumeric, non-whitespace)
//	- the four encoding characters at indexes 4-7 are mutually distinct
//	  and non-whitespace
//
// A line failing any check is ordinary segment content, even when it embeds
// "MSH" inside a field value.
func IsMessageHeader(line string) bool {
	if len(line) < 8 {
		return false
	}
	if line[0:3] != tagMSH {
		return false
	}

	sep := line[3]
	if isAlphanumeric(sep) || isWhitespace(sep) {
		return false
	}

	encoding := line[4:8]
	for i := 0; i < 4; i++ {
		if isWhitespace(encoding[i]) {
			return false
		}
		for j := i + 1; j < 4; j++ {
			if encoding[i] == encoding[j] {
				return false
			}
		}
	}
	return true
}

// SplitMessages splits raw content into individual message blocks. Each
// block runs from one structurally valid header line up to (excluding) the
// next, in input order. Blank lines are not significant and are dropped.
// Content preceding the first valid header forms its own block, which the
// assembler will reject rather than silently discard.
func SplitMessages(content string) []string {
	if strings.TrimSpace(content) == "" {
		return nil
	}

	var messages []string
	var buffer []string

	for _, line := range strings.Split(normalizeNewlines(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if IsMessageHeader(line) && len(buffer) > 0 {
			messages = append(messages, strings.Join(buffer, "\n"))
			buffer = buffer[:0:0]
		}
		buffer = append(buffer, line)
	}

	if len(buffer) > 0 {
		messages = append(messages, strings.Join(buffer, "\n"))
	}
	return messages
}

// normalizeNewlines maps CRLF and bare CR line endings to LF. HL7 feeds
// traditionally use CR between segments.
func normalizeNewlines(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.ReplaceAll(content, "\r", "\n")
}

func isAlphanumeric(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}
