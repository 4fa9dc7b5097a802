package hl7

import "strings"

// Safety limits for accumulating a single message. These guard against
// malformed feeds where a boundary is never found.
const (
	DefaultMaxSegments    = 500
	DefaultMaxMessageSize = 1024 * 1024 // 1MB
)

// messageBuffer accumulates the lines of one message with size limits.
// Once a limit is exceeded the buffer stops accepting lines and records
// the reason; the scanner reports the overflow when the message completes.
type messageBuffer struct {
	maxSegments int
	maxSize     int

	lines          []string
	totalSize      int
	overflowReason string
}

func newMessageBuffer(maxSegments, maxSize int) *messageBuffer {
	if maxSegments <= 0 {
		maxSegments = DefaultMaxSegments
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxMessageSize
	}
	return &messageBuffer{maxSegments: maxSegments, maxSize: maxSize}
}

// add appends a line, returning false once a limit is exceeded.
func (b *messageBuffer) add(line string) bool {
	if b.overflowReason != "" {
		return false
	}
	if len(b.lines) >= b.maxSegments {
		b.overflowReason = "message exceeds segment limit"
		return false
	}
	if b.totalSize+len(line) > b.maxSize {
		b.overflowReason = "message exceeds size limit"
		return false
	}
	b.lines = append(b.lines, line)
	b.totalSize += len(line)
	return true
}

func (b *messageBuffer) message() string {
	return strings.Join(b.lines, "\n")
}

func (b *messageBuffer) empty() bool {
	return len(b.lines) == 0
}

func (b *messageBuffer) overflowed() bool {
	return b.overflowReason != ""
}

func (b *messageBuffer) reset() {
	b.lines = b.lines[:0]
	b.totalSize = 0
	b.overflowReason = ""
}
