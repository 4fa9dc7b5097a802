package hl7

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// LineSource provides an iterator over decoded text lines.
// Implementations must be safe for sequential access (not concurrent).
type LineSource interface {
	// Next returns the next line without its line ending.
	// Returns io.EOF when no more lines are available.
	Next(ctx context.Context) (string, error)

	// Close releases any resources held by the source.
	Close() error
}

// MessageScanner drives message-boundary detection over a LineSource,
// capping memory at the size of the single largest message. It yields each
// raw message as soon as its boundary is determined: upon encountering the
// next header line, or upon source exhaustion.
//
// For identical content, a MessageScanner yields exactly the same message
// sequence as SplitMessages.
type MessageScanner struct {
	source LineSource
	buffer *messageBuffer
	logger zerolog.Logger
	done   bool
}

// ScannerOption configures a MessageScanner.
type ScannerOption func(*MessageScanner)

// WithLimits overrides the per-message segment and byte limits.
// Non-positive values keep the defaults.
func WithLimits(maxSegments, maxSize int) ScannerOption {
	return func(s *MessageScanner) {
		s.buffer = newMessageBuffer(maxSegments, maxSize)
	}
}

// WithLogger routes scanner diagnostics (e.g. malformed header lookalikes)
// to the given logger. The default logger discards everything.
func WithLogger(logger zerolog.Logger) ScannerOption {
	return func(s *MessageScanner) {
		s.logger = logger
	}
}

// NewMessageScanner creates a scanner over the given line source.
func NewMessageScanner(source LineSource, opts ...ScannerOption) *MessageScanner {
	s := &MessageScanner{
		source: source,
		buffer: newMessageBuffer(DefaultMaxSegments, DefaultMaxMessageSize),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Next returns the next complete raw message. Returns io.EOF after the last
// message. A message that exceeded the configured limits is reported as a
// *ParseError of kind MalformedSegment; the scanner then continues with the
// following message, so a single oversized message does not end the scan.
func (s *MessageScanner) Next(ctx context.Context) (string, error) {
	if s.done {
		return "", io.EOF
	}

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		line, err := s.source.Next(ctx)
		if err == io.EOF {
			s.done = true
			if s.buffer.empty() {
				return "", io.EOF
			}
			return s.completeMessage("")
		}
		if err != nil {
			return "", err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if IsMessageHeader(line) {
			if !s.buffer.empty() {
				return s.completeMessage(line)
			}
			s.buffer.add(line)
			continue
		}

		if strings.HasPrefix(line, tagMSH) {
			s.logger.Debug().Str("line", truncate(line, 40)).
				Msg("line looks like a message header but is structurally malformed")
		}
		s.buffer.add(line)
	}
}

// completeMessage emits the buffered message and seeds the buffer with the
// header line that terminated it, if any.
func (s *MessageScanner) completeMessage(nextHeader string) (string, error) {
	overflowed := s.buffer.overflowed()
	reason := s.buffer.overflowReason
	message := s.buffer.message()

	s.buffer.reset()
	if nextHeader != "" {
		s.buffer.add(nextHeader)
	}

	if overflowed {
		return "", malformedSegment(tagMSH, reason)
	}
	return message, nil
}

// Close releases the underlying line source. Safe to call after early
// termination; no buffered message needs to be flushed.
func (s *MessageScanner) Close() error {
	s.done = true
	return s.source.Close()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
