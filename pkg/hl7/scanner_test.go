package hl7

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceSource is a LineSource over an in-memory line slice.
type sliceSource struct {
	lines  []string
	pos    int
	closed bool
}

func (s *sliceSource) Next(ctx context.Context) (string, error) {
	if s.pos >= len(s.lines) {
		return "", io.EOF
	}
	line := s.lines[s.pos]
	s.pos++
	return line, nil
}

func (s *sliceSource) Close() error {
	s.closed = true
	return nil
}

func sourceOf(content string) *sliceSource {
	return &sliceSource{lines: strings.Split(content, "\n")}
}

func drain(t *testing.T, scanner *MessageScanner) ([]string, []error) {
	t.Helper()
	var messages []string
	var errs []error
	for {
		msg, err := scanner.Next(context.Background())
		if err == io.EOF {
			return messages, errs
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		messages = append(messages, msg)
	}
}

func TestMessageScanner(t *testing.T) {
	msg1 := "MSH|^~\\&|A|B|C|D|20250501||SIU^S12|M1|P|2.3\nSCH|P1|F1\nPID|1||X"
	msg2 := "MSH|^~\\&|A|B|C|D|20250501||SIU^S12|M2|P|2.3\nSCH|P2|F2\nPID|1||Y"

	t.Run("yields each message at its boundary", func(t *testing.T) {
		scanner := NewMessageScanner(sourceOf(msg1 + "\n" + msg2))
		messages, errs := drain(t, scanner)

		require.Empty(t, errs)
		require.Len(t, messages, 2)
		assert.Equal(t, msg1, messages[0])
		assert.Equal(t, msg2, messages[1])
	})

	t.Run("empty source", func(t *testing.T) {
		scanner := NewMessageScanner(sourceOf(""))
		messages, errs := drain(t, scanner)
		assert.Empty(t, messages)
		assert.Empty(t, errs)
	})

	t.Run("eof is sticky", func(t *testing.T) {
		scanner := NewMessageScanner(sourceOf(msg1))
		_, _ = drain(t, scanner)

		_, err := scanner.Next(context.Background())
		assert.Equal(t, io.EOF, err)
	})

	t.Run("close releases the source", func(t *testing.T) {
		src := sourceOf(msg1)
		scanner := NewMessageScanner(src)
		require.NoError(t, scanner.Close())
		assert.True(t, src.closed)

		_, err := scanner.Next(context.Background())
		assert.Equal(t, io.EOF, err)
	})

	t.Run("cancelled context stops the scan", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		scanner := NewMessageScanner(sourceOf(msg1))
		_, err := scanner.Next(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

// The scanner and SplitMessages must agree on message boundaries for the
// same content.
func TestMessageScanner_MatchesSplitMessages(t *testing.T) {
	contents := []string{
		"MSH|^~\\&|A|B|C|D|1||SIU^S12|M1|P|2.3\nSCH|P1|F1\nPID|1||X",
		"MSH|^~\\&|A|B|C|D|1||SIU^S12|M1|P|2.3\nSCH|P1|F1\n\nMSH|^~\\&|A|B|C|D|1||SIU^S12|M2|P|2.3\nSCH|P2|F2",
		"stray content\nMSH|^~\\&|A|B|C|D|1||SIU^S12|M1|P|2.3\nSCH|P1|F1",
		"MSH|^~\\&|A|B|C|D|1||SIU^S12|M1|P|2.3\nNTE|mentions MSH|^~\\& inline",
	}

	for _, content := range contents {
		scanner := NewMessageScanner(sourceOf(content))
		streamed, errs := drain(t, scanner)
		require.Empty(t, errs)
		assert.Equal(t, SplitMessages(content), streamed, "content %q", content)
	}
}

func TestMessageScanner_SegmentLimit(t *testing.T) {
	header := "MSH|^~\\&|A|B|C|D|1||SIU^S12|M1|P|2.3"
	oversized := header + "\nSCH|P1|F1\nPID|1||X\nAIL|1||R1\nAIL|2||R2"
	valid := "MSH|^~\\&|A|B|C|D|1||SIU^S12|M2|P|2.3\nSCH|P2|F2\nPID|1||Y"

	scanner := NewMessageScanner(sourceOf(oversized+"\n"+valid), WithLimits(3, 0))
	messages, errs := drain(t, scanner)

	require.Len(t, errs, 1)
	var perr *ParseError
	require.True(t, errors.As(errs[0], &perr))
	assert.Equal(t, KindMalformedSegment, perr.Kind)
	assert.Contains(t, perr.Detail, "segment limit")

	// The scan continues past the oversized message.
	require.Len(t, messages, 1)
	assert.Equal(t, valid, messages[0])
}

func TestMessageScanner_SizeLimit(t *testing.T) {
	header := "MSH|^~\\&|A|B|C|D|1||SIU^S12|M1|P|2.3"
	big := header + "\nNTE|" + strings.Repeat("x", 200)

	scanner := NewMessageScanner(sourceOf(big), WithLimits(0, 100))
	messages, errs := drain(t, scanner)

	assert.Empty(t, messages)
	require.Len(t, errs, 1)
	var perr *ParseError
	require.True(t, errors.As(errs[0], &perr))
	assert.Contains(t, perr.Detail, "size limit")
}

func TestMessageBuffer(t *testing.T) {
	t.Run("limits", func(t *testing.T) {
		b := newMessageBuffer(2, 0)
		assert.True(t, b.add("one"))
		assert.True(t, b.add("two"))
		assert.False(t, b.add("three"))
		assert.True(t, b.overflowed())
		assert.Equal(t, "one\ntwo", b.message())
	})

	t.Run("reset clears overflow", func(t *testing.T) {
		b := newMessageBuffer(1, 0)
		b.add("one")
		b.add("two")
		require.True(t, b.overflowed())

		b.reset()
		assert.False(t, b.overflowed())
		assert.True(t, b.empty())
		assert.True(t, b.add("fresh"))
	})

	t.Run("non-positive limits fall back to defaults", func(t *testing.T) {
		b := newMessageBuffer(0, -1)
		assert.Equal(t, DefaultMaxSegments, b.maxSegments)
		assert.Equal(t, DefaultMaxMessageSize, b.maxSize)
	})
}
