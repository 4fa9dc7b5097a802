package hl7

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsMessageHeader(t *testing.T) {
	tests := []struct {
		name string
		line string
		want bool
	}{
		{"standard header", "MSH|^~\\&|APP|FAC", true},
		{"custom separators", "MSH#*~\\&#APP#FAC", true},
		{"too short", "MSH|^~\\", false},
		{"wrong tag", "SCH|^~\\&|A|B", false},
		{"lowercase tag", "msh|^~\\&|APP", false},
		{"alphanumeric separator", "MSHX^~\\&|APP", false},
		{"whitespace separator", "MSH ^~\\&|APP", false},
		{"duplicate encoding chars", "MSH|^^\\&|APP", false},
		{"whitespace encoding char", "MSH|^ \\&|APP", false},
		{"embedded MSH in content", "NTE|comment about MSH|^~\\&|", false},
		{"empty line", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMessageHeader(tt.line))
		})
	}
}

func TestSplitMessages(t *testing.T) {
	msg1 := "MSH|^~\\&|A|B|C|D|20250501||SIU^S12|M1|P|2.3\nSCH|P1|F1\nPID|1||X"
	msg2 := "MSH|^~\\&|A|B|C|D|20250501||SIU^S12|M2|P|2.3\nSCH|P2|F2\nPID|1||Y"

	t.Run("single message", func(t *testing.T) {
		got := SplitMessages(msg1)
		require.Len(t, got, 1)
		assert.Equal(t, msg1, got[0])
	})

	t.Run("two messages", func(t *testing.T) {
		got := SplitMessages(msg1 + "\n" + msg2)
		require.Len(t, got, 2)
		assert.Equal(t, msg1, got[0])
		assert.Equal(t, msg2, got[1])
	})

	t.Run("blank lines between messages dropped", func(t *testing.T) {
		got := SplitMessages(msg1 + "\n\n\n" + msg2 + "\n\n")
		require.Len(t, got, 2)
		assert.Equal(t, msg1, got[0])
		assert.Equal(t, msg2, got[1])
	})

	t.Run("carriage return segment terminators", func(t *testing.T) {
		cr := strings.ReplaceAll(msg1, "\n", "\r") + "\r" + strings.ReplaceAll(msg2, "\n", "\r")
		got := SplitMessages(cr)
		require.Len(t, got, 2)
		assert.Equal(t, msg1, got[0])
		assert.Equal(t, msg2, got[1])
	})

	t.Run("crlf terminators", func(t *testing.T) {
		got := SplitMessages(strings.ReplaceAll(msg1, "\n", "\r\n"))
		require.Len(t, got, 1)
		assert.Equal(t, msg1, got[0])
	})

	t.Run("content before first header kept as its own block", func(t *testing.T) {
		got := SplitMessages("GARBAGE LINE\n" + msg1)
		require.Len(t, got, 2)
		assert.Equal(t, "GARBAGE LINE", got[0])
		assert.Equal(t, msg1, got[1])
	})

	t.Run("header lookalike stays inside its message", func(t *testing.T) {
		withNote := msg1 + "\nNTE|see MSH|^~\\& above"
		got := SplitMessages(withNote)
		require.Len(t, got, 1)
		assert.Equal(t, withNote, got[0])
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, SplitMessages(""))
		assert.Nil(t, SplitMessages("\n\n  \n"))
	})
}

// Concatenating two well-formed message blocks splits identically to
// splitting each block on its own.
func TestSplitMessages_ConcatenationEquivalence(t *testing.T) {
	msg1 := "MSH|^~\\&|A|B|C|D|20250501||SIU^S12|M1|P|2.3\nSCH|P1|F1"
	msg2 := "MSH|^~\\&|A|B|C|D|20250501||SIU^S12|M2|P|2.3\nSCH|P2|F2"

	combined := SplitMessages(msg1 + "\n" + msg2)
	var separate []string
	separate = append(separate, SplitMessages(msg1)...)
	separate = append(separate, SplitMessages(msg2)...)

	assert.Equal(t, separate, combined)
}
