// Package reader provides line sources for the HL7 decoding pipeline: file
// readers with encoding fallback and an in-memory source for content that
// is already loaded.
package reader

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/careops/hl7siu/pkg/hl7"
)

// FileSource implements hl7.LineSource for reading HL7 feed files.
// Files are read line by line with memory bounded to one line. Lines that
// are not valid UTF-8 are re-decoded as Windows-1252, matching the legacy
// feeds this format tends to arrive in.
type FileSource struct {
	files []string

	currentFile    *os.File
	currentScanner *bufio.Scanner
	currentPath    string
	fileIndex      int
}

// NewFileSource creates a LineSource that reads the given files in order.
func NewFileSource(files ...string) *FileSource {
	return &FileSource{files: files, fileIndex: -1}
}

// Next returns the next line across all files.
// Returns io.EOF when every file has been exhausted.
func (s *FileSource) Next(ctx context.Context) (string, error) {
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		if s.currentScanner == nil {
			if err := s.openNextFile(); err != nil {
				return "", err
			}
		}

		if s.currentScanner.Scan() {
			return decodeLine(s.currentScanner.Bytes()), nil
		}

		if err := s.currentScanner.Err(); err != nil {
			return "", hl7.FileReadError(s.currentPath, err)
		}

		if err := s.closeCurrentFile(); err != nil {
			return "", err
		}
	}
}

// Close releases the currently open file, if any.
func (s *FileSource) Close() error {
	return s.closeCurrentFile()
}

func (s *FileSource) openNextFile() error {
	s.fileIndex++
	if s.fileIndex >= len(s.files) {
		return io.EOF
	}

	path := s.files[s.fileIndex]
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return hl7.FileReadError(path, err)
	}

	s.currentFile = f
	s.currentScanner = bufio.NewScanner(f)
	s.currentScanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // 1MB max line size
	s.currentScanner.Split(scanHL7Lines)
	s.currentPath = path

	return nil
}

func (s *FileSource) closeCurrentFile() error {
	if s.currentFile != nil {
		err := s.currentFile.Close()
		s.currentFile = nil
		s.currentScanner = nil
		return err
	}
	return nil
}

// scanHL7Lines is a bufio.SplitFunc that treats CR, LF and CRLF as line
// terminators. HL7 traditionally separates segments with a bare CR, which
// bufio.ScanLines does not split on.
func scanHL7Lines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		advance = i + 1
		if data[i] == '\r' && advance < len(data) && data[advance] == '\n' {
			advance++
		}
		if data[i] == '\r' && advance == len(data) && !atEOF {
			// Might be the first half of a CRLF split across reads.
			return 0, nil, nil
		}
		return advance, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// decodeLine returns the line as UTF-8 text, falling back to Windows-1252
// for byte sequences that are not valid UTF-8.
func decodeLine(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		// Windows-1252 maps every byte; keep the raw bytes if it somehow fails.
		return string(raw)
	}
	return string(decoded)
}

// StringSource implements hl7.LineSource over in-memory content, mainly
// for tests and for feeding already-loaded text through the streaming path.
type StringSource struct {
	lines []string
	pos   int
}

// NewStringSource creates a LineSource over the given content.
func NewStringSource(content string) *StringSource {
	var lines []string
	if content != "" {
		normalized := strings.ReplaceAll(content, "\r\n", "\n")
		normalized = strings.ReplaceAll(normalized, "\r", "\n")
		lines = strings.Split(normalized, "\n")
	}
	return &StringSource{lines: lines}
}

// Next returns the next line, or io.EOF when exhausted.
func (s *StringSource) Next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	if s.pos >= len(s.lines) {
		return "", io.EOF
	}
	line := s.lines[s.pos]
	s.pos++
	return line, nil
}

// Close is a no-op for in-memory sources.
func (s *StringSource) Close() error {
	return nil
}
