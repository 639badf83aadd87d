package vcf

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// StreamBackend is the specialized streaming backend. It reads the body
// through a buffered reader, tracks line numbers for diagnostics, and
// rejects bodies where any non-header line, blank lines included, appears
// before the #CHROM header. Its variant output is equivalent to
// LineBackend for every valid input.
type StreamBackend struct{}

// Name identifies the backend.
func (b *StreamBackend) Name() string { return "stream" }

// ParseError reports a structural problem with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vcf parse error at line %d: %s", e.Line, e.Message)
}

// Parse reads header lines until #CHROM, then decodes data rows.
func (b *StreamBackend) Parse(data []byte) (GeneVariants, error) {
	reader := bufio.NewReader(bytes.NewReader(data))
	lineNumber := 0

	// Header region: meta lines until the #CHROM column header.
	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read header: %w", err)
		}
		atEOF := err == io.EOF
		lineNumber++

		line = strings.TrimRight(line, "\r\n")

		switch {
		case strings.HasPrefix(line, "#CHROM"):
			// Header complete, data rows follow.
		case strings.HasPrefix(line, "#"):
			if atEOF {
				return nil, &ParseError{Line: lineNumber, Message: "no #CHROM header line found"}
			}
			continue
		case line == "" && atEOF:
			return nil, &ParseError{Line: lineNumber, Message: "no #CHROM header line found"}
		default:
			return nil, &ParseError{Line: lineNumber, Message: "expected #CHROM header line"}
		}
		break
	}

	gv := NewGeneVariants()

	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read variant line: %w", err)
		}
		atEOF := err == io.EOF
		lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line != "" && !strings.HasPrefix(line, "#") {
			if rec := parseDataLine(line); rec != nil {
				gv[rec.Gene] = append(gv[rec.Gene], rec)
			}
		}

		if atEOF {
			return gv, nil
		}
	}
}
