package vcf

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// chromHeaderColumns are the required first 8 columns of the #CHROM line,
// order- and case-sensitive.
var chromHeaderColumns = []string{"#CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER", "INFO"}

// PatientUnknown is returned when the VCF carries no usable sample column.
const PatientUnknown = "PATIENT_UNKNOWN"

// ValidationError is a fatal structural rejection of an uploaded file.
// It is distinct from a successful parse with no retained variants.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid vcf: " + e.Reason
}

// Parser turns raw VCF bytes into gene-scoped variant records.
// The backend is selected once at construction and is invisible to callers:
// both backends honor the same output and error contract.
type Parser struct {
	backend Backend
	logger  *zap.Logger
}

// NewParser creates a parser using the default backend.
func NewParser() *Parser {
	return &Parser{
		backend: DefaultBackend(),
		logger:  zap.NewNop(),
	}
}

// NewParserWithBackend creates a parser using the given backend.
func NewParserWithBackend(b Backend) *Parser {
	return &Parser{backend: b, logger: zap.NewNop()}
}

// SetLogger sets the logger for diagnostic messages.
func (p *Parser) SetLogger(l *zap.Logger) {
	p.logger = l
}

// Parse validates the file structure, then decodes all data rows.
// Structural problems return a *ValidationError before any row is parsed.
// A backend rejection after validation passed is wrapped as a
// *ValidationError as well, never converted into an empty result.
func (p *Parser) Parse(data []byte) (GeneVariants, error) {
	if err := ValidateSignature(data); err != nil {
		return nil, err
	}

	gv, err := p.backend.Parse(data)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return nil, err
		}
		return nil, &ValidationError{
			Reason: fmt.Sprintf("vcf body is invalid or malformed: %v", err),
		}
	}

	p.logger.Info("vcf parsed",
		zap.String("backend", p.backend.Name()),
		zap.Strings("genes_with_data", gv.GenesWithData()))

	return gv, nil
}

// ValidateSignature enforces the VCF structural contract:
// a ##fileformat=VCF line must appear before the #CHROM header line,
// and the #CHROM line's first 8 tab-separated columns must match exactly.
// The header region ends at the first line that does not start with "#";
// a blank line there means the #CHROM header is missing, not optional.
// Data lines are not inspected here.
func ValidateSignature(data []byte) error {
	if len(data) == 0 {
		return &ValidationError{Reason: "empty file"}
	}

	hasFileformat := false
	hasChromHeader := false

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)

		if !utf8.ValidString(line) {
			return &ValidationError{Reason: "header is not valid UTF-8 text"}
		}

		if strings.HasPrefix(line, "##fileformat=VCF") {
			hasFileformat = true
		}

		if strings.HasPrefix(line, "#CHROM") {
			cols := strings.Split(line, "\t")
			if len(cols) < len(chromHeaderColumns) {
				return &ValidationError{Reason: "invalid #CHROM header structure"}
			}
			for i, want := range chromHeaderColumns {
				if cols[i] != want {
					return &ValidationError{Reason: "invalid #CHROM header structure"}
				}
			}
			hasChromHeader = true
			break
		}

		if !strings.HasPrefix(line, "#") {
			// Any non-header line, blank included, ends the header region.
			break
		}
	}

	if !hasFileformat {
		return &ValidationError{Reason: "missing ##fileformat=VCF header"}
	}
	if !hasChromHeader {
		return &ValidationError{Reason: "missing #CHROM header line"}
	}
	return nil
}

// ExtractPatientID derives a patient identifier from the #CHROM header's
// sample column (the 10th column). Returns PatientUnknown when no sample
// column is present. This never fails.
func ExtractPatientID(data []byte) string {
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if !strings.HasPrefix(line, "#CHROM") {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) > 9 {
			if sample := strings.TrimSpace(cols[9]); sample != "" {
				return "PATIENT_" + strings.ToUpper(sample)
			}
		}
		break
	}
	return PatientUnknown
}

// parseDataLine parses one tab-delimited data row into a VariantRecord.
// Returns nil for rows that should be silently skipped (too few columns,
// non-numeric position, unsupported or missing gene).
func parseDataLine(line string) *VariantRecord {
	cols := strings.Split(line, "\t")
	if len(cols) < 8 {
		return nil
	}

	pos, err := strconv.ParseInt(cols[1], 10, 64)
	if err != nil {
		return nil
	}

	info := ParseInfo(cols[7])
	gene := info.Gene()
	if !IsSupported(gene) {
		return nil
	}

	return &VariantRecord{
		Chrom: cols[0],
		Pos:   pos,
		ID:    cols[2],
		Ref:   cols[3],
		Alt:   cols[4],
		Gene:  gene,
		Star:  info.Star(),
		RSID:  ExtractRSID(cols[2], info),
		Info:  info,
	}
}

// LineBackend is the dependency-free line-based parsing backend.
type LineBackend struct{}

// Name identifies the backend.
func (b *LineBackend) Name() string { return "line" }

// Parse splits the body into lines and parses each data row independently.
func (b *LineBackend) Parse(data []byte) (GeneVariants, error) {
	gv := NewGeneVariants()

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if rec := parseDataLine(line); rec != nil {
			gv[rec.Gene] = append(gv[rec.Gene], rec)
		}
	}

	return gv, nil
}
