package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TabWriter writes drug analyses in tab-delimited format for terminal
// and spreadsheet consumption.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Patient",
			"Drug",
			"Risk",
			"Severity",
			"Confidence",
			"Gene",
			"Diplotype",
			"Phenotype",
			"Contraindicated",
			"Action",
			"Alternatives",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single drug analysis row.
func (tw *TabWriter) Write(a *DrugAnalysis) error {
	contraindicated := "-"
	if a.ClinicalRecommendation.Contraindication {
		contraindicated = "YES"
	}

	alternatives := "-"
	if len(a.AlternativeMedications) > 0 {
		names := make([]string, len(a.AlternativeMedications))
		for i, alt := range a.AlternativeMedications {
			names[i] = alt.Name
		}
		alternatives = strings.Join(names, ",")
	}

	fields := []string{
		a.PatientID,
		a.Drug,
		string(a.RiskAssessment.RiskLabel),
		string(a.RiskAssessment.Severity),
		fmt.Sprintf("%.2f", a.RiskAssessment.ConfidenceScore),
		a.PharmacogenomicProfile.PrimaryGene,
		a.PharmacogenomicProfile.Diplotype,
		string(a.PharmacogenomicProfile.Phenotype),
		contraindicated,
		a.ClinicalRecommendation.Action,
		alternatives,
	}

	_, err := tw.w.WriteString(strings.Join(fields, "\t") + "\n")
	return err
}

// WriteAll writes the header followed by every result in the response.
func (tw *TabWriter) WriteAll(resp *AnalysisResponse) error {
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for i := range resp.Results {
		if err := tw.Write(&resp.Results[i]); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// Flush flushes buffered output.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
