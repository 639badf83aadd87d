// Package report assembles per-drug analysis results into the response
// shapes returned by the API and the CLI.
package report

import (
	"time"

	"github.com/pharmaguard/pharmaguard/internal/explain"
	"github.com/pharmaguard/pharmaguard/internal/pgx"
	"github.com/pharmaguard/pharmaguard/internal/vcf"
)

// QualityMetrics summarizes how much genomic evidence backed an analysis.
type QualityMetrics struct {
	VCFParsingSuccess bool     `json:"vcf_parsing_success"`
	VariantsFound     int      `json:"variants_found"`
	GeneCoverage      []string `json:"gene_coverage"`
}

// DrugAnalysis is the complete per-drug record in a response.
type DrugAnalysis struct {
	PatientID              string                      `json:"patient_id"`
	Drug                   string                      `json:"drug"`
	Timestamp              string                      `json:"timestamp"`
	RiskAssessment         pgx.RiskAssessment          `json:"risk_assessment"`
	PharmacogenomicProfile pgx.Profile                 `json:"pharmacogenomic_profile"`
	ClinicalRecommendation pgx.Recommendation          `json:"clinical_recommendation"`
	AlternativeMedications []pgx.AlternativeMedication `json:"alternative_medications"`
	Explanation            explain.Explanation         `json:"llm_generated_explanation"`
	QualityMetrics         QualityMetrics              `json:"quality_metrics"`
}

// AnalysisResponse is the top-level response for a batch of drugs.
type AnalysisResponse struct {
	Results            []DrugAnalysis `json:"results"`
	TotalDrugsAnalyzed int            `json:"total_drugs_analyzed"`
	AnalysisTimestamp  string         `json:"analysis_timestamp"`
}

// ErrorResponse is the uniform error body for the API.
type ErrorResponse struct {
	Error      string `json:"error"`
	Detail     string `json:"detail"`
	StatusCode int    `json:"status_code"`
}

// Builder accumulates per-drug results sharing one patient, timestamp,
// and gene coverage snapshot.
type Builder struct {
	patientID    string
	timestamp    string
	geneCoverage []string
	results      []DrugAnalysis
}

// NewBuilder starts a response for one analysis request. Gene coverage is
// snapshotted from the parsed variants; all results share one timestamp.
func NewBuilder(patientID string, gv vcf.GeneVariants, now time.Time) *Builder {
	return &Builder{
		patientID:    patientID,
		timestamp:    now.UTC().Format(time.RFC3339),
		geneCoverage: gv.GenesWithData(),
	}
}

// Add appends one drug's result with its explanation.
func (b *Builder) Add(r *pgx.Result, e explain.Explanation) {
	b.results = append(b.results, DrugAnalysis{
		PatientID:              b.patientID,
		Drug:                   string(r.Drug),
		Timestamp:              b.timestamp,
		RiskAssessment:         r.RiskAssessment,
		PharmacogenomicProfile: r.Profile,
		ClinicalRecommendation: r.ClinicalRecommendation,
		AlternativeMedications: r.AlternativeMedications,
		Explanation:            e,
		QualityMetrics: QualityMetrics{
			VCFParsingSuccess: true,
			VariantsFound:     len(r.Profile.DetectedVariants),
			GeneCoverage:      b.geneCoverage,
		},
	})
}

// Response finalizes the accumulated results.
func (b *Builder) Response() *AnalysisResponse {
	results := b.results
	if results == nil {
		results = []DrugAnalysis{}
	}
	return &AnalysisResponse{
		Results:            results,
		TotalDrugsAnalyzed: len(results),
		AnalysisTimestamp:  b.timestamp,
	}
}
