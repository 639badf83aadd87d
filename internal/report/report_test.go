package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmaguard/pharmaguard/internal/explain"
	"github.com/pharmaguard/pharmaguard/internal/pgx"
	"github.com/pharmaguard/pharmaguard/internal/vcf"
)

func sampleVariants() vcf.GeneVariants {
	gv := vcf.NewGeneVariants()
	gv[vcf.GeneCYP2D6] = []*vcf.VariantRecord{
		{Gene: vcf.GeneCYP2D6, RSID: "rs3892097", Star: "*4"},
	}
	return gv
}

func TestBuilder(t *testing.T) {
	gv := sampleVariants()
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	b := NewBuilder("PATIENT_SAMPLE001", gv, now)

	engine := pgx.NewEngine()
	r := engine.AnalyzeDrug(pgx.DrugCodeine, gv)
	b.Add(r, explain.Explanation{Summary: "s", Source: "deterministic_fallback", Model: "none"})

	resp := b.Response()
	require.Len(t, resp.Results, 1)
	assert.Equal(t, 1, resp.TotalDrugsAnalyzed)
	assert.Equal(t, "2026-03-14T09:26:53Z", resp.AnalysisTimestamp)

	a := resp.Results[0]
	assert.Equal(t, "PATIENT_SAMPLE001", a.PatientID)
	assert.Equal(t, "CODEINE", a.Drug)
	assert.Equal(t, resp.AnalysisTimestamp, a.Timestamp)
	assert.True(t, a.QualityMetrics.VCFParsingSuccess)
	assert.Equal(t, 1, a.QualityMetrics.VariantsFound)
	assert.Equal(t, []string{"CYP2D6"}, a.QualityMetrics.GeneCoverage)
}

func TestBuilder_EmptyResponse(t *testing.T) {
	b := NewBuilder("PATIENT_UNKNOWN", vcf.NewGeneVariants(), time.Now())
	resp := b.Response()
	assert.NotNil(t, resp.Results)
	assert.Empty(t, resp.Results)
	assert.Zero(t, resp.TotalDrugsAnalyzed)
}

func TestResponseJSONShape(t *testing.T) {
	gv := sampleVariants()
	b := NewBuilder("PATIENT_SAMPLE001", gv, time.Now())
	b.Add(pgx.NewEngine().AnalyzeDrug(pgx.DrugCodeine, gv),
		explain.Explanation{Summary: "s", Source: "deterministic_fallback", Model: "none"})

	data, err := json.Marshal(b.Response())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "results")
	assert.Contains(t, decoded, "total_drugs_analyzed")
	assert.Contains(t, decoded, "analysis_timestamp")

	results := decoded["results"].([]any)
	first := results[0].(map[string]any)
	for _, key := range []string{
		"patient_id", "drug", "timestamp", "risk_assessment",
		"pharmacogenomic_profile", "clinical_recommendation",
		"alternative_medications", "llm_generated_explanation", "quality_metrics",
	} {
		assert.Contains(t, first, key)
	}

	risk := first["risk_assessment"].(map[string]any)
	assert.Equal(t, "Ineffective", risk["risk_label"])
	assert.Equal(t, "moderate", risk["severity"])
}

func TestTabWriter(t *testing.T) {
	gv := sampleVariants()
	b := NewBuilder("PATIENT_SAMPLE001", gv, time.Now())
	b.Add(pgx.NewEngine().AnalyzeDrug(pgx.DrugCodeine, gv),
		explain.Explanation{Summary: "s", Source: "deterministic_fallback", Model: "none"})
	b.Add(pgx.NewEngine().AnalyzeDrug(pgx.DrugSimvastatin, vcf.NewGeneVariants()),
		explain.Explanation{Summary: "s", Source: "deterministic_fallback", Model: "none"})

	var buf bytes.Buffer
	tw := NewTabWriter(&buf)
	require.NoError(t, tw.WriteAll(b.Response()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "#Patient\tDrug\tRisk"))

	codeine := strings.Split(lines[1], "\t")
	assert.Equal(t, "CODEINE", codeine[1])
	assert.Equal(t, "Ineffective", codeine[2])
	assert.Equal(t, "0.92", codeine[4])
	assert.Equal(t, "YES", codeine[8])
	assert.Contains(t, codeine[10], "Acetaminophen (Paracetamol)")

	simva := strings.Split(lines[2], "\t")
	assert.Equal(t, "Safe", simva[2])
	assert.Equal(t, "-", simva[8])
	assert.Equal(t, "-", simva[10])
}
