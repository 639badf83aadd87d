package pgx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmaguard/pharmaguard/internal/vcf"
)

func geneVariantsWith(gene vcf.Gene, variants ...*vcf.VariantRecord) vcf.GeneVariants {
	gv := vcf.NewGeneVariants()
	gv[gene] = append(gv[gene], variants...)
	return gv
}

func TestAnalyzeDrug_CodeinePoorMetabolizer(t *testing.T) {
	gv := geneVariantsWith(vcf.GeneCYP2D6,
		&vcf.VariantRecord{Gene: vcf.GeneCYP2D6, RSID: "rs3892097", Star: "*4"},
	)

	r := NewEngine().AnalyzeDrug(DrugCodeine, gv)

	assert.Equal(t, RiskIneffective, r.RiskAssessment.RiskLabel)
	assert.Equal(t, SeverityModerate, r.RiskAssessment.Severity)
	assert.InDelta(t, 0.92, r.RiskAssessment.ConfidenceScore, 1e-9)

	assert.Equal(t, "CYP2D6", r.Profile.PrimaryGene)
	assert.Equal(t, "*4/*4", r.Profile.Diplotype)
	assert.Equal(t, PhenotypePM, r.Profile.Phenotype)

	assert.True(t, r.ClinicalRecommendation.Contraindication)
	assert.Equal(t, "CPIC", r.ClinicalRecommendation.GuidelineSource)

	names := make([]string, 0, len(r.AlternativeMedications))
	for _, alt := range r.AlternativeMedications {
		names = append(names, alt.Name)
	}
	assert.Contains(t, names, "Acetaminophen (Paracetamol)")
}

func TestAnalyzeDrug_SimvastatinNoVariants(t *testing.T) {
	r := NewEngine().AnalyzeDrug(DrugSimvastatin, vcf.NewGeneVariants())

	assert.Equal(t, RiskSafe, r.RiskAssessment.RiskLabel)
	assert.Equal(t, SeverityNone, r.RiskAssessment.Severity)
	assert.InDelta(t, 0.93, r.RiskAssessment.ConfidenceScore, 1e-9)
	assert.Equal(t, "*1/*1", r.Profile.Diplotype)
	assert.Equal(t, PhenotypeNM, r.Profile.Phenotype)
	assert.False(t, r.ClinicalRecommendation.Contraindication)
	assert.Empty(t, r.AlternativeMedications)
	assert.Empty(t, r.Profile.DetectedVariants)
}

func TestAnalyzeDrug_UnsupportedDrug(t *testing.T) {
	gv := geneVariantsWith(vcf.GeneCYP2D6,
		&vcf.VariantRecord{Gene: vcf.GeneCYP2D6, RSID: "rs3892097", Star: "*4"},
	)

	r := NewEngine().AnalyzeDrug(Drug("ASPIRIN"), gv)

	assert.Equal(t, RiskUnknown, r.RiskAssessment.RiskLabel)
	assert.Zero(t, r.RiskAssessment.ConfidenceScore)
	assert.Equal(t, SeverityNone, r.RiskAssessment.Severity)
	assert.Equal(t, UnknownGene, r.Profile.PrimaryGene)
	assert.Equal(t, PhenotypeUnknown, r.Profile.Phenotype)
	assert.False(t, r.ClinicalRecommendation.Contraindication)
	assert.Equal(t, "Insufficient pharmacogenomic data. Use standard clinical judgment.",
		r.ClinicalRecommendation.Action)
	assert.NotNil(t, r.AlternativeMedications)
	assert.Empty(t, r.AlternativeMedications)
}

func TestAnalyzeDrug_UnresolvableDiplotype(t *testing.T) {
	gv := geneVariantsWith(vcf.GeneCYP2D6,
		&vcf.VariantRecord{Gene: vcf.GeneCYP2D6, RSID: "rs1", Star: "*77"},
	)

	r := NewEngine().AnalyzeDrug(DrugCodeine, gv)

	assert.Equal(t, RiskUnknown, r.RiskAssessment.RiskLabel)
	assert.Equal(t, "CYP2D6", r.Profile.PrimaryGene)
	assert.Equal(t, "*77/*77", r.Profile.Diplotype)
	assert.Equal(t, PhenotypeUnknown, r.Profile.Phenotype)
	// Evidence is still reported even when classification fails.
	require.Len(t, r.Profile.DetectedVariants, 1)
	assert.Equal(t, "rs1", r.Profile.DetectedVariants[0].RSID)
}

func TestAnalyzeDrug_AzathioprineCritical(t *testing.T) {
	gv := geneVariantsWith(vcf.GeneTPMT,
		&vcf.VariantRecord{Gene: vcf.GeneTPMT, RSID: "rs1800462", Star: "*3A"},
	)

	r := NewEngine().AnalyzeDrug(DrugAzathioprine, gv)

	assert.Equal(t, RiskToxic, r.RiskAssessment.RiskLabel)
	assert.Equal(t, SeverityCritical, r.RiskAssessment.Severity)
	assert.InDelta(t, 0.98, r.RiskAssessment.ConfidenceScore, 1e-9)
	assert.True(t, r.ClinicalRecommendation.Contraindication)
	assert.NotEmpty(t, r.AlternativeMedications)
}

func TestCollectDetected_Dedupe(t *testing.T) {
	variants := []*vcf.VariantRecord{
		{RSID: "rs3892097", Star: "*4"},
		{RSID: "rs3892097", Star: "*4"}, // exact duplicate
		{RSID: "rs3892097", Star: "*10"},
		{RSID: "", ID: "cosmic1", Star: "*2"},
		{RSID: "", ID: "noevidence", Star: ""}, // no rsid, no star
	}

	detected := collectDetected(variants)

	require.Len(t, detected, 3)
	assert.Equal(t, DetectedVariant{RSID: "rs3892097", Star: "*4"}, detected[0])
	assert.Equal(t, DetectedVariant{RSID: "rs3892097", Star: "*10"}, detected[1])
	assert.Equal(t, DetectedVariant{RSID: "cosmic1", Star: "*2"}, detected[2])
}

func TestParseDrug(t *testing.T) {
	d, ok := ParseDrug("  codeine ")
	assert.True(t, ok)
	assert.Equal(t, DrugCodeine, d)

	d, ok = ParseDrug("aspirin")
	assert.False(t, ok)
	assert.Equal(t, Drug("ASPIRIN"), d)
}

func TestResult_AlternativesOnlyWhenNotSafe(t *testing.T) {
	for _, drug := range SupportedDrugs {
		gene, _ := PrimaryGene(drug)
		for dip := range genePhenotypes[gene] {
			gv := vcf.NewGeneVariants()
			a, b, _ := cutDiplotype(dip)
			gv[gene] = []*vcf.VariantRecord{
				{Gene: gene, Star: a},
				{Gene: gene, Star: b},
			}
			r := NewEngine().AnalyzeDrug(drug, gv)
			if r.RiskAssessment.RiskLabel == RiskSafe || r.RiskAssessment.RiskLabel == RiskUnknown {
				assert.Empty(t, r.AlternativeMedications, "%s %s", drug, dip)
			} else {
				assert.NotEmpty(t, r.AlternativeMedications, "%s %s", drug, dip)
			}
		}
	}
}
