package pgx

import (
	"strings"

	"go.uber.org/zap"

	"github.com/pharmaguard/pharmaguard/internal/vcf"
)

// UnknownGene is reported as the primary gene when the drug itself is
// not supported and no gene can be named.
const UnknownGene = "UNKNOWN"

// Engine evaluates drugs against a patient's gene variants using the
// curated rule tables. It holds no per-patient state and is safe for
// concurrent use.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates an Engine with a no-op logger.
func NewEngine() *Engine {
	return &Engine{logger: zap.NewNop()}
}

// SetLogger replaces the engine's logger.
func (e *Engine) SetLogger(logger *zap.Logger) {
	e.logger = logger
}

// ParseDrug normalizes a raw drug name to its canonical form. The second
// return reports whether the drug has a rule table; unsupported drugs are
// still analyzable and degrade to the Unknown outcome.
func ParseDrug(raw string) (Drug, bool) {
	d := Drug(strings.ToUpper(strings.TrimSpace(raw)))
	_, ok := drugGenes[d]
	return d, ok
}

// AnalyzeDrug evaluates one drug against the detected gene variants and
// returns a complete result. It never returns an error: missing genes,
// unresolvable diplotypes, and unsupported drugs all degrade to the
// Unknown outcome with zero confidence.
func (e *Engine) AnalyzeDrug(drug Drug, gv vcf.GeneVariants) *Result {
	gene, ok := drugGenes[drug]
	if !ok {
		e.logger.Info("unsupported drug, degrading to unknown", zap.String("drug", string(drug)))
		return e.unknownResult(drug, UnknownGene, ReferenceDiplotype, PhenotypeUnknown, nil)
	}

	variants := gv[gene]
	diplotype := InferDiplotype(variants)
	phenotype := ResolvePhenotype(gene, diplotype)
	detected := collectDetected(variants)

	rule, found := LookupRule(drug, phenotype)
	if !found || phenotype == PhenotypeUnknown {
		e.logger.Info("no rule for phenotype, degrading to unknown",
			zap.String("drug", string(drug)),
			zap.String("gene", string(gene)),
			zap.String("diplotype", diplotype),
			zap.String("phenotype", string(phenotype)))
		return e.unknownResult(drug, string(gene), diplotype, phenotype, detected)
	}

	var alternatives []AlternativeMedication
	if rule.Label != RiskSafe {
		alternatives = Alternatives(drug)
	}
	if alternatives == nil {
		alternatives = []AlternativeMedication{}
	}

	e.logger.Debug("drug analyzed",
		zap.String("drug", string(drug)),
		zap.String("gene", string(gene)),
		zap.String("diplotype", diplotype),
		zap.String("phenotype", string(phenotype)),
		zap.String("risk", string(rule.Label)))

	return &Result{
		Drug: drug,
		RiskAssessment: RiskAssessment{
			RiskLabel:       rule.Label,
			ConfidenceScore: rule.Confidence,
			Severity:        rule.Severity,
		},
		Profile: Profile{
			PrimaryGene:      string(gene),
			Diplotype:        diplotype,
			Phenotype:        phenotype,
			DetectedVariants: detected,
		},
		ClinicalRecommendation: Recommendation{
			Action:           rule.Action,
			DosageGuidance:   rule.DosageGuidance,
			Monitoring:       rule.Monitoring,
			Contraindication: rule.Contraindicated,
			GuidelineSource:  GuidelineSource,
		},
		AlternativeMedications: alternatives,
	}
}

// collectDetected deduplicates variants by (rsid-or-id, star), keeping the
// first occurrence in input order. Variants with neither an rsid nor a
// star tag carry no reportable evidence and are skipped.
func collectDetected(variants []*vcf.VariantRecord) []DetectedVariant {
	detected := make([]DetectedVariant, 0, len(variants))
	seen := make(map[[2]string]struct{}, len(variants))

	for _, v := range variants {
		id := v.RSID
		if id == "" {
			id = v.ID
		}
		if v.RSID == "" && v.Star == "" {
			continue
		}
		key := [2]string{id, v.Star}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		dv := DetectedVariant{RSID: id, Star: v.Star}
		if dv.RSID == "" {
			dv.RSID = "."
		}
		if dv.Star == "" {
			dv.Star = "."
		}
		detected = append(detected, dv)
	}

	return detected
}

func (e *Engine) unknownResult(drug Drug, gene, diplotype string, phenotype Phenotype, detected []DetectedVariant) *Result {
	if detected == nil {
		detected = []DetectedVariant{}
	}
	return &Result{
		Drug: drug,
		RiskAssessment: RiskAssessment{
			RiskLabel:       RiskUnknown,
			ConfidenceScore: 0.0,
			Severity:        SeverityNone,
		},
		Profile: Profile{
			PrimaryGene:      gene,
			Diplotype:        diplotype,
			Phenotype:        phenotype,
			DetectedVariants: detected,
		},
		ClinicalRecommendation: Recommendation{
			Action:           "Insufficient pharmacogenomic data. Use standard clinical judgment.",
			DosageGuidance:   "No genotype-guided dosage adjustment available.",
			Monitoring:       "Standard monitoring per drug labelling.",
			Contraindication: false,
			GuidelineSource:  GuidelineSource,
		},
		AlternativeMedications: []AlternativeMedication{},
	}
}
