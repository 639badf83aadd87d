package pgx

// DetectedVariant is one deduplicated variant reported in a profile.
type DetectedVariant struct {
	RSID string `json:"rsid"`
	Star string `json:"star"`
}

// RiskAssessment is the classification block of a result.
type RiskAssessment struct {
	RiskLabel       RiskLabel `json:"risk_label"`
	ConfidenceScore float64   `json:"confidence_score"`
	Severity        Severity  `json:"severity"`
}

// Profile describes the genomic evidence behind a risk assessment.
type Profile struct {
	PrimaryGene      string            `json:"primary_gene"`
	Diplotype        string            `json:"diplotype"`
	Phenotype        Phenotype         `json:"phenotype"`
	DetectedVariants []DetectedVariant `json:"detected_variants"`
}

// Recommendation is the actionable clinical guidance block of a result.
type Recommendation struct {
	Action           string `json:"action"`
	DosageGuidance   string `json:"dosage_guidance"`
	Monitoring       string `json:"monitoring"`
	Contraindication bool   `json:"contraindication"`
	GuidelineSource  string `json:"guideline_source"`
}

// Result is the complete outcome of analyzing one drug against one
// patient's variants. Once returned it is immutable; nothing downstream
// (serialization, explanation, audit) may change its fields.
type Result struct {
	Drug                   Drug                    `json:"drug"`
	RiskAssessment         RiskAssessment          `json:"risk_assessment"`
	Profile                Profile                 `json:"pharmacogenomic_profile"`
	ClinicalRecommendation Recommendation          `json:"clinical_recommendation"`
	AlternativeMedications []AlternativeMedication `json:"alternative_medications"`
}
