package pgx

import "github.com/pharmaguard/pharmaguard/internal/vcf"

// RiskLabel is the clinical risk classification for a (drug, phenotype) pair.
type RiskLabel string

// The closed risk label set. Unknown is a degradation outcome with zero
// confidence; it is never equivalent to Safe.
const (
	RiskSafe         RiskLabel = "Safe"
	RiskAdjustDosage RiskLabel = "Adjust Dosage"
	RiskToxic        RiskLabel = "Toxic"
	RiskIneffective  RiskLabel = "Ineffective"
	RiskUnknown      RiskLabel = "Unknown"
)

// Severity is the clinical severity tier of a risk finding.
type Severity string

// Severity tiers.
const (
	SeverityNone     Severity = "none"
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Drug is a supported medication name, upper-cased.
type Drug string

// The closed drug set. Each drug maps to exactly one primary gene.
const (
	DrugCodeine      Drug = "CODEINE"
	DrugWarfarin     Drug = "WARFARIN"
	DrugClopidogrel  Drug = "CLOPIDOGREL"
	DrugSimvastatin  Drug = "SIMVASTATIN"
	DrugAzathioprine Drug = "AZATHIOPRINE"
	DrugFluorouracil Drug = "FLUOROURACIL"
)

// GuidelineSource labels the clinical guideline corpus the rule tables encode.
const GuidelineSource = "CPIC"

// drugGenes maps each supported drug to its primary pharmacogene.
var drugGenes = map[Drug]vcf.Gene{
	DrugCodeine:      vcf.GeneCYP2D6,
	DrugWarfarin:     vcf.GeneCYP2C9,
	DrugClopidogrel:  vcf.GeneCYP2C19,
	DrugSimvastatin:  vcf.GeneSLCO1B1,
	DrugAzathioprine: vcf.GeneTPMT,
	DrugFluorouracil: vcf.GeneDPYD,
}

// PrimaryGene returns the pharmacogene governing the drug's metabolism,
// or false for unsupported drugs.
func PrimaryGene(d Drug) (vcf.Gene, bool) {
	g, ok := drugGenes[d]
	return g, ok
}

// SupportedDrugs lists all drugs with rule tables, in a fixed order.
var SupportedDrugs = []Drug{
	DrugCodeine, DrugWarfarin, DrugClopidogrel,
	DrugSimvastatin, DrugAzathioprine, DrugFluorouracil,
}

// RiskRule is one curated clinical rule for a (drug, phenotype) pair.
type RiskRule struct {
	Label           RiskLabel
	Severity        Severity
	Confidence      float64 // [0,1]
	Action          string
	DosageGuidance  string
	Monitoring      string
	Contraindicated bool
}

// drugRules holds the curated rule table per drug, keyed by phenotype.
var drugRules = map[Drug]map[Phenotype]RiskRule{
	DrugCodeine: {
		PhenotypePM: {
			Label:           RiskIneffective,
			Severity:        SeverityModerate,
			Confidence:      0.92,
			Action:          "Avoid Codeine. Prescribe alternative analgesic.",
			DosageGuidance:  "Do not prescribe codeine. CYP2D6 PM cannot convert codeine to morphine.",
			Monitoring:      "No monitoring needed — switch drug.",
			Contraindicated: true,
		},
		PhenotypeIM: {
			Label:          RiskAdjustDosage,
			Severity:       SeverityLow,
			Confidence:     0.85,
			Action:         "Use with caution. Reduced analgesic effect expected.",
			DosageGuidance: "Start at 50–75% of standard dose. Reassess pain control at 24–48 h.",
			Monitoring:     "Monitor pain control and respiratory function.",
		},
		PhenotypeNM: {
			Label:          RiskSafe,
			Severity:       SeverityNone,
			Confidence:     0.95,
			Action:         "Standard codeine therapy appropriate.",
			DosageGuidance: "Use standard dose as per body weight and pain indication.",
			Monitoring:     "Routine monitoring.",
		},
		PhenotypeURM: {
			Label:           RiskToxic,
			Severity:        SeverityCritical,
			Confidence:      0.97,
			Action:          "CONTRAINDICATED. Ultrarapid morphine conversion risk.",
			DosageGuidance:  "Do not prescribe codeine. Risk of life-threatening morphine toxicity.",
			Monitoring:      "If inadvertently given, monitor for respiratory depression immediately.",
			Contraindicated: true,
		},
		PhenotypeRM: {
			Label:           RiskToxic,
			Severity:        SeverityHigh,
			Confidence:      0.90,
			Action:          "Avoid. Elevated morphine levels likely.",
			DosageGuidance:  "Do not prescribe codeine without specialist review.",
			Monitoring:      "Monitor for opioid toxicity symptoms.",
			Contraindicated: true,
		},
	},
	DrugWarfarin: {
		PhenotypePM: {
			Label:          RiskAdjustDosage,
			Severity:       SeverityHigh,
			Confidence:     0.93,
			Action:         "Significant dose reduction required. High bleeding risk.",
			DosageGuidance: "Start at 20–40% of standard warfarin dose. Titrate by INR.",
			Monitoring:     "Daily INR monitoring until stable. Then weekly.",
		},
		PhenotypeIM: {
			Label:          RiskAdjustDosage,
			Severity:       SeverityModerate,
			Confidence:     0.88,
			Action:         "Reduce initial dose by 25–50%.",
			DosageGuidance: "Use CPIC warfarin dosing algorithm. Target INR 2.0–3.0.",
			Monitoring:     "INR monitoring every 3–5 days during initiation.",
		},
		PhenotypeNM: {
			Label:          RiskSafe,
			Severity:       SeverityNone,
			Confidence:     0.94,
			Action:         "Standard warfarin dosing appropriate.",
			DosageGuidance: "Use standard dosing algorithm (5 mg/day initiation).",
			Monitoring:     "Routine INR monitoring (weekly until stable).",
		},
		PhenotypeRM: {
			Label:          RiskSafe,
			Severity:       SeverityLow,
			Confidence:     0.80,
			Action:         "Standard dosing. Monitor for reduced effect.",
			DosageGuidance: "Use standard initiation dose. Adjust per INR response.",
			Monitoring:     "Routine INR monitoring.",
		},
	},
	DrugClopidogrel: {
		PhenotypePM: {
			Label:           RiskIneffective,
			Severity:        SeverityHigh,
			Confidence:      0.95,
			Action:          "Clopidogrel likely ineffective. Switch to alternative antiplatelet.",
			DosageGuidance:  "Do not rely on clopidogrel for platelet inhibition. CYP2C19 PM cannot activate prodrug.",
			Monitoring:      "If used, monitor platelet reactivity (P2Y12 assay).",
			Contraindicated: true,
		},
		PhenotypeIM: {
			Label:          RiskAdjustDosage,
			Severity:       SeverityModerate,
			Confidence:     0.87,
			Action:         "Reduced clopidogrel efficacy. Consider alternative.",
			DosageGuidance: "Consider doubling maintenance dose (150 mg/day) or switch to ticagrelor.",
			Monitoring:     "Monitor platelet function test at 2 weeks.",
		},
		PhenotypeNM: {
			Label:          RiskSafe,
			Severity:       SeverityNone,
			Confidence:     0.95,
			Action:         "Clopidogrel therapy appropriate at standard dose.",
			DosageGuidance: "75 mg/day maintenance dose. Standard loading 300–600 mg.",
			Monitoring:     "Routine clinical monitoring.",
		},
		PhenotypeRM: {
			Label:          RiskSafe,
			Severity:       SeverityNone,
			Confidence:     0.88,
			Action:         "Standard or enhanced clopidogrel efficacy expected.",
			DosageGuidance: "Standard 75 mg/day dose.",
			Monitoring:     "Routine monitoring.",
		},
	},
	DrugSimvastatin: {
		PhenotypePM: {
			Label:           RiskToxic,
			Severity:        SeverityHigh,
			Confidence:      0.91,
			Action:          "High myopathy risk. Avoid simvastatin 40–80 mg. Consider alternative statin.",
			DosageGuidance:  "Use simvastatin ≤20 mg/day only if no alternative, or switch to pravastatin/rosuvastatin.",
			Monitoring:      "Monitor CK levels. Educate patient on myopathy symptoms.",
			Contraindicated: true,
		},
		PhenotypeIM: {
			Label:          RiskAdjustDosage,
			Severity:       SeverityModerate,
			Confidence:     0.86,
			Action:         "Moderate myopathy risk. Dose limit recommended.",
			DosageGuidance: "Limit simvastatin to 20 mg/day. Prefer alternative statin.",
			Monitoring:     "Monitor CK levels at 4–8 weeks.",
		},
		PhenotypeNM: {
			Label:          RiskSafe,
			Severity:       SeverityNone,
			Confidence:     0.93,
			Action:         "Standard simvastatin therapy appropriate.",
			DosageGuidance: "Standard dose (20–40 mg/day).",
			Monitoring:     "Routine monitoring of liver enzymes and CK.",
		},
	},
	DrugAzathioprine: {
		PhenotypePM: {
			Label:           RiskToxic,
			Severity:        SeverityCritical,
			Confidence:      0.98,
			Action:          "CONTRAINDICATED. Severe myelosuppression risk.",
			DosageGuidance:  "Do not prescribe azathioprine. Risk of life-threatening bone marrow suppression.",
			Monitoring:      "If inadvertent exposure, daily CBC for at least 4 weeks.",
			Contraindicated: true,
		},
		PhenotypeIM: {
			Label:          RiskAdjustDosage,
			Severity:       SeverityHigh,
			Confidence:     0.90,
			Action:         "Start at 30–50% of normal dose. Monitor closely.",
			DosageGuidance: "Reduce starting dose to 30–50% of standard. Titrate slowly based on CBC.",
			Monitoring:     "Weekly CBC for first 2 months, then monthly.",
		},
		PhenotypeNM: {
			Label:          RiskSafe,
			Severity:       SeverityNone,
			Confidence:     0.95,
			Action:         "Standard azathioprine dosing appropriate.",
			DosageGuidance: "Standard dose (1.5–2.5 mg/kg/day).",
			Monitoring:     "Routine CBC monitoring every 1–3 months.",
		},
	},
	DrugFluorouracil: {
		PhenotypePM: {
			Label:           RiskToxic,
			Severity:        SeverityCritical,
			Confidence:      0.97,
			Action:          "CONTRAINDICATED. Severe fluoropyrimidine toxicity risk.",
			DosageGuidance:  "Do not administer 5-FU or capecitabine. DPYD PM at extreme risk of fatal toxicity.",
			Monitoring:      "If inadvertently given, immediate discontinuation and intensive supportive care.",
			Contraindicated: true,
		},
		PhenotypeIM: {
			Label:          RiskAdjustDosage,
			Severity:       SeverityHigh,
			Confidence:     0.92,
			Action:         "50% dose reduction required. Close toxicity monitoring.",
			DosageGuidance: "Reduce 5-FU starting dose by 50%. Dose-adjust based on toxicity assessment.",
			Monitoring:     "Weekly toxicity assessment (CBC, mucositis, diarrhea) for first 2 cycles.",
		},
		PhenotypeNM: {
			Label:          RiskSafe,
			Severity:       SeverityNone,
			Confidence:     0.94,
			Action:         "Standard fluorouracil therapy appropriate.",
			DosageGuidance: "Standard dosing per oncology protocol.",
			Monitoring:     "Routine toxicity monitoring per protocol.",
		},
	},
}

// LookupRule returns the curated rule for a (drug, phenotype) pair.
// The second return is false when no rule exists; callers must degrade
// to the Unknown outcome, never to a default risk label.
func LookupRule(d Drug, p Phenotype) (RiskRule, bool) {
	rules, ok := drugRules[d]
	if !ok {
		return RiskRule{}, false
	}
	rule, ok := rules[p]
	return rule, ok
}
