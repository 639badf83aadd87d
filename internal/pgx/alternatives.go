package pgx

// AlternativeMedication is a curated substitute suggestion attached to any
// non-Safe risk finding.
type AlternativeMedication struct {
	Name         string `json:"name"`
	Rationale    string `json:"rationale"`
	PGxAdvantage string `json:"pgx_advantage"`
}

// drugAlternatives holds the curated alternatives catalog per drug. The
// catalog is attached whenever risk is non-Safe and is not filtered by
// phenotype; suitability caveats live in the rationale text.
var drugAlternatives = map[Drug][]AlternativeMedication{
	DrugCodeine: {
		{
			Name:         "Tramadol (with caution)",
			Rationale:    "Partially metabolized by CYP2D6 but dual mechanism via norepinephrine/serotonin reuptake inhibition maintains efficacy in PM.",
			PGxAdvantage: "Less dependent on CYP2D6 for analgesic effect than codeine.",
		},
		{
			Name:         "Acetaminophen (Paracetamol)",
			Rationale:    "No CYP2D6 metabolism. Safe and effective for mild-to-moderate pain.",
			PGxAdvantage: "Pharmacogenomically neutral — not affected by CYP2D6 phenotype.",
		},
		{
			Name:         "NSAIDs (e.g., Ibuprofen)",
			Rationale:    "Non-opioid analgesic with no pharmacogenomic concern for CYP2D6.",
			PGxAdvantage: "Independent of CYP2D6 metabolizer status.",
		},
		{
			Name:         "Morphine (direct opioid)",
			Rationale:    "Does not require CYP2D6 activation — acts directly on opioid receptors.",
			PGxAdvantage: "Bypasses CYP2D6 prodrug conversion step entirely.",
		},
	},
	DrugWarfarin: {
		{
			Name:         "Apixaban (Eliquis)",
			Rationale:    "Direct oral anticoagulant (DOAC) not metabolized by CYP2C9. No PGx titration needed.",
			PGxAdvantage: "Not affected by CYP2C9 or VKORC1 polymorphisms.",
		},
		{
			Name:         "Rivaroxaban (Xarelto)",
			Rationale:    "Factor Xa inhibitor; predictable pharmacokinetics not dependent on CYP2C9.",
			PGxAdvantage: "Pharmacogenomically neutral anticoagulant.",
		},
		{
			Name:         "Dabigatran (Pradaxa)",
			Rationale:    "Direct thrombin inhibitor. No CYP2C9 involvement in metabolism.",
			PGxAdvantage: "Fixed dosing without genetic dose adjustment.",
		},
	},
	DrugClopidogrel: {
		{
			Name:         "Ticagrelor (Brilinta)",
			Rationale:    "Direct-acting P2Y12 inhibitor. Does not require CYP2C19 bioactivation.",
			PGxAdvantage: "Fully effective regardless of CYP2C19 metabolizer status.",
		},
		{
			Name:         "Prasugrel (Effient)",
			Rationale:    "Less dependent on CYP2C19 for activation than clopidogrel.",
			PGxAdvantage: "Stronger and more consistent platelet inhibition in CYP2C19 PM.",
		},
	},
	DrugSimvastatin: {
		{
			Name:         "Pravastatin",
			Rationale:    "Not significantly transported by SLCO1B1, lower myopathy risk.",
			PGxAdvantage: "Minimal SLCO1B1-related statin accumulation.",
		},
		{
			Name:         "Rosuvastatin (low dose)",
			Rationale:    "Lower myopathy risk than simvastatin at equivalent LDL-lowering doses.",
			PGxAdvantage: "Reduced SLCO1B1-mediated hepatic uptake variability.",
		},
		{
			Name:         "Fluvastatin",
			Rationale:    "Primarily CYP2C9-metabolized; SLCO1B1 impact minimal.",
			PGxAdvantage: "Low SLCO1B1 transporter affinity.",
		},
	},
	DrugAzathioprine: {
		{
			Name:         "Mycophenolate Mofetil (MMF)",
			Rationale:    "Immunosuppressant not metabolized via TPMT pathway. Safe in TPMT PM.",
			PGxAdvantage: "Completely independent of TPMT enzyme activity.",
		},
		{
			Name:         "Methotrexate (low dose)",
			Rationale:    "Antifolate immunosuppressant with no TPMT dependency.",
			PGxAdvantage: "TPMT-independent mechanism of action.",
		},
		{
			Name:         "Ciclosporin",
			Rationale:    "Calcineurin inhibitor with no TPMT involvement.",
			PGxAdvantage: "Not affected by TPMT polymorphisms.",
		},
	},
	DrugFluorouracil: {
		{
			Name:         "Irinotecan",
			Rationale:    "Topoisomerase I inhibitor; different metabolic pathway (UGT1A1), not DPYD.",
			PGxAdvantage: "Does not rely on DPYD for detoxification — safe for DPYD-deficient patients.",
		},
		{
			Name:         "Capecitabine (50% dose-adjusted)",
			Rationale:    "Prodrug of 5-FU; same DPYD concern but allows more precise oral dosing with dose reduction.",
			PGxAdvantage: "Enables 50% dose reduction while maintaining some efficacy — only for IM, not PM.",
		},
		{
			Name:         "Gemcitabine",
			Rationale:    "Nucleoside analog with different enzymatic pathway from fluoropyrimidines.",
			PGxAdvantage: "Independent of DPYD — no risk of fluoropyrimidine-related toxicity.",
		},
	},
}

// Alternatives returns the catalog entries for a drug. The returned slice
// must not be mutated by callers.
func Alternatives(d Drug) []AlternativeMedication {
	return drugAlternatives[d]
}
