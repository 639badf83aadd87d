// Package explain generates human-readable summaries of completed risk
// results. It never makes or alters clinical decisions; every value it
// sees is already final when it arrives here.
package explain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pharmaguard/pharmaguard/internal/pgx"
)

const (
	geminiModel    = "gemini-1.5-flash"
	geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/" + geminiModel + ":generateContent"

	// SourceFallback marks deterministic template explanations.
	SourceFallback = "deterministic_fallback"
	// SourceGemini marks explanations produced by the Gemini API.
	SourceGemini = "gemini"
)

// Explanation is the narrative block attached to a drug analysis.
type Explanation struct {
	Summary string `json:"summary"`
	Source  string `json:"source"`
	Model   string `json:"model"`
}

// Explainer produces explanations, via the Gemini API when a key is
// configured and via deterministic templates otherwise. API failures
// degrade to the templates; an explanation is always returned.
type Explainer struct {
	apiKey string
	client *http.Client
	logger *zap.Logger
}

// NewExplainer creates an Explainer. An empty apiKey disables the API
// path entirely.
func NewExplainer(apiKey string) *Explainer {
	return &Explainer{
		apiKey: apiKey,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: zap.NewNop(),
	}
}

// SetLogger replaces the explainer's logger.
func (ex *Explainer) SetLogger(logger *zap.Logger) {
	ex.logger = logger
}

// Explain generates the narrative for one result.
func (ex *Explainer) Explain(ctx context.Context, r *pgx.Result) Explanation {
	if ex.apiKey == "" {
		ex.logger.Debug("no gemini api key configured, using fallback explanation")
		return fallbackExplanation(r)
	}

	summary, err := ex.generate(ctx, r)
	if err != nil {
		ex.logger.Warn("gemini call failed, using fallback explanation", zap.Error(err))
		return fallbackExplanation(r)
	}

	return Explanation{Summary: summary, Source: SourceGemini, Model: geminiModel}
}

// Gemini generateContent request/response shapes, reduced to the fields
// this package uses.

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (ex *Explainer) generate(ctx context.Context, r *pgx.Result) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: buildPrompt(r)}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     0.3,
			MaxOutputTokens: 300,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, geminiEndpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", ex.apiKey)

	resp, err := ex.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling gemini: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var gr geminiResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	summary := strings.TrimSpace(gr.Candidates[0].Content.Parts[0].Text)
	if summary == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}
	return summary, nil
}

func buildPrompt(r *pgx.Result) string {
	altNames := "none identified"
	if len(r.AlternativeMedications) > 0 {
		names := make([]string, len(r.AlternativeMedications))
		for i, a := range r.AlternativeMedications {
			names[i] = a.Name
		}
		altNames = strings.Join(names, ", ")
	}

	return fmt.Sprintf(`You are a clinical pharmacogenomics specialist writing a patient-friendly report section.

Based on the following pre-computed clinical findings (DO NOT change any of these values):
- Drug: %s
- Primary Gene: %s
- Diplotype: %s
- Metabolizer Phenotype: %s
- Risk Classification: %s (Severity: %s)
- Clinical Action: %s
- Alternative Medications Identified: %s

Write a concise, plain-English explanation (3–4 sentences) that:
1. Explains what the patient's genetic variant means for this drug
2. Confirms the risk level in non-technical language
3. Briefly mentions why the alternatives are relevant

Do NOT suggest different risk levels or dosages. Do NOT use jargon without explanation.
Return ONLY the explanation text, no headers or markdown.`,
		r.Drug,
		r.Profile.PrimaryGene,
		r.Profile.Diplotype,
		r.Profile.Phenotype,
		r.RiskAssessment.RiskLabel,
		r.RiskAssessment.Severity,
		r.ClinicalRecommendation.Action,
		altNames)
}

// capitalize lower-cases the word and upper-cases its first letter, for
// drug names embedded mid-sentence.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

func fallbackExplanation(r *pgx.Result) Explanation {
	drug := string(r.Drug)
	gene := r.Profile.PrimaryGene
	diplotype := r.Profile.Diplotype
	phenotype := string(r.Profile.Phenotype)

	var text string
	switch r.RiskAssessment.RiskLabel {
	case pgx.RiskSafe:
		text = fmt.Sprintf(
			"Your genetic profile (%s) for the %s gene indicates normal metabolizer status. "+
				"%s is expected to be processed by your body at the standard rate, "+
				"meaning the drug should be effective and well-tolerated at standard doses.",
			diplotype, gene, capitalize(drug))
	case pgx.RiskAdjustDosage:
		text = fmt.Sprintf(
			"Your genetic variant (%s) in the %s gene affects how your body processes %s. "+
				"As a %s metabolizer, you may process this drug more slowly or quickly than average, "+
				"which means your doctor should adjust the dose to ensure safety and effectiveness.",
			diplotype, gene, strings.ToLower(drug), phenotype)
	case pgx.RiskToxic:
		text = fmt.Sprintf(
			"Your genetic profile (%s) for %s indicates a significantly altered ability to metabolize %s. "+
				"This creates a high risk of drug accumulation and toxicity at standard doses. "+
				"Your healthcare provider should be informed immediately, and alternative medications reviewed.",
			diplotype, gene, strings.ToLower(drug))
	case pgx.RiskIneffective:
		text = fmt.Sprintf(
			"Due to your genetic variant (%s) in %s, your body cannot properly activate %s into its active form. "+
				"This means the medication is unlikely to provide the intended therapeutic benefit. "+
				"Your doctor should consider pharmacogenomically compatible alternatives.",
			diplotype, gene, strings.ToLower(drug))
	default:
		text = fmt.Sprintf(
			"Insufficient pharmacogenomic data was available for %s to make a specific prediction about %s. "+
				"Standard clinical dosing guidelines should be applied, and your physician should be aware of this limitation.",
			gene, strings.ToLower(drug))
	}

	return Explanation{Summary: text, Source: SourceFallback, Model: "none"}
}
