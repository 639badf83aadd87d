package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/pharmaguard/pharmaguard/internal/audit"
	"github.com/pharmaguard/pharmaguard/internal/pgx"
	"github.com/pharmaguard/pharmaguard/internal/report"
	"github.com/pharmaguard/pharmaguard/internal/vcf"
)

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "PharmaGuard API",
		"version": Version,
	})
}

func (s *Server) handleAnalyze(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing 'file' field. Upload a VCF file.")
	}

	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".vcf") {
		return echo.NewHTTPError(http.StatusBadRequest,
			"Invalid file type. Please upload a VCF file (.vcf extension).")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Could not read uploaded file.")
	}
	defer src.Close()

	vcfBytes, err := io.ReadAll(io.LimitReader(src, s.cfg.MaxVCFBytes()+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Could not read uploaded file.")
	}
	if len(vcfBytes) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Uploaded VCF file is empty.")
	}
	if int64(len(vcfBytes)) > s.cfg.MaxVCFBytes() {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("VCF file exceeds maximum size of %d MB.", s.cfg.MaxVCFSizeMB))
	}

	// Strict content validation runs before anything else. A bad VCF is
	// rejected with 400; upload success and validity are not the same thing.
	geneVariants, err := s.parser.Parse(vcfBytes)
	if err != nil {
		var ve *vcf.ValidationError
		if errors.As(err, &ve) {
			s.logger.Warn("vcf rejected",
				zap.String("file", fileHeader.Filename),
				zap.String("reason", ve.Reason))
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("Invalid VCF file: %s", ve.Reason))
		}
		s.logger.Error("vcf parse failed",
			zap.String("file", fileHeader.Filename), zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("VCF file could not be parsed: %v", err))
	}
	patientID := vcf.ExtractPatientID(vcfBytes)

	drugs := pgx.DedupeDrugs(strings.Split(c.FormValue("drugs"), ","))
	if len(drugs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest,
			"No drugs specified. Provide at least one drug name.")
	}

	s.logger.Info("analysis request",
		zap.String("file", fileHeader.Filename),
		zap.String("patient", patientID),
		zap.Strings("genes_with_data", geneVariants.GenesWithData()),
		zap.Int("drugs", len(drugs)))

	results, err := s.engine.AnalyzeBatch(drugs, geneVariants, s.cfg.Workers)
	if err != nil {
		s.logger.Error("analysis engine failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError,
			fmt.Sprintf("Analysis failed: %s", excerpt(err.Error(), 200)))
	}

	now := time.Now()
	builder := report.NewBuilder(patientID, geneVariants, now)
	for _, r := range results {
		builder.Add(r, s.explainer.Explain(c.Request().Context(), r))
	}
	resp := builder.Response()

	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	s.recordAudit(requestID, patientID, results, now)

	s.logger.Info("analysis complete", zap.Int("drugs", len(resp.Results)))
	return c.JSON(http.StatusOK, resp)
}

// recordAudit appends outcomes to the audit log. Failures are logged and
// never affect the response.
func (s *Server) recordAudit(requestID, patientID string, results []*pgx.Result, now time.Time) {
	if s.auditLog == nil {
		return
	}

	entries := make([]audit.Entry, len(results))
	for i, r := range results {
		entries[i] = audit.Entry{
			RequestID:       requestID,
			PatientID:       patientID,
			Drug:            string(r.Drug),
			Gene:            r.Profile.PrimaryGene,
			Diplotype:       r.Profile.Diplotype,
			Phenotype:       string(r.Profile.Phenotype),
			RiskLabel:       string(r.RiskAssessment.RiskLabel),
			Severity:        string(r.RiskAssessment.Severity),
			Confidence:      r.RiskAssessment.ConfidenceScore,
			Contraindicated: r.ClinicalRecommendation.Contraindication,
			AnalyzedAt:      now,
		}
	}

	if err := s.auditLog.Record(entries); err != nil {
		s.logger.Warn("audit record failed", zap.Error(err))
	}
}

// excerpt truncates diagnostic strings before they reach a response body,
// backing up to a rune boundary so multi-byte text is never cut in half.
func excerpt(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// errorHandler renders every error as a uniform JSON body.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	detail := "An unexpected error occurred. Please try again."

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			detail = msg
		} else {
			detail = fmt.Sprintf("%v", he.Message)
		}
	} else {
		s.logger.Error("unhandled error", zap.Error(err))
	}

	_ = c.JSON(code, report.ErrorResponse{
		Error:      http.StatusText(code),
		Detail:     detail,
		StatusCode: code,
	})
}
