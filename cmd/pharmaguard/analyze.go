package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pharmaguard/pharmaguard/internal/explain"
	"github.com/pharmaguard/pharmaguard/internal/pgx"
	"github.com/pharmaguard/pharmaguard/internal/report"
	"github.com/pharmaguard/pharmaguard/internal/vcf"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		drugs        string
		outputFile   string
		outputFormat string
		workers      int
		backendName  string
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <file.vcf>",
		Short: "Analyze drug risk from a VCF file",
		Example: `  pharmaguard analyze patient.vcf --drugs codeine,warfarin
  pharmaguard analyze patient.vcf --drugs codeine -f tab
  pharmaguard analyze patient.vcf --drugs simvastatin -o report.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(args[0], drugs, outputFile, outputFormat, workers, backendName, verbose)
		},
	}

	cmd.Flags().StringVar(&drugs, "drugs", "", "Comma-separated drug names (required)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json, tab")
	cmd.Flags().IntVar(&workers, "workers", 0, "Analysis workers (0 = one per CPU)")
	cmd.Flags().StringVar(&backendName, "backend", "stream", "VCF parser backend: stream, line")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging to stderr")
	cmd.MarkFlagRequired("drugs")

	return cmd
}

func runAnalyze(vcfPath, drugs, outputFile, outputFormat string, workers int, backendName string, verbose bool) error {
	logger := zap.NewNop()
	if verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer logger.Sync()
	}

	backend := vcf.BackendByName(backendName)
	if backend == nil {
		return fmt.Errorf("unknown parser backend %q (use stream or line)", backendName)
	}

	data, err := os.ReadFile(vcfPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", vcfPath, err)
	}

	parser := vcf.NewParserWithBackend(backend)
	parser.SetLogger(logger)

	geneVariants, err := parser.Parse(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", vcfPath, err)
	}
	patientID := vcf.ExtractPatientID(data)

	drugList := pgx.DedupeDrugs(strings.Split(drugs, ","))
	if len(drugList) == 0 {
		return fmt.Errorf("no drugs specified")
	}

	engine := pgx.NewEngine()
	engine.SetLogger(logger)

	results, err := engine.AnalyzeBatch(drugList, geneVariants, workers)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	explainer := explain.NewExplainer(os.Getenv("GEMINI_API_KEY"))
	explainer.SetLogger(logger)

	builder := report.NewBuilder(patientID, geneVariants, time.Now())
	for _, r := range results {
		builder.Add(r, explainer.Explain(context.Background(), r))
	}
	resp := builder.Response()

	var out io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	switch outputFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	case "tab":
		return report.NewTabWriter(out).WriteAll(resp)
	default:
		return fmt.Errorf("unknown output format %q (use json or tab)", outputFormat)
	}
}
