package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pharmaguard/pharmaguard/internal/audit"
	"github.com/pharmaguard/pharmaguard/internal/config"
)

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the analysis audit log",
	}

	cmd.AddCommand(newAuditRecentCmd())
	cmd.AddCommand(newAuditPatientCmd())

	return cmd
}

func newAuditRecentCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the most recent recorded analyses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAuditStore(func(s *audit.Store) error {
				entries, err := s.Recent(limit)
				if err != nil {
					return err
				}
				return printEntries(entries)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of entries")

	return cmd
}

func newAuditPatientCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patient <patient-id>",
		Short: "Show all recorded analyses for one patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAuditStore(func(s *audit.Store) error {
				entries, err := s.ByPatient(args[0])
				if err != nil {
					return err
				}
				return printEntries(entries)
			})
		},
	}
}

func withAuditStore(fn func(*audit.Store) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.AuditDBPath == "" {
		return fmt.Errorf("AUDIT_DB_PATH is not set; the audit log is in-memory and not inspectable")
	}

	s, err := audit.Open(cfg.AuditDBPath)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer s.Close()

	return fn(s)
}

func printEntries(entries []audit.Entry) error {
	if len(entries) == 0 {
		fmt.Println("no entries")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ANALYZED\tREQUEST\tPATIENT\tDRUG\tGENE\tDIPLOTYPE\tPHENOTYPE\tRISK\tSEVERITY\tCONFIDENCE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%.2f\n",
			e.AnalyzedAt.Format("2006-01-02 15:04:05"),
			e.RequestID, e.PatientID, e.Drug, e.Gene, e.Diplotype, e.Phenotype,
			e.RiskLabel, e.Severity, e.Confidence)
	}
	return w.Flush()
}
