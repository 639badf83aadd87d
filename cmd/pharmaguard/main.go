// Package main provides the pharmaguard command-line tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set at build time)
var (
	version = "1.0.0"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pharmaguard",
		Short: "Pharmacogenomic risk prediction from VCF files",
		Long: `PharmaGuard predicts drug risk from pharmacogenomic variants in a VCF
file, using curated CPIC rule tables for six gene-drug pairs.`,
	}

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAuditCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pharmaguard version %s (%s) built %s\n", version, commit, date)
		},
	}
}
