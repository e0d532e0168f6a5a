// Package main implements cvctl, a command line front end to the CV analysis
// engine and its reference data.
package main

import (
	"fmt"
	"os"

	"cv-match/internal/config"
	"cv-match/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cvctl",
		Short:         "Analyze CVs and validate reference data",
		Long:          "cvctl scores a CV file, estimates its market value and ranks job postings against it, using the same engine as the HTTP API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newAnalyzeCmd(), newValidateCatalogCmd())
	return root
}

func main() {
	_ = godotenv.Load()
	logger.SetupWriter(os.Stderr, config.FromEnv().LogLevel)

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
