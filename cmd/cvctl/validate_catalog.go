package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"cv-match/internal/reference"

	"github.com/spf13/cobra"
)

func newValidateCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-catalog <file>",
		Short: "Validate a job catalog JSON file",
		Long:  "Checks a job catalog against its JSON schema and reports postings whose required skills are not in the builtin taxonomy.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidateCatalog(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func runValidateCatalog(ctx context.Context, out io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read catalog file: %w", err)
	}

	postings, err := reference.ParseCatalog(data)
	if err != nil {
		return err
	}

	ref, err := reference.Builtin(ctx)
	if err != nil {
		return err
	}

	unknown := 0
	for _, p := range postings {
		for _, skill := range p.RequiredSkills {
			if _, ok := ref.Taxonomy.Canonical(skill); !ok {
				fmt.Fprintf(out, "warning: %s: skill %q is not in the taxonomy\n", p.ID, skill)
				unknown++
			}
		}
	}

	fmt.Fprintf(out, "%d postings OK", len(postings))
	if unknown > 0 {
		fmt.Fprintf(out, ", %d unknown skills", unknown)
	}
	fmt.Fprintln(out)
	return nil
}
