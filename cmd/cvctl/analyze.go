package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"cv-match/internal/analysis"
	"cv-match/internal/config"
	"cv-match/internal/cv"
	"cv-match/internal/reference"
	"cv-match/internal/storage"

	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	taxonomy string
	market   string
	catalog  string
	topN     int
	maxBytes int64
	asJSON   bool
}

func newAnalyzeCmd() *cobra.Command {
	opts := analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze a CV file",
		Long:  "Reads a PDF, DOCX or TXT CV and prints its score, band, skills, market estimate and ranked job matches.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	def := reference.BuiltinSources()
	cmd.Flags().StringVar(&opts.taxonomy, "taxonomy", def.Taxonomy, "Taxonomy source (builtin, path, file:// or s3:// URI)")
	cmd.Flags().StringVar(&opts.market, "market", def.Market, "Market table source (builtin, path, file:// or s3:// URI)")
	cmd.Flags().StringVarP(&opts.catalog, "catalog", "c", def.Catalog, "Job catalog source (builtin, path, file:// or s3:// URI)")
	cmd.Flags().IntVar(&opts.topN, "top-skills", analysis.DefaultSummaryTopN, "Number of skills named in the summary")
	cmd.Flags().Int64Var(&opts.maxBytes, "max-bytes", analysis.DefaultMaxDocumentBytes, "Maximum document size in bytes")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func runAnalyze(ctx context.Context, out io.Writer, path string, opts analyzeOptions) error {
	format, err := cv.FormatFromFilename(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read CV file: %w", err)
	}

	ref, err := loadReference(ctx, reference.Sources{
		Taxonomy: opts.taxonomy,
		Market:   opts.market,
		Catalog:  opts.catalog,
	})
	if err != nil {
		return err
	}

	engine, err := analysis.NewEngine(ref,
		analysis.WithMaxDocumentBytes(opts.maxBytes),
		analysis.WithSummaryTopN(opts.topN),
	)
	if err != nil {
		return err
	}

	result, err := engine.Analyze(ctx, cv.Document{Data: data, Format: format}, nil)
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return printResult(out, result)
}

// loadReference only builds an S3 client when a source needs one. Postgres
// catalogs are served by the API, not the CLI.
func loadReference(ctx context.Context, src reference.Sources) (*analysis.Reference, error) {
	loader := &reference.Loader{}
	for _, s := range []string{src.Taxonomy, src.Market, src.Catalog} {
		if !strings.HasPrefix(s, "s3://") {
			continue
		}
		s3cfg := config.FromEnv().S3
		client, err := storage.NewS3Client(ctx, storage.S3Options{
			Region:          s3cfg.Region,
			Endpoint:        s3cfg.Endpoint,
			AccessKeyID:     s3cfg.AccessKeyID,
			SecretAccessKey: s3cfg.SecretAccessKey,
			UsePathStyle:    s3cfg.UsePathStyle,
		})
		if err != nil {
			return nil, err
		}
		loader.S3 = client
		break
	}
	return loader.Load(ctx, src)
}

func printResult(out io.Writer, r *analysis.AnalysisResult) error {
	p := r.Profile
	fmt.Fprintf(out, "Score:   %d (%s)\n", p.Score, p.Band)
	fmt.Fprintf(out, "Summary: %s\n", p.Summary)

	if len(p.Skills) > 0 {
		names := make([]string, 0, len(p.Skills))
		for _, s := range p.Skills {
			names = append(names, fmt.Sprintf("%s x%d", s.Name, s.Count))
		}
		fmt.Fprintf(out, "Skills:  %s\n", strings.Join(names, ", "))
	}

	fmt.Fprintf(out, "Demand:  %s (%.2f)\n", r.Market.Demand, r.Market.DemandScore)
	fmt.Fprintf(out, "Salary:  %d - %d\n", r.Market.Salary.Min, r.Market.Salary.Max)

	if len(r.Matches) == 0 {
		return nil
	}
	fmt.Fprintln(out, "Matches:")
	for _, m := range r.Matches {
		fmt.Fprintf(out, "  %2d. %-32s %.2f", m.Rank, m.Posting.Title, m.Relevance)
		if len(m.MatchedSkills) > 0 {
			fmt.Fprintf(out, "  [%s]", strings.Join(m.MatchedSkills, ", "))
		}
		fmt.Fprintln(out)
	}
	return nil
}
