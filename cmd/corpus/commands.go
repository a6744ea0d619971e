package main

import (
	"errors"
	"fmt"

	"hukukai-backend/corpus"
	"hukukai-backend/service"

	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the corpus tables if they are missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Opening the store already ran InitSchema; run it again so the
			// command is meaningful on its own
			if err := a.store.InitSchema(cmd.Context()); err != nil {
				return fmt.Errorf("failed to initialize schema: %w", err)
			}
			cmd.Printf("Schema ready (%s)\n", a.cfg.StoreDriver)
			return nil
		},
	}
}

func newResetCmd(a *app) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Drop and recreate every corpus table",
		Long:  "Deletes all statutes, articles and court decisions. Requires --yes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return errors.New("refusing to reset without --yes")
			}
			if err := a.service.ResetCorpus(cmd.Context()); err != nil {
				return err
			}
			cmd.Println("Corpus reset")
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm deletion of all corpus data")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import [seed.yaml...]",
		Short: "Import laws, articles and decisions from YAML seed files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			importer := corpus.NewImporter(a.store, corpus.WithLogger(a.logger))
			for _, path := range args {
				seed, err := corpus.LoadFile(path)
				if err != nil {
					return err
				}
				result, err := importer.Import(cmd.Context(), seed)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				cmd.Printf("%s: %d laws, %d articles, %d decisions (%d skipped)\n",
					path, result.Statutes, result.Articles, result.Decisions, result.SkippedDecisions)
			}
			return nil
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show corpus record counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := a.service.Stats(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, stats)
			}
			cmd.Printf("Laws:      %d\n", stats.Statutes)
			cmd.Printf("Articles:  %d\n", stats.Articles)
			cmd.Printf("Decisions: %d\n", stats.Decisions)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		category     string
		analysisText string
		limit        int
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [case description]",
		Short: "Find statutes and decisions relevant to a case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.service.Analyze(cmd.Context(), service.AnalyzeRequest{
				CaseDescription: args[0],
				CaseCategory:    category,
				AnalysisText:    analysisText,
				Limit:           limit,
			})
			if err != nil {
				return err
			}
			report := result.Report
			if asJSON {
				return printJSON(cmd, report)
			}

			cmd.Printf("Keywords: %v\n", report.Keywords)
			if report.Degraded {
				cmd.Println("Warning: some lookups failed, results may be incomplete")
			}
			cmd.Println("Laws:")
			for _, law := range report.Citations.Laws {
				line := fmt.Sprintf("  %s %s", law.StatuteNumber, law.Name)
				if law.MatchedArticle != nil {
					line += fmt.Sprintf(" (madde %s)", law.MatchedArticle.ArticleNumber)
				}
				cmd.Println(line)
			}
			cmd.Println("Decisions:")
			for _, d := range report.Citations.Decisions {
				cmd.Printf("  %s %s: %s\n", d.Chamber, d.DecisionNumber, d.Subject)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "case category tag, e.g. aile_hukuku")
	cmd.Flags().StringVar(&analysisText, "analysis", "", "analysis text whose citations are resolved")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum laws and decisions (0 uses RESULT_LIMIT)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}
