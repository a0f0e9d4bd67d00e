package main

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/logsense/internal/extract"
	"github.com/sells-group/logsense/internal/fetcher"
	"github.com/sells-group/logsense/internal/model"
	"github.com/sells-group/logsense/internal/store"
)

var (
	analyzeDescription string
	analyzeSelect      []string
	analyzeSave        bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <source>",
	Short: "Propose field extractions for a log sample",
	Long:  "Reads a log sample from a file, URL, or stdin ('-') and proposes a sourcetype, per-field extraction regexes, and timestamp settings. With --select, also builds a combined regex covering the chosen fields.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		source := args[0]

		sample, err := fetcher.New().Fetch(ctx, source)
		if err != nil {
			return err
		}

		detector := extract.NewDetector(initOracle())
		proposal, err := detector.Detect(ctx, model.DetectRequest{
			Text:           sample,
			Description:    analyzeDescription,
			SelectedFields: normalizeSelect(analyzeSelect),
		})
		if err != nil {
			return err
		}

		if analyzeSave {
			err := withStore(ctx, func(st store.Store) error {
				id, err := saveAnalysis(ctx, st, model.AnalysisKindExtraction, sample, source, proposal)
				if err != nil {
					return err
				}
				zap.L().Info("analysis saved", zap.String("id", id))
				return nil
			})
			if err != nil {
				return err
			}
		}

		return printJSON(proposal)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeDescription, "description", "", "extra context about the log source, passed to the AI")
	analyzeCmd.Flags().StringSliceVar(&analyzeSelect, "select", nil, "field names to include in the combined regex")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "persist the result to the analysis store")
	rootCmd.AddCommand(analyzeCmd)
}

// normalizeSelect trims blanks out of a --select list.
func normalizeSelect(names []string) []string {
	var out []string
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
