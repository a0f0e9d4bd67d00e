package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/logsense/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect saved analyses",
	Long:  "Commands for listing and viewing persisted analysis runs.",
}

// -- runs list --

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved analyses",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		kind, _ := cmd.Flags().GetString("kind")
		limit, _ := cmd.Flags().GetInt("limit")

		return withStore(ctx, func(st store.Store) error {
			analyses, err := st.ListAnalyses(ctx, store.AnalysisFilter{
				Kind:  kind,
				Limit: limit,
			})
			if err != nil {
				return eris.Wrap(err, "runs list")
			}

			if len(analyses) == 0 {
				errorf("No analyses found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tKIND\tSOURCE\tINPUT SHA-256\tCREATED")
			for _, a := range analyses {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.12s\t%s\n",
					a.ID, a.Kind, a.Source, a.InputSHA256,
					a.CreatedAt.Format(time.RFC3339))
			}
			return w.Flush()
		})
	},
}

// -- runs show --

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one saved analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		return withStore(ctx, func(st store.Store) error {
			a, err := st.GetAnalysis(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(a)
		})
	},
}

func init() {
	runsListCmd.Flags().String("kind", "", "filter by analysis kind (extraction, pii, cim)")
	runsListCmd.Flags().Int("limit", 20, "maximum rows")
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}
