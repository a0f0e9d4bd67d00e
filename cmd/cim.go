package main

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/logsense/internal/cim"
	"github.com/sells-group/logsense/internal/model"
	"github.com/sells-group/logsense/internal/store"
)

var (
	cimFields []string
	cimSave   bool
)

var cimCmd = &cobra.Command{
	Use:   "cim <model>",
	Short: "Map extracted fields to a Splunk CIM data model",
	Long: "Maps extracted fields onto the standard fields of a CIM data model (" +
		strings.Join(model.CIMModels(), ", ") + "). Requires a configured AI key; there is no local fallback for CIM mapping.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cimModel := args[0]

		fields, err := parseFieldArgs(cimFields)
		if err != nil {
			return err
		}

		mapper := cim.NewMapper(initOracle())
		mappings, err := mapper.Map(ctx, cimModel, fields)
		if err != nil {
			return err
		}

		if cimSave {
			err := withStore(ctx, func(st store.Store) error {
				_, err := saveAnalysis(ctx, st, model.AnalysisKindCIM, cimInputKey(cimModel, fields), cimModel, mappings)
				return err
			})
			if err != nil {
				return err
			}
		}

		return printJSON(mappings)
	},
}

// parseFieldArgs parses repeated --field name=sample flags.
func parseFieldArgs(raw []string) ([]model.ExtractedField, error) {
	out := make([]model.ExtractedField, 0, len(raw))
	for _, arg := range raw {
		name, sample, found := strings.Cut(arg, "=")
		if !found || strings.TrimSpace(name) == "" {
			return nil, eris.Errorf("invalid --field %q, expected name=sample", arg)
		}
		out = append(out, model.ExtractedField{
			Name:   strings.TrimSpace(name),
			Sample: sample,
		})
	}
	return out, nil
}

func init() {
	cimCmd.Flags().StringArrayVar(&cimFields, "field", nil, "extracted field as name=sample (repeatable)")
	cimCmd.Flags().BoolVar(&cimSave, "save", false, "persist the result to the analysis store")
	rootCmd.AddCommand(cimCmd)
}
