package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/logsense/internal/fetcher"
	"github.com/sells-group/logsense/internal/model"
	"github.com/sells-group/logsense/internal/pii"
	"github.com/sells-group/logsense/internal/report"
	"github.com/sells-group/logsense/internal/store"
)

var (
	piiPatternsFile string
	piiXLSXPath     string
	piiJobs         int
	piiSave         bool
)

var piiCmd = &cobra.Command{
	Use:   "pii <source>...",
	Short: "Scan log samples for PII and synthesize redaction rules",
	Long:  "Scans one or more log samples for sensitive data. Each finding carries an inferred field name, a redaction regex, and a search-and-replace masking rule. Multiple sources are scanned concurrently.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		patterns, err := loadPatterns(piiPatternsFile)
		if err != nil {
			return err
		}
		scanner := pii.NewScanner(cfg.PII.DetectorList(), patterns)
		f := fetcher.New()

		type scanned struct {
			source string
			sample string
			result *model.ScanResult
		}

		results := make([]scanned, len(args))
		var mu sync.Mutex

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(piiJobs)
		for i, source := range args {
			g.Go(func() error {
				sample, err := f.Fetch(gctx, source)
				if err != nil {
					// One bad source does not abort the rest of the scan.
					zap.L().Warn("pii scan skipped source", zap.String("source", source), zap.Error(err))
					errorf("skipping %s: %v", source, err)
					return nil
				}
				result := scanner.Scan(sample)
				zap.L().Info("pii scan complete",
					zap.String("source", source),
					zap.Int("detected", result.TotalDetected))
				mu.Lock()
				results[i] = scanned{source: source, sample: sample, result: result}
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		scannedResults := results[:0:0]
		for _, s := range results {
			if s.result != nil {
				scannedResults = append(scannedResults, s)
			}
		}
		if len(scannedResults) == 0 {
			return eris.New("no sources could be read")
		}
		results = scannedResults

		if piiSave {
			err := withStore(ctx, func(st store.Store) error {
				for _, s := range results {
					id, err := saveAnalysis(ctx, st, model.AnalysisKindPII, s.sample, s.source, s.result)
					if err != nil {
						return err
					}
					zap.L().Info("scan saved", zap.String("id", id), zap.String("source", s.source))
				}
				return nil
			})
			if err != nil {
				return err
			}
		}

		if piiXLSXPath != "" {
			for _, s := range results {
				if err := report.WriteScanWorkbook(workbookPath(piiXLSXPath, s.source, len(results)), s.source, s.result); err != nil {
					return err
				}
			}
		}

		if len(results) == 1 {
			return printJSON(results[0].result)
		}
		out := make(map[string]*model.ScanResult, len(results))
		for _, s := range results {
			out[s.source] = s.result
		}
		return printJSON(out)
	},
}

// workbookPath returns the output path for one source's workbook. A single
// source uses the flag value directly; multiple sources get a suffix derived
// from the source name so they do not clobber each other.
func workbookPath(base, source string, total int) string {
	if total == 1 {
		return base
	}
	stem := strings.TrimSuffix(base, ".xlsx")
	name := filepath.Base(source)
	name = strings.Map(func(r rune) rune {
		if r == '/' || r == ':' || r == '\\' {
			return '_'
		}
		return r
	}, name)
	return fmt.Sprintf("%s_%s.xlsx", stem, name)
}

func init() {
	piiCmd.Flags().StringVar(&piiPatternsFile, "patterns", "", "YAML file of custom detection patterns")
	piiCmd.Flags().StringVar(&piiXLSXPath, "xlsx", "", "write an audit workbook to this path")
	piiCmd.Flags().IntVar(&piiJobs, "jobs", 4, "concurrent scans")
	piiCmd.Flags().BoolVar(&piiSave, "save", false, "persist results to the analysis store")
	rootCmd.AddCommand(piiCmd)
}
