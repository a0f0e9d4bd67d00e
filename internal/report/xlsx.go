// Package report renders scan results into shareable artifacts. The XLSX
// workbook is the audit handoff format: one row per finding, the masked rule
// included, raw match text deliberately absent from the summary sheet.
package report

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/logsense/internal/model"
)

var findingHeaders = []string{
	"Type", "Field", "Score", "Start", "End", "Redaction Pattern", "Replacement",
}

// WriteScanWorkbook writes a PII audit workbook to path. One sheet summarizes
// the scan, a second lists every finding.
func WriteScanWorkbook(path, source string, result *model.ScanResult) error {
	f := xlsx.NewFile()

	summary, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "report: add summary sheet")
	}
	addKV(summary, "Source", source)
	addKV(summary, "Scanned At", time.Now().UTC().Format(time.RFC3339))
	addKV(summary, "Total Detected", fmt.Sprintf("%d", result.TotalDetected))
	addKV(summary, "Suggestion", result.Suggestion)

	findings, err := f.AddSheet("Findings")
	if err != nil {
		return eris.Wrap(err, "report: add findings sheet")
	}
	header := findings.AddRow()
	for _, h := range findingHeaders {
		header.AddCell().SetString(h)
	}
	for _, m := range result.Results {
		row := findings.AddRow()
		row.AddCell().SetString(m.Type)
		row.AddCell().SetString(m.Field)
		row.AddCell().SetFloat(m.Score)
		row.AddCell().SetInt(m.Start)
		row.AddCell().SetInt(m.End)
		if m.Mask != nil {
			row.AddCell().SetString(m.Mask.Pattern)
			row.AddCell().SetString(m.Mask.Replacement)
		} else {
			row.AddCell().SetString(m.RegexPattern)
			row.AddCell().SetString("")
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save workbook %s", path)
	}
	return nil
}

func addKV(sheet *xlsx.Sheet, key, value string) {
	row := sheet.AddRow()
	row.AddCell().SetString(key)
	row.AddCell().SetString(value)
}
