// Package pii scans raw log text for sensitive data and synthesizes redaction
// rules for every hit. Detection is purely regex-driven: built-in categories
// come from the catalog registry, plus any caller-supplied custom patterns.
package pii

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/logsense/internal/catalog"
	"github.com/sells-group/logsense/internal/extract"
	"github.com/sells-group/logsense/internal/model"
)

// minMatchLen filters out trivially short matches that are almost always
// false positives.
const minMatchLen = 3

// Confidence scores reported per detector class. Registry categories are
// exact patterns; custom patterns are caller-supplied and slightly less
// trusted.
const (
	registryScore = 1.0
	customScore   = 0.9
)

type customDetector struct {
	name    string
	pattern string // caller's spelling, reported on matches
	re      *regexp.Regexp
}

// Scanner runs a fixed set of detectors over input text.
type Scanner struct {
	categories []catalog.Category
	custom     []customDetector
}

// NewScanner resolves the requested detector names against the catalog and
// compiles the custom patterns. Invalid custom regexes are skipped with a
// warning rather than failing the scan.
func NewScanner(detectors []string, custom []model.CustomPattern) *Scanner {
	s := &Scanner{categories: catalog.Resolve(detectors)}

	for _, p := range custom {
		if p.Regex == "" {
			continue
		}
		re, err := regexp.Compile("(?i)" + p.Regex)
		if err != nil {
			zap.L().Warn("pii: invalid custom pattern, skipping",
				zap.String("name", p.Name), zap.Error(err))
			continue
		}
		name := p.Name
		if name == "" {
			name = "custom_pattern"
		}
		s.custom = append(s.custom, customDetector{name: name, pattern: p.Regex, re: re})
	}
	return s
}

// Scan detects PII in text. Matches shorter than three characters after
// trimming are dropped. Overlapping matches from different detectors are all
// reported; ranking them is the caller's concern.
func (s *Scanner) Scan(text string) *model.ScanResult {
	result := &model.ScanResult{Results: []model.PIIMatch{}}

	for _, c := range s.categories {
		for _, span := range extract.LocateAll(text, c.Detect) {
			matched := text[span.Start:span.End]
			if len(strings.TrimSpace(matched)) < minMatchLen {
				continue
			}
			rule := SedcmdFor(text, span, c.Name, matched)
			result.Results = append(result.Results, model.PIIMatch{
				Type:         c.Name,
				Text:         matched,
				Score:        registryScore,
				Start:        span.Start,
				End:          span.End,
				Field:        extract.InferFieldName(text, span.Start, span.End, c.Name),
				RegexPattern: RedactionPattern(c.Name, matched),
				Mask:         &rule,
			})
		}
	}

	for _, d := range s.custom {
		typeName := strings.ToUpper(d.name)
		for _, span := range extract.LocateAll(text, d.re) {
			matched := text[span.Start:span.End]
			if len(strings.TrimSpace(matched)) < minMatchLen {
				continue
			}
			rule := SedcmdFor(text, span, d.name, matched)
			result.Results = append(result.Results, model.PIIMatch{
				Type:         typeName,
				Text:         matched,
				Score:        customScore,
				Start:        span.Start,
				End:          span.End,
				Field:        extract.InferFieldName(text, span.Start, span.End, typeName),
				RegexPattern: d.pattern,
				Mask:         &rule,
			})
		}
	}

	result.Summarize()
	return result
}
