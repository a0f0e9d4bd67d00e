package model

import (
	"fmt"
	"sort"
	"strings"
)

// PIIMatch is a single detected sensitive-data span with its category,
// position, inferred field name, and best-effort redaction patterns.
type PIIMatch struct {
	Type         string      `json:"type"`
	Text         string      `json:"text"`
	Score        float64     `json:"score"`
	Start        int         `json:"start"`
	End          int         `json:"end"`
	Field        string      `json:"field"`
	RegexPattern string      `json:"regex_pattern"`
	Mask         *SedcmdRule `json:"mask,omitempty"`
}

// SedcmdRule is a search-and-replace redaction rule synthesized for a match.
type SedcmdRule struct {
	Pattern     string `json:"pattern"`
	Replacement string `json:"replacement"`
}

// CustomPattern is a caller-supplied detector: a name and a regex, scanned
// case-insensitively.
type CustomPattern struct {
	Name  string `json:"name" yaml:"name"`
	Regex string `json:"regex" yaml:"regex"`
}

// ScanResult is the full output of one PII scan.
type ScanResult struct {
	Results       []PIIMatch `json:"pii_results"`
	Suggestion    string     `json:"suggestion"`
	TotalDetected int        `json:"total_detected"`
}

// Summarize fills Suggestion and TotalDetected from Results.
func (r *ScanResult) Summarize() {
	r.TotalDetected = len(r.Results)
	if len(r.Results) == 0 {
		r.Suggestion = "No PII detected."
		return
	}

	seen := make(map[string]bool)
	var types []string
	for _, m := range r.Results {
		if !seen[m.Type] {
			seen[m.Type] = true
			types = append(types, m.Type)
		}
	}
	sort.Strings(types)
	r.Suggestion = fmt.Sprintf(
		"Detected PII types: %s. Recommended action: Review and mask sensitive data before indexing.",
		strings.Join(types, ", "),
	)
}
