package model

// Canonical proposal defaults. Shared by the oracle response normalizer and the
// local fallback synthesizer so the two paths cannot drift.
const (
	DefaultSourcetype   = "custom_log"
	LocalSourcetype     = "generic_single_line"
	DefaultTimeFormat   = "CURRENT_TIME"
	DefaultTimePrefix   = ""
	DefaultMaxLookahead = "25"
)

// Source tags identifying which path produced a proposal.
const (
	SourceAI    = "ai_detection"
	SourceLocal = "local_fallback"
)

// Span is a half-open [Start, End) byte range within a sample.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// FieldCandidate is a proposed named, regex-describable substructure within a
// log line. Regex carries at most one named capture group.
type FieldCandidate struct {
	Name  string `json:"name"`
	Regex string `json:"regex"`
}

// ExtractionProposal is the full field-extraction suggestion for one sample:
// a guessed sourcetype, per-field regexes, an optional combined regex, and a
// timestamp-parsing recipe.
type ExtractionProposal struct {
	Sourcetype     string           `json:"sourcetype"`
	Fields         []FieldCandidate `json:"fields"`
	CombinedRegex  *string          `json:"combined_regex"`
	TimeFormat     string           `json:"time_format"`
	TimePrefix     string           `json:"time_prefix"`
	MaxLookahead   string           `json:"max_timestamp_lookahead"`
	Source         string           `json:"source"`
	SelectedFields []string         `json:"selected_fields,omitempty"`
}

// DetectRequest is the caller's input to the extraction path.
type DetectRequest struct {
	Text           string   `json:"text"`
	Description    string   `json:"description,omitempty"`
	SelectedFields []string `json:"selected_fields,omitempty"`
}
