package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/logsense/internal/model"
	"github.com/sells-group/logsense/internal/oracle"
)

const detectPromptHeader = `You are a Splunk expert tasked with analyzing a log sample to suggest field extractions.
The log sample is:
---
%s
---`

const detectPromptInstructions = `
Your instructions are:
1.  Suggest an appropriate Splunk sourcetype for this data (e.g., 'json', 'json_no_timestamp', 'syslog', 'custom_log') or something appropriate to what you think the data is.
2.  Identify key fields to be extracted from the log sample.
3.  For each field, provide a robust PCRE-based regex pattern that can be used for extraction in Splunk (props.conf). The regex should use named capture groups (e.g., '(?<field_name>...)') and the regex must extract data based on the entire log line and only once!
4.  In addition, provide a single regex pattern that can be used to extract all the fields from the log line in one go.
5.  Analyze the log data for timestamp patterns and provide:
   - TIME_FORMAT: The Python datetime format string (e.g., '%Y-%m-%dT%H:%M:%S', '%b %d %H:%M:%S', '%d/%b/%Y:%H:%M:%S %z')
   - TIME_PREFIX: Any prefix that appears before the timestamp (e.g., '[', '(', or empty string)
   - MAX_TIMESTAMP_LOOKAHEAD: Maximum characters to look ahead for timestamp (default 25, increase if needed for complex formats)

Return your response as a single, valid JSON object with the following EXACT structure:
{
  "sourcetype": "string",
  "fields": [
    {
      "name": "field_name",
      "regex": "regex_pattern_with_named_groups"
    }
  ],
  "combined_regex": "single_regex_to_extract_all_fields",
  "time_format": "python_datetime_format_string",
  "time_prefix": "prefix_before_timestamp_or_empty",
  "max_timestamp_lookahead": "number_as_string"
}

Do not include any explanatory text outside of the JSON object.`

// ErrEmptySample indicates a detect request with no sample text.
var ErrEmptySample = eris.New("extract: empty sample text")

// Detector proposes field extractions for a log sample, preferring the
// oracle and degrading to local pattern synthesis whenever the oracle is
// unavailable or returns something unusable.
type Detector struct {
	oracle oracle.Client
}

// NewDetector builds a Detector. A nil oracle client means every detection
// takes the local fallback path.
func NewDetector(client oracle.Client) *Detector {
	return &Detector{oracle: client}
}

// Detect produces an extraction proposal for the sample in req.Text. The
// proposal carries a combined regex only when the request selects fields.
func (d *Detector) Detect(ctx context.Context, req model.DetectRequest) (*model.ExtractionProposal, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptySample
	}

	proposal := d.propose(ctx, req)
	RepairNames(proposal.Fields)

	if len(req.SelectedFields) > 0 {
		combined := Combine(proposal.Fields, req.SelectedFields, req.Text)
		proposal.CombinedRegex = &combined
		proposal.SelectedFields = req.SelectedFields
	}
	return proposal, nil
}

func (d *Detector) propose(ctx context.Context, req model.DetectRequest) *model.ExtractionProposal {
	if d.oracle == nil {
		zap.L().Info("extract: oracle not configured, using local synthesis")
		return Synthesize(req.Text)
	}

	raw, err := d.consult(ctx, req)
	if err != nil {
		zap.L().Warn("extract: oracle detection failed, using local synthesis", zap.Error(err))
		return Synthesize(req.Text)
	}
	return Normalize(raw)
}

// consult makes a single oracle attempt and parses the reply into the loose
// map shape Normalize expects.
func (d *Detector) consult(ctx context.Context, req model.DetectRequest) (map[string]any, error) {
	prompt := fmt.Sprintf(detectPromptHeader, req.Text)
	if req.Description != "" {
		prompt += "\n\nAdditional context provided by the user:\n" + req.Description
	}
	prompt += detectPromptInstructions

	reply, err := d.oracle.Complete(ctx, prompt)
	if err != nil {
		return nil, eris.Wrap(err, "extract: oracle completion")
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(cleanJSON(reply)), &raw); err != nil {
		return nil, eris.Wrap(err, "extract: parse oracle reply")
	}
	return raw, nil
}

// cleanJSON strips markdown fences and extracts the JSON object.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
