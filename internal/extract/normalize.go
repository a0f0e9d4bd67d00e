package extract

import (
	"fmt"
	"strings"

	"github.com/sells-group/logsense/internal/model"
)

// Oracle replies come back in several known shapes. Normalize walks a fixed
// priority list of shape adapters and produces the canonical proposal, with
// defaults centralized in the model package so this path and the local
// fallback cannot drift.

// Normalize reshapes a loosely-typed oracle reply into a canonical proposal
// and repairs any field candidates with missing names.
func Normalize(raw map[string]any) *model.ExtractionProposal {
	p := &model.ExtractionProposal{
		Sourcetype:   model.DefaultSourcetype,
		TimeFormat:   model.DefaultTimeFormat,
		TimePrefix:   model.DefaultTimePrefix,
		MaxLookahead: model.DefaultMaxLookahead,
		Source:       model.SourceAI,
	}
	if raw == nil {
		return p
	}

	if st, ok := raw["sourcetype"].(string); ok && st != "" {
		p.Sourcetype = st
	}
	if src, ok := raw["source"].(string); ok && src != "" {
		p.Source = src
	}

	p.Fields = normalizeFields(raw)
	RepairNames(p.Fields)

	// "combined_regex" wins over the "combined_extraction" spelling.
	if cr, ok := stringKey(raw, "combined_regex"); ok {
		p.CombinedRegex = &cr
	} else if cr, ok := stringKey(raw, "combined_extraction"); ok {
		p.CombinedRegex = &cr
	}

	normalizeTimestamp(raw, p)

	return p
}

// normalizeFields adapts the two known field-list shapes:
// "fields" [{name, regex}] and "field_extractions" [{field, regex}].
func normalizeFields(raw map[string]any) []model.FieldCandidate {
	if list, ok := raw["fields"].([]any); ok {
		return fieldsFromList(list, "name")
	}
	if list, ok := raw["field_extractions"].([]any); ok {
		return fieldsFromList(list, "field")
	}
	return nil
}

func fieldsFromList(list []any, nameKey string) []model.FieldCandidate {
	var out []model.FieldCandidate
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		var f model.FieldCandidate
		f.Name, _ = m[nameKey].(string)
		f.Regex, _ = m["regex"].(string)
		out = append(out, f)
	}
	return out
}

// normalizeTimestamp adapts the two known recipe shapes: flat keys
// (time_format / time_prefix / max_timestamp_lookahead) or a nested
// "timestamp_analysis" object with upper-cased keys. Flat wins when both are
// present; missing values keep the centralized defaults.
func normalizeTimestamp(raw map[string]any, p *model.ExtractionProposal) {
	_, hasFormat := raw["time_format"]
	_, hasPrefix := raw["time_prefix"]
	_, hasLookahead := raw["max_timestamp_lookahead"]

	if hasFormat || hasPrefix || hasLookahead {
		if v, ok := stringKey(raw, "time_format"); ok {
			p.TimeFormat = v
		}
		if v, ok := raw["time_prefix"].(string); ok {
			p.TimePrefix = v
		}
		if v, ok := raw["max_timestamp_lookahead"]; ok {
			p.MaxLookahead = stringify(v)
		}
		return
	}

	if nested, ok := raw["timestamp_analysis"].(map[string]any); ok {
		if v, ok := stringKey(nested, "TIME_FORMAT"); ok {
			p.TimeFormat = v
		}
		if v, ok := nested["TIME_PREFIX"].(string); ok {
			p.TimePrefix = v
		}
		if v, ok := nested["MAX_TIMESTAMP_LOOKAHEAD"]; ok {
			p.MaxLookahead = stringify(v)
		}
	}
}

// RepairNames backfills every candidate with a missing or blank name: from
// the regex's named capture group when present, else a positional
// "field_<n>" placeholder, 1-indexed in appearance order.
func RepairNames(fields []model.FieldCandidate) {
	for i := range fields {
		if strings.TrimSpace(fields[i].Name) != "" {
			continue
		}
		if name := GroupName(fields[i].Regex); name != "" {
			fields[i].Name = name
			continue
		}
		fields[i].Name = fmt.Sprintf("field_%d", i+1)
	}
}

func stringKey(m map[string]any, key string) (string, bool) {
	v, ok := m[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// stringify renders the lookahead value, which models return as either a
// string or a number.
func stringify(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return fmt.Sprintf("%d", int(n))
	case int:
		return fmt.Sprintf("%d", n)
	default:
		return model.DefaultMaxLookahead
	}
}
