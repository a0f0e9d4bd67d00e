package pii

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sells-group/logsense/internal/catalog"
	"github.com/sells-group/logsense/internal/extract"
	"github.com/sells-group/logsense/internal/model"
)

// RedactionPattern returns a regex matching values like the detected one.
// Categories without a canonical pattern get the escaped literal, so the rule
// still redacts that exact occurrence.
func RedactionPattern(category, matched string) string {
	if c, ok := catalog.Lookup(category); ok && c.Redact != "" {
		return c.Redact
	}
	return regexp.QuoteMeta(matched)
}

// SedcmdFor synthesizes a search-and-replace redaction rule for the match at
// [span.Start, span.End) of text. The rule shape follows the same context
// priority as field-name inference: key=value, JSON key, web-access-log
// position, then a bare type-specific pattern.
func SedcmdFor(text string, span model.Span, category, matched string) model.SedcmdRule {
	context := extract.ContextAround(text, span.Start, span.End)
	token := fmt.Sprintf("[REDACTED_%s]", strings.ToUpper(category))
	valuePattern := catalog.ValuePattern(category)

	if field, ok := extract.KVKey(context); ok {
		return model.SedcmdRule{
			Pattern:     fmt.Sprintf("%s=(%s)", field, valuePattern),
			Replacement: fmt.Sprintf("%s=%s", field, token),
		}
	}

	if field, ok := extract.JSONKey(context); ok {
		return model.SedcmdRule{
			Pattern:     fmt.Sprintf(`"%s"\s*:\s*"(%s)"`, field, valuePattern),
			Replacement: fmt.Sprintf(`"%s":"%s"`, field, token),
		}
	}

	if extract.LooksLikeAccessLog(text) {
		switch {
		case span.Start < 20:
			return model.SedcmdRule{
				Pattern:     fmt.Sprintf("^(%s)", valuePattern),
				Replacement: token,
			}
		case strings.Contains(context, "[") && strings.Contains(context, "]"):
			return model.SedcmdRule{
				Pattern:     fmt.Sprintf(`\[(%s)\]`, valuePattern),
				Replacement: "[" + token + "]",
			}
		case strings.Contains(context, `"`):
			return model.SedcmdRule{
				Pattern:     fmt.Sprintf(`"([^"]*%s[^"]*)"`, regexp.QuoteMeta(matched)),
				Replacement: `"` + token + `"`,
			}
		}
	}

	return model.SedcmdRule{
		Pattern:     valuePattern,
		Replacement: token,
	}
}
