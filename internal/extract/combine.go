package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/logsense/internal/model"
)

// locatedField is a candidate whose span was confirmed in the sample.
type locatedField struct {
	field model.FieldCandidate
	span  model.Span
	order int // first-seen position, tiebreak for identical starts
}

// Combine merges per-field regexes into one regex over the whole sample:
// field groups in ascending span order, literal gaps escaped byte-for-byte,
// selected fields as named capturing groups and the rest as non-capturing.
// Fields whose regex fails to compile or to match are excluded from the
// combined pattern but stay in the caller's field list. Output is
// deterministic for a fixed sample and candidate set.
func Combine(fields []model.FieldCandidate, selected []string, sample string) string {
	selectedSet := make(map[string]bool, len(selected))
	for _, name := range selected {
		selectedSet[name] = true
	}

	var located []locatedField
	for i, f := range fields {
		if f.Regex == "" {
			continue
		}
		span, err := Locate(sample, f.Regex)
		if err != nil {
			zap.L().Warn("combine: field pattern failed, excluding",
				zap.String("field", f.Name),
				zap.Error(err),
			)
			continue
		}
		if span == nil {
			continue
		}
		located = append(located, locatedField{field: f, span: *span, order: i})
	}

	sort.SliceStable(located, func(i, j int) bool {
		if located[i].span.Start != located[j].span.Start {
			return located[i].span.Start < located[j].span.Start
		}
		return located[i].order < located[j].order
	})

	var b strings.Builder
	lastEnd := 0
	for _, lf := range located {
		if lf.span.Start > lastEnd {
			b.WriteString(regexp.QuoteMeta(sample[lastEnd:lf.span.Start]))
		}

		inner := lf.field.Regex
		if payload, ok := innerPattern(lf.field.Regex); ok {
			inner = payload
		}
		if selectedSet[lf.field.Name] {
			fmt.Fprintf(&b, "(?<%s>%s)", lf.field.Name, inner)
		} else {
			fmt.Fprintf(&b, "(?:%s)", inner)
		}

		lastEnd = lf.span.End
	}
	if lastEnd < len(sample) {
		b.WriteString(regexp.QuoteMeta(sample[lastEnd:]))
	}

	return b.String()
}
