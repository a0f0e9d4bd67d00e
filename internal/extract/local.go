package extract

import (
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/sells-group/logsense/internal/catalog"
	"github.com/sells-group/logsense/internal/model"
)

// kvPairRe finds generic key=value pairs where the value is quoted or a run of
// non-space, non-comma characters.
var kvPairRe = regexp.MustCompile(`([a-zA-Z0-9_]+)=("([^"]*)"|([^\s,]+))`)

// Synthesize produces a full extraction proposal from the sample without any
// external oracle: catalog categories that match become field candidates, then
// uncovered key=value pairs each get a literal-keyed candidate, then the
// timestamp recipe is detected. This is the deterministic reference path and
// the fallback when the oracle is unavailable.
func Synthesize(sample string) *model.ExtractionProposal {
	zap.L().Debug("extract: local synthesis")

	var fields []model.FieldCandidate
	seen := make(map[string]bool)

	for _, cat := range catalog.FieldCategories() {
		if cat.Detect.MatchString(sample) {
			fields = append(fields, model.FieldCandidate{Name: cat.Name, Regex: cat.Extract})
			seen[cat.Name] = true
		}
	}

	for _, m := range kvPairRe.FindAllStringSubmatch(sample, -1) {
		key := m[1]
		if seen[key] {
			continue
		}
		seen[key] = true
		fields = append(fields, model.FieldCandidate{
			Name:  key,
			Regex: fmt.Sprintf(`(?<%s>%s=(?:\"([^\"]*)\"|([^\s,]+)))`, key, key),
		})
	}

	timeFormat := DetectTimeFormat(sample)
	if timeFormat == "" {
		timeFormat = model.DefaultTimeFormat
	}

	return &model.ExtractionProposal{
		Sourcetype:   model.LocalSourcetype,
		Fields:       fields,
		TimeFormat:   timeFormat,
		TimePrefix:   model.DefaultTimePrefix,
		MaxLookahead: model.DefaultMaxLookahead,
		Source:       model.SourceLocal,
	}
}
