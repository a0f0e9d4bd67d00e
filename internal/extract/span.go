package extract

import (
	"regexp"

	"github.com/sells-group/logsense/internal/model"
)

// Locate finds the first match of pattern in text. A missing match returns
// (nil, nil); an invalid or empty pattern returns an error. Matching is pure
// and repeatable: re-locating the same pattern in the same text always yields
// the same span.
func Locate(text, pattern string) (*model.Span, error) {
	re, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}
	loc := re.FindStringIndex(text)
	if loc == nil {
		return nil, nil
	}
	return &model.Span{Start: loc[0], End: loc[1]}, nil
}

// LocateAll finds every match of a compiled regex in text. Overlaps between
// different categories are each reported independently; no global overlap
// resolution happens here.
func LocateAll(text string, re *regexp.Regexp) []model.Span {
	locs := re.FindAllStringIndex(text, -1)
	if locs == nil {
		return nil
	}
	spans := make([]model.Span, len(locs))
	for i, loc := range locs {
		spans[i] = model.Span{Start: loc[0], End: loc[1]}
	}
	return spans
}
