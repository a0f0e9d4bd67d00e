package extract

import (
	"regexp"
	"strings"
)

// contextWindow is how far before/after a span the inferrer looks for naming
// evidence.
const contextWindow = 50

var (
	kvTokenRe   = regexp.MustCompile(`(\w+)=`)
	jsonTokenRe = regexp.MustCompile(`"(\w+)"\s*:\s*"`)
	apacheIPRe  = regexp.MustCompile(`^\d+\.\d+\.\d+\.\d+`)
)

// ContextAround returns the slice of text surrounding [start, end), clamped
// to the text bounds.
func ContextAround(text string, start, end int) string {
	ctxStart := start - contextWindow
	if ctxStart < 0 {
		ctxStart = 0
	}
	ctxEnd := end + contextWindow
	if ctxEnd > len(text) {
		ctxEnd = len(text)
	}
	return text[ctxStart:ctxEnd]
}

// KVKey returns the first key=value key in the context window.
func KVKey(context string) (string, bool) {
	if m := kvTokenRe.FindStringSubmatch(context); m != nil {
		return m[1], true
	}
	return "", false
}

// JSONKey returns the first "key":"value" key in the context window.
func JSONKey(context string) (string, bool) {
	if m := jsonTokenRe.FindStringSubmatch(context); m != nil {
		return m[1], true
	}
	return "", false
}

// LooksLikeAccessLog reports whether text starts with a dotted-quad, the
// shape of a web access log line.
func LooksLikeAccessLog(text string) bool {
	return apacheIPRe.MatchString(strings.TrimSpace(text))
}

// InferFieldName guesses a human-meaningful field name for the span
// [start, end) of text. Priority order, first match wins: key=value adjacency,
// JSON key adjacency, web-access-log positional heuristics, then the
// lower-cased category name. The order is fixed policy.
func InferFieldName(text string, start, end int, category string) string {
	context := ContextAround(text, start, end)

	if key, ok := KVKey(context); ok {
		return key
	}
	if key, ok := JSONKey(context); ok {
		return key
	}

	if LooksLikeAccessLog(text) {
		switch {
		case start < 20:
			return "clientip"
		case strings.Contains(context, "[") && strings.Contains(context, "]"):
			return "timestamp"
		case strings.Contains(context, `"`):
			return "request"
		}
	}

	return strings.ToLower(category)
}
