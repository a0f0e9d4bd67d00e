package extract

import (
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

// Proposals carry PCRE-style named groups ("(?<name>...)"), the dialect the
// downstream extraction consumer speaks. Go's regexp wants "(?P<name>...)",
// so patterns are rewritten before compiling. Lookbehind assertions
// ("(?<=", "(?<!") are left alone; Go rejects them and the caller treats the
// pattern as unlocatable.

var namedGroupRe = regexp.MustCompile(`\(\?P?<([A-Za-z_][A-Za-z0-9_]*)>`)

// compilePattern compiles a field pattern, accepting both named-group
// spellings.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, eris.New("extract: empty pattern")
	}
	rewritten := rewriteNamedGroups(pattern)
	re, err := regexp.Compile(rewritten)
	if err != nil {
		return nil, eris.Wrapf(err, "extract: compile %q", pattern)
	}
	return re, nil
}

// rewriteNamedGroups converts "(?<name>" to "(?P<name>" without touching
// lookbehinds or already-rewritten groups.
func rewriteNamedGroups(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		if strings.HasPrefix(pattern[i:], "(?<") && i+3 < len(pattern) {
			next := pattern[i+3]
			if next != '=' && next != '!' {
				b.WriteString("(?P<")
				i += 2
				continue
			}
		}
		b.WriteByte(pattern[i])
	}
	return b.String()
}

// GroupName returns the first named-capture-group identifier in pattern, or "".
func GroupName(pattern string) string {
	m := namedGroupRe.FindStringSubmatch(pattern)
	if m == nil {
		return ""
	}
	return m[1]
}

// innerPattern returns the payload of the pattern's first named capture
// group, scanning to the group's matching close paren so payloads with
// nested groups come back whole. ok is false when the pattern has no named
// group or the group never closes.
func innerPattern(pattern string) (string, bool) {
	loc := namedGroupRe.FindStringIndex(pattern)
	if loc == nil {
		return "", false
	}
	start := loc[1]
	depth := 1
	inClass := false
	for i := start; i < len(pattern); i++ {
		switch c := pattern[i]; {
		case c == '\\':
			i++
		case inClass:
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return pattern[start:i], true
			}
		}
	}
	return "", false
}
