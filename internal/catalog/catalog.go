// Package catalog holds the static detector registry: for each category, a
// compiled detection regex, an extraction regex template with a named capture
// group, and a canonical redaction pattern. The registry is built at compile
// time; an unknown category name simply resolves to nothing.
package catalog

import (
	"regexp"

	"go.uber.org/zap"
)

// Category is one registry entry.
type Category struct {
	Name string
	// Detect locates occurrences of this category in raw text.
	Detect *regexp.Regexp
	// Extract is the per-field extraction regex proposed for this category,
	// carrying a single named capture group. Empty for PII-only categories.
	Extract string
	// Redact is the canonical redaction pattern for values of this category.
	// Empty means "escape the matched literal".
	Redact string
}

var (
	reTimestamp  = regexp.MustCompile(`\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:\.\d+)?Z?`)
	reIPAddress  = regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`)
	reLogLevel   = regexp.MustCompile(`INFO|WARN|WARNING|ERROR|DEBUG|FATAL|CRITICAL`)
	reEmail      = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	rePhone      = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
	reCreditCard = regexp.MustCompile(`\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`)
	reSSN        = regexp.MustCompile(`\b\d{3}[-.]?\d{2}[-.]?\d{4}\b`)
	reURL        = regexp.MustCompile(`https?://[^\s"'<>]+`)
)

// registry maps category name to its entry. Read-only after init; safe for
// unsynchronized concurrent reads.
var registry = map[string]Category{
	"timestamp": {
		Name:    "timestamp",
		Detect:  reTimestamp,
		Extract: `(?<timestamp>\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:\.\d+)?Z?)`,
	},
	"ip_address": {
		Name:    "ip_address",
		Detect:  reIPAddress,
		Extract: `(?<ip_address>(?:[0-9]{1,3}\.){3}[0-9]{1,3})`,
		Redact:  `\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`,
	},
	"log_level": {
		Name:    "log_level",
		Detect:  reLogLevel,
		Extract: `(?<log_level>INFO|WARN|WARNING|ERROR|DEBUG|FATAL|CRITICAL)`,
	},
	"email": {
		Name:    "email",
		Detect:  reEmail,
		Extract: `(?<email>[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`,
		Redact:  `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`,
	},
	"phone": {
		Name:   "phone",
		Detect: rePhone,
		Redact: `\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`,
	},
	"credit_card": {
		Name:   "credit_card",
		Detect: reCreditCard,
		Redact: `\b\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}\b`,
	},
	"ssn": {
		Name:   "ssn",
		Detect: reSSN,
		Redact: `\b\d{3}[-.]?\d{2}[-.]?\d{4}\b`,
	},
	"url": {
		Name:   "url",
		Detect: reURL,
		Redact: `\bhttps?://[^\s"'<>]+\b`,
	},
}

// fieldOrder is the fixed detection order for the local fallback synthesizer.
var fieldOrder = []string{"timestamp", "ip_address", "log_level", "email"}

// defaultDetectors is the PII scan set used when configuration supplies none.
var defaultDetectors = []string{"ip_address", "email", "phone", "credit_card", "ssn", "url"}

// fallbackDetector is scanned when the resolved set comes up empty.
const fallbackDetector = "email"

// Lookup returns the registry entry for name.
func Lookup(name string) (Category, bool) {
	c, ok := registry[name]
	return c, ok
}

// FieldCategories returns the extraction categories in detection order.
func FieldCategories() []Category {
	out := make([]Category, 0, len(fieldOrder))
	for _, name := range fieldOrder {
		out = append(out, registry[name])
	}
	return out
}

// DefaultDetectors returns the default PII category names.
func DefaultDetectors() []string {
	out := make([]string, len(defaultDetectors))
	copy(out, defaultDetectors)
	return out
}

// Resolve filters the requested category names against the registry. Unknown
// names are skipped with a warning. An empty request resolves to the defaults;
// an empty result falls back to the single fallback detector.
func Resolve(names []string) []Category {
	if len(names) == 0 {
		names = defaultDetectors
	}

	var out []Category
	for _, name := range names {
		c, ok := registry[name]
		if !ok {
			zap.L().Warn("catalog: unknown detector, skipping", zap.String("detector", name))
			continue
		}
		out = append(out, c)
	}

	if len(out) == 0 {
		zap.L().Warn("catalog: no detectors resolved, using fallback",
			zap.String("fallback", fallbackDetector))
		out = append(out, registry[fallbackDetector])
	}
	return out
}

// valuePatterns maps a category to a regex matching its values, for redaction
// rule synthesis. Keys mirror the registry plus a couple of context-only types.
var valuePatterns = map[string]string{
	"email":       `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`,
	"ip_address":  `\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`,
	"phone":       `\d{3}[-.]?\d{3}[-.]?\d{4}`,
	"credit_card": `\d{4}[\s-]?\d{4}[\s-]?\d{4}[\s-]?\d{4}`,
	"ssn":         `\d{3}[-.]?\d{2}[-.]?\d{4}`,
	"timestamp":   `[^\]\s]+`,
	"url":         `https?://[^\s"'<>]+`,
}

// genericValuePattern matches any non-delimiter run, for unknown types.
const genericValuePattern = `[^\s,="]+`

// ValuePattern returns a regex matching values of the given category.
func ValuePattern(category string) string {
	if p, ok := valuePatterns[category]; ok {
		return p
	}
	return genericValuePattern
}
