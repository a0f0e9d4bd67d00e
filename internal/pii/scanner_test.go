package pii

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/logsense/internal/model"
)

func findByType(results []model.PIIMatch, typ string) []model.PIIMatch {
	var out []model.PIIMatch
	for _, m := range results {
		if m.Type == typ {
			out = append(out, m)
		}
	}
	return out
}

func TestScan_NoPII(t *testing.T) {
	s := NewScanner(nil, nil)

	result := s.Scan("just a plain message with nothing sensitive")

	assert.Empty(t, result.Results)
	assert.Equal(t, 0, result.TotalDetected)
	assert.Equal(t, "No PII detected.", result.Suggestion)
}

func TestScan_EmailWithKVField(t *testing.T) {
	s := NewScanner(nil, nil)

	result := s.Scan("user=alice@example.com logged in from 10.0.0.1")

	emails := findByType(result.Results, "email")
	require.Len(t, emails, 1)
	m := emails[0]
	assert.Equal(t, "alice@example.com", m.Text)
	assert.Equal(t, 1.0, m.Score)
	assert.Equal(t, "user", m.Field)
	assert.Equal(t, m.Text, "user=alice@example.com logged in from 10.0.0.1"[m.Start:m.End])

	ips := findByType(result.Results, "ip_address")
	require.Len(t, ips, 1)
	assert.Equal(t, "10.0.0.1", ips[0].Text)

	assert.Equal(t, 2, result.TotalDetected)
	assert.Contains(t, result.Suggestion, "email, ip_address")
}

func TestScan_ShortMatchesFiltered(t *testing.T) {
	s := NewScanner(nil, []model.CustomPattern{
		{Name: "tag", Regex: `\bX\d\b`},
	})

	result := s.Scan("marker X1 present")
	assert.Empty(t, findByType(result.Results, "TAG"))
}

func TestScan_CustomPattern(t *testing.T) {
	s := NewScanner(nil, []model.CustomPattern{
		{Name: "employee_id", Regex: `emp-\d{4}`},
	})

	result := s.Scan("badge EMP-1234 scanned")

	matches := findByType(result.Results, "EMPLOYEE_ID")
	require.Len(t, matches, 1)
	assert.Equal(t, "EMP-1234", matches[0].Text)
	assert.Equal(t, 0.9, matches[0].Score)
	// The match reports the pattern as supplied, not the compiled form with
	// its case-insensitivity prefix.
	assert.Equal(t, `emp-\d{4}`, matches[0].RegexPattern)
}

func TestScan_InvalidCustomPatternSkipped(t *testing.T) {
	s := NewScanner(nil, []model.CustomPattern{
		{Name: "broken", Regex: `([unclosed`},
		{Name: "ok", Regex: `tok-\d+`},
	})

	result := s.Scan("value tok-42 here")

	assert.Empty(t, findByType(result.Results, "BROKEN"))
	require.Len(t, findByType(result.Results, "OK"), 1)
}

func TestScan_OverlappingDetectorsBothReported(t *testing.T) {
	s := NewScanner([]string{"url", "email"}, nil)

	result := s.Scan("see https://bob@example.com/path for details")

	assert.NotEmpty(t, findByType(result.Results, "url"))
	assert.NotEmpty(t, findByType(result.Results, "email"))
}

func TestScan_UnknownDetectorIgnored(t *testing.T) {
	s := NewScanner([]string{"no_such_detector", "email"}, nil)

	result := s.Scan("mail bob@example.com")
	require.Len(t, findByType(result.Results, "email"), 1)
}

func TestScan_AllUnknownFallsBackToEmail(t *testing.T) {
	s := NewScanner([]string{"bogus"}, nil)

	result := s.Scan("mail bob@example.com")
	require.Len(t, findByType(result.Results, "email"), 1)
}

func TestScan_EveryMatchCarriesMaskRule(t *testing.T) {
	s := NewScanner(nil, nil)

	result := s.Scan("user=alice@example.com from 10.0.0.1 card 4111-1111-1111-1111")

	require.NotEmpty(t, result.Results)
	for _, m := range result.Results {
		require.NotNil(t, m.Mask, "type %s", m.Type)
		assert.NotEmpty(t, m.Mask.Pattern)
		assert.Contains(t, m.Mask.Replacement, "[REDACTED_"+strings.ToUpper(m.Type)+"]")
		assert.NotEmpty(t, m.RegexPattern)
	}
}

func TestScan_SuggestionTypesSortedUnique(t *testing.T) {
	s := NewScanner(nil, nil)

	result := s.Scan("first 10.0.0.1 then 192.168.1.1 and bob@example.com")

	assert.Equal(t, 3, result.TotalDetected)
	assert.Contains(t, result.Suggestion, "Detected PII types: email, ip_address.")
}
