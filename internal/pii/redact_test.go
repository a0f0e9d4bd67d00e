package pii

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/logsense/internal/model"
)

func spanOf(t *testing.T, text, sub string) model.Span {
	t.Helper()
	start := strings.Index(text, sub)
	if start < 0 {
		t.Fatalf("%q not in %q", sub, text)
	}
	return model.Span{Start: start, End: start + len(sub)}
}

func TestSedcmdFor_KeyValue(t *testing.T) {
	text := "user=alice@example.com logged in"
	rule := SedcmdFor(text, spanOf(t, text, "alice@example.com"), "email", "alice@example.com")

	assert.Equal(t, `user=([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`, rule.Pattern)
	assert.Equal(t, "user=[REDACTED_EMAIL]", rule.Replacement)
}

func TestSedcmdFor_JSON(t *testing.T) {
	text := `{"client": "10.0.0.1", "ok": true}`
	rule := SedcmdFor(text, spanOf(t, text, "10.0.0.1"), "ip_address", "10.0.0.1")

	assert.Equal(t, `"client"\s*:\s*"(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})"`, rule.Pattern)
	assert.Equal(t, `"client":"[REDACTED_IP_ADDRESS]"`, rule.Replacement)
}

func TestSedcmdFor_AccessLogLeadingIP(t *testing.T) {
	text := `127.0.0.1 - - [10/Oct/2000:13:55:36] "GET / HTTP/1.0" 200`
	rule := SedcmdFor(text, spanOf(t, text, "127.0.0.1"), "ip_address", "127.0.0.1")

	assert.Equal(t, `^(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})`, rule.Pattern)
	assert.Equal(t, "[REDACTED_IP_ADDRESS]", rule.Replacement)
}

func TestSedcmdFor_AccessLogBracketedTimestamp(t *testing.T) {
	// Timestamp placed past the positional client-IP window.
	text := `10.0.0.1 verylongidentityfield [10/Oct/2000:13:55:36] status`
	rule := SedcmdFor(text, spanOf(t, text, "10/Oct/2000:13:55:36"), "timestamp", "10/Oct/2000:13:55:36")

	assert.Equal(t, `\[([^\]\s]+)\]`, rule.Pattern)
	assert.Equal(t, "[[REDACTED_TIMESTAMP]]", rule.Replacement)
}

func TestSedcmdFor_FallbackBarePattern(t *testing.T) {
	text := "contact bob@example.com soon"
	rule := SedcmdFor(text, spanOf(t, text, "bob@example.com"), "email", "bob@example.com")

	assert.Equal(t, `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`, rule.Pattern)
	assert.Equal(t, "[REDACTED_EMAIL]", rule.Replacement)
}

func TestSedcmdFor_UnknownTypeGenericValue(t *testing.T) {
	text := "token abc123xyz issued"
	rule := SedcmdFor(text, spanOf(t, text, "abc123xyz"), "session_token", "abc123xyz")

	assert.Equal(t, `[^\s,="]+`, rule.Pattern)
	assert.Equal(t, "[REDACTED_SESSION_TOKEN]", rule.Replacement)
}

func TestRedactionPattern_CanonicalCategory(t *testing.T) {
	p := RedactionPattern("email", "alice@example.com")
	assert.Equal(t, `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`, p)
	assert.True(t, regexp.MustCompile(p).MatchString("other@host.org"))
}

func TestRedactionPattern_UnknownCategoryEscapesLiteral(t *testing.T) {
	p := RedactionPattern("badge", "id(7)+x")
	assert.Equal(t, regexp.QuoteMeta("id(7)+x"), p)
	assert.True(t, regexp.MustCompile(p).MatchString("seen id(7)+x here"))
}
