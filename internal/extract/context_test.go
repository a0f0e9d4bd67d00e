package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferFieldName_KeyValue(t *testing.T) {
	text := "user=alice@example.com logged in"
	start := strings.Index(text, "alice")
	name := InferFieldName(text, start, start+len("alice@example.com"), "email")
	assert.Equal(t, "user", name)
}

func TestInferFieldName_JSON(t *testing.T) {
	text := `{"client": "10.0.0.1"}`
	start := strings.Index(text, "10.0.0.1")
	name := InferFieldName(text, start, start+len("10.0.0.1"), "ip_address")
	assert.Equal(t, "client", name)
}

func TestInferFieldName_ApachePositional(t *testing.T) {
	text := `127.0.0.1 - - [10/Oct/2000:13:55:36 -0700] "GET / HTTP/1.0" 200`

	// Leading IP is the client address.
	assert.Equal(t, "clientip", InferFieldName(text, 0, 9, "ip_address"))
}

func TestInferFieldName_Fallback(t *testing.T) {
	text := "a bare bob@example.com appears"
	start := strings.Index(text, "bob")
	name := InferFieldName(text, start, start+len("bob@example.com"), "EMAIL")
	assert.Equal(t, "email", name)
}

func TestInferFieldName_WindowClamping(t *testing.T) {
	// Span at the very start of a short text must not panic on the window.
	name := InferFieldName("x", 0, 1, "thing")
	assert.Equal(t, "thing", name)
}
