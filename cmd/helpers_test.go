//go:build !integration

package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/logsense/internal/model"
)

func TestNormalizeSelect(t *testing.T) {
	assert.Nil(t, normalizeSelect(nil))
	assert.Nil(t, normalizeSelect([]string{"", "  "}))
	assert.Equal(t, []string{"user", "ip"}, normalizeSelect([]string{" user ", "", "ip"}))
}

func TestParseFieldArgs(t *testing.T) {
	fields, err := parseFieldArgs([]string{"user=alice", "src_ip=10.0.0.1", "empty="})
	require.NoError(t, err)
	require.Len(t, fields, 3)
	assert.Equal(t, model.ExtractedField{Name: "user", Sample: "alice"}, fields[0])
	assert.Equal(t, model.ExtractedField{Name: "src_ip", Sample: "10.0.0.1"}, fields[1])
	assert.Equal(t, model.ExtractedField{Name: "empty", Sample: ""}, fields[2])
}

func TestParseFieldArgs_Invalid(t *testing.T) {
	_, err := parseFieldArgs([]string{"no-equals"})
	assert.Error(t, err)

	_, err = parseFieldArgs([]string{"=value"})
	assert.Error(t, err)
}

func TestWorkbookPath(t *testing.T) {
	assert.Equal(t, "out.xlsx", workbookPath("out.xlsx", "/var/log/app.log", 1))
	assert.Equal(t, "out_app.log.xlsx", workbookPath("out.xlsx", "/var/log/app.log", 2))
	assert.Equal(t, "out_-.xlsx", workbookPath("out.xlsx", "-", 3))
}

func TestSaveAnalysis(t *testing.T) {
	st := &fakeStore{}

	id, err := saveAnalysis(context.Background(), st, model.AnalysisKindPII, "sample text", "app.log", map[string]int{"total": 1})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	require.Len(t, st.analyses, 1)
	saved := st.analyses[0]
	assert.Equal(t, model.AnalysisKindPII, saved.Kind)
	assert.Equal(t, model.HashInput("sample text"), saved.InputSHA256)
	assert.Equal(t, "app.log", saved.Source)
	assert.JSONEq(t, `{"total":1}`, string(saved.Result))
}
