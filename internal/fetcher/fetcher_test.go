package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.log")
	require.NoError(t, os.WriteFile(path, []byte("line one\nline two\n"), 0o600))

	got, err := New().Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", got)
}

func TestFetch_LocalFileMissing(t *testing.T) {
	_, err := New().Fetch(context.Background(), filepath.Join(t.TempDir(), "nope.log"))
	assert.Error(t, err)
}

func TestFetch_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "logsense/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte("remote sample"))
	}))
	defer srv.Close()

	got, err := New().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "remote sample", got)
}

func TestFetch_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New().Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}

func TestFetch_HTTPRetriesTransientStatus(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("eventually"))
	}))
	defer srv.Close()

	got, err := New().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "eventually", got)
}

func TestFetch_TruncatesAtLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("a", MaxSampleBytes+100)))
	}))
	defer srv.Close()

	got, err := New().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, got, MaxSampleBytes)
}

func TestDecodeSample_UTF8BOM(t *testing.T) {
	got, err := decodeSample(strings.NewReader("\xef\xbb\xbfhello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestDecodeSample_UTF16LE(t *testing.T) {
	// "hi" as UTF-16LE with BOM.
	got, err := decodeSample(strings.NewReader("\xff\xfeh\x00i\x00"))
	require.NoError(t, err)
	assert.Equal(t, "hi", got)
}

func TestParseFTPURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantHost string
		wantPath string
		wantErr  bool
	}{
		{name: "default port", url: "ftp://example.com/logs/app.log", wantHost: "example.com:21", wantPath: "/logs/app.log"},
		{name: "explicit port", url: "ftp://example.com:2121/app.log", wantHost: "example.com:2121", wantPath: "/app.log"},
		{name: "wrong scheme", url: "http://example.com/app.log", wantErr: true},
		{name: "empty path", url: "ftp://example.com", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, path, err := parseFTPURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}
