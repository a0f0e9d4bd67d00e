package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)
		require.NotNil(t, req.ResponseFormat)
		assert.Equal(t, "json_object", req.ResponseFormat.Type)

		json.NewEncoder(w).Encode(ChatCompletionResponse{
			ID: "gen-1",
			Choices: []Choice{
				{Message: Message{Role: "assistant", Content: `{"ok":true}`}},
			},
		})
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithModel("test-model"), WithRateLimit(100))

	resp, err := c.ChatCompletion(context.Background(), ChatCompletionRequest{
		Messages:       []Message{{Role: "user", Content: "analyze"}},
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	})
	require.NoError(t, err)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, `{"ok":true}`, resp.Choices[0].Message.Content)
}

func TestChatCompletion_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("bad-key", WithBaseURL(srv.URL), WithRateLimit(100))

	_, err := c.ChatCompletion(context.Background(), ChatCompletionRequest{
		Messages: []Message{{Role: "user", Content: "analyze"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 401")
}

func TestChatCompletion_SingleAttempt(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "upstream overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(1000))

	_, err := c.ChatCompletion(context.Background(), ChatCompletionRequest{
		Messages: []Message{{Role: "user", Content: "analyze"}},
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestChatCompletion_CanceledContext(t *testing.T) {
	c := NewClient("test-key", WithBaseURL("http://127.0.0.1:0"), WithRateLimit(100))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ChatCompletion(ctx, ChatCompletionRequest{
		Messages: []Message{{Role: "user", Content: "analyze"}},
	})
	assert.Error(t, err)
}

func TestChatCompletion_DefaultModelApplied(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, defaultModel, req.Model)
		json.NewEncoder(w).Encode(ChatCompletionResponse{})
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(100))

	_, err := c.ChatCompletion(context.Background(), ChatCompletionRequest{
		Messages: []Message{{Role: "user", Content: "analyze"}},
	})
	require.NoError(t, err)
}
