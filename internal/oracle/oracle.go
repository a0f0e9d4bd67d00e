// Package oracle is the provider-neutral facade over the external model
// service. The core only ever asks it to complete one prompt with one bounded
// attempt; everything past that boundary (provider choice, transport, JSON
// response mode) lives here.
package oracle

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/logsense/pkg/anthropic"
	"github.com/sells-group/logsense/pkg/openrouter"
)

// ErrNotConfigured indicates no API key was supplied. For extraction this
// selects the local fallback; for CIM mapping it surfaces as a failure.
var ErrNotConfigured = eris.New("oracle: not configured")

// DefaultTimeout bounds a single oracle attempt. There is no retry.
const DefaultTimeout = 60 * time.Second

// defaultMaxTokens bounds completion length for structured replies.
const defaultMaxTokens = 4096

// Config holds the oracle connection settings from the configuration
// provider. An empty APIKey is not an error.
type Config struct {
	APIKey   string
	Endpoint string
	Model    string
	Timeout  time.Duration
}

// Client completes a single prompt against the external model service.
// Implementations must honor context cancellation and make exactly one
// attempt.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// New builds a Client for the configured provider, or nil when no API key is
// configured. An Anthropic endpoint selects the SDK-backed path; anything
// else is treated as OpenRouter-compatible.
func New(cfg Config) Client {
	if cfg.APIKey == "" {
		return nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	if strings.Contains(cfg.Endpoint, "api.anthropic.com") {
		zap.L().Debug("oracle: using anthropic provider", zap.String("model", cfg.Model))
		return &anthropicOracle{
			client:  anthropic.NewClient(cfg.APIKey),
			model:   cfg.Model,
			timeout: timeout,
		}
	}

	var opts []openrouter.Option
	if cfg.Endpoint != "" {
		opts = append(opts, openrouter.WithBaseURL(cfg.Endpoint))
	}
	if cfg.Model != "" {
		opts = append(opts, openrouter.WithModel(cfg.Model))
	}
	zap.L().Debug("oracle: using openrouter provider", zap.String("model", cfg.Model))
	return &openrouterOracle{
		client:  openrouter.NewClient(cfg.APIKey, opts...),
		model:   cfg.Model,
		timeout: timeout,
	}
}

type openrouterOracle struct {
	client  openrouter.Client
	model   string
	timeout time.Duration
}

func (o *openrouterOracle) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.client.ChatCompletion(ctx, openrouter.ChatCompletionRequest{
		Model:          o.model,
		Messages:       []openrouter.Message{{Role: "user", Content: prompt}},
		ResponseFormat: &openrouter.ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", eris.Wrap(err, "oracle: chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", eris.New("oracle: empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}

type anthropicOracle struct {
	client  anthropic.Client
	model   string
	timeout time.Duration
}

func (o *anthropicOracle) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     o.model,
		MaxTokens: defaultMaxTokens,
		Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", eris.Wrap(err, "oracle: create message")
	}
	text := resp.Text()
	if text == "" {
		return "", eris.New("oracle: empty completion")
	}
	return text, nil
}
