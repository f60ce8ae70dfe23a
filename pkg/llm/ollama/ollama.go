// Package ollama provides a chat completion client for local Ollama models.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"

	"github.com/ragline-ai/go-ragline/pkg/helpers"
	"github.com/ragline-ai/go-ragline/pkg/llm"
)

// Config holds Ollama client configuration.
type Config struct {
	// Host of the Ollama server, e.g. "http://localhost:11434".
	// Empty uses OLLAMA_HOST or the default local address.
	Host string

	// Temperature for sampling. Nil uses the model default.
	Temperature *float32

	// MaxTokens caps the completion length (num_predict). Nil uses the
	// model default.
	MaxTokens *int
}

// Option configures the client.
type Option interface {
	Apply(*Config)
}

type configOption struct {
	config *Config
}

func (o configOption) Apply(config *Config) {
	*config = *o.config
}

// WithConfig replaces the default configuration wholesale.
func WithConfig(config *Config) Option {
	return configOption{config: config}
}

// DefaultConfig returns an empty config resolving the host from the
// environment.
func DefaultConfig() *Config {
	return &Config{}
}

// Client is an Ollama chat completion client implementing llm.Completer.
type Client struct {
	client *api.Client
	model  string
	config *Config
}

// New creates a client for the given model.
//
// Example:
//
//	client, err := ollama.New("qwen2.5:7b")
func New(model string, opts ...Option) (*Client, error) {
	if model == "" {
		return nil, fmt.Errorf("model name is required")
	}

	config := DefaultConfig()
	for _, opt := range opts {
		opt.Apply(config)
	}

	var client *api.Client
	if config.Host == "" {
		c, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("creating ollama client from environment: %w", err)
		}
		client = c
	} else {
		u, err := url.Parse(config.Host)
		if err != nil {
			return nil, fmt.Errorf("invalid ollama host %q: %w", config.Host, err)
		}
		client = api.NewClient(u, http.DefaultClient)
	}

	return &Client{client: client, model: model, config: config}, nil
}

// Complete returns the full completion in one call.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	return c.chat(ctx, prompt, false, nil)
}

// Stream forwards completion deltas to the handler and returns the
// accumulated text.
func (c *Client) Stream(ctx context.Context, prompt string, handler llm.StreamHandler) (string, error) {
	return c.chat(ctx, prompt, true, handler)
}

func (c *Client) chat(ctx context.Context, prompt string, stream bool, handler llm.StreamHandler) (string, error) {
	req := &api.ChatRequest{
		Model: c.model,
		Messages: []api.Message{
			{Role: "user", Content: prompt},
		},
		Stream:  helpers.PtrOf(stream),
		Options: c.modelOptions(),
	}

	var builder strings.Builder
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		if resp.Message.Content == "" {
			return nil
		}
		builder.WriteString(resp.Message.Content)
		if handler != nil {
			return handler(resp.Message.Content)
		}
		return nil
	})
	if err != nil {
		return builder.String(), fmt.Errorf("ollama chat failed: %w", err)
	}
	return builder.String(), nil
}

func (c *Client) modelOptions() map[string]any {
	options := make(map[string]any)
	if c.config.Temperature != nil {
		options["temperature"] = *c.config.Temperature
	}
	if c.config.MaxTokens != nil {
		options["num_predict"] = *c.config.MaxTokens
	}
	return options
}
