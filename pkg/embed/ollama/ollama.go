// Package ollama provides embeddings from a local or remote Ollama server.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"

	"github.com/ragline-ai/go-ragline/pkg/retrieval"
)

// Config configures the Ollama embedding client.
type Config struct {
	// Host is the Ollama server URL. Empty uses the OLLAMA_HOST environment
	// variable or the localhost default.
	Host string
	// Dimension is the vector size the model produces.
	Dimension int
}

// Option configures the client.
type Option interface {
	Apply(*Config)
}

type configOption struct {
	config *Config
}

func (o configOption) Apply(c *Config) {
	*c = *o.config
}

// WithConfig replaces the default configuration.
func WithConfig(config *Config) Option {
	return configOption{config: config}
}

// DefaultConfig returns defaults for a local Ollama server.
func DefaultConfig() *Config {
	return &Config{
		Host:      "", // ClientFromEnvironment() default
		Dimension: 1024,
	}
}

// Client generates embeddings through the Ollama embed API.
type Client struct {
	client *api.Client
	model  string
	config *Config
}

// New creates an Ollama embedding client for the given model.
//
// Requires an Ollama server running with the model pulled. Use 'ollama list'
// to see available models.
//
// Example:
//
//	client, err := ollama.New("bge-large-zh-v1.5")
//	if err != nil { log.Fatal(err) }
func New(model string, opts ...Option) (*Client, error) {
	if model == "" {
		return nil, fmt.Errorf("embedding model name is required")
	}

	config := DefaultConfig()
	for _, opt := range opts {
		opt.Apply(config)
	}

	var client *api.Client
	var err error

	if config.Host == "" {
		client, err = api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("failed to create client from environment: %w", err)
		}
	} else {
		u, err := url.Parse(config.Host)
		if err != nil {
			return nil, fmt.Errorf("invalid host URL: %w", err)
		}
		client = api.NewClient(u, http.DefaultClient)
	}

	return &Client{client: client, model: model, config: config}, nil
}

// Dimension returns the configured vector size.
func (c *Client) Dimension() int { return c.config.Dimension }

// EmbedBatch embeds texts in a single Ollama embed call.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([]retrieval.Vector, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := c.client.Embed(ctx, &api.EmbedRequest{
		Model: c.model,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama embed: got %d embeddings for %d texts", len(resp.Embeddings), len(texts))
	}

	vectors := make([]retrieval.Vector, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		vectors[i] = retrieval.Vector(e)
	}
	return vectors, nil
}
