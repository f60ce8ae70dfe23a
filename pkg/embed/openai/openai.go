// Package openai provides embeddings from the OpenAI API or any
// OpenAI-compatible endpoint such as SiliconFlow or DeepSeek gateways.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/ragline-ai/go-ragline/pkg/retrieval"
)

// Config configures the OpenAI embedding client.
type Config struct {
	// APIKey authenticates against the endpoint.
	APIKey string
	// BaseURL overrides the API endpoint for compatible providers.
	BaseURL string
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

// DefaultConfig returns defaults reading the API key from the environment.
func DefaultConfig() *Config {
	return &Config{Dimension: 1024}
}

// Client generates embeddings through the OpenAI embeddings API.
type Client struct {
	client openai.Client
	model  string
	config *Config
}

// New creates an embedding client for the given model.
//
// Example:
//
//	client, err := openai.New("BAAI/bge-large-zh-v1.5", openai.WithConfig(&openai.Config{
//	    APIKey:  apiKey,
//	    BaseURL: "https://api.siliconflow.cn/v1",
//	}))
func New(model string, opts ...Option) (*Client, error) {
	if model == "" {
		return nil, fmt.Errorf("embedding model name is required")
	}

	config := DefaultConfig()
	for _, opt := range opts {
		opt.Apply(config)
	}

	var clientOptions []option.RequestOption
	if config.APIKey != "" {
		clientOptions = append(clientOptions, option.WithAPIKey(config.APIKey))
	}
	if config.BaseURL != "" {
		clientOptions = append(clientOptions, option.WithBaseURL(config.BaseURL))
	}

	return &Client{
		client: openai.NewClient(clientOptions...),
		model:  model,
		config: config,
	}, nil
}

// Dimension returns the configured vector size.
func (c *Client) Dimension() int { return c.config.Dimension }

// EmbedBatch embeds texts in a single embeddings API call.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([]retrieval.Vector, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := c.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(c.model),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai embed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai embed: got %d embeddings for %d texts", len(resp.Data), len(texts))
	}

	vectors := make([]retrieval.Vector, len(resp.Data))
	for _, d := range resp.Data {
		vec := make(retrieval.Vector, len(d.Embedding))
		for i, x := range d.Embedding {
			vec[i] = float32(x)
		}
		vectors[int(d.Index)] = vec
	}
	return vectors, nil
}
