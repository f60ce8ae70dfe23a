// Package openai provides a chat completion client for OpenAI-compatible
// APIs, including self-hosted gateways that speak the same protocol.
package openai

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	"github.com/ragline-ai/go-ragline/pkg/llm"
)

// Config holds OpenAI client configuration.
type Config struct {
	// APIKey for authentication. Falls back to OPENAI_API_KEY.
	APIKey string

	// BaseURL overrides the API endpoint for compatible gateways.
	BaseURL string

	// Temperature for sampling. Nil uses the API default.
	Temperature *float32

	// MaxTokens caps the completion length. Nil uses the API default.
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

// DefaultConfig returns a config with the API key from the environment.
func DefaultConfig() *Config {
	return &Config{
		APIKey: os.Getenv("OPENAI_API_KEY"),
	}
}

// Client is an OpenAI chat completion client implementing llm.Completer.
type Client struct {
	client *openai.Client
	model  shared.ChatModel
	config *Config
}

// New creates a client for the given model.
//
// Example:
//
//	client, err := openai.New("gpt-4o-mini")
func New(model string, opts ...Option) (*Client, error) {
	if model == "" {
		return nil, fmt.Errorf("model name is required")
	}

	config := DefaultConfig()
	for _, opt := range opts {
		opt.Apply(config)
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set or provided in config")
	}

	clientOptions := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		clientOptions = append(clientOptions, option.WithBaseURL(config.BaseURL))
	}
	client := openai.NewClient(clientOptions...)

	return &Client{
		client: &client,
		model:  shared.ChatModel(model),
		config: config,
	}, nil
}

// Complete returns the full completion in one round trip.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	response, err := c.client.Chat.Completions.New(ctx, c.buildParams(prompt))
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return response.Choices[0].Message.Content, nil
}

// Stream forwards completion deltas to the handler and returns the
// accumulated text.
func (c *Client) Stream(ctx context.Context, prompt string, handler llm.StreamHandler) (answer string, err error) {
	stream := c.client.Chat.Completions.NewStreaming(ctx, c.buildParams(prompt))
	defer func() {
		if closeErr := stream.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close stream: %w", closeErr)
		}
	}()

	var builder []byte
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		builder = append(builder, delta...)
		if handler != nil {
			if err := handler(delta); err != nil {
				return string(builder), err
			}
		}
	}
	if err := stream.Err(); err != nil {
		return string(builder), fmt.Errorf("streaming completion failed: %w", err)
	}
	return string(builder), nil
}

func (c *Client) buildParams(prompt string) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if c.config.Temperature != nil {
		params.Temperature = openai.Float(float64(*c.config.Temperature))
	}
	if c.config.MaxTokens != nil {
		params.MaxCompletionTokens = openai.Int(int64(*c.config.MaxTokens))
	}
	return params
}
