// Package llm defines the chat completion contract the answer engine
// generates with. Provider clients live in sub-packages (openai, ollama).
package llm

import "context"

// StreamHandler receives incremental output during a streaming completion.
// Returning an error aborts the stream.
type StreamHandler func(delta string) error

// Completer generates chat completions for a prompt.
type Completer interface {
	// Complete returns the full completion in one call.
	Complete(ctx context.Context, prompt string) (string, error)

	// Stream forwards deltas to the handler as they arrive and returns
	// the accumulated completion.
	Stream(ctx context.Context, prompt string, handler StreamHandler) (string, error)
}
