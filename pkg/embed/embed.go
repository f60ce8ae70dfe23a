// Package embed wraps embedding providers with batching, timeout and
// normalization so the rest of the pipeline can treat vectors as unit-length
// and provider limits as handled.
package embed

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/ragline-ai/go-ragline/pkg/retrieval"
)

var tracer = otel.Tracer("github.com/ragline-ai/go-ragline/pkg/embed")

// Normalize scales a vector to unit L2 length in place and returns it.
// Zero vectors are returned unchanged.
func Normalize(v retrieval.Vector) retrieval.Vector {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
	return v
}

// Batcher slices embedding requests into provider-sized batches, applies a
// per-call timeout and L2-normalizes every returned vector.
type Batcher struct {
	inner     retrieval.Embedder
	batchSize int
	timeout   time.Duration
}

// NewBatcher wraps an embedder. Non-positive batchSize defaults to 32; a
// zero timeout disables the per-call deadline.
func NewBatcher(inner retrieval.Embedder, batchSize int, timeout time.Duration) *Batcher {
	if batchSize <= 0 {
		batchSize = 32
	}
	return &Batcher{inner: inner, batchSize: batchSize, timeout: timeout}
}

// Dimension returns the wrapped embedder's vector size.
func (b *Batcher) Dimension() int { return b.inner.Dimension() }

// EmbedBatch embeds texts in batches, preserving input order. Every vector
// is normalized to unit length before being returned.
func (b *Batcher) EmbedBatch(ctx context.Context, texts []string) ([]retrieval.Vector, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	ctx, span := tracer.Start(ctx, "embed.batch")
	defer span.End()

	vectors := make([]retrieval.Vector, 0, len(texts))
	for start := 0; start < len(texts); start += b.batchSize {
		end := start + b.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch, err := b.embedOne(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed batch %d-%d: %w", start, end, err)
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("embed batch %d-%d: got %d vectors for %d texts", start, end, len(batch), end-start)
		}
		for _, v := range batch {
			vectors = append(vectors, Normalize(v))
		}
	}
	return vectors, nil
}

func (b *Batcher) embedOne(ctx context.Context, texts []string) ([]retrieval.Vector, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}
	return b.inner.EmbedBatch(ctx, texts)
}

// EmbedQuery embeds a single query text.
func (b *Batcher) EmbedQuery(ctx context.Context, text string) (retrieval.Vector, error) {
	vectors, err := b.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}
