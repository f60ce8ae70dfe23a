package embed

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ragline-ai/go-ragline/pkg/retrieval"
)

// mockEmbedder records batch sizes and returns deterministic vectors.
type mockEmbedder struct {
	batches  [][]string
	embedErr error
}

func (m *mockEmbedder) Dimension() int { return 4 }

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([]retrieval.Vector, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.batches = append(m.batches, texts)
	vectors := make([]retrieval.Vector, len(texts))
	for i := range texts {
		vectors[i] = retrieval.Vector{3, 4, 0, 0}
	}
	return vectors, nil
}

func TestNormalize(t *testing.T) {
	v := Normalize(retrieval.Vector{3, 4, 0, 0})

	if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
		t.Errorf("Normalize() = %v, want [0.6 0.8 0 0]", v)
	}

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if math.Abs(sum-1.0) > 1e-6 {
		t.Errorf("norm squared = %f, want 1.0", sum)
	}
}

func TestNormalize_ZeroVector(t *testing.T) {
	v := Normalize(retrieval.Vector{0, 0, 0})
	for _, x := range v {
		if x != 0 {
			t.Errorf("Normalize(zero) = %v, want unchanged", v)
		}
	}
}

func TestBatcher_SplitsBatches(t *testing.T) {
	mock := &mockEmbedder{}
	b := NewBatcher(mock, 32, 0)

	texts := make([]string, 70)
	for i := range texts {
		texts[i] = "text"
	}

	vectors, err := b.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("EmbedBatch() error = %v", err)
	}

	if len(vectors) != 70 {
		t.Errorf("EmbedBatch() len = %d, want 70", len(vectors))
	}
	if len(mock.batches) != 3 {
		t.Fatalf("batches = %d, want 3 (32+32+6)", len(mock.batches))
	}
	if len(mock.batches[0]) != 32 || len(mock.batches[1]) != 32 || len(mock.batches[2]) != 6 {
		t.Errorf("batch sizes = %d/%d/%d, want 32/32/6",
			len(mock.batches[0]), len(mock.batches[1]), len(mock.batches[2]))
	}
}

func TestBatcher_NormalizesOutput(t *testing.T) {
	b := NewBatcher(&mockEmbedder{}, 32, 0)

	vectors, err := b.EmbedBatch(context.Background(), []string{"one"})
	if err != nil {
		t.Fatalf("EmbedBatch() error = %v", err)
	}

	var sum float64
	for _, x := range vectors[0] {
		sum += float64(x) * float64(x)
	}
	if math.Abs(sum-1.0) > 1e-6 {
		t.Errorf("vector norm squared = %f, want 1.0", sum)
	}
}

func TestBatcher_Empty(t *testing.T) {
	b := NewBatcher(&mockEmbedder{}, 32, 0)

	vectors, err := b.EmbedBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("EmbedBatch() error = %v", err)
	}
	if vectors != nil {
		t.Errorf("EmbedBatch(nil) = %v, want nil", vectors)
	}
}

func TestBatcher_PropagatesError(t *testing.T) {
	wantErr := errors.New("provider down")
	b := NewBatcher(&mockEmbedder{embedErr: wantErr}, 32, 0)

	_, err := b.EmbedBatch(context.Background(), []string{"one"})
	if !errors.Is(err, wantErr) {
		t.Errorf("EmbedBatch() error = %v, want wrapped provider error", err)
	}
}

func TestBatcher_EmbedQuery(t *testing.T) {
	b := NewBatcher(&mockEmbedder{}, 32, 0)

	v, err := b.EmbedQuery(context.Background(), "高血压的治疗")
	if err != nil {
		t.Fatalf("EmbedQuery() error = %v", err)
	}
	if len(v) != 4 {
		t.Errorf("EmbedQuery() dimension = %d, want 4", len(v))
	}
}

func TestBatcher_DefaultBatchSize(t *testing.T) {
	b := NewBatcher(&mockEmbedder{}, 0, 0)
	if b.batchSize != 32 {
		t.Errorf("batchSize = %d, want default 32", b.batchSize)
	}
}
