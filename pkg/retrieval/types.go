// Package retrieval indexes document chunks as vectors and retrieves,
// reranks and packs the most relevant ones for answering.
//
// The vector store backends live in sub-packages (qdrant, pgvector); this
// package owns the store and embedder contracts, the blended reranker and
// the context window packing.
package retrieval

import (
	"context"

	"github.com/ragline-ai/go-ragline/pkg/document"
)

// Vector is an embedding vector.
type Vector []float32

// Embedder generates embedding vectors for text.
//
// Implementations batch internally where the backing API supports it; the
// returned slice is index-aligned with the input texts.
type Embedder interface {
	// EmbedBatch embeds a batch of texts.
	EmbedBatch(ctx context.Context, texts []string) ([]Vector, error)
	// Dimension returns the vector size the model produces.
	Dimension() int
}

// ScoredChunk is a chunk returned from similarity search. The component
// scores are zero until reranking runs; after it, FinalScore is the
// weighted blend of Score and the three components.
type ScoredChunk struct {
	Chunk document.Chunk `json:"chunk"`
	// Score is the backend similarity score in [0,1].
	Score float32 `json:"score"`
	// LexicalScore is the word-overlap score between query and chunk.
	LexicalScore float64 `json:"lexical_score,omitempty"`
	// LengthPenalty is 1.0 for chunks in the ideal length range, decaying
	// proportionally outside it.
	LengthPenalty float64 `json:"length_penalty,omitempty"`
	// PositionBonus rewards chunks near the start of their document.
	PositionBonus float64 `json:"position_bonus,omitempty"`
	// FinalScore is the blended rerank score.
	FinalScore float64 `json:"final_score,omitempty"`
}

// SearchQuery is a thresholded nearest-neighbor query.
type SearchQuery struct {
	Text      string  `json:"text"`
	Vector    Vector  `json:"vector,omitempty"`
	Threshold float32 `json:"threshold"`
	Limit     int     `json:"limit,omitempty"`
}

// CollectionInfo summarizes an index collection.
type CollectionInfo struct {
	Name          string `json:"name"`
	DocumentCount uint64 `json:"document_count"`
	Backend       string `json:"backend"`
}

// Store is the vector database contract all backends satisfy.
type Store interface {
	// EnsureCollection creates the collection if it does not exist.
	EnsureCollection(ctx context.Context, dimension int) error

	// DropCollection removes the collection and its vectors.
	DropCollection(ctx context.Context) error

	// Upsert writes chunks with their vectors. Chunks and vectors are
	// index-aligned.
	Upsert(ctx context.Context, chunks []document.Chunk, vectors []Vector) error

	// Search performs thresholded nearest-neighbor search.
	Search(ctx context.Context, query SearchQuery) ([]ScoredChunk, error)

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (uint64, error)

	// Health checks if the store is reachable.
	Health(ctx context.Context) error

	// Describe returns the collection name and backend kind without a
	// round trip.
	Describe() CollectionInfo

	// Close releases any resources held by the client.
	Close() error
}
