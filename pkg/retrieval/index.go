package retrieval

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ragline-ai/go-ragline/pkg/document"
	"github.com/ragline-ai/go-ragline/pkg/ragline"
)

var tracer = otel.Tracer("github.com/ragline-ai/go-ragline/pkg/retrieval")

// unknownFilename substitutes for chunks whose metadata lost the filename.
const unknownFilename = "未知文档"

// IndexConfig tunes the vector index wrapper.
type IndexConfig struct {
	// InsertBatchSize is the number of chunks upserted per store call.
	InsertBatchSize int

	// TopK is the default result limit for Search.
	TopK int

	// SimilarityThreshold drops results scoring below it. Zero disables
	// threshold filtering.
	SimilarityThreshold float32

	// Timeout bounds each store round trip. Zero means no deadline beyond
	// the caller's context.
	Timeout time.Duration
}

// VectorIndex pairs an embedder with a vector store and handles batching,
// threshold filtering, and failure degradation for both.
type VectorIndex struct {
	store    Store
	embedder Embedder
	config   IndexConfig
	metrics  *Metrics
}

// NewVectorIndex creates an index over the given store and embedder.
// A nil metrics collector disables instrumentation.
func NewVectorIndex(store Store, embedder Embedder, config IndexConfig, metrics *Metrics) *VectorIndex {
	if config.InsertBatchSize <= 0 {
		config.InsertBatchSize = 100
	}
	if config.TopK <= 0 {
		config.TopK = 5
	}
	return &VectorIndex{store: store, embedder: embedder, config: config, metrics: metrics}
}

// EnsureReady creates the backing collection if it does not exist yet.
func (v *VectorIndex) EnsureReady(ctx context.Context) error {
	ctx, cancel := v.withTimeout(ctx)
	defer cancel()
	return v.store.EnsureCollection(ctx, v.embedder.Dimension())
}

// AddDocuments embeds and upserts chunks in insert batches.
//
// Input: processed chunks from the document pipeline
// Output: true when every batch was stored
// Behavior: a failed batch is logged and aborts the remaining batches;
// already-stored batches are kept. An empty slice is a no-op returning false.
func (v *VectorIndex) AddDocuments(ctx context.Context, chunks []document.Chunk) bool {
	if len(chunks) == 0 {
		ragline.LogWarn(ctx, "no chunks to index")
		return false
	}

	ctx, span := tracer.Start(ctx, "index.add_documents",
		oteltrace.WithAttributes(attribute.Int("chunks", len(chunks))))
	defer span.End()

	ragline.LogInfo(ctx, "indexing chunks", "count", len(chunks))

	for start := 0; start < len(chunks); start += v.config.InsertBatchSize {
		end := min(start+v.config.InsertBatchSize, len(chunks))
		batch := chunks[start:end]

		if err := v.addBatch(ctx, batch); err != nil {
			v.countError("upsert")
			ragline.LogError(ctx, "indexing batch failed",
				ragline.WrapErr(ctx, err, "storing chunks").Tag(slog.Int("batch_start", start)),
				"batch_size", len(batch))
			return false
		}
		ragline.LogInfo(ctx, "indexed batch", "stored", end, "total", len(chunks))
	}

	if v.metrics != nil {
		v.metrics.observeIndexed(v.backend(), sourceCount(chunks), len(chunks))
	}
	return true
}

func (v *VectorIndex) addBatch(ctx context.Context, batch []document.Chunk) error {
	texts := make([]string, len(batch))
	for i, chunk := range batch {
		texts[i] = chunk.Content
	}

	vectors, err := v.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return ragline.WrapErr(ctx, err, "embedding chunk batch")
	}

	ctx, cancel := v.withTimeout(ctx)
	defer cancel()
	return v.store.Upsert(ctx, batch, vectors)
}

// Search embeds the query and runs a thresholded similarity search.
//
// Behavior: failures degrade to an empty result set so the answer pipeline
// can respond with the no-context sentinel instead of an error.
func (v *VectorIndex) Search(ctx context.Context, query string) []ScoredChunk {
	return v.SearchK(ctx, query, v.config.TopK, true)
}

// SearchK is Search with an explicit result limit and optional threshold
// filtering.
func (v *VectorIndex) SearchK(ctx context.Context, query string, k int, useThreshold bool) []ScoredChunk {
	ctx, span := tracer.Start(ctx, "index.search")
	defer span.End()

	started := time.Now()
	if k <= 0 {
		k = v.config.TopK
	}

	vectors, err := v.embedder.EmbedBatch(ctx, []string{query})
	if err != nil || len(vectors) == 0 {
		v.countError("embed_query")
		ragline.LogError(ctx, "query embedding failed", err)
		return nil
	}

	sq := SearchQuery{
		Text:   query,
		Vector: vectors[0],
		Limit:  k,
	}
	if useThreshold {
		sq.Threshold = v.config.SimilarityThreshold
	}

	searchCtx, cancel := v.withTimeout(ctx)
	defer cancel()
	results, err := v.store.Search(searchCtx, sq)
	if err != nil {
		v.countError("search")
		ragline.LogError(ctx, "similarity search failed", err, "query_len", len(query))
		return nil
	}

	for i := range results {
		if results[i].Chunk.Metadata.Filename == "" {
			results[i].Chunk.Metadata.Filename = unknownFilename
		}
	}

	if v.metrics != nil {
		v.metrics.observeSearch(v.backend(), time.Since(started), len(results))
	}
	ragline.LogInfo(ctx, "search complete", "results", len(results))
	return results
}

// Info reports collection name, stored point count, and backend kind.
func (v *VectorIndex) Info(ctx context.Context) (CollectionInfo, error) {
	ctx, cancel := v.withTimeout(ctx)
	defer cancel()

	count, err := v.store.Count(ctx)
	if err != nil {
		return CollectionInfo{}, ragline.WrapErr(ctx, err, "reading collection info")
	}
	info := v.store.Describe()
	info.DocumentCount = count
	return info, nil
}

// Rebuild drops the collection and recreates it empty.
func (v *VectorIndex) Rebuild(ctx context.Context) error {
	ctx, cancel := v.withTimeout(ctx)
	defer cancel()

	if err := v.store.DropCollection(ctx); err != nil {
		return ragline.WrapErr(ctx, err, "dropping collection")
	}
	return v.store.EnsureCollection(ctx, v.embedder.Dimension())
}

// Metrics returns the index's metrics collector, nil when instrumentation
// is disabled.
func (v *VectorIndex) Metrics() *Metrics {
	return v.metrics
}

// Health checks the store connection.
func (v *VectorIndex) Health(ctx context.Context) error {
	ctx, cancel := v.withTimeout(ctx)
	defer cancel()
	return v.store.Health(ctx)
}

// Close releases the store connection.
func (v *VectorIndex) Close() error {
	return v.store.Close()
}

func (v *VectorIndex) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if v.config.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, v.config.Timeout)
}

func (v *VectorIndex) backend() string {
	return v.store.Describe().Backend
}

func (v *VectorIndex) countError(stage string) {
	if v.metrics != nil {
		v.metrics.observeError(v.backend(), stage)
	}
}

// sourceCount counts distinct source documents in a chunk slice.
func sourceCount(chunks []document.Chunk) int {
	sources := make(map[string]struct{}, len(chunks))
	for _, chunk := range chunks {
		sources[chunk.Metadata.Source] = struct{}{}
	}
	return len(sources)
}
