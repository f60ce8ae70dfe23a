//go:build integration

package pgvector

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ragline-ai/go-ragline/pkg/document"
	"github.com/ragline-ai/go-ragline/pkg/retrieval"
)

const testDimension = 8

func testVector(seed int) retrieval.Vector {
	vector := make(retrieval.Vector, testDimension)
	for i := range vector {
		vector[i] = float32((seed+i)%10) / 10.0
	}
	return vector
}

func testChunk(index int, content string) document.Chunk {
	return document.Chunk{
		Content: content,
		Metadata: document.Metadata{
			Source:      "/data/guide.txt",
			Filename:    "guide.txt",
			ChunkID:     strconv.Itoa(index),
			ChunkIndex:  index,
			TotalChunks: 3,
			FileType:    "text",
		},
	}
}

func setupPostgres(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "pgvector/pgvector:pg16",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "ragline",
			"POSTGRES_PASSWORD": "ragline",
			"POSTGRES_DB":       "ragline",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithDeadline(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("failed to get mapped port: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}

	connString := fmt.Sprintf("postgres://ragline:ragline@%s:%s/ragline?sslmode=disable", host, port.Port())

	store, err := New(ctx, Config{
		ConnectionString: connString,
		TableName:        "test_chunks",
	})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	// The image ships the extension but does not enable it.
	if _, err := store.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		t.Fatalf("failed to enable pgvector: %v", err)
	}
	return store
}

func TestStoreLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	store := setupPostgres(t)

	if err := store.Health(ctx); err != nil {
		t.Fatalf("health check failed: %v", err)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("count before table creation failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty count before ingest, got %d", count)
	}

	if err := store.EnsureCollection(ctx, testDimension); err != nil {
		t.Fatalf("ensure collection failed: %v", err)
	}

	chunks := []document.Chunk{
		testChunk(0, "向量数据库存储嵌入向量"),
		testChunk(1, "相似度搜索返回最近的文档"),
		testChunk(2, "余弦距离衡量向量方向"),
	}
	vectors := []retrieval.Vector{testVector(1), testVector(5), testVector(9)}
	if err := store.Upsert(ctx, chunks, vectors); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	count, err = store.Count(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 rows, got %d", count)
	}

	results, err := store.Search(ctx, retrieval.SearchQuery{
		Vector: testVector(1),
		Limit:  2,
	})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) == 0 || len(results) > 2 {
		t.Fatalf("expected 1-2 results, got %d", len(results))
	}
	top := results[0]
	if top.Chunk.Content != "向量数据库存储嵌入向量" {
		t.Errorf("expected closest chunk first, got %q", top.Chunk.Content)
	}
	if top.Chunk.Metadata.Filename != "guide.txt" || top.Chunk.Metadata.TotalChunks != 3 {
		t.Errorf("metadata not round-tripped: %+v", top.Chunk.Metadata)
	}
	if top.Score <= 0 || top.Score > 1.0001 {
		t.Errorf("similarity out of range: %v", top.Score)
	}

	// Re-ingesting the same chunk overwrites its row.
	updated := testChunk(0, "更新后的内容")
	if err := store.Upsert(ctx, []document.Chunk{updated}, []retrieval.Vector{testVector(1)}); err != nil {
		t.Fatalf("re-upsert failed: %v", err)
	}
	count, err = store.Count(ctx)
	if err != nil {
		t.Fatalf("count after re-upsert failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected overwrite, got %d rows", count)
	}

	if err := store.DropCollection(ctx); err != nil {
		t.Fatalf("drop failed: %v", err)
	}
	count, err = store.Count(ctx)
	if err != nil {
		t.Fatalf("count after drop failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty count after drop, got %d", count)
	}
}

func TestSearchThresholdFiltersWeakMatches(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	store := setupPostgres(t)
	if err := store.EnsureCollection(ctx, testDimension); err != nil {
		t.Fatalf("ensure collection failed: %v", err)
	}

	// Opposite-direction vector scores near zero under cosine similarity.
	opposite := make(retrieval.Vector, testDimension)
	for i := range opposite {
		opposite[i] = -testVector(1)[i]
	}
	chunks := []document.Chunk{testChunk(0, "接近的文档"), testChunk(1, "相反的文档")}
	if err := store.Upsert(ctx, chunks, []retrieval.Vector{testVector(1), opposite}); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	results, err := store.Search(ctx, retrieval.SearchQuery{
		Vector:    testVector(1),
		Threshold: 0.7,
		Limit:     5,
	})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected only the close chunk, got %d results", len(results))
	}
	if results[0].Chunk.Content != "接近的文档" {
		t.Errorf("unexpected result: %q", results[0].Chunk.Content)
	}
}
