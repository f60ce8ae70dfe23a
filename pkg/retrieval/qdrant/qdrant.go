// Package qdrant implements the retrieval.Store contract on a Qdrant
// vector database over its gRPC API.
package qdrant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	qd "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"

	"github.com/ragline-ai/go-ragline/pkg/document"
	"github.com/ragline-ai/go-ragline/pkg/retrieval"
)

// maxRecvMsgSize bounds gRPC responses. Search results with payloads can
// exceed the 4MB default when chunks are large.
const maxRecvMsgSize = 32 * 1024 * 1024

// Config holds Qdrant connection settings.
type Config struct {
	// Host of the Qdrant gRPC endpoint.
	Host string

	// Port of the gRPC endpoint. Defaults to 6334.
	Port int

	// APIKey is optional and enables TLS when set.
	APIKey string

	// Collection name for stored chunks.
	Collection string
}

// Store is a Qdrant-backed vector store.
type Store struct {
	client     *qd.Client
	collection string
}

// New connects to Qdrant with the given configuration.
func New(config Config) (*Store, error) {
	if config.Host == "" {
		config.Host = "localhost"
	}
	if config.Port == 0 {
		config.Port = 6334
	}
	if config.Collection == "" {
		config.Collection = "knowledge_base"
	}

	client, err := qd.NewClient(&qd.Config{
		Host:   config.Host,
		Port:   config.Port,
		APIKey: config.APIKey,
		GrpcOptions: []grpc.DialOption{
			grpc.WithDefaultCallOptions(grpc.MaxCallRecvMsgSize(maxRecvMsgSize)),
			grpc.WithKeepaliveParams(keepalive.ClientParameters{
				Time:                30 * time.Second,
				PermitWithoutStream: true,
			}),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating qdrant client: %w", err)
	}

	return &Store{client: client, collection: config.Collection}, nil
}

// EnsureCollection creates the collection with cosine distance if missing.
func (s *Store) EnsureCollection(ctx context.Context, dimension int) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("checking collection %s: %w", s.collection, err)
	}
	if exists {
		return nil
	}

	err = s.client.CreateCollection(ctx, &qd.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qd.NewVectorsConfig(&qd.VectorParams{
			Size:     uint64(dimension),
			Distance: qd.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("creating collection %s: %w", s.collection, err)
	}
	return nil
}

// DropCollection deletes the collection. Missing collections are not an error.
func (s *Store) DropCollection(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("checking collection %s: %w", s.collection, err)
	}
	if !exists {
		return nil
	}
	if err := s.client.DeleteCollection(ctx, s.collection); err != nil {
		return fmt.Errorf("deleting collection %s: %w", s.collection, err)
	}
	return nil
}

// Upsert writes chunks with their vectors as Qdrant points.
//
// Point IDs are derived from source path and chunk ID, so re-ingesting the
// same document overwrites its previous points instead of duplicating them.
func (s *Store) Upsert(ctx context.Context, chunks []document.Chunk, vectors []retrieval.Vector) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunk count %d does not match vector count %d", len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}

	points := make([]*qd.PointStruct, 0, len(chunks))
	for i, chunk := range chunks {
		if chunk.Content == "" {
			continue
		}
		points = append(points, &qd.PointStruct{
			Id: &qd.PointId{
				PointIdOptions: &qd.PointId_Uuid{Uuid: pointID(chunk.Metadata)},
			},
			Vectors: &qd.Vectors{
				VectorsOptions: &qd.Vectors_Vector{
					Vector: &qd.Vector{Data: vectors[i]},
				},
			},
			Payload: buildPayload(chunk),
		})
	}
	if len(points) == 0 {
		return nil
	}

	_, err := s.client.Upsert(ctx, &qd.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
		Wait:           qd.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("upserting %d points to %s: %w", len(points), s.collection, err)
	}
	return nil
}

// Search runs a thresholded nearest-neighbor query with payloads.
func (s *Store) Search(ctx context.Context, query retrieval.SearchQuery) ([]retrieval.ScoredChunk, error) {
	if len(query.Vector) == 0 {
		return nil, fmt.Errorf("query vector is required")
	}

	request := &qd.QueryPoints{
		CollectionName: s.collection,
		Query:          qd.NewQuery(query.Vector...),
		WithPayload:    qd.NewWithPayload(true),
	}
	if query.Limit > 0 {
		request.Limit = qd.PtrOf(uint64(query.Limit))
	}
	if query.Threshold > 0 {
		request.ScoreThreshold = qd.PtrOf(query.Threshold)
	}

	points, err := s.client.Query(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("qdrant query failed: %w", err)
	}

	results := make([]retrieval.ScoredChunk, 0, len(points))
	for _, point := range points {
		results = append(results, retrieval.ScoredChunk{
			Chunk: chunkFromPayload(point.Payload),
			Score: point.Score,
		})
	}
	return results, nil
}

// Count returns the exact number of stored points.
func (s *Store) Count(ctx context.Context) (uint64, error) {
	count, err := s.client.Count(ctx, &qd.CountPoints{
		CollectionName: s.collection,
		Exact:          qd.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("counting points in %s: %w", s.collection, err)
	}
	return count, nil
}

// Health checks the Qdrant server.
func (s *Store) Health(ctx context.Context) error {
	if _, err := s.client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("qdrant health check: %w", err)
	}
	return nil
}

// Close releases the gRPC connection.
func (s *Store) Close() error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("closing qdrant client: %w", err)
	}
	return nil
}

// Describe reports the collection identity.
func (s *Store) Describe() retrieval.CollectionInfo {
	return retrieval.CollectionInfo{Name: s.collection, Backend: "qdrant"}
}

// pointID derives a stable UUID from the chunk's source and chunk ID.
func pointID(meta document.Metadata) string {
	name := meta.Source + "#" + meta.ChunkID
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

func buildPayload(chunk document.Chunk) map[string]*qd.Value {
	meta := chunk.Metadata
	return map[string]*qd.Value{
		"content":      qd.NewValueString(chunk.Content),
		"source":       qd.NewValueString(meta.Source),
		"filename":     qd.NewValueString(meta.Filename),
		"chunk_id":     qd.NewValueString(meta.ChunkID),
		"chunk_index":  qd.NewValueInt(int64(meta.ChunkIndex)),
		"total_chunks": qd.NewValueInt(int64(meta.TotalChunks)),
		"file_type":    qd.NewValueString(meta.FileType),
		"sub_chunk":    qd.NewValueBool(meta.SubChunk),
	}
}

func chunkFromPayload(payload map[string]*qd.Value) document.Chunk {
	chunk := document.Chunk{}
	if payload == nil {
		return chunk
	}
	if v, ok := payload["content"]; ok {
		chunk.Content = v.GetStringValue()
	}
	if v, ok := payload["source"]; ok {
		chunk.Metadata.Source = v.GetStringValue()
	}
	if v, ok := payload["filename"]; ok {
		chunk.Metadata.Filename = v.GetStringValue()
	}
	if v, ok := payload["chunk_id"]; ok {
		chunk.Metadata.ChunkID = v.GetStringValue()
	}
	if v, ok := payload["chunk_index"]; ok {
		chunk.Metadata.ChunkIndex = int(v.GetIntegerValue())
	}
	if v, ok := payload["total_chunks"]; ok {
		chunk.Metadata.TotalChunks = int(v.GetIntegerValue())
	}
	if v, ok := payload["file_type"]; ok {
		chunk.Metadata.FileType = v.GetStringValue()
	}
	if v, ok := payload["sub_chunk"]; ok {
		chunk.Metadata.SubChunk = v.GetBoolValue()
	}
	return chunk
}
