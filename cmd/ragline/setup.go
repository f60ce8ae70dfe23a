package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ragline-ai/go-ragline/pkg/answer"
	"github.com/ragline-ai/go-ragline/pkg/config"
	"github.com/ragline-ai/go-ragline/pkg/document"
	"github.com/ragline-ai/go-ragline/pkg/embed"
	embedollama "github.com/ragline-ai/go-ragline/pkg/embed/ollama"
	embedopenai "github.com/ragline-ai/go-ragline/pkg/embed/openai"
	"github.com/ragline-ai/go-ragline/pkg/helpers"
	"github.com/ragline-ai/go-ragline/pkg/llm"
	llmollama "github.com/ragline-ai/go-ragline/pkg/llm/ollama"
	llmopenai "github.com/ragline-ai/go-ragline/pkg/llm/openai"
	"github.com/ragline-ai/go-ragline/pkg/ragline"
	"github.com/ragline-ai/go-ragline/pkg/retrieval"
	"github.com/ragline-ai/go-ragline/pkg/retrieval/pgvector"
	"github.com/ragline-ai/go-ragline/pkg/retrieval/qdrant"
	"github.com/ragline-ai/go-ragline/pkg/session"
)

func buildEmbedder(cfg *config.Config) (*embed.Batcher, error) {
	var inner retrieval.Embedder
	switch cfg.Embedding.Provider {
	case "ollama":
		client, err := embedollama.New(cfg.Embedding.Model, embedollama.WithConfig(&embedollama.Config{
			Dimension: cfg.Embedding.Dimension,
		}))
		if err != nil {
			return nil, fmt.Errorf("creating ollama embedder: %w", err)
		}
		inner = client
	case "openai":
		client, err := embedopenai.New(cfg.Embedding.Model, embedopenai.WithConfig(&embedopenai.Config{
			APIKey:    cfg.LLM.APIKey,
			BaseURL:   cfg.LLM.BaseURL,
			Dimension: cfg.Embedding.Dimension,
		}))
		if err != nil {
			return nil, fmt.Errorf("creating openai embedder: %w", err)
		}
		inner = client
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
	}
	return embed.NewBatcher(inner, cfg.Embedding.BatchSize, cfg.Embedding.Timeout), nil
}

func buildStore(ctx context.Context, cfg *config.Config) (retrieval.Store, error) {
	switch cfg.Index.Backend {
	case "qdrant":
		return qdrant.New(qdrant.Config{
			Host:       cfg.Index.Host,
			Port:       cfg.Index.Port,
			APIKey:     cfg.Index.APIKey,
			Collection: cfg.Index.Collection,
		})
	case "pgvector":
		return pgvector.New(ctx, pgvector.Config{
			ConnectionString: cfg.Index.DatabaseURL,
			TableName:        cfg.Index.Collection,
		})
	default:
		return nil, fmt.Errorf("unknown index backend %q", cfg.Index.Backend)
	}
}

func buildIndex(ctx context.Context, cfg *config.Config) (*retrieval.VectorIndex, error) {
	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	index := retrieval.NewVectorIndex(store, embedder, retrieval.IndexConfig{
		InsertBatchSize:     cfg.Index.InsertBatchSize,
		TopK:                cfg.Retrieval.TopK,
		SimilarityThreshold: cfg.Retrieval.SimilarityThreshold,
		Timeout:             cfg.Index.Timeout,
	}, retrieval.NewMetrics())
	return index, nil
}

// maybeServeMetrics exposes the index metrics endpoint for the duration of
// the command when --metrics-addr is set.
func maybeServeMetrics(ctx context.Context, index *retrieval.VectorIndex) {
	if flagMetricsAddr == "" || index.Metrics() == nil {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", index.Metrics().Handler())
	server := &http.Server{Addr: flagMetricsAddr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ragline.LogWarn(ctx, "metrics server stopped", "addr", flagMetricsAddr, "error", err)
		}
	}()
}

func buildProcessor(cfg *config.Config) *document.Processor {
	return document.NewProcessor(document.ProcessorConfig{
		MaxFileSize:      cfg.Document.MaxSize,
		MinContentLength: cfg.Document.MinContentLength,
		ChunkSize:        cfg.Chunking.ChunkSize,
		ChunkOverlap:     cfg.Chunking.ChunkOverlap,
		MinChunkLength:   cfg.Chunking.MinChunkLength,
		MaxChunkLength:   cfg.Chunking.MaxChunkLength,
	})
}

func buildCompleter(cfg *config.Config) (llm.Completer, error) {
	switch cfg.LLM.Provider {
	case "ollama":
		return llmollama.New(cfg.LLM.Model, llmollama.WithConfig(&llmollama.Config{
			Host:        cfg.LLM.BaseURL,
			Temperature: helpers.PtrOf(float32(cfg.LLM.Temperature)),
			MaxTokens:   helpers.PtrOf(cfg.LLM.MaxTokens),
		}))
	case "openai":
		return llmopenai.New(cfg.LLM.Model, llmopenai.WithConfig(&llmopenai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Temperature: helpers.PtrOf(float32(cfg.LLM.Temperature)),
			MaxTokens:   helpers.PtrOf(cfg.LLM.MaxTokens),
		}))
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

func buildSessionStore(cfg *config.Config) (session.Store, error) {
	switch cfg.Session.Store {
	case "memory":
		return session.NewMemoryStore(), nil
	case "badger":
		return session.NewBadgerStore(cfg.Session.Path)
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
}

func buildEngine(ctx context.Context, cfg *config.Config) (*answer.Engine, *retrieval.VectorIndex, session.Store, error) {
	index, err := buildIndex(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	completer, err := buildCompleter(cfg)
	if err != nil {
		index.Close()
		return nil, nil, nil, err
	}
	sessions, err := buildSessionStore(cfg)
	if err != nil {
		index.Close()
		return nil, nil, nil, err
	}

	reranker := retrieval.NewReranker(retrieval.RerankConfig{
		SemanticWeight: cfg.Retrieval.SemanticWeight,
		LexicalWeight:  cfg.Retrieval.LexicalWeight,
		LengthWeight:   cfg.Retrieval.LengthWeight,
		PositionWeight: cfg.Retrieval.PositionWeight,
		IdealLengthMin: cfg.Retrieval.IdealLengthMin,
		IdealLengthMax: cfg.Retrieval.IdealLengthMax,
	})

	engine := answer.New(index, reranker, completer, sessions, answer.Config{
		SystemPrompt:      cfg.Answer.SystemPrompt,
		MaxContextLength:  cfg.Retrieval.MaxContextLength,
		MaxPromptTokens:   cfg.Answer.MaxPromptTokens,
		HistoryWindow:     cfg.Answer.HistoryWindow,
		Streaming:         cfg.LLM.Streaming,
		GenerationTimeout: cfg.LLM.Timeout,
	})
	return engine, index, sessions, nil
}
