// Package config holds the tunable settings for the ingestion, retrieval and
// answer pipelines.
//
// Settings resolve in three layers: compiled defaults, an optional YAML file,
// then environment variables. A .env file in the working directory is loaded
// into the environment first when present.
package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/ragline-ai/go-ragline/pkg/helpers"
)

// DefaultSystemPrompt is the answer instruction template. {context} and
// {question} are replaced at prompt build time.
const DefaultSystemPrompt = `你是一个专业的知识问答助手。请基于以下提供的上下文信息回答用户的问题。

回答要求：
1. 仅基于提供的上下文信息回答，不要编造信息
2. 如果上下文中没有相关信息，请明确说明"根据提供的资料无法回答该问题"
3. 回答要准确、简洁、有条理
4. 可以适当引用上下文中的原文

上下文信息：
{context}

用户问题：{question}

回答：`

// Chunking holds document splitting settings.
type Chunking struct {
	// ChunkSize is the target chunk length in runes.
	ChunkSize int `yaml:"chunk_size"`
	// ChunkOverlap is the rune overlap carried between adjacent chunks.
	ChunkOverlap int `yaml:"chunk_overlap"`
	// MinChunkLength drops chunks shorter than this after trimming.
	MinChunkLength int `yaml:"min_chunk_length"`
	// MaxChunkLength forces a re-split pass on chunks longer than this.
	MaxChunkLength int `yaml:"max_chunk_length"`
}

// Document holds ingestion settings.
type Document struct {
	// MaxSize is the per-file size limit in bytes.
	MaxSize int64 `yaml:"max_size"`
	// MinContentLength fails extraction when trimmed text is shorter.
	MinContentLength int `yaml:"min_content_length"`
}

// Embedding holds embedding provider settings.
type Embedding struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	// Dimension is the vector size produced by the model.
	Dimension int `yaml:"dimension"`
	// BatchSize caps texts per provider call.
	BatchSize int           `yaml:"batch_size"`
	Timeout   time.Duration `yaml:"timeout"`
}

// Index holds vector store settings.
type Index struct {
	Backend    string `yaml:"backend"`
	Collection string `yaml:"collection"`
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	APIKey     string `yaml:"api_key"`
	// DatabaseURL is the pgvector connection string when Backend is "pgvector".
	DatabaseURL string `yaml:"database_url"`
	// InsertBatchSize caps chunks per upsert call.
	InsertBatchSize int           `yaml:"insert_batch_size"`
	Timeout         time.Duration `yaml:"timeout"`
}

// Retrieval holds search and reranking settings.
type Retrieval struct {
	TopK                int     `yaml:"top_k"`
	SimilarityThreshold float32 `yaml:"similarity_threshold"`
	// MaxContextLength is the packed context budget in runes.
	MaxContextLength int `yaml:"max_context_length"`

	// Blended rerank weights. They should sum to 1.
	SemanticWeight float64 `yaml:"semantic_weight"`
	LexicalWeight  float64 `yaml:"lexical_weight"`
	LengthWeight   float64 `yaml:"length_weight"`
	PositionWeight float64 `yaml:"position_weight"`

	// Ideal chunk length range for the length penalty.
	IdealLengthMin int `yaml:"ideal_length_min"`
	IdealLengthMax int `yaml:"ideal_length_max"`
}

// LLM holds chat completion settings.
type LLM struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	Streaming   bool    `yaml:"streaming"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Answer holds prompt assembly settings.
type Answer struct {
	// SystemPrompt is the instruction template with {context} and {question} slots.
	SystemPrompt string `yaml:"system_prompt"`
	// MaxPromptTokens is the approximate token budget for the final prompt.
	MaxPromptTokens int `yaml:"max_prompt_tokens"`
	// HistoryWindow is the number of recent turns included in the prompt.
	HistoryWindow int `yaml:"history_window"`
}

// Session holds conversation store settings.
type Session struct {
	// Store selects the backend: "memory" or "badger".
	Store string `yaml:"store"`
	// Path is the badger database directory when Store is "badger".
	Path string `yaml:"path"`
}

// Config is the root settings object.
type Config struct {
	Chunking  Chunking  `yaml:"chunking"`
	Document  Document  `yaml:"document"`
	Embedding Embedding `yaml:"embedding"`
	Index     Index     `yaml:"index"`
	Retrieval Retrieval `yaml:"retrieval"`
	LLM       LLM       `yaml:"llm"`
	Answer    Answer    `yaml:"answer"`
	Session   Session   `yaml:"session"`
}

// Default returns the compiled-in defaults.
func Default() *Config {
	return &Config{
		Chunking: Chunking{
			ChunkSize:      1000,
			ChunkOverlap:   200,
			MinChunkLength: 20,
			MaxChunkLength: 5000,
		},
		Document: Document{
			MaxSize:          10_000_000,
			MinContentLength: 50,
		},
		Embedding: Embedding{
			Provider:  "openai",
			Model:     "BAAI/bge-large-zh-v1.5",
			Dimension: 1024,
			BatchSize: 32,
			Timeout:   30 * time.Second,
		},
		Index: Index{
			Backend:         "qdrant",
			Collection:      "documents",
			Host:            "localhost",
			Port:            6334,
			InsertBatchSize: 100,
			Timeout:         30 * time.Second,
		},
		Retrieval: Retrieval{
			TopK:                5,
			SimilarityThreshold: 0.7,
			MaxContextLength:    4000,
			SemanticWeight:      0.7,
			LexicalWeight:       0.2,
			LengthWeight:        0.05,
			PositionWeight:      0.05,
			IdealLengthMin:      200,
			IdealLengthMax:      1000,
		},
		LLM: LLM{
			Provider:    "openai",
			Model:       "deepseek-ai/DeepSeek-R1",
			Temperature: 0.1,
			MaxTokens:   2000,
			Streaming:   false,
			Timeout:     60 * time.Second,
		},
		Answer: Answer{
			SystemPrompt:    DefaultSystemPrompt,
			MaxPromptTokens: 6000,
			HistoryWindow:   3,
		},
		Session: Session{
			Store: "memory",
			Path:  "./data/sessions",
		},
	}
}

// Load resolves configuration from defaults, an optional YAML file and the
// environment. A .env file is loaded first when present; a missing .env is
// not an error. Pass an empty path to skip the YAML layer.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyEnv overrides settings from environment variables.
func (c *Config) applyEnv() {
	c.Chunking.ChunkSize = helpers.GetIntFromEnv("CHUNK_SIZE", c.Chunking.ChunkSize)
	c.Chunking.ChunkOverlap = helpers.GetIntFromEnv("CHUNK_OVERLAP", c.Chunking.ChunkOverlap)
	c.Document.MaxSize = helpers.GetInt64FromEnv("MAX_DOCUMENT_SIZE", c.Document.MaxSize)

	c.Embedding.Provider = helpers.GetStringFromEnv("EMBEDDING_PROVIDER", c.Embedding.Provider)
	c.Embedding.Model = helpers.GetStringFromEnv("EMBEDDING_MODEL", c.Embedding.Model)
	c.Embedding.Dimension = helpers.GetIntFromEnv("VECTOR_DIMENSION", c.Embedding.Dimension)
	c.Embedding.BatchSize = helpers.GetIntFromEnv("EMBEDDING_BATCH_SIZE", c.Embedding.BatchSize)
	c.Embedding.Timeout = helpers.GetDurationFromEnv("EMBEDDING_TIMEOUT", c.Embedding.Timeout)

	c.Index.Backend = helpers.GetStringFromEnv("INDEX_BACKEND", c.Index.Backend)
	c.Index.Collection = helpers.GetStringFromEnv("COLLECTION_NAME", c.Index.Collection)
	c.Index.Host = helpers.GetStringFromEnv("QDRANT_HOST", c.Index.Host)
	c.Index.Port = helpers.GetIntFromEnv("QDRANT_PORT", c.Index.Port)
	c.Index.APIKey = helpers.GetStringFromEnv("QDRANT_API_KEY", c.Index.APIKey)
	c.Index.DatabaseURL = helpers.GetStringFromEnv("DATABASE_URL", c.Index.DatabaseURL)
	c.Index.Timeout = helpers.GetDurationFromEnv("INDEX_TIMEOUT", c.Index.Timeout)

	c.Retrieval.TopK = helpers.GetIntFromEnv("TOP_K", c.Retrieval.TopK)
	c.Retrieval.SimilarityThreshold = float32(helpers.GetFloatFromEnv("SIMILARITY_THRESHOLD", float64(c.Retrieval.SimilarityThreshold)))
	c.Retrieval.MaxContextLength = helpers.GetIntFromEnv("MAX_CONTEXT_LENGTH", c.Retrieval.MaxContextLength)
	c.Retrieval.SemanticWeight = helpers.GetFloatFromEnv("RERANK_SEMANTIC_WEIGHT", c.Retrieval.SemanticWeight)
	c.Retrieval.LexicalWeight = helpers.GetFloatFromEnv("RERANK_LEXICAL_WEIGHT", c.Retrieval.LexicalWeight)
	c.Retrieval.LengthWeight = helpers.GetFloatFromEnv("RERANK_LENGTH_WEIGHT", c.Retrieval.LengthWeight)
	c.Retrieval.PositionWeight = helpers.GetFloatFromEnv("RERANK_POSITION_WEIGHT", c.Retrieval.PositionWeight)
	c.Retrieval.IdealLengthMin = helpers.GetIntFromEnv("RERANK_IDEAL_LENGTH_MIN", c.Retrieval.IdealLengthMin)
	c.Retrieval.IdealLengthMax = helpers.GetIntFromEnv("RERANK_IDEAL_LENGTH_MAX", c.Retrieval.IdealLengthMax)

	c.LLM.Provider = helpers.GetStringFromEnv("LLM_PROVIDER", c.LLM.Provider)
	c.LLM.Model = helpers.GetStringFromEnv("LLM_MODEL", c.LLM.Model)
	c.LLM.BaseURL = helpers.GetStringFromEnv("LLM_BASE_URL", c.LLM.BaseURL)
	c.LLM.APIKey = helpers.GetStringFromEnv("LLM_API_KEY", c.LLM.APIKey)
	c.LLM.Temperature = helpers.GetFloatFromEnv("LLM_TEMPERATURE", c.LLM.Temperature)
	c.LLM.MaxTokens = helpers.GetIntFromEnv("LLM_MAX_TOKENS", c.LLM.MaxTokens)
	c.LLM.Streaming = helpers.GetBoolFromEnv("LLM_STREAMING", c.LLM.Streaming)
	c.LLM.Timeout = helpers.GetDurationFromEnv("LLM_TIMEOUT", c.LLM.Timeout)

	c.Answer.MaxPromptTokens = helpers.GetIntFromEnv("MAX_PROMPT_TOKENS", c.Answer.MaxPromptTokens)
	c.Answer.HistoryWindow = helpers.GetIntFromEnv("HISTORY_WINDOW", c.Answer.HistoryWindow)

	c.Session.Store = helpers.GetStringFromEnv("SESSION_STORE", c.Session.Store)
	c.Session.Path = helpers.GetStringFromEnv("SESSION_PATH", c.Session.Path)
}

// Validate reports obviously unusable settings.
func (c *Config) Validate() error {
	if c.Chunking.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.Chunking.ChunkSize)
	}
	if c.Chunking.ChunkOverlap >= c.Chunking.ChunkSize {
		return fmt.Errorf("chunk_overlap %d must be smaller than chunk_size %d", c.Chunking.ChunkOverlap, c.Chunking.ChunkSize)
	}
	if c.Embedding.Dimension <= 0 {
		return fmt.Errorf("vector dimension must be positive, got %d", c.Embedding.Dimension)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", c.Retrieval.TopK)
	}
	if c.Retrieval.SimilarityThreshold < 0 || c.Retrieval.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity_threshold must be in [0,1], got %f", c.Retrieval.SimilarityThreshold)
	}
	if c.Retrieval.IdealLengthMin > c.Retrieval.IdealLengthMax {
		return fmt.Errorf("ideal length range inverted: [%d,%d]", c.Retrieval.IdealLengthMin, c.Retrieval.IdealLengthMax)
	}
	weightSum := c.Retrieval.SemanticWeight + c.Retrieval.LexicalWeight +
		c.Retrieval.LengthWeight + c.Retrieval.PositionWeight
	if math.Abs(weightSum-1.0) > 1e-6 {
		return fmt.Errorf("rerank weights must sum to 1.0, got %.3f", weightSum)
	}
	return nil
}
