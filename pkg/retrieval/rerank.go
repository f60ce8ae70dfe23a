package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"

	"github.com/ragline-ai/go-ragline/pkg/ragline"
)

// RerankConfig controls how the blended relevance score is computed.
// The four weights should sum to 1.0; Validate on the top-level config
// enforces that before a reranker is built.
type RerankConfig struct {
	// SemanticWeight scales the similarity score returned by the vector store.
	SemanticWeight float64

	// LexicalWeight scales the word-overlap score between query and chunk.
	LexicalWeight float64

	// LengthWeight scales the length penalty.
	LengthWeight float64

	// PositionWeight scales the bonus for chunks near the start of a document.
	PositionWeight float64

	// IdealLengthMin and IdealLengthMax bound the rune length range that
	// receives a full length score. Shorter or longer chunks are penalized
	// proportionally.
	IdealLengthMin int
	IdealLengthMax int
}

// DefaultRerankConfig returns the standard scoring weights.
func DefaultRerankConfig() RerankConfig {
	return RerankConfig{
		SemanticWeight: 0.7,
		LexicalWeight:  0.2,
		LengthWeight:   0.05,
		PositionWeight: 0.05,
		IdealLengthMin: 200,
		IdealLengthMax: 1000,
	}
}

// Reranker reorders search results by a blended score combining semantic
// similarity with lexical overlap, chunk length, and chunk position.
type Reranker struct {
	config RerankConfig
}

// NewReranker creates a reranker. Zero-valued weights are replaced with
// the defaults so an unconfigured reranker behaves like DefaultRerankConfig.
func NewReranker(config RerankConfig) *Reranker {
	if config.SemanticWeight == 0 && config.LexicalWeight == 0 &&
		config.LengthWeight == 0 && config.PositionWeight == 0 {
		config = DefaultRerankConfig()
	}
	if config.IdealLengthMin <= 0 {
		config.IdealLengthMin = 200
	}
	if config.IdealLengthMax <= config.IdealLengthMin {
		config.IdealLengthMax = 1000
	}
	return &Reranker{config: config}
}

// Rerank computes the blended score for each result and sorts descending.
//
// Input: the original query text and the scored chunks from the vector store
// Output: the same slice, component scores and FinalScore filled in, stably
// sorted by FinalScore
// Behavior: scoring never fails; a lexical comparison error on one chunk
// downgrades that chunk's lexical score to zero and is logged
func (r *Reranker) Rerank(ctx context.Context, query string, results []ScoredChunk) []ScoredChunk {
	for i := range results {
		content := results[i].Chunk.Content

		lexical, err := lexicalSimilarity(query, content)
		if err != nil {
			ragline.LogWarn(ctx, "lexical similarity failed", "chunk_id", results[i].Chunk.Metadata.ChunkID, "error", err)
			lexical = 0
		}

		results[i].LexicalScore = lexical
		results[i].LengthPenalty = r.lengthPenalty(content)
		results[i].PositionBonus = positionBonus(results[i].Chunk.Metadata.ChunkIndex)

		results[i].FinalScore = float64(results[i].Score)*r.config.SemanticWeight +
			results[i].LexicalScore*r.config.LexicalWeight +
			results[i].LengthPenalty*r.config.LengthWeight +
			results[i].PositionBonus*r.config.PositionWeight
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})
	return results
}

// lexicalSimilarity measures word-level Jaccard overlap on lowercased text.
func lexicalSimilarity(query, content string) (similarity float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lexical comparison panicked: %v", r)
		}
	}()
	score := edlib.JaccardSimilarity(strings.ToLower(query), strings.ToLower(content), 0)
	return float64(score), nil
}

// lengthPenalty returns 1.0 inside the ideal range and decays proportionally
// outside it.
func (r *Reranker) lengthPenalty(content string) float64 {
	length := utf8.RuneCountInString(content)
	switch {
	case length >= r.config.IdealLengthMin && length <= r.config.IdealLengthMax:
		return 1.0
	case length < r.config.IdealLengthMin:
		return float64(length) / float64(r.config.IdealLengthMin)
	default:
		return float64(r.config.IdealLengthMax) / float64(length)
	}
}

// positionBonus rewards chunks near the start of their source document.
func positionBonus(chunkIndex int) float64 {
	switch {
	case chunkIndex == 0:
		return 1.0
	case chunkIndex <= 2:
		return 0.8
	case chunkIndex <= 5:
		return 0.6
	default:
		return 0.4
	}
}
