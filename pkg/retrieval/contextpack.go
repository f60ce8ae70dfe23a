package retrieval

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ragline-ai/go-ragline/pkg/helpers"
)

// NoContextSentinel is returned by BuildContext when no chunk passed the
// similarity threshold. The answer engine passes it to the model verbatim
// so the prompt states explicitly that nothing relevant was found.
const NoContextSentinel = "没有找到相关文档。"

// SourceRef describes one retrieved chunk for display alongside an answer.
type SourceRef struct {
	Filename       string  `json:"filename"`
	Source         string  `json:"source"`
	ChunkIndex     int     `json:"chunk_index"`
	Score          float64 `json:"score"`
	ContentPreview string  `json:"content_preview"`
}

// BuildContext assembles reranked chunks into a single prompt context block.
//
// Input: scored chunks ordered best-first, and a rune budget
// Output: numbered document blocks separated by blank lines
// Behavior: chunks are appended until the next block would exceed the budget.
// If even the first block is over budget its content is truncated instead of
// dropped, so the model always sees at least one document when any matched.
func BuildContext(results []ScoredChunk, maxLength int) string {
	if len(results) == 0 {
		return NoContextSentinel
	}
	if maxLength <= 0 {
		maxLength = 4000
	}

	var parts []string
	current := 0
	for i, result := range results {
		content := result.Chunk.Content
		filename := result.Chunk.Metadata.Filename
		score := result.FinalScore
		if score == 0 {
			score = float64(result.Score)
		}

		block := fmt.Sprintf("[文档%d: %s (相关度: %.3f)]\n%s\n", i+1, filename, score, content)
		blockLen := utf8.RuneCountInString(block)

		if current+blockLen > maxLength {
			if current == 0 {
				header := fmt.Sprintf("[文档1: %s (相关度: %.3f)]\n\n", filename, score)
				available := maxLength - utf8.RuneCountInString(header)
				if available < 0 {
					available = 0
				}
				truncated := helpers.TruncateRunes(content, available)
				parts = append(parts, fmt.Sprintf("[文档1: %s (相关度: %.3f)]\n%s\n", filename, score, truncated))
			}
			break
		}

		parts = append(parts, block)
		current += blockLen
	}

	return strings.Join(parts, "\n")
}

// SourceRefs converts scored chunks to display references with a short
// content preview.
func SourceRefs(results []ScoredChunk) []SourceRef {
	refs := make([]SourceRef, 0, len(results))
	for _, result := range results {
		score := result.FinalScore
		if score == 0 {
			score = float64(result.Score)
		}
		refs = append(refs, SourceRef{
			Filename:       result.Chunk.Metadata.Filename,
			Source:         result.Chunk.Metadata.Source,
			ChunkIndex:     result.Chunk.Metadata.ChunkIndex,
			Score:          score,
			ContentPreview: helpers.TruncateRunes(result.Chunk.Content, 200),
		})
	}
	return refs
}
