package document

import (
	"strings"
	"unicode/utf8"
)

// defaultSeparators orders split boundaries from coarse to fine. Paragraph
// and line breaks first, then CJK sentence enders, then clause marks, then
// spaces, then single characters as the last resort.
var defaultSeparators = []string{
	"\n\n",
	"\n",
	"。",
	"！",
	"？",
	"；",
	"，",
	" ",
	"",
}

// Splitter cuts text into overlapping chunks along natural boundaries.
//
// The splitter walks an ordered separator list and uses the first separator
// present in the text. Pieces still over the chunk size recurse into the
// remaining, finer separators. Lengths are measured in runes so CJK text is
// budgeted per character.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

// NewSplitter creates a splitter with the given chunk size and overlap in
// runes. Non-positive size falls back to 1000, negative overlap to 200.
func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if chunkOverlap < 0 {
		chunkOverlap = 200
	}
	return &Splitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		separators:   defaultSeparators,
	}
}

// ChunkSize returns the target chunk length in runes.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// ChunkOverlap returns the overlap carried between adjacent chunks.
func (s *Splitter) ChunkOverlap() int { return s.chunkOverlap }

// Split cuts text into chunks of at most the configured size, overlapping by
// the configured amount. Returns nil for empty input.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.splitRecursive(text, s.separators)
}

func (s *Splitter) splitRecursive(text string, separators []string) []string {
	finalChunks := make([]string, 0)

	// Pick the first separator present in the text. Empty string means
	// character-level splitting and always matches.
	separator := separators[len(separators)-1]
	var newSeparators []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			newSeparators = separators[i+1:]
			break
		}
	}

	var splits []string
	if separator == "" {
		splits = splitRunes(text, s.chunkSize)
	} else {
		splits = strings.Split(text, separator)
	}

	goodSplits := make([]string, 0)
	for _, split := range splits {
		if utf8.RuneCountInString(split) < s.chunkSize {
			goodSplits = append(goodSplits, split)
			continue
		}

		if len(goodSplits) > 0 {
			finalChunks = append(finalChunks, s.mergeSplits(goodSplits, separator)...)
			goodSplits = goodSplits[:0]
		}

		if len(newSeparators) == 0 {
			finalChunks = append(finalChunks, split)
		} else {
			finalChunks = append(finalChunks, s.splitRecursive(split, newSeparators)...)
		}
	}

	if len(goodSplits) > 0 {
		finalChunks = append(finalChunks, s.mergeSplits(goodSplits, separator)...)
	}

	return finalChunks
}

// mergeSplits accumulates splits into chunks within the size budget, carrying
// an overlap window from the end of each chunk into the next.
func (s *Splitter) mergeSplits(splits []string, separator string) []string {
	separatorLen := utf8.RuneCountInString(separator)

	docs := make([]string, 0)
	currentDoc := make([]string, 0)
	total := 0

	for _, split := range splits {
		length := utf8.RuneCountInString(split)

		if total+length+len(currentDoc)*separatorLen > s.chunkSize {
			if len(currentDoc) > 0 {
				if doc := joinSplits(currentDoc, separator); doc != "" {
					docs = append(docs, doc)
				}

				// Shrink the window until it fits within the overlap budget.
				for total > s.chunkOverlap || (total+length+len(currentDoc)*separatorLen > s.chunkSize && total > 0) {
					total -= utf8.RuneCountInString(currentDoc[0]) + separatorLen
					currentDoc = currentDoc[1:]
				}
			}
		}

		currentDoc = append(currentDoc, split)
		total += length + separatorLen
	}

	if len(currentDoc) > 0 {
		if doc := joinSplits(currentDoc, separator); doc != "" {
			docs = append(docs, doc)
		}
	}

	return docs
}

func joinSplits(parts []string, separator string) string {
	return strings.TrimSpace(strings.Join(parts, separator))
}

// splitRunes cuts text into size-rune pieces, the character-level fallback
// when no separator matches.
func splitRunes(text string, size int) []string {
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}
	parts := make([]string, 0, len(runes)/size+1)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[start:end]))
	}
	return parts
}
