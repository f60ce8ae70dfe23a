// Package document turns source files into cleaned, chunked text ready for
// embedding and indexing.
//
// Extraction is format specific (PDF, Word, plain text, markdown, QA-pair
// JSONL) and registered per file kind on the Processor. Extracted text is
// cleaned, split with a layered-separator splitter, and annotated with
// metadata tying every chunk back to its source file and position.
package document

import "strings"

// Kind identifies a supported document format.
type Kind string

// Supported document kinds.
const (
	KindPDF      Kind = "pdf"
	KindDocx     Kind = "docx"
	KindText     Kind = "text"
	KindMarkdown Kind = "markdown"
	KindQAPairs  Kind = "qa_pairs"
)

// KindForExtension maps a file extension (with leading dot, any case) to its
// document kind. Returns false for unsupported extensions.
func KindForExtension(ext string) (Kind, bool) {
	switch strings.ToLower(ext) {
	case ".pdf":
		return KindPDF, true
	case ".docx":
		return KindDocx, true
	case ".txt":
		return KindText, true
	case ".md":
		return KindMarkdown, true
	case ".jsonl":
		return KindQAPairs, true
	default:
		return "", false
	}
}

// Metadata ties a chunk back to its source file and position.
type Metadata struct {
	// Source is the absolute or caller-supplied path of the source file.
	Source string `json:"source"`
	// Filename is the base name of the source file.
	Filename string `json:"filename"`
	// ChunkID is the chunk's position, or "{parent}_{sub}" for re-split chunks.
	ChunkID string `json:"chunk_id"`
	// ChunkIndex is the ordinal of the chunk within its document.
	ChunkIndex int `json:"chunk_index"`
	// TotalChunks is the document's chunk count at split time.
	TotalChunks int `json:"total_chunks"`
	// FileType is the document kind the source file was extracted as.
	FileType string `json:"file_type"`
	// SubChunk marks chunks produced by the oversize re-split pass.
	SubChunk bool `json:"sub_chunk,omitempty"`
}

// Chunk is one unit of indexed text.
type Chunk struct {
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// Info is a summary of a source file, used before ingestion.
type Info struct {
	Path      string `json:"path"`
	Filename  string `json:"filename"`
	Extension string `json:"extension"`
	SizeBytes int64  `json:"size_bytes"`
	Supported bool   `json:"supported"`
}
