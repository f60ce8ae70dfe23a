package document

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ragline-ai/go-ragline/pkg/ragline"
)

// ExtractFunc extracts raw text from a source file.
type ExtractFunc func(ctx context.Context, path string) (string, error)

// ProcessorConfig tunes validation and chunking. Zero values fall back to
// the historical defaults.
type ProcessorConfig struct {
	// MaxFileSize rejects larger files in bytes. Default 10MB.
	MaxFileSize int64
	// MinContentLength fails extraction below this many runes. Default 50.
	MinContentLength int
	// ChunkSize is the target chunk length in runes. Default 1000.
	ChunkSize int
	// ChunkOverlap is the overlap between adjacent chunks. Default 200.
	ChunkOverlap int
	// MinChunkLength drops shorter chunks after trimming. Default 20.
	MinChunkLength int
	// MaxChunkLength re-splits longer chunks during validation. Default 5000.
	MaxChunkLength int
	// SupportedKinds restricts processing to these kinds. Empty means every
	// registered kind.
	SupportedKinds []Kind
}

// Processor validates, extracts, cleans and chunks source documents.
//
// Extraction is dispatched through a kind-keyed registry; the default
// registry covers PDF, Word, plain text, markdown and QA-pair JSONL.
// Register replaces or adds extractors for custom formats.
type Processor struct {
	cfg        ProcessorConfig
	splitter   *Splitter
	extractors map[Kind]ExtractFunc
	allowed    map[Kind]bool
}

// NewProcessor creates a processor with the default extractor registry.
func NewProcessor(cfg ProcessorConfig) *Processor {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 10_000_000
	}
	if cfg.MinContentLength <= 0 {
		cfg.MinContentLength = 50
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1000
	}
	if cfg.ChunkOverlap <= 0 {
		cfg.ChunkOverlap = 200
	}
	if cfg.MinChunkLength <= 0 {
		cfg.MinChunkLength = 20
	}
	if cfg.MaxChunkLength <= 0 {
		cfg.MaxChunkLength = 5000
	}

	p := &Processor{
		cfg:      cfg,
		splitter: NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap),
		extractors: map[Kind]ExtractFunc{
			KindPDF:      ExtractPDF,
			KindDocx:     ExtractDocx,
			KindText:     ExtractText,
			KindMarkdown: ExtractText,
			KindQAPairs:  ExtractQAPairs,
		},
	}
	if len(cfg.SupportedKinds) > 0 {
		p.allowed = make(map[Kind]bool, len(cfg.SupportedKinds))
		for _, k := range cfg.SupportedKinds {
			p.allowed[k] = true
		}
	}
	return p
}

// Register adds or replaces the extractor for a kind.
func (p *Processor) Register(kind Kind, fn ExtractFunc) {
	p.extractors[kind] = fn
}

// kindFor resolves the document kind for a path, honoring the allow-list.
func (p *Processor) kindFor(path string) (Kind, error) {
	ext := filepath.Ext(path)
	kind, ok := KindForExtension(ext)
	if !ok {
		return "", fmt.Errorf("%w: %s", ragline.ErrUnsupportedFormat, ext)
	}
	if p.allowed != nil && !p.allowed[kind] {
		return "", fmt.Errorf("%w: %s disabled", ragline.ErrUnsupportedFormat, kind)
	}
	if _, ok := p.extractors[kind]; !ok {
		return "", fmt.Errorf("%w: no extractor for %s", ragline.ErrUnsupportedFormat, kind)
	}
	return kind, nil
}

// Process validates, extracts, cleans and chunks a single document.
//
// Validation order: existence, size, format, extraction, minimum content
// length. Chunks shorter than the minimum after trimming are dropped;
// surviving chunks carry source metadata with their original split ordinal.
func (p *Processor) Process(ctx context.Context, path string) ([]Chunk, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ragline.ErrNotFound, path)
	}
	if stat.Size() > p.cfg.MaxFileSize {
		return nil, fmt.Errorf("%w: %s is %d bytes (limit %d)", ragline.ErrTooLarge, path, stat.Size(), p.cfg.MaxFileSize)
	}

	kind, err := p.kindFor(path)
	if err != nil {
		return nil, err
	}

	text, err := p.extractors[kind](ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	if utf8.RuneCountInString(strings.TrimSpace(text)) < p.cfg.MinContentLength {
		return nil, fmt.Errorf("%w: %s content too short or empty", ragline.ErrContent, path)
	}

	text = Clean(text)
	pieces := p.splitter.Split(text)

	filename := filepath.Base(path)
	chunks := make([]Chunk, 0, len(pieces))
	for i, piece := range pieces {
		if utf8.RuneCountInString(strings.TrimSpace(piece)) < p.cfg.MinChunkLength {
			continue
		}
		chunks = append(chunks, Chunk{
			Content: piece,
			Metadata: Metadata{
				Source:      path,
				Filename:    filename,
				ChunkID:     fmt.Sprintf("%d", i),
				ChunkIndex:  i,
				TotalChunks: len(pieces),
				FileType:    string(kind),
			},
		})
	}

	ragline.LogInfo(ctx, "document processed", "filename", filename, "chunks", len(chunks))
	return chunks, nil
}

// DirectoryStats summarizes a directory ingestion run.
type DirectoryStats struct {
	ProcessedFiles int
	SkippedFiles   int
	Chunks         int
}

// ProcessDirectory walks a directory tree and processes every supported
// file. Files that fail are logged and skipped so one bad document does not
// abort the run.
func (p *Processor) ProcessDirectory(ctx context.Context, dir string) ([]Chunk, DirectoryStats, error) {
	var stats DirectoryStats

	if _, err := os.Stat(dir); err != nil {
		return nil, stats, fmt.Errorf("%w: %s", ragline.ErrNotFound, dir)
	}

	var all []Chunk
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := KindForExtension(filepath.Ext(path)); !ok {
			return nil
		}

		chunks, err := p.Process(ctx, path)
		if err != nil {
			ragline.LogWarn(ctx, "skipping file", "path", path, "error", err)
			stats.SkippedFiles++
			return nil
		}
		all = append(all, chunks...)
		stats.ProcessedFiles++
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("walk directory %s: %w", dir, err)
	}

	stats.Chunks = len(all)
	ragline.LogInfo(ctx, "directory processed", "dir", dir, "files", stats.ProcessedFiles, "skipped", stats.SkippedFiles, "chunks", stats.Chunks)
	return all, stats, nil
}

// Validate enforces chunk quality before indexing.
//
// Chunks under the minimum length are dropped. Chunks over the maximum are
// re-split; the sub-chunks inherit the parent metadata, get a composite
// "{parent}_{sub}" chunk ID and are marked as sub-chunks.
func (p *Processor) Validate(ctx context.Context, chunks []Chunk) []Chunk {
	valid := make([]Chunk, 0, len(chunks))

	for _, chunk := range chunks {
		content := strings.TrimSpace(chunk.Content)
		length := utf8.RuneCountInString(content)

		switch {
		case length < p.cfg.MinChunkLength:
			continue
		case length > p.cfg.MaxChunkLength:
			for i, sub := range p.splitter.Split(content) {
				if utf8.RuneCountInString(strings.TrimSpace(sub)) < p.cfg.MinChunkLength {
					continue
				}
				meta := chunk.Metadata
				meta.ChunkID = fmt.Sprintf("%s_%d", chunk.Metadata.ChunkID, i)
				meta.SubChunk = true
				valid = append(valid, Chunk{Content: sub, Metadata: meta})
			}
		default:
			valid = append(valid, chunk)
		}
	}

	ragline.LogInfo(ctx, "chunk validation complete", "valid", len(valid), "input", len(chunks))
	return valid
}

// DocumentInfo returns a summary of a source file without processing it.
func (p *Processor) DocumentInfo(path string) (Info, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %s", ragline.ErrNotFound, path)
	}

	ext := filepath.Ext(path)
	_, supported := KindForExtension(ext)
	return Info{
		Path:      path,
		Filename:  filepath.Base(path),
		Extension: strings.ToLower(ext),
		SizeBytes: stat.Size(),
		Supported: supported,
	}, nil
}
