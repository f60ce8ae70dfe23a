package document

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ragline-ai/go-ragline/pkg/ragline"
)

const sampleText = "高血压是一种常见的慢性疾病，患者需要长期坚持规律服药，并定期监测血压变化。" +
	"饮食方面应当减少钠盐摄入，保持适度运动，戒烟限酒，控制体重在正常范围内。"

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProcessor_Process(t *testing.T) {
	path := writeTempFile(t, "guide.txt", sampleText)

	p := NewProcessor(ProcessorConfig{})
	chunks, err := p.Process(context.Background(), path)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("Process() returned no chunks")
	}

	meta := chunks[0].Metadata
	if meta.Source != path {
		t.Errorf("Source = %q, want %q", meta.Source, path)
	}
	if meta.Filename != "guide.txt" {
		t.Errorf("Filename = %q, want guide.txt", meta.Filename)
	}
	if meta.FileType != string(KindText) {
		t.Errorf("FileType = %q, want text", meta.FileType)
	}
	if meta.ChunkIndex != 0 || meta.ChunkID != "0" {
		t.Errorf("ChunkIndex/ChunkID = %d/%q, want 0/0", meta.ChunkIndex, meta.ChunkID)
	}
	if meta.TotalChunks != len(chunks) {
		t.Errorf("TotalChunks = %d, want %d", meta.TotalChunks, len(chunks))
	}
}

func TestProcessor_Process_NotFound(t *testing.T) {
	p := NewProcessor(ProcessorConfig{})
	_, err := p.Process(context.Background(), "/nonexistent/file.txt")

	if !errors.Is(err, ragline.ErrNotFound) {
		t.Errorf("Process() error = %v, want ErrNotFound", err)
	}
}

func TestProcessor_Process_TooLarge(t *testing.T) {
	path := writeTempFile(t, "big.txt", sampleText)

	p := NewProcessor(ProcessorConfig{MaxFileSize: 10})
	_, err := p.Process(context.Background(), path)

	if !errors.Is(err, ragline.ErrTooLarge) {
		t.Errorf("Process() error = %v, want ErrTooLarge", err)
	}
}

func TestProcessor_Process_UnsupportedFormat(t *testing.T) {
	path := writeTempFile(t, "binary.exe", sampleText)

	p := NewProcessor(ProcessorConfig{})
	_, err := p.Process(context.Background(), path)

	if !errors.Is(err, ragline.ErrUnsupportedFormat) {
		t.Errorf("Process() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestProcessor_Process_KindDisabled(t *testing.T) {
	path := writeTempFile(t, "guide.txt", sampleText)

	p := NewProcessor(ProcessorConfig{SupportedKinds: []Kind{KindPDF}})
	_, err := p.Process(context.Background(), path)

	if !errors.Is(err, ragline.ErrUnsupportedFormat) {
		t.Errorf("Process() error = %v, want ErrUnsupportedFormat for disabled kind", err)
	}
}

func TestProcessor_Process_ContentTooShort(t *testing.T) {
	path := writeTempFile(t, "short.txt", "太短")

	p := NewProcessor(ProcessorConfig{})
	_, err := p.Process(context.Background(), path)

	if !errors.Is(err, ragline.ErrContent) {
		t.Errorf("Process() error = %v, want ErrContent", err)
	}
}

func TestProcessor_Register(t *testing.T) {
	path := writeTempFile(t, "notes.md", "ignored")

	p := NewProcessor(ProcessorConfig{})
	p.Register(KindMarkdown, func(ctx context.Context, path string) (string, error) {
		return strings.Repeat(sampleText, 2), nil
	})

	chunks, err := p.Process(context.Background(), path)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("Process() with custom extractor returned no chunks")
	}
}

func TestProcessor_ProcessDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "good.txt"), []byte(sampleText), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.txt"), []byte("太短"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ignored.bin"), []byte("binary"), 0o644); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "more.txt"), []byte(sampleText), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewProcessor(ProcessorConfig{})
	chunks, stats, err := p.ProcessDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("ProcessDirectory() error = %v", err)
	}

	if stats.ProcessedFiles != 2 {
		t.Errorf("ProcessedFiles = %d, want 2", stats.ProcessedFiles)
	}
	if stats.SkippedFiles != 1 {
		t.Errorf("SkippedFiles = %d, want 1", stats.SkippedFiles)
	}
	if stats.Chunks != len(chunks) {
		t.Errorf("Chunks = %d, want %d", stats.Chunks, len(chunks))
	}
	if len(chunks) == 0 {
		t.Error("ProcessDirectory() returned no chunks")
	}
}

func TestProcessor_ProcessDirectory_NotFound(t *testing.T) {
	p := NewProcessor(ProcessorConfig{})
	_, _, err := p.ProcessDirectory(context.Background(), "/nonexistent/dir")

	if !errors.Is(err, ragline.ErrNotFound) {
		t.Errorf("ProcessDirectory() error = %v, want ErrNotFound", err)
	}
}

func TestProcessor_Validate_DropsShort(t *testing.T) {
	p := NewProcessor(ProcessorConfig{})
	chunks := []Chunk{
		{Content: "短", Metadata: Metadata{ChunkID: "0"}},
		{Content: sampleText, Metadata: Metadata{ChunkID: "1"}},
	}

	valid := p.Validate(context.Background(), chunks)
	if len(valid) != 1 {
		t.Fatalf("Validate() len = %d, want 1", len(valid))
	}
	if valid[0].Metadata.ChunkID != "1" {
		t.Errorf("Validate() kept chunk %q, want 1", valid[0].Metadata.ChunkID)
	}
}

func TestProcessor_Validate_ResplitsOversize(t *testing.T) {
	oversize := strings.Repeat("高血压患者需要长期坚持规律服药，并定期监测血压变化。", 250)

	p := NewProcessor(ProcessorConfig{})
	chunks := []Chunk{{
		Content:  oversize,
		Metadata: Metadata{Source: "/data/guide.txt", Filename: "guide.txt", ChunkID: "3", ChunkIndex: 3},
	}}

	valid := p.Validate(context.Background(), chunks)
	if len(valid) < 2 {
		t.Fatalf("Validate() len = %d, want several sub-chunks", len(valid))
	}

	for i, c := range valid {
		if utf8.RuneCountInString(c.Content) > 5000 {
			t.Errorf("sub-chunk %d still over max length", i)
		}
		if !c.Metadata.SubChunk {
			t.Errorf("sub-chunk %d not marked SubChunk", i)
		}
		if !strings.HasPrefix(c.Metadata.ChunkID, "3_") {
			t.Errorf("sub-chunk %d ChunkID = %q, want 3_N", i, c.Metadata.ChunkID)
		}
		if c.Metadata.Filename != "guide.txt" {
			t.Errorf("sub-chunk %d lost parent metadata", i)
		}
	}
}

func TestProcessor_Validate_KeepsNormal(t *testing.T) {
	p := NewProcessor(ProcessorConfig{})
	chunks := []Chunk{{Content: sampleText, Metadata: Metadata{ChunkID: "0"}}}

	valid := p.Validate(context.Background(), chunks)
	if len(valid) != 1 || valid[0].Metadata.SubChunk {
		t.Errorf("Validate() = %+v, want unchanged chunk", valid)
	}
}

func TestProcessor_DocumentInfo(t *testing.T) {
	path := writeTempFile(t, "guide.PDF", "%PDF-1.4")

	p := NewProcessor(ProcessorConfig{})
	info, err := p.DocumentInfo(path)
	if err != nil {
		t.Fatalf("DocumentInfo() error = %v", err)
	}

	if info.Filename != "guide.PDF" {
		t.Errorf("Filename = %q, want guide.PDF", info.Filename)
	}
	if info.Extension != ".pdf" {
		t.Errorf("Extension = %q, want .pdf", info.Extension)
	}
	if !info.Supported {
		t.Error("Supported = false, want true for pdf")
	}
	if info.SizeBytes != 8 {
		t.Errorf("SizeBytes = %d, want 8", info.SizeBytes)
	}
}

func TestKindForExtension(t *testing.T) {
	tests := []struct {
		ext       string
		kind      Kind
		supported bool
	}{
		{".pdf", KindPDF, true},
		{".PDF", KindPDF, true},
		{".docx", KindDocx, true},
		{".txt", KindText, true},
		{".md", KindMarkdown, true},
		{".jsonl", KindQAPairs, true},
		{".exe", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		kind, ok := KindForExtension(tt.ext)
		if kind != tt.kind || ok != tt.supported {
			t.Errorf("KindForExtension(%q) = %q, %v, want %q, %v", tt.ext, kind, ok, tt.kind, tt.supported)
		}
	}
}
