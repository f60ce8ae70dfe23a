package document

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestDocx(t *testing.T, documentXML string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.docx")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

const docxBody = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>第一段的内容在这里。</w:t></w:r></w:p>
    <w:p><w:r><w:t>第二段</w:t></w:r><w:r><w:t>分在两个run里。</w:t></w:r></w:p>
    <w:p><w:r><w:t xml:space="preserve"> </w:t></w:r></w:p>
    <w:tbl>
      <w:tr>
        <w:tc><w:p><w:r><w:t>药品名称</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>每日剂量</w:t></w:r></w:p></w:tc>
      </w:tr>
      <w:tr>
        <w:tc><w:p><w:r><w:t>氨氯地平</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>5mg</w:t></w:r></w:p></w:tc>
      </w:tr>
    </w:tbl>
  </w:body>
</w:document>`

func TestExtractDocx(t *testing.T) {
	path := writeTestDocx(t, docxBody)

	text, err := ExtractDocx(context.Background(), path)
	if err != nil {
		t.Fatalf("ExtractDocx() error = %v", err)
	}

	if !strings.Contains(text, "第一段的内容在这里。\n") {
		t.Errorf("text = %q, want first paragraph", text)
	}
	if !strings.Contains(text, "第二段分在两个run里。") {
		t.Errorf("text = %q, want runs concatenated", text)
	}
	if !strings.Contains(text, "药品名称\t每日剂量") {
		t.Errorf("text = %q, want tab-joined table row", text)
	}
	if !strings.Contains(text, "氨氯地平\t5mg") {
		t.Errorf("text = %q, want second table row", text)
	}

	// Paragraphs come before table content.
	if strings.Index(text, "第一段") > strings.Index(text, "药品名称") {
		t.Errorf("text = %q, want paragraphs before tables", text)
	}
}

func TestExtractDocx_TableParagraphsNotDuplicated(t *testing.T) {
	path := writeTestDocx(t, docxBody)

	text, err := ExtractDocx(context.Background(), path)
	if err != nil {
		t.Fatalf("ExtractDocx() error = %v", err)
	}
	if strings.Count(text, "药品名称") != 1 {
		t.Errorf("text = %q, table cell text duplicated", text)
	}
}

func TestExtractDocx_MissingBody(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if _, err := ExtractDocx(context.Background(), path); err == nil {
		t.Error("ExtractDocx() error = nil, want error for missing document.xml")
	}
}

func TestExtractDocx_NotZip(t *testing.T) {
	path := writeTempFile(t, "fake.docx", "not a zip archive")

	if _, err := ExtractDocx(context.Background(), path); err == nil {
		t.Error("ExtractDocx() error = nil, want error for invalid archive")
	}
}
