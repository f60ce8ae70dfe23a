package document

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// ExtractDocx extracts text from a Word document.
//
// Body paragraphs come first, then table content row by row with cells
// joined by tabs, matching how the documents were authored for QA corpora.
func ExtractDocx(ctx context.Context, path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer archive.Close()

	var docXML io.ReadCloser
	for _, file := range archive.File {
		if file.Name == "word/document.xml" {
			docXML, err = file.Open()
			if err != nil {
				return "", fmt.Errorf("open docx body: %w", err)
			}
			break
		}
	}
	if docXML == nil {
		return "", fmt.Errorf("docx missing word/document.xml: %s", path)
	}
	defer docXML.Close()

	paragraphs, tables, err := parseDocxBody(docXML)
	if err != nil {
		return "", fmt.Errorf("parse docx body: %w", err)
	}

	var b strings.Builder
	for _, p := range paragraphs {
		if strings.TrimSpace(p) != "" {
			b.WriteString(p)
			b.WriteString("\n")
		}
	}
	for _, rows := range tables {
		for _, row := range rows {
			line := strings.Join(row, "\t")
			if strings.TrimSpace(line) != "" {
				b.WriteString(line)
				b.WriteString("\n")
			}
		}
	}

	return b.String(), nil
}

// parseDocxBody walks the WordprocessingML token stream, collecting top-level
// paragraph texts and table cell texts. Paragraphs inside tables belong to
// their cell, not the paragraph list.
func parseDocxBody(r io.Reader) (paragraphs []string, tables [][][]string, err error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "tbl":
			rows, err := parseDocxTable(dec)
			if err != nil {
				return nil, nil, err
			}
			tables = append(tables, rows)
		case "p":
			text, err := collectDocxText(dec, "p")
			if err != nil {
				return nil, nil, err
			}
			paragraphs = append(paragraphs, text)
		}
	}
	return paragraphs, tables, nil
}

func parseDocxTable(dec *xml.Decoder) ([][]string, error) {
	var rows [][]string
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "tr" {
				row, err := parseDocxRow(dec)
				if err != nil {
					return nil, err
				}
				rows = append(rows, row)
			}
		case xml.EndElement:
			if t.Name.Local == "tbl" {
				return rows, nil
			}
		}
	}
}

func parseDocxRow(dec *xml.Decoder) ([]string, error) {
	var cells []string
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "tc" {
				text, err := collectDocxText(dec, "tc")
				if err != nil {
					return nil, err
				}
				cells = append(cells, text)
			}
		case xml.EndElement:
			if t.Name.Local == "tr" {
				return cells, nil
			}
		}
	}
}

// collectDocxText concatenates the w:t character data under the current
// element until its matching end tag.
func collectDocxText(dec *xml.Decoder, outer string) (string, error) {
	var b strings.Builder
	var inText bool
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == outer {
				depth++
			}
			inText = t.Name.Local == "t"
		case xml.EndElement:
			if t.Name.Local == outer {
				depth--
			}
			inText = false
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}
