package document

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ragline-ai/go-ragline/pkg/ragline"
)

// qaRecord is one line of a QA-pair JSONL file.
type qaRecord struct {
	Questions []json.RawMessage `json:"questions"`
	Answers   []string          `json:"answers"`
}

// ExtractQAPairs extracts question/answer text from a JSONL file.
//
// Each line holds a record with questions and answers arrays; the first of
// each is used. The first question may be nested one level deep as a
// one-element array. Malformed lines are skipped with a warning rather than
// failing the file.
func ExtractQAPairs(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open jsonl: %w", err)
	}
	defer f.Close()

	var blocks []string

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec qaRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			ragline.LogWarn(ctx, "skipping malformed jsonl line", "path", path, "line", lineNo, "error", err)
			continue
		}
		if len(rec.Questions) == 0 || len(rec.Answers) == 0 {
			ragline.LogWarn(ctx, "skipping jsonl line without qa pair", "path", path, "line", lineNo)
			continue
		}

		question, ok := firstQuestion(rec.Questions[0])
		question = strings.TrimSpace(question)
		if !ok || question == "" {
			ragline.LogWarn(ctx, "skipping jsonl line with unreadable question", "path", path, "line", lineNo)
			continue
		}

		answer := strings.TrimSpace(rec.Answers[0])
		blocks = append(blocks, fmt.Sprintf("问题：%s\n\n答案：%s", question, answer))
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan jsonl: %w", err)
	}

	return strings.Join(blocks, "\n\n"), nil
}

// firstQuestion unwraps a question that is either a string or a one-element
// array of strings.
func firstQuestion(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var nested []string
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 {
		return nested[0], true
	}
	return "", false
}
