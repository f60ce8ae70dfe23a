package answer

import (
	"strings"
	"testing"
)

func TestCountTokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "chinese only", text: "机器学习很有趣", want: 7},
		{name: "english only", text: "hello world again", want: 3},
		{name: "mixed", text: "机器learning真棒", want: 5},
		{name: "punctuation ignored", text: "你好，世界！", want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CountTokens(tt.text); got != tt.want {
				t.Errorf("CountTokens(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestTruncateByTokensWithinLimit(t *testing.T) {
	t.Parallel()

	text := "短文本 short text"
	if got := TruncateByTokens(text, 100); got != text {
		t.Errorf("expected unchanged text, got %q", got)
	}
}

func TestTruncateByTokensCutsProportionally(t *testing.T) {
	t.Parallel()

	// Pure CJK: one rune per token, so the cut lands at exactly maxTokens.
	text := strings.Repeat("字", 100)
	got := TruncateByTokens(text, 40)
	if CountTokens(got) != 40 {
		t.Errorf("expected 40 tokens after truncation, got %d", CountTokens(got))
	}
}

func TestTruncateByTokensKeepsBudget(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("机器 learning ", 200)
	got := TruncateByTokens(text, 50)
	if CountTokens(got) > 55 {
		t.Errorf("truncated text still has %d tokens", CountTokens(got))
	}
	if len(got) >= len(text) {
		t.Error("expected text to shrink")
	}
}
