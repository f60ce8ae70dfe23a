package document

import (
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"collapses whitespace", "  hello   big\t\nworld  ", "hello big world"},
		{"strips disallowed chars", "高血压@#$的治疗方法与注意事项", "高血压的治疗方法与注意事项"},
		{"keeps cjk punctuation", "问题：什么是高血压？答案：血压持续偏高。", "问题：什么是高血压？答案：血压持续偏高。"},
		{"drops short lines", "太短了", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if result := Clean(tt.input); result != tt.expected {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestKeywords(t *testing.T) {
	text := "apple apple banana cherry apple banana"
	got := Keywords(text, 2)

	if len(got) != 2 {
		t.Fatalf("Keywords() = %v, want 2 terms", got)
	}
	if got[0] != "apple" {
		t.Errorf("Keywords()[0] = %q, want apple", got[0])
	}
	if got[1] != "banana" {
		t.Errorf("Keywords()[1] = %q, want banana", got[1])
	}
}

func TestKeywords_CJK(t *testing.T) {
	got := Keywords("高血压 高血压 治疗 a b", 10)

	if len(got) != 2 {
		t.Fatalf("Keywords() = %v, want 2 terms", got)
	}
	if got[0] != "高血压" {
		t.Errorf("Keywords()[0] = %q, want 高血压", got[0])
	}
}

func TestKeywords_Empty(t *testing.T) {
	if got := Keywords("", 5); got != nil {
		t.Errorf("Keywords(empty) = %v, want nil", got)
	}
	if got := Keywords("text here now", 0); got != nil {
		t.Errorf("Keywords(topK=0) = %v, want nil", got)
	}
}
