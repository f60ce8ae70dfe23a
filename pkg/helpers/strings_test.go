package helpers

import "testing"

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"empty string", "", true},
		{"whitespace only", "   \t\n", true},
		{"non-empty", "hello", false},
		{"cjk text", "高血压", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if result := IsEmpty(tt.input); result != tt.expected {
				t.Errorf("IsEmpty(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestDefaultString(t *testing.T) {
	tests := []struct {
		name     string
		options  []string
		expected string
	}{
		{"first non-empty", []string{"", "fallback", "primary"}, "fallback"},
		{"all empty", []string{"", "  ", ""}, ""},
		{"first wins", []string{"primary", "fallback"}, "primary"},
		{"no options", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if result := DefaultString(tt.options...); result != tt.expected {
				t.Errorf("DefaultString(%v) = %q, want %q", tt.options, result, tt.expected)
			}
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		n        int
		expected string
	}{
		{"within limit", "short", 200, "short"},
		{"exactly at limit", "abcde", 5, "abcde"},
		{"over limit", "abcdefgh", 5, "abcde..."},
		{"cjk over limit", "高血压的治疗方法", 3, "高血压..."},
		{"empty", "", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if result := TruncateRunes(tt.input, tt.n); result != tt.expected {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tt.input, tt.n, result, tt.expected)
			}
		})
	}
}
