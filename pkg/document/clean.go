package document

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// disallowedRe strips everything outside letters, digits, underscore,
	// whitespace and common CJK punctuation.
	disallowedRe = regexp.MustCompile(`[^\p{L}\p{N}_\s，。！？；：“”‘’（）【】《》]`)

	keywordRe = regexp.MustCompile(`\p{Han}{2,}|[a-zA-Z]{3,}`)
)

// Clean normalizes extracted text: whitespace runs collapse to a single
// space, characters outside the letter/digit/CJK-punctuation allow-list are
// removed, and lines of 10 runes or fewer are dropped.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	text = whitespaceRe.ReplaceAllString(text, " ")
	text = disallowedRe.ReplaceAllString(text, "")

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) > 10 {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// Keywords returns the topK most frequent terms in text. Terms are runs of
// two or more CJK characters or three or more ASCII letters, lowercased.
func Keywords(text string, topK int) []string {
	if text == "" || topK <= 0 {
		return nil
	}

	words := keywordRe.FindAllString(strings.ToLower(text), -1)
	if len(words) == 0 {
		return nil
	}

	counts := make(map[string]int, len(words))
	order := make([]string, 0, len(words))
	for _, w := range words {
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	// Stable by first occurrence so equal counts keep text order.
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > topK {
		order = order[:topK]
	}
	return order
}
