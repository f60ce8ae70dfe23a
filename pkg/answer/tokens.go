package answer

import "regexp"

var (
	cjkCharRe     = regexp.MustCompile(`\p{Han}`)
	englishWordRe = regexp.MustCompile(`[a-zA-Z]+`)
)

// CountTokens approximates the token count of mixed Chinese/English text:
// each CJK character counts as one token, each English word as one token.
func CountTokens(text string) int {
	return len(cjkCharRe.FindAllString(text, -1)) + len(englishWordRe.FindAllString(text, -1))
}

// TruncateByTokens cuts text so its approximate token count stays within
// maxTokens. The cut position is estimated from the text's average runes
// per token, so dense CJK text is cut shorter than sparse English text.
func TruncateByTokens(text string, maxTokens int) string {
	tokens := CountTokens(text)
	if tokens <= maxTokens {
		return text
	}

	runes := []rune(text)
	runesPerToken := float64(len(runes)) / float64(tokens)
	target := int(float64(maxTokens) * runesPerToken)
	if target >= len(runes) {
		return text
	}
	if target < 0 {
		target = 0
	}
	return string(runes[:target])
}
