package answer

import (
	"fmt"
	"strings"

	"github.com/ragline-ai/go-ragline/pkg/session"
)

const historyHeader = "\n\n=== 对话历史 ===\n"

// BuildPrompt fills the system prompt template with retrieved context and
// the question, prefixed by recent conversation history.
//
// Input: template with {context} and {question} placeholders, the packed
// context block, the question, prior turns oldest first, and the number of
// recent turns to keep
// Output: the complete prompt text, not yet token-truncated
func BuildPrompt(template, context, question string, history []session.Turn, historyWindow int) string {
	prompt := strings.ReplaceAll(template, "{context}", context)
	prompt = strings.ReplaceAll(prompt, "{question}", question)

	if historyWindow <= 0 || len(history) == 0 {
		return prompt
	}

	recent := history
	if len(recent) > historyWindow {
		recent = recent[len(recent)-historyWindow:]
	}

	var builder strings.Builder
	builder.WriteString(historyHeader)
	for i, turn := range recent {
		fmt.Fprintf(&builder, "Q%d: %s\n", i+1, turn.Question)
		fmt.Fprintf(&builder, "A%d: %s\n\n", i+1, turn.Answer)
	}
	builder.WriteString(prompt)
	return builder.String()
}
