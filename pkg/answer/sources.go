package answer

import (
	"fmt"
	"strings"

	"github.com/ragline-ai/go-ragline/pkg/retrieval"
)

// FormatSources renders source references as a numbered display list.
func FormatSources(sources []retrieval.SourceRef) string {
	if len(sources) == 0 {
		return "无参考文档"
	}

	lines := make([]string, 0, len(sources))
	for i, source := range sources {
		filename := source.Filename
		if filename == "" {
			filename = "未知文档"
		}
		lines = append(lines, fmt.Sprintf("%d. 📄 %s - 相关度: %.2f", i+1, filename, source.Score))
	}
	return strings.Join(lines, "\n")
}
