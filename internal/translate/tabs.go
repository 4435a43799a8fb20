package translate

import (
	"context"
	"strings"

	"github.com/vk/macroport/internal/source"
)

func (r *run) tabs(_ context.Context, q *source.Queue) ([]string, error) {
	out := make([]string, 0, q.Len())
	for !q.Empty() {
		line, _ := q.Next()
		out = append(out, ExpandTabs(line, TabWidth))
	}
	return out, nil
}

// ExpandTabs replaces every tab with the spaces up to the next stop.
// Columns count bytes; the source is ASCII.
func ExpandTabs(line string, width int) string {
	if !strings.Contains(line, "\t") {
		return line
	}
	var b strings.Builder
	col := 0
	for i := 0; i < len(line); i++ {
		if line[i] == '\t' {
			stop := (col/width + 1) * width
			b.WriteString(strings.Repeat(" ", stop-col))
			col = stop
			continue
		}
		b.WriteByte(line[i])
		col++
	}
	return b.String()
}
