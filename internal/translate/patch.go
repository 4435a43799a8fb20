package translate

import (
	"context"
	"slices"

	"github.com/vk/macroport/internal/config"
	"github.com/vk/macroport/internal/ctxlog"
	"github.com/vk/macroport/internal/source"
)

// patch applies every text patch in table order.
func (r *run) patch(ctx context.Context, q *source.Queue) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	lines := q.Drain()
	for _, p := range r.tables.Patches {
		var hits int
		lines, hits = ApplyPatch(lines, p)
		if hits == 0 {
			logger.Debug("Patch did not match.", "patch", p.Name)
		}
	}
	return lines, nil
}

// ApplyPatch replaces every non-overlapping occurrence of p.Search in lines
// with p.Replace and returns the new lines and the number of matches.
func ApplyPatch(lines []string, p *config.Patch) ([]string, int) {
	n := len(p.Search)
	if n == 0 {
		return lines, 0
	}
	out := make([]string, 0, len(lines))
	hits := 0
	for i := 0; i < len(lines); {
		if i+n <= len(lines) && slices.Equal(lines[i:i+n], p.Search) {
			out = append(out, p.Replace...)
			i += n
			hits++
			continue
		}
		out = append(out, lines[i])
		i++
	}
	return out, hits
}
