package translate

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/vk/macroport/internal/ctxlog"
	"github.com/vk/macroport/internal/source"
)

var defineRegex = regexp.MustCompile(`^DEFINE(.*),\s*<(.*)$`)

// Signature normalizes the name and parameter part of a DEFINE line to
// the form used as macro dictionary key.
func Signature(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), "\t", " ")
}

// macros replaces every DEFINE block with the prewritten target macro
// for its signature. The legacy body is consumed and discarded.
func (r *run) macros(ctx context.Context, q *source.Queue) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	var out []string
	for !q.Empty() {
		line, _ := q.Next()
		m := defineRegex.FindStringSubmatch(line)
		if m == nil {
			out = append(out, line)
			continue
		}

		signature := Signature(m[1])
		if _, err := source.ExtractAngled(m[2], q); err != nil {
			return nil, fmt.Errorf("macro %q: %w", signature, err)
		}
		body, ok := r.tables.Macros[signature]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMacro, signature)
		}
		logger.Debug("Expanded macro definition.", "signature", signature, "lines", len(body))
		out = append(out, body...)
		out = append(out, "")
	}
	return out, nil
}
