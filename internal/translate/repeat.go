package translate

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/vk/macroport/internal/source"
)

var repeatRegex = regexp.MustCompile(`^(\s*)REPEAT\s+(\S+),\s*<(.*)$`)

// countRule computes a repeat count from one accepted expression form.
type countRule struct {
	name  string
	re    *regexp.Regexp
	count func(r *run, m []string) (int, error)
}

var countRules = []countRule{
	{
		name: "literal",
		re:   regexp.MustCompile(`^(\d+)$`),
		count: func(_ *run, m []string) (int, error) {
			return strconv.Atoi(m[1])
		},
	},
	{
		name: "sum",
		re:   regexp.MustCompile(`^(\d+)\+([A-Z]+)$`),
		count: func(r *run, m []string) (int, error) {
			base, err := strconv.Atoi(m[1])
			if err != nil {
				return 0, err
			}
			n, ok := r.symbols.Int(m[2])
			if !ok {
				return 0, fmt.Errorf("symbol %s has no known value", m[2])
			}
			return base + int(n), nil
		},
	},
}

// repeatCount evaluates a repeat count expression.
func (r *run) repeatCount(expr string) (int, error) {
	for _, rule := range countRules {
		if m := rule.re.FindStringSubmatch(expr); m != nil {
			n, err := rule.count(r, m)
			if err != nil {
				return 0, fmt.Errorf("%w: %q: %v", ErrUnsupportedRepeat, expr, err)
			}
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedRepeat, expr)
}

// repeats unrolls REPEAT blocks. The template is the block's second line
// when it has several, otherwise its only line.
func (r *run) repeats(_ context.Context, q *source.Queue) ([]string, error) {
	var out []string
	for !q.Empty() {
		line, _ := q.Next()
		m := repeatRegex.FindStringSubmatch(line)
		if m == nil {
			out = append(out, line)
			continue
		}

		space, expr := m[1], m[2]
		count, err := r.repeatCount(expr)
		if err != nil {
			return nil, err
		}
		block, err := source.ExtractAngled(m[3], q)
		if err != nil {
			return nil, fmt.Errorf("repeat %q: %w", expr, err)
		}

		var template string
		switch len(block.Lines) {
		case 0:
			return nil, fmt.Errorf("%w: %q: empty template", ErrUnsupportedRepeat, expr)
		case 1:
			template = block.Lines[0]
		default:
			template = block.Lines[1]
		}
		for range count {
			out = append(out, space+template)
		}
	}
	return out, nil
}
