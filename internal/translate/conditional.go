package translate

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/vk/macroport/internal/ctxlog"
	"github.com/vk/macroport/internal/fixpoint"
	"github.com/vk/macroport/internal/source"
)

var (
	ifEqualRegex    = regexp.MustCompile(`^IFE\s*(\S+),<(.*)`)
	ifNotEqualRegex = regexp.MustCompile(`^IFN\s*(\S+),<(.*)`)
	ifPass1Regex    = regexp.MustCompile(`^IF1,<(.*)`)
	ifPass2Regex    = regexp.MustCompile(`^IF2,<(.*)`)
)

// expressionRule turns one legacy conditional expression form into a
// directive condition. equal selects the IFE (test for zero) sense.
type expressionRule struct {
	name  string
	re    *regexp.Regexp
	build func(m []string, equal bool) string
}

func comparison(equal bool) string {
	if equal {
		return "="
	}
	return "<>"
}

var expressionRules = []expressionRule{
	{
		name: "symbol",
		re:   regexp.MustCompile(`^([A-Z]+)$`),
		build: func(m []string, equal bool) string {
			return m[1] + comparison(equal) + "0"
		},
	},
	{
		name: "difference",
		re:   regexp.MustCompile(`^([A-Z]+)-(\d+)$`),
		build: func(m []string, equal bool) string {
			return m[1] + comparison(equal) + m[2]
		},
	},
	{
		name: "or",
		re:   regexp.MustCompile(`^([A-Z]+)!([A-Z]+)$`),
		build: func(m []string, equal bool) string {
			return "(" + m[1] + "|" + m[2] + ")" + comparison(equal) + "0"
		},
	},
}

// conditionFor converts a legacy expression to a directive condition.
func (r *run) conditionFor(expr string, equal bool) (string, error) {
	for _, rule := range expressionRules {
		if m := rule.re.FindStringSubmatch(expr); m != nil {
			return rule.build(m, equal), nil
		}
	}
	if !equal {
		if cond, ok := r.tables.NegatedConditions[expr]; ok {
			return cond, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedExpression, expr)
}

// conditionals rewrites IFE/IFN/IF1/IF2 blocks until no legacy
// conditional is left; bodies of converted blocks may hold further ones.
func (r *run) conditionals(ctx context.Context, q *source.Queue) ([]string, error) {
	res, err := fixpoint.Run(ctx, "conditionals", q.Drain(), r.conditionalPass, r.maxPasses)
	if err != nil {
		return nil, err
	}
	return res.Lines, nil
}

func (r *run) conditionalPass(ctx context.Context, q *source.Queue) ([]string, error) {
	var out []string
	for !q.Empty() {
		line, _ := q.Next()

		var err error
		switch {
		case ifEqualRegex.MatchString(line):
			m := ifEqualRegex.FindStringSubmatch(line)
			out, err = r.convertConditional(m[2], m[1], true, q, out)
		case ifNotEqualRegex.MatchString(line):
			m := ifNotEqualRegex.FindStringSubmatch(line)
			out, err = r.convertConditional(m[2], m[1], false, q, out)
		case ifPass1Regex.MatchString(line):
			m := ifPass1Regex.FindStringSubmatch(line)
			out, err = r.convertPass1(ctx, m[1], q, out)
		case ifPass2Regex.MatchString(line):
			m := ifPass2Regex.FindStringSubmatch(line)
			out, err = r.convertPass2(m[1], q, out)
		default:
			out = append(out, line)
		}
		if err != nil {
			return nil, fmt.Errorf("%q: %w", line, err)
		}
	}
	return out, nil
}

// convertConditional wraps the block in a directive. Text after the
// closing bracket is kept on the last body line.
func (r *run) convertConditional(code, expr string, equal bool, q *source.Queue, out []string) ([]string, error) {
	block, err := source.ExtractAngled(code, q)
	if err != nil {
		return nil, err
	}
	cond, err := r.conditionFor(expr, equal)
	if err != nil {
		return nil, err
	}

	body := slices.Clone(block.Lines)
	if n := len(body); n > 0 && body[n-1] == "" {
		body = body[:n-1]
	}
	if block.Trailing != "" {
		if n := len(body); n > 0 {
			body[n-1] += block.Trailing
		} else {
			body = append(body, block.Trailing)
		}
	}

	out = append(out, source.FormatDirective(cond))
	out = append(out, body...)
	return append(out, source.DirectiveEnd), nil
}

// convertPass1 replaces the PRINTX configuration banner with the
// assemble-time report; other first-pass blocks are dropped.
func (r *run) convertPass1(ctx context.Context, code string, q *source.Queue, out []string) ([]string, error) {
	block, err := source.ExtractAngled(code, q)
	if err != nil {
		return nil, err
	}
	if n := len(block.Lines); n > 0 && strings.Contains(block.Lines[n-1], "PRINTX") {
		return append(out, r.tables.ConfigReport...), nil
	}
	ctxlog.FromContext(ctx).Debug("Dropped first-pass block.", "lines", len(block.Lines))
	return out, nil
}

// convertPass2 keeps a second-pass block unless it purges symbols.
func (r *run) convertPass2(code string, q *source.Queue, out []string) ([]string, error) {
	block, err := source.ExtractAngled(code, q)
	if err != nil {
		return nil, err
	}
	for _, line := range block.Lines {
		if strings.Contains(line, "PURGE") {
			return out, nil
		}
	}
	return append(out, block.Lines...), nil
}
