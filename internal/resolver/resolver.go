// Package resolver flattens `.IF <condition>` / `.ENDIF` directives.
//
// A single pass walks the line queue once. Each directive's body is taken
// whole with source.ExtractDirective and the condition is handed to a
// condition.Decider: a true body is spliced in place, a false one is
// dropped with its directive, and an unknown one is written back unchanged
// with its nested directives untouched. Resolve repeats passes until the
// output no longer changes, because splicing a body can expose assignments
// or nested directives that only a later pass can use.
package resolver

import (
	"context"
	"fmt"

	"github.com/vk/macroport/internal/condition"
	"github.com/vk/macroport/internal/ctxlog"
	"github.com/vk/macroport/internal/fixpoint"
	"github.com/vk/macroport/internal/source"
)

// Resolver resolves directives with a single Decider.
type Resolver struct {
	decider   condition.Decider
	maxPasses int
}

// New creates a resolver. maxPasses <= 0 selects fixpoint.DefaultLimit.
func New(decider condition.Decider, maxPasses int) *Resolver {
	return &Resolver{decider: decider, maxPasses: maxPasses}
}

// Stats counts the decisions taken in one pass.
type Stats struct {
	Spliced int
	Dropped int
	Kept    int
}

// Pass performs one resolution pass over q.
func (r *Resolver) Pass(ctx context.Context, q *source.Queue) ([]string, error) {
	out, stats, err := r.pass(q)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Directives decided.",
		"spliced", stats.Spliced, "dropped", stats.Dropped, "kept", stats.Kept)
	return out, nil
}

func (r *Resolver) pass(q *source.Queue) ([]string, Stats, error) {
	var (
		out   []string
		stats Stats
	)
	r.decider.BeginPass()
	for !q.Empty() {
		line, _ := q.Next()
		r.decider.Observe(line)
		if !source.IsDirectiveStart(line) {
			out = append(out, line)
			continue
		}

		cond := source.DirectiveCondition(line)
		block, err := source.ExtractDirective(q)
		if err != nil {
			return nil, stats, fmt.Errorf("directive %q: %w", line, err)
		}

		switch r.decider.Decide(cond) {
		case condition.True:
			r.observeTopLevel(block.Lines)
			out = append(out, block.Lines...)
			stats.Spliced++
		case condition.False:
			stats.Dropped++
		default:
			out = append(out, source.FormatDirective(cond))
			out = append(out, block.Lines...)
			out = append(out, source.DirectiveEnd)
			stats.Kept++
		}
	}
	return out, stats, nil
}

// observeTopLevel feeds the decider the spliced lines that are not inside
// a still-nested directive; those belong to a later pass.
func (r *Resolver) observeTopLevel(lines []string) {
	depth := 0
	for _, l := range lines {
		switch {
		case source.IsDirectiveStart(l):
			depth++
		case source.IsDirectiveEnd(l):
			depth--
		case depth == 0:
			r.decider.Observe(l)
		}
	}
}

// Resolve runs passes until the output reaches a fixed point.
func (r *Resolver) Resolve(ctx context.Context, lines []string) (fixpoint.Result, error) {
	res, err := fixpoint.Run(ctx, "resolve", lines, r.Pass, r.maxPasses)
	if err != nil {
		return fixpoint.Result{}, err
	}
	ctxlog.FromContext(ctx).Info("Conditional directives resolved.",
		"passes", res.Passes, "converged", res.Converged, "lines", len(res.Lines))
	return res, nil
}
