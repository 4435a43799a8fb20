// Package fixpoint repeats a line-stream transformation until its output
// stops changing.
package fixpoint

import (
	"context"
	"fmt"
	"slices"

	"github.com/vk/macroport/internal/ctxlog"
	"github.com/vk/macroport/internal/source"
)

// DefaultLimit is the safety cap used when a caller passes a limit <= 0.
const DefaultLimit = 64

// Pass is one application of a transformation. It consumes the queue and
// returns the transformed lines.
type Pass func(ctx context.Context, q *source.Queue) ([]string, error)

// Result describes a finished run.
type Result struct {
	Lines []string
	// Passes counts every executed pass, including the final one that
	// produced no change.
	Passes int
	// Converged is false when the run stopped at the safety cap.
	Converged bool
}

// Run applies pass until the output equals its input. Convergence is
// detected by comparing consecutive outputs; limit only guards against a
// transformation that never settles, and reaching it is logged, not
// returned as an error.
func Run(ctx context.Context, name string, lines []string, pass Pass, limit int) (Result, error) {
	logger := ctxlog.FromContext(ctx).With("stage", name)
	if limit <= 0 {
		limit = DefaultLimit
	}

	current := lines
	for n := 1; n <= limit; n++ {
		next, err := pass(ctx, source.NewQueue(current))
		if err != nil {
			return Result{}, fmt.Errorf("%s pass %d: %w", name, n, err)
		}
		changed := !slices.Equal(current, next)
		logger.Debug("Pass finished.", "pass", n, "lines", len(next), "changed", changed)
		if !changed {
			return Result{Lines: next, Passes: n, Converged: true}, nil
		}
		current = next
	}

	logger.Warn("Safety cap reached before a fixed point.", "limit", limit)
	return Result{Lines: current, Passes: limit, Converged: false}, nil
}
