package translate

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/macroport/internal/config"
	"github.com/vk/macroport/internal/ctxlog"
	"github.com/vk/macroport/internal/source"
	"github.com/vk/macroport/internal/symbols"
)

var (
	// ErrUnsupportedExpression is returned for a conditional assembly
	// expression that has no directive-condition form.
	ErrUnsupportedExpression = errors.New("unsupported expression")
	// ErrUnknownMacro is returned for a DEFINE whose signature is not in
	// the macro dictionary.
	ErrUnknownMacro = errors.New("unknown macro")
	// ErrUnsupportedRepeat is returned for a REPEAT count that cannot be
	// computed.
	ErrUnsupportedRepeat = errors.New("unsupported repeat count")
	// ErrInvalidNumeral is returned for a numeral with digits outside its radix.
	ErrInvalidNumeral = errors.New("invalid numeral")
)

// TabWidth is the column stop distance used by tab expansion.
const TabWidth = 8

// Translator converts legacy-dialect source to the target dialect. It is
// immutable; every Translate call works on its own run state.
type Translator struct {
	tables    *config.Translation
	maxPasses int
}

// New creates a translator over the given tables. maxPasses caps the
// conditional conversion fixed point; <= 0 selects the default.
func New(tables *config.Translation, maxPasses int) *Translator {
	return &Translator{tables: tables, maxPasses: maxPasses}
}

// run holds the state owned by one Translate call.
type run struct {
	*Translator
	// symbols records every symbol definition; a later definition wins.
	symbols    *symbols.Table
	assignable map[string]struct{}
}

// stage is one step of the translation pipeline.
type stage struct {
	name string
	fn   func(ctx context.Context, q *source.Queue) ([]string, error)
}

// Translate runs the whole translation pipeline over lines.
func (t *Translator) Translate(ctx context.Context, lines []string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	r := &run{
		Translator: t,
		symbols:    symbols.New(symbols.KeepLast),
		assignable: make(map[string]struct{}, len(t.tables.AssignableSymbols)),
	}
	for _, name := range t.tables.AssignableSymbols {
		r.assignable[name] = struct{}{}
	}

	stages := []stage{
		{name: "clean", fn: r.clean},
		{name: "patch", fn: r.patch},
		{name: "conditionals", fn: r.conditionals},
		{name: "macros", fn: r.macros},
		{name: "assignments", fn: r.assignments},
		{name: "repeat", fn: r.repeats},
		{name: "instructions", fn: r.instructions},
		{name: "tabs", fn: r.tabs},
	}

	current := lines
	for _, s := range stages {
		next, err := s.fn(ctxlog.With(ctx, "stage", s.name), source.NewQueue(current))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
		logger.Debug("Stage finished.", "stage", s.name, "lines_in", len(current), "lines_out", len(next))
		current = next
	}
	logger.Info("Translation finished.", "lines_in", len(lines), "lines_out", len(current))
	return current, nil
}
