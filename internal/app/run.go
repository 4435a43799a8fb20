package app

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/vk/macroport/internal/condition"
	"github.com/vk/macroport/internal/ctxlog"
	"github.com/vk/macroport/internal/fsutil"
	"github.com/vk/macroport/internal/resolver"
	"github.com/vk/macroport/internal/symbols"
	"github.com/vk/macroport/internal/translate"
	"github.com/zclconf/go-cty/cty"
)

// pipeline transforms a whole source file.
type pipeline func(ctx context.Context, lines []string) ([]string, error)

// Run executes the configured pipeline. Everything that can be checked
// without the input is checked before it is read, and the output file is
// only written when the pipeline succeeds.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	ctx = ctxlog.With(ctx, "command", string(a.config.Command))
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Run method started.")

	var (
		run pipeline
		err error
	)
	switch a.config.Command {
	case CommandTranslate:
		run, err = a.translatePipeline()
	case CommandResolve:
		run, err = a.resolvePipeline()
	case CommandTarget:
		run, err = a.targetPipeline()
	default:
		err = fmt.Errorf("unknown command %q", a.config.Command)
	}
	if err != nil {
		return err
	}

	lines, err := fsutil.ReadLines(a.config.In)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	logger.Info("Pipeline started.", "in", a.config.In, "lines", len(lines))

	out, err := run(ctx, lines)
	if err != nil {
		return err
	}

	if err := fsutil.WriteLines(a.config.Out, out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	logger.Info("Pipeline finished.", "out", a.config.Out, "lines", len(out))
	return nil
}

// maxPasses prefers the command-line cap over the profile's.
func (a *App) maxPasses(profile int) int {
	if a.config.MaxPasses > 0 {
		return a.config.MaxPasses
	}
	return profile
}

func (a *App) translatePipeline() (pipeline, error) {
	tables := a.model.Translation
	if tables == nil {
		return nil, errors.New("no translation tables loaded")
	}
	t := translate.New(tables, a.maxPasses(0))
	return t.Translate, nil
}

func (a *App) resolvePipeline() (pipeline, error) {
	res := a.model.Resolution
	if res == nil {
		return nil, errors.New("no resolution profile loaded")
	}
	policy, err := symbols.ParsePolicy(res.Policy)
	if err != nil {
		return nil, err
	}

	overrides := make(map[string]cty.Value, len(res.Overrides)+len(a.config.Overrides))
	for name, v := range res.Overrides {
		overrides[name] = v
	}
	for _, o := range a.config.Overrides {
		overrides[o.Name] = cty.StringVal(o.Value)
	}
	if _, ok := overrides[res.Selector]; !ok {
		return nil, fmt.Errorf("%w %s", ErrMissingSelector, res.Selector)
	}

	names := slices.Clone(res.ConfigSymbols)
	if !slices.Contains(names, res.Selector) {
		names = append(names, res.Selector)
	}
	table := symbols.New(policy, names...)
	for name, v := range overrides {
		table.Override(name, v)
	}
	evaluator := condition.NewEvaluator(table, res.RejectedConditions...)
	r := resolver.New(evaluator, a.maxPasses(res.MaxPasses))

	return func(ctx context.Context, lines []string) ([]string, error) {
		ctxlog.FromContext(ctx).Debug("Resolving.", "overrides", len(overrides), "policy", policy.String())
		result, err := r.Resolve(ctx, lines)
		if err != nil {
			return nil, err
		}
		out := resolver.RemoveMatching(result.Lines, res.RemovePatterns)
		out = resolver.CollapseAssignments(out, res.ConfigSymbols)
		return resolver.StripSymbols(out, res.TransientSymbols), nil
	}, nil
}

func (a *App) targetPipeline() (pipeline, error) {
	target, err := a.model.Target(a.config.Target)
	if err != nil {
		return nil, err
	}
	trueSet, falseSet, removeLines, err := target.Conditions(a.config.Variants...)
	if err != nil {
		return nil, err
	}
	r := resolver.New(condition.NewFixed(trueSet, falseSet), a.maxPasses(0))

	return func(ctx context.Context, lines []string) ([]string, error) {
		logger := ctxlog.FromContext(ctx).With("target", target.Name)
		result, err := r.Resolve(ctx, lines)
		if err != nil {
			return nil, err
		}
		out := resolver.DropContaining(result.Lines, removeLines)
		out = resolver.ReplaceExact(out, target.ReplaceLines)
		for _, line := range resolver.PendingAssignments(out, target.IgnorePending) {
			logger.Warn("Assignment left unresolved.", "line", line)
		}
		return out, nil
	}, nil
}
