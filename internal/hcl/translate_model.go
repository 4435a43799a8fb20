// This file contains the logic for translating the decoded schema structs
// into the format-agnostic configuration model defined in the config
// package.

package hcl

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/vk/macroport/internal/config"
	"github.com/vk/macroport/internal/ctxlog"
	"github.com/vk/macroport/internal/schema"
	"github.com/vk/macroport/internal/symbols"
)

func (l *Loader) translateModel(ctx context.Context, m *merged) (*config.Model, error) {
	model := &config.Model{Targets: make(map[string]*config.Target, len(m.targets))}

	if m.translation != nil {
		t, err := translateTranslation(ctx, m.translation)
		if err != nil {
			return nil, err
		}
		model.Translation = t
	}
	if m.resolution != nil {
		r, err := translateResolution(ctx, m.resolution)
		if err != nil {
			return nil, err
		}
		model.Resolution = r
	}

	names := make([]string, 0, len(m.targets))
	for name := range m.targets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t, err := translateTarget(m.targets[name])
		if err != nil {
			return nil, err
		}
		model.Targets[name] = t
	}
	return model, nil
}

// splitText turns heredoc text into lines; the final newline does not
// start another line.
func splitText(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func translateTranslation(ctx context.Context, s *schema.Translation) (*config.Translation, error) {
	logger := ctxlog.FromContext(ctx)

	t := &config.Translation{
		DefaultRadix:         s.DefaultRadix,
		BracketExpressions:   s.BracketExpressions,
		NegatedConditions:    s.NegatedConditions,
		ConfigReport:         splitText(s.ConfigReport),
		Macros:               make(map[string][]string, len(s.Macros)),
		AssignableSymbols:    s.AssignableSymbols,
		OperandExpressions:   s.OperandExpressions,
		OctalDataExpressions: s.OctalDataExpressions,
	}
	if t.DefaultRadix != 0 && (t.DefaultRadix < 2 || t.DefaultRadix > 36) {
		return nil, fmt.Errorf("translation: default_radix %d out of range", t.DefaultRadix)
	}

	for _, p := range s.Patches {
		if len(p.Search) == 0 {
			return nil, fmt.Errorf("translation: patch %q has an empty search block", p.Name)
		}
		t.Patches = append(t.Patches, &config.Patch{Name: p.Name, Search: p.Search, Replace: p.Replace})
	}

	for _, mac := range s.Macros {
		if _, ok := t.Macros[mac.Signature]; ok {
			return nil, fmt.Errorf("translation: macro %q is defined twice", mac.Signature)
		}
		t.Macros[mac.Signature] = splitText(mac.Body)
	}

	if s.Mnemonics != nil {
		t.Mnemonics = &config.Mnemonics{
			Immediate:       s.Mnemonics.Immediate,
			IndirectIndexed: s.Mnemonics.IndirectIndexed,
			IndirectJump:    s.Mnemonics.IndirectJump,
		}
	}

	logger.Debug("Translated translation tables.", "patches", len(t.Patches), "macros", len(t.Macros))
	return t, nil
}

func translateResolution(ctx context.Context, s *schema.Resolution) (*config.Resolution, error) {
	if _, err := symbols.ParsePolicy(s.SymbolPolicy); err != nil {
		return nil, fmt.Errorf("resolution: %w", err)
	}
	if s.MaxPasses < 0 {
		return nil, fmt.Errorf("resolution: max_passes must not be negative, got %d", s.MaxPasses)
	}

	r := &config.Resolution{
		Selector:           s.Selector,
		ConfigSymbols:      s.ConfigSymbols,
		TransientSymbols:   s.TransientSymbols,
		RejectedConditions: s.RejectedConditions,
		Policy:             s.SymbolPolicy,
		MaxPasses:          s.MaxPasses,
	}
	for _, pattern := range s.RemovePatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("resolution: remove pattern %q: %w", pattern, err)
		}
		r.RemovePatterns = append(r.RemovePatterns, re)
	}

	overrides, err := decodeOverrides(ctx, s.Overrides)
	if err != nil {
		return nil, fmt.Errorf("resolution: %w", err)
	}
	r.Overrides = overrides
	return r, nil
}

func translateTarget(s *schema.Target) (*config.Target, error) {
	t := &config.Target{
		Name:            s.Name,
		TrueConditions:  s.TrueConditions,
		FalseConditions: s.FalseConditions,
		RemoveLines:     s.RemoveLines,
		ReplaceLines:    s.Replace,
		IgnorePending:   s.IgnorePending,
		Variants:        make(map[string]*config.Variant, len(s.Variants)),
		DefaultVariants: s.DefaultVariants,
	}
	for _, v := range s.Variants {
		if _, ok := t.Variants[v.Name]; ok {
			return nil, fmt.Errorf("target %q: variant %q is defined twice", s.Name, v.Name)
		}
		t.Variants[v.Name] = &config.Variant{
			Name:            v.Name,
			TrueConditions:  v.TrueConditions,
			FalseConditions: v.FalseConditions,
			RemoveLines:     v.RemoveLines,
		}
	}
	for _, name := range t.DefaultVariants {
		if _, ok := t.Variants[name]; !ok {
			return nil, fmt.Errorf("target %q: default variant %q is not defined", s.Name, name)
		}
	}
	return t, nil
}
