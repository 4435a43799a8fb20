package app

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Command names one of the three pipelines.
type Command string

const (
	CommandTranslate Command = "translate"
	CommandResolve   Command = "resolve"
	CommandTarget    Command = "target"
)

var (
	// ErrMissingSelector is returned when no override names the platform
	// selector symbol of the resolution profile.
	ErrMissingSelector = errors.New("missing required selector override")
	// ErrInvalidOverride is returned for a token that is not NAME=VALUE.
	ErrInvalidOverride = errors.New("invalid override")
)

var overrideRegex = regexp.MustCompile(`^([A-Z][A-Z0-9]*)=(\S+)$`)

// Override pins one symbol for the resolution pipeline.
type Override struct {
	Name  string
	Value string
}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command Command
	In      string
	Out     string

	Overrides []Override // resolve only
	Target    string     // target only
	Variants  []string   // target only

	Profiles  []string
	LogFormat string
	LogLevel  string
	// MaxPasses caps every fixed-point loop; 0 defers to the profile.
	MaxPasses int
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Command {
	case CommandTranslate, CommandResolve, CommandTarget:
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}
	if cfg.In == "" || cfg.Out == "" {
		return nil, errors.New("input and output paths are required")
	}
	if cfg.Command == CommandTarget && cfg.Target == "" {
		return nil, errors.New("target name is required")
	}
	if cfg.Command != CommandResolve && len(cfg.Overrides) > 0 {
		return nil, fmt.Errorf("overrides are only accepted by %s", CommandResolve)
	}
	if cfg.MaxPasses < 0 {
		return nil, fmt.Errorf("max passes must not be negative, got %d", cfg.MaxPasses)
	}

	seen := make(map[string]struct{}, len(cfg.Overrides))
	for _, o := range cfg.Overrides {
		if _, dup := seen[o.Name]; dup {
			return nil, fmt.Errorf("%w: %s is given more than once", ErrInvalidOverride, o.Name)
		}
		seen[o.Name] = struct{}{}
	}
	return &cfg, nil
}

// ParseOverrides parses NAME=VALUE tokens.
func ParseOverrides(tokens []string) ([]Override, error) {
	overrides := make([]Override, 0, len(tokens))
	for _, tok := range tokens {
		m := overrideRegex.FindStringSubmatch(strings.TrimSpace(tok))
		if m == nil {
			return nil, fmt.Errorf("%w %q: expected NAME=VALUE", ErrInvalidOverride, tok)
		}
		overrides = append(overrides, Override{Name: m[1], Value: m[2]})
	}
	return overrides, nil
}
