package config

import (
	"regexp"

	"github.com/zclconf/go-cty/cty"
)

// Model is the unified, format-agnostic representation of every data table
// the pipelines consult.
type Model struct {
	Translation *Translation
	Resolution  *Resolution
	Targets     map[string]*Target
}

// --- Translation pipeline tables ---

// Translation holds the closed tables of the MACRO-10 to ca65 translation.
type Translation struct {
	// DefaultRadix is the radix numerals are read in until a RADIX line.
	DefaultRadix int
	// BracketExpressions are expressions whose angle brackets become round
	// brackets during cleanup.
	BracketExpressions []string
	// Patches are applied in order after cleanup.
	Patches []*Patch
	// NegatedConditions maps IFN expressions with no general form to their
	// directive condition.
	NegatedConditions map[string]string
	// ConfigReport replaces an IF1 block that prints the configuration.
	ConfigReport []string
	// Macros maps a normalized DEFINE signature to its target definition.
	Macros map[string][]string
	// AssignableSymbols are emitted as re-definable `.SET` assignments.
	AssignableSymbols []string
	// Mnemonics lists the addressing-mode mnemonic families.
	Mnemonics *Mnemonics
	// OperandExpressions rewrites known immediate operand expressions.
	OperandExpressions map[string]string
	// OctalDataExpressions rewrites known data expressions in radix 8.
	OctalDataExpressions map[string]string
}

// Patch is an exact multi-line search and replace. An empty Replace
// deletes the matched lines.
type Patch struct {
	Name    string
	Search  []string
	Replace []string
}

// Mnemonics lists the legacy mnemonics that encode an addressing mode in
// their suffix.
type Mnemonics struct {
	Immediate       []string
	IndirectIndexed []string
	IndirectJump    []string
}

// --- Resolution pipeline profile ---

// Resolution configures the flattening of one platform variant.
type Resolution struct {
	// Selector is the platform-selector symbol every run must override.
	Selector string
	// ConfigSymbols are the symbols the evaluator learns from assignments,
	// in the order their declarations are collapsed.
	ConfigSymbols []string
	// TransientSymbols are stripped once directives are resolved.
	TransientSymbols []string
	// RemovePatterns drop matching lines after resolution.
	RemovePatterns []*regexp.Regexp
	// RejectedConditions always evaluate to false.
	RejectedConditions []string
	// Policy is "first" or "last".
	Policy string
	// Overrides are default override values; command-line tokens win.
	Overrides map[string]cty.Value
	// MaxPasses caps the fixed-point iteration; 0 uses the default.
	MaxPasses int
}

// --- Target pipeline profiles ---

// Target is a fixed-knowledge resolution profile for one platform.
type Target struct {
	Name            string
	TrueConditions  []string
	FalseConditions []string
	RemoveLines     []string
	ReplaceLines    map[string]string
	// IgnorePending lists fragments of `.SET` lines that are expected to
	// remain after resolution.
	IgnorePending []string
	Variants      map[string]*Variant
	// DefaultVariants are applied when the caller names none.
	DefaultVariants []string
}

// Variant adds condition knowledge to a target for one build option.
type Variant struct {
	Name            string
	TrueConditions  []string
	FalseConditions []string
	RemoveLines     []string
}
