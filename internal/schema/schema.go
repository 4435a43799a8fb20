// Package schema holds the gohcl-tagged structs that table and profile
// files decode into. They mirror the file layout one to one; the hcl
// package translates them into the format-agnostic config model.
package schema

import (
	"github.com/hashicorp/hcl/v2"
)

// File is the top-level structure of any table or profile file. Every
// block is optional so a profile may carry only the sections it replaces.
type File struct {
	Translation *Translation `hcl:"translation,block"`
	Resolution  *Resolution  `hcl:"resolution,block"`
	Targets     []*Target    `hcl:"target,block"`
	Remain      hcl.Body     `hcl:",remain"`
}

// --- Translation tables ---

// Translation is the `translation` block.
type Translation struct {
	DefaultRadix         int               `hcl:"default_radix,optional"`
	BracketExpressions   []string          `hcl:"bracket_expressions,optional"`
	AssignableSymbols    []string          `hcl:"assignable_symbols,optional"`
	OperandExpressions   map[string]string `hcl:"operand_expressions,optional"`
	OctalDataExpressions map[string]string `hcl:"octal_data_expressions,optional"`
	NegatedConditions    map[string]string `hcl:"negated_conditions,optional"`
	ConfigReport         string            `hcl:"config_report,optional"`
	Mnemonics            *Mnemonics        `hcl:"mnemonics,block"`
	Patches              []*Patch          `hcl:"patch,block"`
	Macros               []*Macro          `hcl:"macro,block"`
}

// Mnemonics is the `mnemonics` block listing addressing-mode families.
type Mnemonics struct {
	Immediate       []string `hcl:"immediate,optional"`
	IndirectIndexed []string `hcl:"indirect_indexed,optional"`
	IndirectJump    []string `hcl:"indirect_jump,optional"`
}

// Patch is a `patch "name"` block.
type Patch struct {
	Name    string   `hcl:"name,label"`
	Search  []string `hcl:"search"`
	Replace []string `hcl:"replace"`
}

// Macro is a `macro "signature"` block. Body is the target definition,
// usually written as a heredoc.
type Macro struct {
	Signature string `hcl:"signature,label"`
	Body      string `hcl:"body"`
}

// --- Resolution profile ---

// Resolution is the `resolution` block.
type Resolution struct {
	Selector           string   `hcl:"selector,optional"`
	ConfigSymbols      []string `hcl:"config_symbols,optional"`
	TransientSymbols   []string `hcl:"transient_symbols,optional"`
	RemovePatterns     []string `hcl:"remove_patterns,optional"`
	RejectedConditions []string `hcl:"rejected_conditions,optional"`
	SymbolPolicy       string   `hcl:"symbol_policy,optional"`
	// Overrides is kept as an expression so numbers and strings are both
	// accepted and converted to symbol text.
	Overrides hcl.Expression `hcl:"overrides,optional"`
	MaxPasses int            `hcl:"max_passes,optional"`
}

// --- Target profiles ---

// Target is a `target "name"` block.
type Target struct {
	Name            string            `hcl:"name,label"`
	TrueConditions  []string          `hcl:"true_conditions,optional"`
	FalseConditions []string          `hcl:"false_conditions,optional"`
	RemoveLines     []string          `hcl:"remove_lines,optional"`
	Replace         map[string]string `hcl:"replace,optional"`
	IgnorePending   []string          `hcl:"ignore_pending,optional"`
	DefaultVariants []string          `hcl:"default_variants,optional"`
	Variants        []*Variant        `hcl:"variant,block"`
}

// Variant is a `variant "name"` block inside a target.
type Variant struct {
	Name            string   `hcl:"name,label"`
	TrueConditions  []string `hcl:"true_conditions,optional"`
	FalseConditions []string `hcl:"false_conditions,optional"`
	RemoveLines     []string `hcl:"remove_lines,optional"`
}
