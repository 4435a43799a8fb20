// Package symbols implements the partial-knowledge table of configuration
// symbols. A symbol that has not been seen is held as an unknown cty value,
// so "undefined" stays distinguishable from "defined as zero" all the way
// through condition evaluation.
package symbols

import (
	"fmt"
	"math/big"
	"regexp"
	"slices"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Policy decides which of several assignments to the same symbol is kept.
type Policy int

const (
	// KeepFirst keeps the earliest value seen; later assignments are ignored.
	KeepFirst Policy = iota
	// KeepLast lets every assignment overwrite the previous value.
	KeepLast
)

// String returns the profile spelling of the policy.
func (p Policy) String() string {
	switch p {
	case KeepFirst:
		return "first"
	case KeepLast:
		return "last"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy parses "first" or "last".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "", "first":
		return KeepFirst, nil
	case "last":
		return KeepLast, nil
	default:
		return 0, fmt.Errorf("unknown symbol policy %q: must be 'first' or 'last'", s)
	}
}

// Table maps symbol names to known values. Overrides are fixed for the
// lifetime of the table and always win over learned values.
type Table struct {
	policy    Policy
	allowed   map[string]struct{}
	patterns  map[string]*regexp.Regexp
	values    map[string]cty.Value
	overrides map[string]cty.Value
}

// New creates a table. When names is empty every symbol may be defined
// through Define, and Observe recognizes nothing.
func New(policy Policy, names ...string) *Table {
	t := &Table{
		policy:    policy,
		allowed:   make(map[string]struct{}, len(names)),
		patterns:  make(map[string]*regexp.Regexp, len(names)),
		values:    make(map[string]cty.Value),
		overrides: make(map[string]cty.Value),
	}
	for _, name := range names {
		t.allowed[name] = struct{}{}
		// NAME=1, NAME==1 and NAME .SET 1 are equivalent spellings.
		t.patterns[name] = regexp.MustCompile(`^` + regexp.QuoteMeta(name) + `(==|=| \.SET )([0-9]*)`)
	}
	return t
}

// Policy returns the retrieval policy of the table.
func (t *Table) Policy() Policy {
	return t.policy
}

// Names returns the allow-listed symbol names in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.allowed))
	for name := range t.allowed {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Override pins name to value. Overrides are not subject to the policy and
// survive Reset.
func (t *Table) Override(name string, value cty.Value) {
	t.overrides[name] = value
}

// Define records an assignment according to the table policy. It reports
// whether the stored value changed.
func (t *Table) Define(name string, value cty.Value) bool {
	if len(t.allowed) > 0 {
		if _, ok := t.allowed[name]; !ok {
			return false
		}
	}
	old, exists := t.values[name]
	if exists && t.policy == KeepFirst {
		return false
	}
	t.values[name] = value
	return !exists || !old.RawEquals(value)
}

// Observe inspects a source line for an assignment to an allow-listed
// symbol and records it. It reports whether the line was an assignment.
func (t *Table) Observe(line string) bool {
	matched := false
	for name, pattern := range t.patterns {
		if m := pattern.FindStringSubmatch(line); m != nil {
			t.Define(name, cty.StringVal(m[2]))
			matched = true
		}
	}
	return matched
}

// Lookup returns the value of name. An undefined symbol yields an unknown
// string value and ok=false.
func (t *Table) Lookup(name string) (value cty.Value, ok bool) {
	if v, ok := t.overrides[name]; ok {
		return v, true
	}
	if v, ok := t.values[name]; ok {
		return v, true
	}
	return cty.UnknownVal(cty.String), false
}

// Has reports whether name currently has a value.
func (t *Table) Has(name string) bool {
	_, ok := t.Lookup(name)
	return ok
}

// Text returns the value of name as a string.
func (t *Table) Text(name string) (string, bool) {
	v, ok := t.Lookup(name)
	if !ok {
		return "", false
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil || s.IsNull() {
		return "", false
	}
	return s.AsString(), true
}

// Int returns the value of name as an integer. Values written as "$hex"
// are accepted alongside plain decimal numerals.
func (t *Table) Int(name string) (int64, bool) {
	v, ok := t.Lookup(name)
	if !ok {
		return 0, false
	}
	return ToInt(v)
}

// Reset forgets every learned value and keeps the overrides.
func (t *Table) Reset() {
	clear(t.values)
}

// ToInt converts a known cty value holding a number or a numeral string to
// an integer.
func ToInt(v cty.Value) (int64, bool) {
	if !v.IsKnown() || v.IsNull() {
		return 0, false
	}
	if v.Type() == cty.String {
		s := v.AsString()
		if hex, ok := strings.CutPrefix(s, "$"); ok {
			n, ok := new(big.Int).SetString(hex, 16)
			if !ok || !n.IsInt64() {
				return 0, false
			}
			return n.Int64(), true
		}
	}
	num, err := convert.Convert(v, cty.Number)
	if err != nil {
		return 0, false
	}
	var i int64
	if err := gocty.FromCtyValue(num, &i); err != nil {
		return 0, false
	}
	return i, true
}
