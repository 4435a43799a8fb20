// Package condition evaluates directive conditions to True, False or
// Unknown. Unknown is a normal outcome: it means the symbols a condition
// needs are not known yet, and the directive is kept for a later pass or
// a later tool.
package condition

import "github.com/zclconf/go-cty/cty"

// Tristate is the result of a condition evaluation.
type Tristate int

const (
	Unknown Tristate = iota
	True
	False
)

// String implements fmt.Stringer.
func (t Tristate) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// Of converts a Go bool to a known Tristate.
func Of(b bool) Tristate {
	if b {
		return True
	}
	return False
}

// FromCty converts a cty.Bool value. Unknown and null values map to Unknown.
func FromCty(v cty.Value) Tristate {
	if !v.IsKnown() || v.IsNull() || !v.Type().Equals(cty.Bool) {
		return Unknown
	}
	return Of(v.True())
}

// Not negates a known result and keeps Unknown.
func (t Tristate) Not() Tristate {
	switch t {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}

// Decider decides directive conditions during resolution. Observe is called
// for every line the resolver emits at top level so deciders that learn
// from assignments can do so; BeginPass is called before each pass.
type Decider interface {
	Decide(condition string) Tristate
	Observe(line string)
	BeginPass()
}
