package condition

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/vk/macroport/internal/symbols"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

var (
	simpleRegex = regexp.MustCompile(`^([A-Z]+)(<>|=)([0-9]+)$`)
	orRegex     = regexp.MustCompile(`^\((\S+)\)(<>|=)([0-9]+)$`)
)

// rule is one entry of the evaluator's dispatch table. Rules are tried in
// order and the first one whose match succeeds decides the result.
type rule struct {
	name  string
	match func(e *Evaluator, condition string) ([]string, bool)
	eval  func(e *Evaluator, m []string) Tristate
}

// Evaluator evaluates conditions over a symbol table.
type Evaluator struct {
	table    *symbols.Table
	rejected map[string]struct{}
	rules    []rule
}

// NewEvaluator creates an evaluator reading from table. Conditions listed
// in rejected always evaluate to False.
func NewEvaluator(table *symbols.Table, rejected ...string) *Evaluator {
	e := &Evaluator{
		table:    table,
		rejected: make(map[string]struct{}, len(rejected)),
	}
	for _, r := range rejected {
		e.rejected[r] = struct{}{}
	}
	e.rules = []rule{
		{name: "rejected", match: matchRejected, eval: evalRejected},
		{name: "simple", match: matchRegex(simpleRegex), eval: evalSimple},
		{name: "or", match: matchRegex(orRegex), eval: evalOr},
	}
	return e
}

// Table returns the symbol table the evaluator reads from.
func (e *Evaluator) Table() *symbols.Table {
	return e.table
}

// Evaluate returns the ternary value of condition. Unsupported forms are
// Unknown, never an error.
func (e *Evaluator) Evaluate(condition string) Tristate {
	for _, r := range e.rules {
		if m, ok := r.match(e, condition); ok {
			return r.eval(e, m)
		}
	}
	return Unknown
}

// Decide implements Decider.
func (e *Evaluator) Decide(condition string) Tristate {
	return e.Evaluate(condition)
}

// Observe implements Decider by learning symbol assignments.
func (e *Evaluator) Observe(line string) {
	e.table.Observe(line)
}

// BeginPass implements Decider. Learned values are dropped so that a
// definition is only visible to directives that follow it in the pass.
func (e *Evaluator) BeginPass() {
	e.table.Reset()
}

func matchRejected(e *Evaluator, condition string) ([]string, bool) {
	_, ok := e.rejected[condition]
	return nil, ok
}

func evalRejected(*Evaluator, []string) Tristate {
	return False
}

func matchRegex(re *regexp.Regexp) func(*Evaluator, string) ([]string, bool) {
	return func(_ *Evaluator, condition string) ([]string, bool) {
		m := re.FindStringSubmatch(condition)
		return m, m != nil
	}
}

// evalSimple handles NAME=LITERAL and NAME<>LITERAL as a string comparison.
func evalSimple(e *Evaluator, m []string) Tristate {
	actual, _ := e.table.Lookup(m[1])
	actual, err := convert.Convert(actual, cty.String)
	if err != nil {
		return Unknown
	}
	result := FromCty(actual.Equals(cty.StringVal(m[3])))
	if m[2] == "<>" {
		return result.Not()
	}
	return result
}

// evalOr handles (NAME1|NAME2)=LITERAL and its <> variant.
func evalOr(e *Evaluator, m []string) Tristate {
	names := strings.Split(m[1], "|")
	if len(names) != 2 {
		return Unknown
	}
	left, ok := e.table.Int(names[0])
	if !ok {
		return Unknown
	}
	right, ok := e.table.Int(names[1])
	if !ok {
		return Unknown
	}
	expected, err := strconv.ParseInt(m[3], 10, 64)
	if err != nil {
		return Unknown
	}
	equal := left|right == expected
	if m[2] == "<>" {
		return Of(!equal)
	}
	return Of(equal)
}
