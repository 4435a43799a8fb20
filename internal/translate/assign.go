package translate

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/macroport/internal/source"
)

var assignmentRegex = regexp.MustCompile(`^(\s*)([A-Z]+)\s*={1,2}\s*(.*)$`)

// assignments normalizes symbol definitions and records their values.
// Octal values become four digit hex. Configuration symbols that the
// resolver may redefine become .SET assignments; all others become
// constants. A label in front of a definition is dropped.
func (r *run) assignments(_ context.Context, q *source.Queue) ([]string, error) {
	var out []string
	for !q.Empty() {
		line, _ := q.Next()
		parsed := source.Split(line)
		m := assignmentRegex.FindStringSubmatch(parsed.Instruction)
		if m == nil {
			out = append(out, line)
			continue
		}

		space, name, value := m[1], m[2], m[3]
		if digits, ok := strings.CutPrefix(value, "^O"); ok {
			n, err := strconv.ParseUint(digits, 8, 16)
			if err != nil {
				return nil, fmt.Errorf("%w: %s=%s: %v", ErrInvalidNumeral, name, value, err)
			}
			value = fmt.Sprintf("$%04X", n)
		}
		r.symbols.Define(name, cty.StringVal(value))

		operator := "="
		if _, ok := r.assignable[name]; ok {
			operator = " .SET "
		}
		out = append(out, space+name+operator+value+parsed.Comment)
	}
	return out, nil
}
