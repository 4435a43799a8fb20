package source

import (
	"errors"
	"fmt"
	"strings"
)

// Directive keywords of the intermediate syntax.
const (
	DirectiveStart = ".IF"
	DirectiveEnd   = ".ENDIF"
)

// ErrUnterminatedBlock is returned when the input ends before a block's
// closing delimiter was found.
var ErrUnterminatedBlock = errors.New("unterminated block")

// Block is the body of a delimiter-bounded span. Trailing holds whatever
// followed the closing delimiter on the final line.
type Block struct {
	Lines    []string
	Trailing string
}

// ExtractAngled extracts an angle-bracket block. code is the text that
// followed the opening '<' on the current line.
func ExtractAngled(code string, q *Queue) (Block, error) {
	return Extract(code, q, '<', '>')
}

// Extract consumes a block that started with open just before code. It
// counts open and close characters starting at depth 1 and stops at the
// character that brings the depth back to zero. Nested pairs are copied
// through untouched.
func Extract(code string, q *Queue, open, close byte) (Block, error) {
	var lines []string
	line := code
	depth := 1
	for {
		var buf strings.Builder
		for i := 0; i < len(line); i++ {
			c := line[i]
			switch c {
			case open:
				depth++
			case close:
				depth--
			}
			if depth == 0 {
				lines = append(lines, buf.String())
				// The opener was the last character of its line.
				if lines[0] == "" {
					lines = lines[1:]
				}
				return Block{Lines: lines, Trailing: line[i+1:]}, nil
			}
			buf.WriteByte(c)
		}
		lines = append(lines, line)

		next, ok := q.Next()
		if !ok {
			return Block{}, fmt.Errorf("%w: missing %q at depth %d", ErrUnterminatedBlock, close, depth)
		}
		line = next
	}
}

// IsDirectiveStart reports whether line opens a conditional directive.
func IsDirectiveStart(line string) bool {
	return strings.HasPrefix(line, DirectiveStart)
}

// IsDirectiveEnd reports whether line closes a conditional directive.
func IsDirectiveEnd(line string) bool {
	return strings.HasPrefix(line, DirectiveEnd)
}

// DirectiveCondition returns the condition text of a directive-start line.
func DirectiveCondition(line string) string {
	return strings.TrimPrefix(strings.TrimPrefix(line, DirectiveStart), " ")
}

// FormatDirective builds a directive-start line for condition.
func FormatDirective(condition string) string {
	return DirectiveStart + " " + condition
}

// ExtractDirective consumes the body of a directive whose start line was
// just taken from q, up to and excluding the matching end line. Nested
// directives are balanced by counting start and end keywords and are
// returned as plain body lines.
func ExtractDirective(q *Queue) (Block, error) {
	var lines []string
	depth := 1
	for {
		line, ok := q.Next()
		if !ok {
			return Block{}, fmt.Errorf("%w: missing %s at depth %d", ErrUnterminatedBlock, DirectiveEnd, depth)
		}
		if IsDirectiveStart(line) {
			depth++
		} else if IsDirectiveEnd(line) {
			depth--
			if depth == 0 {
				return Block{Lines: lines}, nil
			}
		}
		lines = append(lines, line)
	}
}
