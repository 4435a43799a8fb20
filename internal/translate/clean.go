package translate

import (
	"context"
	"regexp"
	"strings"

	"github.com/vk/macroport/internal/source"
)

const commentKeyword = "COMMENT "

var (
	labelledIfRegex = regexp.MustCompile(`^([A-Z]+:)\s+(IF[NE]\s.*)`)
	registerComma   = regexp.MustCompile(`([AXY]),`)
)

// clean normalizes layout so later stages can match lines exactly.
func (r *run) clean(_ context.Context, q *source.Queue) ([]string, error) {
	var out []string
	delimiter := ""
	for !q.Empty() {
		line, _ := q.Next()

		// COMMENT x ... x spans lines; x is the first character after the keyword.
		if delimiter == "" && strings.HasPrefix(line, commentKeyword) && len(line) > len(commentKeyword) {
			delimiter = line[len(commentKeyword) : len(commentKeyword)+1]
			line = "/*"
		} else if delimiter != "" && strings.Contains(line, delimiter) {
			delimiter = ""
			line = "*/"
		}

		if strings.Contains(line, "TITLE") || strings.HasPrefix(line, "SUBTTL") || strings.HasPrefix(line, "\fSUBTTL") {
			line = "; " + strings.ReplaceAll(line, "\f", "")
		}

		if m := labelledIfRegex.FindStringSubmatch(line); m != nil {
			out = append(out, m[1])
			line = m[2]
		}

		if delimiter == "" {
			parsed := source.Split(line)
			if registerComma.MatchString(parsed.Instruction) {
				line = parsed.With(registerComma.ReplaceAllString(parsed.Instruction, "${1}"))
			}
		}

		out = append(out, r.roundBrackets(line))
	}
	return out, nil
}

// roundBrackets rewrites the first occurrence of every listed angle-bracket
// expression with round brackets; angle brackets are block delimiters in
// the legacy dialect but grouping in the target one.
func (r *run) roundBrackets(line string) string {
	for _, expr := range r.tables.BracketExpressions {
		index := strings.Index(line, expr)
		if index == -1 {
			continue
		}
		replaced := strings.NewReplacer("<", "(", ">", ")").Replace(expr)
		line = line[:index] + replaced + line[index+len(expr):]
	}
	return line
}
