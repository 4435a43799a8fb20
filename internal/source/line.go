package source

import (
	"regexp"
	"strings"
	"unicode"
)

// CommentDelimiter starts a trailing comment in both dialects.
const CommentDelimiter = ';'

var (
	labelRegex   = regexp.MustCompile(`^([A-Z\d]+):(\s*)(.*)$`)
	leadingSpace = regexp.MustCompile(`^(\s+)(.*)$`)
)

// Line is a derived view over one raw source line. Label keeps the layout
// whitespace that follows it, Comment keeps its delimiter and the
// whitespace that precedes it, so Label+Instruction+Comment == Raw.
type Line struct {
	Label       string
	Instruction string
	Comment     string
	Raw         string
}

// Split classifies a raw line into label, instruction and comment parts.
// A line without a label or comment yields empty strings for those parts.
func Split(raw string) Line {
	instruction := raw
	comment := ""
	if index := strings.IndexByte(raw, CommentDelimiter); index != -1 {
		for index > 0 && unicode.IsSpace(rune(raw[index-1])) {
			index--
		}
		comment = raw[index:]
		instruction = raw[:index]
	}

	label := ""
	if m := labelRegex.FindStringSubmatch(instruction); m != nil {
		label = m[1] + ":" + m[2]
		instruction = m[3]
	}

	// Indentation in front of the instruction belongs to the layout.
	if m := leadingSpace.FindStringSubmatch(instruction); m != nil {
		label += m[1]
		instruction = m[2]
	}

	return Line{Label: label, Instruction: instruction, Comment: comment, Raw: raw}
}

// With returns the line text with its instruction replaced, keeping the
// label layout and the comment.
func (l Line) With(instruction string) string {
	return l.Label + instruction + l.Comment
}

// String reassembles the line from its parts.
func (l Line) String() string {
	return l.With(l.Instruction)
}
