package resolver

import (
	"regexp"
	"strings"
)

// setSpelling is the re-definable assignment form of the intermediate syntax.
const setSpelling = " .SET "

// RemoveMatching drops every line matched by one of patterns.
func RemoveMatching(lines []string, patterns []*regexp.Regexp) []string {
	out := make([]string, 0, len(lines))
next:
	for _, line := range lines {
		for _, p := range patterns {
			if p.MatchString(line) {
				continue next
			}
		}
		out = append(out, line)
	}
	return out
}

// CollapseAssignments reduces the `NAME .SET value` declarations of each
// name to the last one, rewritten as a plain `NAME=value` assignment. The
// last declaration wins because later redefinitions override earlier ones
// once all directives are gone.
func CollapseAssignments(lines []string, names []string) []string {
	out := lines
	for _, name := range names {
		prefix := name + setSpelling
		last := -1
		for i, line := range out {
			if strings.HasPrefix(line, prefix) {
				last = i
			}
		}
		if last == -1 {
			continue
		}

		collapsed := make([]string, 0, len(out))
		for i, line := range out {
			switch {
			case i == last:
				collapsed = append(collapsed, strings.ReplaceAll(line, setSpelling, "="))
			case strings.HasPrefix(line, prefix):
			default:
				collapsed = append(collapsed, line)
			}
		}
		out = collapsed
	}
	return out
}

// StripSymbols drops the `NAME=` assignments of the given names.
func StripSymbols(lines []string, names []string) []string {
	out := make([]string, 0, len(lines))
next:
	for _, line := range lines {
		for _, name := range names {
			if strings.HasPrefix(line, name+"=") {
				continue next
			}
		}
		out = append(out, line)
	}
	return out
}

// DropContaining drops every line that contains one of fragments.
func DropContaining(lines []string, fragments []string) []string {
	out := make([]string, 0, len(lines))
next:
	for _, line := range lines {
		for _, f := range fragments {
			if strings.Contains(line, f) {
				continue next
			}
		}
		out = append(out, line)
	}
	return out
}

// ReplaceExact replaces lines that equal a key of replacements.
func ReplaceExact(lines []string, replacements map[string]string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if r, ok := replacements[line]; ok {
			line = r
		}
		out[i] = line
	}
	return out
}

// PendingAssignments returns the `.SET` declarations still present, minus
// those containing one of the ignored fragments.
func PendingAssignments(lines []string, ignore []string) []string {
	var pending []string
next:
	for _, line := range lines {
		if !strings.Contains(line, strings.TrimSpace(setSpelling)) {
			continue
		}
		for _, f := range ignore {
			if strings.Contains(line, f) {
				continue next
			}
		}
		pending = append(pending, line)
	}
	return pending
}
