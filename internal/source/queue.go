package source

import "slices"

// Queue is an owned cursor over a line sequence. It is consumed strictly
// front to back; the backing slice is never modified.
type Queue struct {
	lines []string
	pos   int
}

// NewQueue creates a queue over a private copy of lines.
func NewQueue(lines []string) *Queue {
	return &Queue{lines: slices.Clone(lines)}
}

// Next removes and returns the front line. ok is false once the queue is
// exhausted.
func (q *Queue) Next() (line string, ok bool) {
	if q.pos >= len(q.lines) {
		return "", false
	}
	line = q.lines[q.pos]
	q.pos++
	return line, true
}

// Empty reports whether every line has been consumed.
func (q *Queue) Empty() bool {
	return q.pos >= len(q.lines)
}

// Len returns the number of lines not yet consumed.
func (q *Queue) Len() int {
	return len(q.lines) - q.pos
}

// Drain consumes and returns all remaining lines.
func (q *Queue) Drain() []string {
	rest := slices.Clone(q.lines[q.pos:])
	q.pos = len(q.lines)
	return rest
}
