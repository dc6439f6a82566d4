package status

import (
	"fmt"
	"strings"
)

// DefaultOutputLines bounds the output panel when no limit is given
const DefaultOutputLines = 1000

// Output is the scrollback shown in the output panel. Oldest lines are
// dropped once the limit is reached.
type Output struct {
	lines []string
	limit int
}

// NewOutput creates an output panel holding at most limit lines
func NewOutput(limit int) *Output {
	if limit <= 0 {
		limit = DefaultOutputLines
	}
	return &Output{limit: limit}
}

// Append adds text, splitting it on newlines
func (o *Output) Append(text string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		o.lines = append(o.lines, line)
	}
	if over := len(o.lines) - o.limit; over > 0 {
		o.lines = append(o.lines[:0], o.lines[over:]...)
	}
}

// Appendf adds a formatted line
func (o *Output) Appendf(format string, args ...interface{}) {
	o.Append(fmt.Sprintf(format, args...))
}

// Lines returns a copy of the buffered lines
func (o *Output) Lines() []string {
	return append([]string(nil), o.lines...)
}

// Tail returns the last n lines
func (o *Output) Tail(n int) []string {
	if n <= 0 {
		return nil
	}
	if n >= len(o.lines) {
		return o.Lines()
	}
	return append([]string(nil), o.lines[len(o.lines)-n:]...)
}

// Clear drops all lines
func (o *Output) Clear() {
	o.lines = o.lines[:0]
}

// Len reports the number of buffered lines
func (o *Output) Len() int {
	return len(o.lines)
}
