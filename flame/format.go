package flame

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"
)

// FormatLine renders the retiring (last) record of the stack as a folded stack
// line:
//
//	thread;innermost;...;outermost 1234
//
// Labels run from the retiring record outwards, and the count is its self
// duration in whole milliseconds.
func FormatLine(stack []Record) string {
	if len(stack) == 0 {
		return ""
	}
	top := &stack[len(stack)-1]
	var builder strings.Builder
	builder.WriteString(top.Thread)
	for i := len(stack) - 1; i >= 0; i-- {
		builder.WriteByte(';')
		builder.WriteString(stack[i].Label)
	}
	builder.WriteByte(' ')
	builder.WriteString(strconv.FormatInt(top.SelfDuration().Milliseconds(), 10))
	builder.WriteByte('\n')
	return builder.String()
}

// FoldedWriter writes one folded stack line per retired interval.  Callers
// must Flush it once processing is done.
type FoldedWriter struct {
	w     *bufio.Writer
	lines int
	total time.Duration
}

func NewFoldedWriter(w io.Writer) *FoldedWriter {
	return &FoldedWriter{w: bufio.NewWriter(w)}
}

func (f *FoldedWriter) Emit(stack []Record) error {
	if _, err := f.w.WriteString(FormatLine(stack)); err != nil {
		return err
	}
	f.lines++
	f.total += stack[len(stack)-1].SelfDuration()
	return nil
}

func (f *FoldedWriter) Flush() error {
	return f.w.Flush()
}

// Lines is the number of lines written so far.
func (f *FoldedWriter) Lines() int {
	return f.lines
}

// Total is the sum of the self durations written so far.
func (f *FoldedWriter) Total() time.Duration {
	return f.total
}
