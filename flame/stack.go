package flame

import (
	"fmt"
	"time"
)

// An Emitter receives intervals as they are retired.  The stack is ordered
// outermost first; its last element is the retiring record.  The slice is
// only valid for the duration of the call.
type Emitter interface {
	Emit(stack []Record) error
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(stack []Record) error

func (f EmitterFunc) Emit(stack []Record) error {
	return f(stack)
}

// Stacker reconstructs interval nesting from records pushed in start order.
type Stacker struct {
	stack []Record
	emit  Emitter
}

func NewStacker(emit Emitter) *Stacker {
	return &Stacker{emit: emit}
}

// Push retires every open interval that ended before the record started, then
// opens the record beneath whichever interval is still open.
func (s *Stacker) Push(record Record) error {
	if err := s.retireBefore(record.Start, false); err != nil {
		return err
	}
	if len(s.stack) > 0 {
		// The record has no children yet, so this is its whole raw duration;
		// anything later carved out of it stays accounted for.
		s.stack[len(s.stack)-1].Adjust(record.SelfDuration())
	}
	s.stack = append(s.stack, record)
	return nil
}

// Flush retires all remaining intervals, innermost first.
func (s *Stacker) Flush() error {
	return s.retireBefore(time.Time{}, true)
}

// Depth returns the number of open intervals.
func (s *Stacker) Depth() int {
	return len(s.stack)
}

func (s *Stacker) retireBefore(cutoff time.Time, all bool) error {
	for len(s.stack) > 0 {
		top := &s.stack[len(s.stack)-1]
		if !all && !top.End.Before(cutoff) {
			return nil
		}
		if err := s.emit.Emit(s.stack); err != nil {
			return fmt.Errorf("error emitting %q: %w", top.Label, err)
		}
		s.stack = s.stack[:len(s.stack)-1]
	}
	return nil
}

// Process runs the records, which must be sorted by start time, through a new
// Stacker.
func Process(records []Record, emit Emitter) error {
	stacker := NewStacker(emit)
	for _, record := range records {
		if err := stacker.Push(record); err != nil {
			return err
		}
	}
	return stacker.Flush()
}
