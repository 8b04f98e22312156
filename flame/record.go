// Package flame converts nested startup intervals into folded flame graph
// stacks.  The containment tree is never built explicitly; it is recovered
// from start-ordered records using a stack of still-open intervals.
package flame

import "time"

// Record is a labelled interval.  Records live on the Stacker's stack by value;
// only the Stacker adjusts them.
type Record struct {
	Label  string
	Thread string
	Start  time.Time
	End    time.Time

	// Time attributed to direct children.
	adjustment time.Duration
}

// NewRecord returns a record for the given interval.  An end before the start
// is clamped to the start, giving a zero-length interval.
func NewRecord(label, thread string, start, end time.Time) Record {
	if end.Before(start) {
		end = start
	}
	return Record{
		Label:  label,
		Thread: thread,
		Start:  start,
		End:    end,
	}
}

// RawDuration is the unadjusted length of the interval.
func (r *Record) RawDuration() time.Duration {
	return r.End.Sub(r.Start)
}

// Adjust subtracts the given child time from the record's self duration.
//
// If interval A contains interval B, with B taking 1s and A taking 1.5s, A
// should be reported as 0.5s; processing B adjusts A by 1s.
func (r *Record) Adjust(d time.Duration) {
	r.adjustment += d
}

// SelfDuration returns the time not attributed to any child.  It is never
// negative.
func (r *Record) SelfDuration() time.Duration {
	return max(r.RawDuration()-r.adjustment, 0)
}
