package flame

import (
	"cmp"
	"slices"
	"strings"

	"github.com/rancher-sandbox/rancher-desktop/src/go/startup-flame/model"
)

// DefaultThread is used for events that do not name their thread.
const DefaultThread = "main"

// CollectOptions selects which raw events become records.
type CollectOptions struct {
	// Kind is matched as a prefix of the event kind; empty matches everything.
	Kind string
	// LabelField names the event field holding the record label.
	LabelField string
}

// Collect filters the events down to those of the tracked kind that carry a
// label, and returns them as records sorted by start time.  Events starting at
// the same time are ordered longest first, so that an enclosing interval is
// seen before the children it starts with; remaining ties keep input order.
func Collect(events []*model.Event, opts CollectOptions) []Record {
	records := make([]Record, 0, len(events))
	for _, event := range events {
		if event == nil || !strings.HasPrefix(event.Kind, opts.Kind) {
			continue
		}
		label, ok := event.Field(opts.LabelField)
		if !ok {
			continue
		}
		records = append(records, NewRecord(label, threadName(event.Thread), event.Start, event.End))
	}

	slices.SortStableFunc(records, func(a, b Record) int {
		if start := a.Start.Compare(b.Start); start != 0 {
			return start
		}
		return -cmp.Compare(a.RawDuration(), b.RawDuration())
	})

	return records
}

// threadName makes the thread name usable as the first frame of a folded
// stack line, where spaces separate the stack from the count.
func threadName(name string) string {
	if name == "" {
		return DefaultThread
	}
	return strings.ReplaceAll(name, " ", "-")
}
