package parsers

import (
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/rancher-sandbox/rancher-desktop/src/go/startup-flame/model"
)

// PairPhases turns the begin and end events from a single source into complete
// events.  Each end closes the most recent unclosed begin with the same thread
// and label.  Instant events become zero-length complete events, and complete
// events pass through.  Ends without a begin, and begins that never end, are
// dropped with a warning; a component that never finished starting has no
// meaningful duration.
//
// The result is ordered by start time.
func PairPhases(events []*model.Event, labelField string) []*model.Event {
	// Make sure the inputs are in chronological order.
	slices.SortStableFunc(events, func(a, b *model.Event) int {
		return a.Start.Compare(b.Start)
	})

	type pairKey struct {
		thread, label string
	}
	open := make(map[pairKey][]*model.Event)
	results := make([]*model.Event, 0, len(events))
	for _, event := range events {
		label, _ := event.Field(labelField)
		key := pairKey{thread: event.Thread, label: label}
		switch event.Phase {
		case model.EventPhaseBegin:
			open[key] = append(open[key], event)
		case model.EventPhaseEnd:
			pending := open[key]
			if len(pending) == 0 {
				logrus.WithField("label", label).Warn("Ignoring end event without a beginning")
				continue
			}
			begin := pending[len(pending)-1]
			open[key] = pending[:len(pending)-1]
			results = append(results, &model.Event{
				Kind:   begin.Kind,
				Thread: begin.Thread,
				Phase:  model.EventPhaseComplete,
				Start:  begin.Start,
				End:    event.Start,
				Fields: begin.Fields,
			})
		case model.EventPhaseInstant:
			instant := *event
			instant.Phase = model.EventPhaseComplete
			instant.End = instant.Start
			results = append(results, &instant)
		default:
			results = append(results, event)
		}
	}

	for key, pending := range open {
		for range pending {
			logrus.WithField("label", key.label).Warn("Dropping begin event that never ended")
		}
	}

	// Completed pairs were appended in end order.
	slices.SortStableFunc(results, func(a, b *model.Event) int {
		return a.Start.Compare(b.Start)
	})
	return results
}
