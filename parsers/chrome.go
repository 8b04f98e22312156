package parsers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rancher-sandbox/rancher-desktop/src/go/startup-flame/model"
)

// traceEvent is an entry in Chrome's Trace Event Format.
// https://docs.google.com/document/d/1CvAClvFfyA5R-PhYUmn5OOQtYMH4h6I0nSsKchNAySU/preview
type traceEvent struct {
	Name     string         `json:"name"`
	Category string         `json:"cat"`
	Phase    string         `json:"ph"`
	Time     float64        `json:"ts"`
	Duration float64        `json:"dur"`
	PID      int            `json:"pid"`
	TID      int            `json:"tid"`
	Args     map[string]any `json:"args"`
}

type threadKey struct {
	pid, tid int
}

type openEvent struct {
	event *model.Event
	key   threadKey
}

// DecodeChromeTrace reads a trace in Trace Event Format, either as a bare
// array of events or as an object with a traceEvents member.  Complete ("X")
// events and matched begin/end pairs become events; thread_name metadata names
// the threads.  The event kind is the trace category, and the trace event name
// is stored in the "name" field, taking precedence over an argument of the
// same name.
func DecodeChromeTrace(ctx context.Context, r io.Reader) ([]*model.Event, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading trace: %w", err)
	}
	var traceEvents []traceEvent
	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, []byte("[")) {
		err = json.Unmarshal(data, &traceEvents)
	} else {
		var document struct {
			TraceEvents []traceEvent `json:"traceEvents"`
		}
		err = json.Unmarshal(data, &document)
		traceEvents = document.TraceEvents
	}
	if err != nil {
		return nil, fmt.Errorf("error decoding trace: %w", err)
	}

	threadNames := make(map[threadKey]string)
	stacks := make(map[threadKey][]*model.Event)
	var results []openEvent
	for _, traceEvent := range traceEvents {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		key := threadKey{pid: traceEvent.PID, tid: traceEvent.TID}
		switch traceEvent.Phase {
		case "M":
			if traceEvent.Name == "thread_name" {
				if name, ok := traceEvent.Args["name"].(string); ok {
					threadNames[key] = name
				}
			}
		case string(model.EventPhaseComplete):
			event := convertTraceEvent(traceEvent)
			event.End = event.Start.Add(microseconds(traceEvent.Duration))
			results = append(results, openEvent{event: event, key: key})
		case string(model.EventPhaseBegin):
			stacks[key] = append(stacks[key], convertTraceEvent(traceEvent))
		case string(model.EventPhaseEnd):
			stack := stacks[key]
			if len(stack) == 0 {
				logrus.WithField("event", traceEvent.Name).Debug("Ignoring end event without a beginning")
				continue
			}
			event := stack[len(stack)-1]
			stacks[key] = stack[:len(stack)-1]
			event.Phase = model.EventPhaseComplete
			event.End = timestamp(traceEvent.Time)
			for name, value := range traceEvent.Args {
				if _, ok := event.Fields[name]; !ok {
					event.Fields[name] = stringify(value)
				}
			}
			results = append(results, openEvent{event: event, key: key})
		default:
			logrus.WithField("phase", traceEvent.Phase).Trace("Ignoring trace event")
		}
	}

	for key, stack := range stacks {
		for _, event := range stack {
			logrus.WithFields(logrus.Fields{
				"event": event.Fields[model.DefaultLabelField],
				"tid":   key.tid,
			}).Warn("Dropping begin event that never ended")
		}
	}

	events := make([]*model.Event, 0, len(results))
	for _, result := range results {
		if name, ok := threadNames[result.key]; ok {
			result.event.Thread = name
		} else {
			result.event.Thread = fmt.Sprintf("tid-%d", result.key.tid)
		}
		events = append(events, result.event)
	}
	return events, nil
}

func convertTraceEvent(traceEvent traceEvent) *model.Event {
	fields := make(map[string]string, len(traceEvent.Args)+1)
	for name, value := range traceEvent.Args {
		fields[name] = stringify(value)
	}
	fields[model.DefaultLabelField] = traceEvent.Name
	return &model.Event{
		Kind:   traceEvent.Category,
		Phase:  model.EventPhaseComplete,
		Start:  timestamp(traceEvent.Time),
		Fields: fields,
	}
}

// timestamp converts trace microseconds into a time.
func timestamp(micros float64) time.Time {
	return time.Unix(0, 0).UTC().Add(microseconds(micros))
}

func microseconds(micros float64) time.Duration {
	return time.Duration(math.Round(micros * float64(time.Microsecond)))
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(data)
}
