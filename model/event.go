package model

import "time"

type EventPhase string

const (
	EventPhaseBegin    = EventPhase("B")
	EventPhaseEnd      = EventPhase("E")
	EventPhaseInstant  = EventPhase("i")
	EventPhaseComplete = EventPhase("X")
)

// Event is a decoded raw event.  Only complete events (those carrying both a
// start and an end) are meaningful to the flame graph conversion; begin, end
// and instant events only exist while log sources are being paired up.
type Event struct {
	// Kind identifies the type of event, e.g. "component.start".
	Kind string `json:"kind"`
	// Thread is the name of the execution context that produced the event.
	Thread string     `json:"thread,omitempty"`
	Phase  EventPhase `json:"phase,omitempty"`
	Start  time.Time  `json:"start"`
	// End is unset for begin/end/instant events.
	End time.Time `json:"end,omitzero"`
	// Fields holds the label-bearing properties of the event; a label is
	// present when its key exists, even if the value is empty.
	Fields map[string]string `json:"fields,omitempty"`
}

// Field returns the named field, and whether it was present.
func (e *Event) Field(name string) (string, bool) {
	if e.Fields == nil {
		return "", false
	}
	value, ok := e.Fields[name]
	return value, ok
}

// Duration returns the time between the start and end of a complete event.
func (e *Event) Duration() time.Duration {
	if e.End.IsZero() {
		return 0
	}
	return e.End.Sub(e.Start)
}

const (
	// DefaultKind is the kind of event emitted for component startup.
	DefaultKind = "component.start"
	// DefaultLabelField is the field holding the component name.
	DefaultLabelField = "name"
)
