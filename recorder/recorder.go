// Package recorder times component startup from inside a process and writes
// the results as raw events.
//
// A host calls Starting when a component begins starting and Started when it
// is done.  The calls must be made synchronously from the host's lifecycle
// hooks: if they were dispatched asynchronously, nested start and end times
// would be skewed.  Components that never finish starting are not recorded.
package recorder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rancher-sandbox/rancher-desktop/src/go/startup-flame/model"
)

// ErrCapacity is returned when more components are starting at once than the
// recorder was configured to track.
var ErrCapacity = errors.New("too many components starting")

type pending struct {
	name    string
	version string
	thread  string
	start   time.Time
}

type Recorder struct {
	mu      sync.Mutex
	id      string
	kind    string
	limit   int
	now     func() time.Time
	encoder *json.Encoder
	pending map[int64]*pending
}

type Option func(*Recorder)

// WithLimit bounds the number of components being timed at once; zero means
// no limit.
func WithLimit(limit int) Option {
	return func(r *Recorder) {
		r.limit = limit
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) {
		r.now = now
	}
}

// WithKind sets the kind of the recorded events.
func WithKind(kind string) Option {
	return func(r *Recorder) {
		r.kind = kind
	}
}

// New returns a recorder writing one JSON event per line to w.
func New(w io.Writer, opts ...Option) *Recorder {
	r := &Recorder{
		id:      uuid.NewString(),
		kind:    model.DefaultKind,
		now:     time.Now,
		encoder: json.NewEncoder(w),
		pending: make(map[int64]*pending),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ID identifies this recording; it is stored in the "recording" field of each
// event.
func (r *Recorder) ID() string {
	return r.id
}

// Starting notes that the component has begun starting.  Calling it again for
// a component that has not finished restarts its timing.
func (r *Recorder) Starting(id int64, name, version, thread string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pending[id]; !ok && r.limit > 0 && len(r.pending) >= r.limit {
		return fmt.Errorf("%w: cannot track component %d (%s) beyond %d", ErrCapacity, id, name, r.limit)
	}
	r.pending[id] = &pending{
		name:    name,
		version: version,
		thread:  thread,
		start:   r.now(),
	}
	return nil
}

// Started notes that the component has finished starting, and writes its
// event.  Components that were not seen starting are ignored.
func (r *Recorder) Started(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pending[id]
	if !ok {
		return nil
	}
	delete(r.pending, id)
	event := &model.Event{
		Kind:   r.kind,
		Thread: p.thread,
		Phase:  model.EventPhaseComplete,
		Start:  p.start,
		End:    r.now(),
		Fields: map[string]string{
			model.DefaultLabelField: p.name,
			"id":                    strconv.FormatInt(id, 10),
			"version":               p.version,
			"recording":             r.id,
		},
	}
	if err := r.encoder.Encode(event); err != nil {
		return fmt.Errorf("failed to record component %s: %w", p.name, err)
	}
	return nil
}

// Pending returns the number of components that have begun but not finished
// starting.
func (r *Recorder) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
