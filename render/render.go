// Package render writes retired intervals as a Chrome DevTools CPU profile,
// which can be loaded into the Performance panel or speedscope.
package render

import (
	"errors"
	"time"

	"github.com/rancher-sandbox/rancher-desktop/src/go/startup-flame/flame"
)

const rootName = "(root)"

// ProfileBuilder builds a CPU profile alongside a flame.Stacker: Open must be
// called after each record is pushed, and the builder must be the stacker's
// Emitter so that it sees every retirement.
type ProfileBuilder struct {
	profile profile
	// nodes mirrors the stacker's stack, with the root node at the bottom.
	nodes  []*profileNode
	start  time.Time
	last   time.Time
	nextId nodeId
}

// NewProfileBuilder returns a builder whose root node begins at start.
func NewProfileBuilder(start time.Time) *ProfileBuilder {
	b := &ProfileBuilder{start: start, last: start, nextId: 1}
	root := b.newNode(newCallFrame(rootName, "root"))
	b.nodes = append(b.nodes, root)
	b.sample(root, start)
	return b
}

func (b *ProfileBuilder) newNode(frame callFrame) *profileNode {
	node := &profileNode{Id: b.nextId, CallFrame: frame}
	b.nextId++
	b.profile.Nodes = append(b.profile.Nodes, node)
	return node
}

// sample marks node as running from the given time on.  Time never goes
// backwards; samples at the same time replace each other.
func (b *ProfileBuilder) sample(node *profileNode, at time.Time) {
	at = maxTime(at, b.last)
	delta := at.Sub(b.last).Microseconds()
	if n := len(b.profile.Samples); n > 0 && delta == 0 {
		b.profile.Samples[n-1] = node.Id
		return
	}
	b.profile.Samples = append(b.profile.Samples, node.Id)
	b.profile.TimeDeltas = append(b.profile.TimeDeltas, delta)
	b.last = at
}

// Open starts a node for a record that was just pushed.
func (b *ProfileBuilder) Open(record flame.Record) {
	parent := b.nodes[len(b.nodes)-1]
	node := b.newNode(newCallFrame(record.Label, record.Thread))
	parent.Children = append(parent.Children, node.Id)
	b.nodes = append(b.nodes, node)
	b.sample(node, record.Start)
}

// Emit closes the node of the retiring record; it implements flame.Emitter.
func (b *ProfileBuilder) Emit(stack []flame.Record) error {
	if len(b.nodes) < 2 {
		return errors.New("invalid record stream: retiring with no open nodes")
	}
	b.nodes = b.nodes[:len(b.nodes)-1]
	b.sample(b.nodes[len(b.nodes)-1], stack[len(stack)-1].End)
	return nil
}

// Profile returns the finished document.  It must only be called once every
// record has been retired.
func (b *ProfileBuilder) Profile() any {
	for _, id := range b.profile.Samples {
		b.profile.Nodes[id-1].HitCount++
	}
	b.profile.StartTime = b.start.UnixMicro()
	b.profile.EndTime = b.last.UnixMicro()
	return &b.profile
}

// Render converts records, sorted as flame.Collect returns them, into a data
// structure suitable to be JSON-encoded into a file as a Chrome CPU profile.
func Render(records []flame.Record) (any, error) {
	// An empty recording is a profile holding only the root node.
	start := time.Unix(0, 0)
	if len(records) > 0 {
		start = records[0].Start
	}
	builder := NewProfileBuilder(start)
	stacker := flame.NewStacker(builder)
	for _, record := range records {
		if err := stacker.Push(record); err != nil {
			return nil, err
		}
		builder.Open(record)
	}
	if err := stacker.Flush(); err != nil {
		return nil, err
	}
	return builder.Profile(), nil
}

func maxTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return b
	}
	return a
}
