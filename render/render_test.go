package render

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rancher-sandbox/rancher-desktop/src/go/startup-flame/flame"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func rec(label string, start, end int) flame.Record {
	return flame.NewRecord(label, "main",
		epoch.Add(time.Duration(start)*time.Millisecond),
		epoch.Add(time.Duration(end)*time.Millisecond))
}

func render(t *testing.T, records ...flame.Record) *profile {
	t.Helper()
	result, err := Render(records)
	require.NoError(t, err)
	p, ok := result.(*profile)
	require.True(t, ok)
	return p
}

func TestRender(t *testing.T) {
	p := render(t, rec("app", 0, 100), rec("init", 10, 60))

	require.Len(t, p.Nodes, 3)
	assert.Equal(t, rootName, p.Nodes[0].CallFrame.FunctionName)
	assert.Equal(t, []nodeId{2}, p.Nodes[0].Children)
	assert.Equal(t, "app", p.Nodes[1].CallFrame.FunctionName)
	assert.Equal(t, "main", p.Nodes[1].CallFrame.Url)
	assert.Equal(t, []nodeId{3}, p.Nodes[1].Children)
	assert.Equal(t, "init", p.Nodes[2].CallFrame.FunctionName)

	assert.Equal(t, []nodeId{2, 3, 2, 1}, p.Samples)
	assert.Equal(t, []int64{0, 10_000, 50_000, 40_000}, p.TimeDeltas)
	assert.Equal(t, epoch.UnixMicro(), p.StartTime)
	assert.Equal(t, epoch.Add(100*time.Millisecond).UnixMicro(), p.EndTime)
}

func TestRenderSiblings(t *testing.T) {
	p := render(t, rec("a", 0, 10), rec("b", 20, 30))

	assert.Equal(t, []nodeId{2, 3}, p.Nodes[0].Children)
	// a runs, the root idles in the gap, then b runs.
	assert.Equal(t, []nodeId{2, 1, 3, 1}, p.Samples)
	assert.Equal(t, []int64{0, 10_000, 10_000, 10_000}, p.TimeDeltas)
	assert.EqualValues(t, 2, p.Nodes[0].HitCount)
}

func TestRenderOverlap(t *testing.T) {
	// b outlives a; time never runs backwards in the samples.
	p := render(t, rec("a", 0, 50), rec("b", 10, 80))
	for _, delta := range p.TimeDeltas {
		assert.GreaterOrEqual(t, delta, int64(0))
	}
	assert.Equal(t, epoch.Add(80*time.Millisecond).UnixMicro(), p.EndTime)
}

func TestRenderEmpty(t *testing.T) {
	p := render(t)
	require.Len(t, p.Nodes, 1)
	assert.Equal(t, rootName, p.Nodes[0].CallFrame.FunctionName)
	assert.Empty(t, p.Nodes[0].Children)
	assert.Equal(t, []nodeId{1}, p.Samples)
	assert.Equal(t, []int64{0}, p.TimeDeltas)
	assert.Equal(t, p.StartTime, p.EndTime)
}

func TestRenderJSON(t *testing.T) {
	result, err := Render([]flame.Record{rec("app", 0, 100)})
	require.NoError(t, err)
	buf := &bytes.Buffer{}
	require.NoError(t, json.NewEncoder(buf).Encode(result))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	for _, key := range []string{"nodes", "startTime", "endTime", "samples", "timeDeltas"} {
		assert.Contains(t, decoded, key)
	}
	nodes := decoded["nodes"].([]any)
	frame := nodes[1].(map[string]any)["callFrame"].(map[string]any)
	assert.Equal(t, "app", frame["functionName"])
	assert.EqualValues(t, -1, frame["lineNumber"])
}
