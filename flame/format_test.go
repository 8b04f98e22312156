package flame

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("write failed")
}

func TestFormatLine(t *testing.T) {
	outer := rec("outer", 0, 1000)
	middle := rec("middle", 100, 900)
	inner := NewRecord("inner", "worker-1", at(200), at(200).Add(1999*time.Microsecond))

	assert.Equal(t, "main;outer 1000\n", FormatLine([]Record{outer}))
	assert.Equal(t, "worker-1;inner;middle;outer 1\n", FormatLine([]Record{outer, middle, inner}),
		"labels run innermost first, time is truncated to milliseconds")
	assert.Empty(t, FormatLine(nil))
}

func TestFoldedWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	writer := NewFoldedWriter(buf)
	require.NoError(t, Process([]Record{rec("app", 0, 100), rec("init", 10, 60)}, writer))
	assert.Empty(t, buf.String(), "output is buffered until flushed")
	require.NoError(t, writer.Flush())
	assert.Equal(t, "main;init;app 50\nmain;app 50\n", buf.String())
	assert.Equal(t, 2, writer.Lines())
	assert.Equal(t, 100*time.Millisecond, writer.Total())
}

func TestFoldedWriterError(t *testing.T) {
	writer := NewFoldedWriter(failingWriter{})
	require.NoError(t, Process([]Record{rec("app", 0, 100)}, writer))
	assert.Error(t, writer.Flush())
}
