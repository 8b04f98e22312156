package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rancher-sandbox/rancher-desktop/src/go/startup-flame/model"
	"github.com/rancher-sandbox/rancher-desktop/src/go/startup-flame/parsers"
	"github.com/rancher-sandbox/rancher-desktop/src/go/startup-flame/sources"
)

const eventsJSONL = `{"kind":"component.start","thread":"Start Level","start":"2024-05-01T12:00:00Z","end":"2024-05-01T12:00:00.100Z","fields":{"name":"app"}}
{"kind":"component.start","thread":"Start Level","start":"2024-05-01T12:00:00.010Z","end":"2024-05-01T12:00:00.060Z","fields":{"name":"init"}}
{"kind":"service.ready","start":"2024-05-01T12:00:00.020Z","end":"2024-05-01T12:00:00.030Z","fields":{"name":"http"}}
`

func defaultOptions() convertOptions {
	return convertOptions{
		InputFormat: "jsonl",
		Format:      formatFolded,
		Kind:        model.DefaultKind,
		LabelField:  model.DefaultLabelField,
	}
}

func TestConvert(t *testing.T) {
	t.Run("folded", func(t *testing.T) {
		out := &bytes.Buffer{}
		require.NoError(t, convert(t.Context(), defaultOptions(), strings.NewReader(eventsJSONL), out))
		assert.Equal(t, "Start-Level;init;app 50\nStart-Level;app 50\n", out.String())
	})
	t.Run("every kind", func(t *testing.T) {
		opts := defaultOptions()
		opts.Kind = ""
		out := &bytes.Buffer{}
		require.NoError(t, convert(t.Context(), opts, strings.NewReader(eventsJSONL), out))
		assert.Equal(t, "main;http;init;app 10\nStart-Level;init;app 40\nStart-Level;app 50\n", out.String())
	})
	t.Run("cpuprofile", func(t *testing.T) {
		opts := defaultOptions()
		opts.Format = formatCPUProfile
		out := &bytes.Buffer{}
		require.NoError(t, convert(t.Context(), opts, strings.NewReader(eventsJSONL), out))
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
		assert.Len(t, decoded["nodes"], 3)
	})
	t.Run("empty input", func(t *testing.T) {
		out := &bytes.Buffer{}
		require.NoError(t, convert(t.Context(), defaultOptions(), strings.NewReader(""), out))
		assert.Empty(t, out.String())
	})
	t.Run("empty cpuprofile", func(t *testing.T) {
		opts := defaultOptions()
		opts.Format = formatCPUProfile
		out := &bytes.Buffer{}
		require.NoError(t, convert(t.Context(), opts, strings.NewReader(""), out))
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
		assert.Len(t, decoded["nodes"], 1)
	})
	t.Run("unknown input format", func(t *testing.T) {
		opts := defaultOptions()
		opts.InputFormat = "xml"
		err := convert(t.Context(), opts, strings.NewReader(eventsJSONL), &bytes.Buffer{})
		assert.ErrorIs(t, err, parsers.ErrUnknownFormat)
	})
	t.Run("unknown output format", func(t *testing.T) {
		opts := defaultOptions()
		opts.Format = "svg"
		err := convert(t.Context(), opts, strings.NewReader(eventsJSONL), &bytes.Buffer{})
		assert.ErrorContains(t, err, "unknown output format")
	})
	t.Run("malformed input", func(t *testing.T) {
		err := convert(t.Context(), defaultOptions(), strings.NewReader("{\n"), &bytes.Buffer{})
		assert.ErrorContains(t, err, "failed to read events")
	})
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "progress.log")
	require.NoError(t, os.WriteFile(logPath, []byte(
		"2024-05-01T12:00:01Z: Progress: started Starting VM\n"+
			"2024-05-01T12:00:04Z: Progress: finished Starting VM\n"), 0o644))
	config := &sources.Config{Sources: []*sources.Source{
		{
			Name:    "progress",
			Path:    logPath,
			Pattern: `^(?P<time>\S+): Progress: (?P<action>started|finished) (?P<label>.*)$`,
			Begin:   "started",
			End:     "finished",
		},
		{
			Name:     "missing",
			Path:     filepath.Join(dir, "missing.log"),
			Pattern:  `^(?P<time>\S+) (?P<action>\S+) (?P<label>.*)$`,
			Begin:    "begin",
			End:      "end",
			Optional: true,
		},
	}}
	require.NoError(t, config.Validate())

	out := &bytes.Buffer{}
	require.NoError(t, collect(t.Context(), config, out))

	folded := &bytes.Buffer{}
	require.NoError(t, convert(t.Context(), defaultOptions(), out, folded))
	assert.Equal(t, "progress;Starting VM 3000\n", folded.String())
}

func TestExecute(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "events.jsonl")
	outPath := filepath.Join(dir, "out.folded")
	require.NoError(t, os.WriteFile(inPath, []byte(eventsJSONL), 0o644))

	rootCmd.SetArgs([]string{"--format", formatFolded, inPath, outPath})
	require.NoError(t, rootCmd.ExecuteContext(t.Context()))

	contents, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "Start-Level;init;app 50\nStart-Level;app 50\n", string(contents))

	stdout := &bytes.Buffer{}
	rootCmd.SetOut(stdout)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.ExecuteContext(t.Context()))
	assert.Contains(t, stdout.String(), "startup-flame version:")
}
