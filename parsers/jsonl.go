package parsers

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rancher-sandbox/rancher-desktop/src/go/startup-flame/model"
)

const maxLineSize = 10 * 1024 * 1024

// DecodeJSONLines reads one JSON encoded event per line.  Blank lines are
// skipped.
func DecodeJSONLines(ctx context.Context, r io.Reader) ([]*model.Event, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var results []*model.Event
	for lineNumber := 1; scanner.Scan(); lineNumber++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		event := &model.Event{}
		if err := json.Unmarshal(line, event); err != nil {
			return nil, fmt.Errorf("error decoding event on line %d: %w", lineNumber, err)
		}
		results = append(results, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading events: %w", err)
	}
	return results, nil
}

// EncodeJSONLines writes the events in the format DecodeJSONLines reads.
func EncodeJSONLines(w io.Writer, events []*model.Event) error {
	encoder := json.NewEncoder(w)
	for _, event := range events {
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}
