package parsers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/rancher-sandbox/rancher-desktop/src/go/startup-flame/model"
)

// A Decoder reads a persisted recording and returns the raw events in it.
type Decoder func(context.Context, io.Reader) ([]*model.Event, error)

var ErrUnknownFormat = errors.New("unknown input format")

var decoders = map[string]Decoder{
	"jsonl":  DecodeJSONLines,
	"chrome": DecodeChromeTrace,
}

// Lookup returns the decoder for the named input format.
func Lookup(format string) (Decoder, error) {
	decoder, ok := decoders[format]
	if !ok {
		return nil, fmt.Errorf("%w %q (expected one of %v)", ErrUnknownFormat, format, Formats())
	}
	return decoder, nil
}

// Formats lists the known input formats.
func Formats() []string {
	var formats []string
	for name := range decoders {
		formats = append(formats, name)
	}
	sort.Strings(formats)
	return formats
}
