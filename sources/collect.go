package sources

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/rancher-sandbox/rancher-desktop/src/go/startup-flame/model"
	"github.com/rancher-sandbox/rancher-desktop/src/go/startup-flame/parsers"
)

// Collect reads every source concurrently and returns the paired events from
// all of them, ordered by source then by start time.  Errors from optional
// sources are logged and returned alongside the events as a
// *multierror.Error; any error from a required source aborts collection.
func Collect(ctx context.Context, config *Config) ([]*model.Event, error) {
	var mutex sync.Mutex
	results := make([][]*model.Event, len(config.Sources))
	var warnings *multierror.Error
	group, ctx := errgroup.WithContext(ctx)

	for i, source := range config.Sources {
		group.Go(func() error {
			events, err := collectOne(ctx, source)
			if err != nil {
				err = fmt.Errorf("source %s: %w", source.Name, err)
				if !source.Optional {
					return err
				}
				logrus.WithError(err).WithField("source", source.Name).Warn("Skipping optional source")
				mutex.Lock()
				warnings = multierror.Append(warnings, err)
				mutex.Unlock()
				return nil
			}
			results[i] = events
			logrus.WithFields(logrus.Fields{"source": source.Name, "count": len(events)}).Info("got events")
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	var events []*model.Event
	for _, result := range results {
		events = append(events, result...)
	}
	return events, warnings.ErrorOrNil()
}

func collectOne(ctx context.Context, source *Source) ([]*model.Event, error) {
	reader, err := source.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	events, err := source.Parse(ctx, reader)
	if err != nil {
		return nil, err
	}
	return parsers.PairPhases(events, model.DefaultLabelField), nil
}
