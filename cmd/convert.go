/*
Copyright © 2024 SUSE LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rancher-sandbox/rancher-desktop/src/go/startup-flame/flame"
	"github.com/rancher-sandbox/rancher-desktop/src/go/startup-flame/model"
	"github.com/rancher-sandbox/rancher-desktop/src/go/startup-flame/parsers"
	"github.com/rancher-sandbox/rancher-desktop/src/go/startup-flame/render"
)

const (
	formatFolded     = "folded"
	formatCPUProfile = "cpuprofile"
)

type convertOptions struct {
	InputFormat string
	Format      string
	Kind        string
	LabelField  string
}

func addConvertFlags(cmd *cobra.Command) {
	cmd.Flags().String("input-format", "jsonl", "input format: jsonl or chrome")
	cmd.Flags().String("format", formatFolded, "output format: folded or cpuprofile")
	cmd.Flags().String("kind", model.DefaultKind, "event kind to convert; an empty kind converts every event")
	cmd.Flags().String("label-field", model.DefaultLabelField, "event field holding the component label")
}

func optionsFromConfig() convertOptions {
	return convertOptions{
		InputFormat: viper.GetString("input-format"),
		Format:      viper.GetString("format"),
		Kind:        viper.GetString("kind"),
		LabelField:  viper.GetString("label-field"),
	}
}

// convert reads raw events from r and writes them to w in the requested
// output format.
func convert(ctx context.Context, opts convertOptions, r io.Reader, w io.Writer) error {
	decode, err := parsers.Lookup(opts.InputFormat)
	if err != nil {
		return err
	}
	events, err := decode(ctx, r)
	if err != nil {
		return fmt.Errorf("failed to read events: %w", err)
	}
	records := flame.Collect(events, flame.CollectOptions{Kind: opts.Kind, LabelField: opts.LabelField})
	log := logrus.WithFields(logrus.Fields{
		"events":  humanize.Comma(int64(len(events))),
		"records": humanize.Comma(int64(len(records))),
	})

	switch opts.Format {
	case formatFolded:
		writer := flame.NewFoldedWriter(w)
		if err := flame.Process(records, writer); err != nil {
			return err
		}
		if err := writer.Flush(); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		log.WithFields(logrus.Fields{
			"lines": humanize.Comma(int64(writer.Lines())),
			"total": writer.Total(),
		}).Info("Wrote flame graph")
	case formatCPUProfile:
		result, err := render.Render(records)
		if err != nil {
			return err
		}
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		log.Info("Wrote CPU profile")
	default:
		return fmt.Errorf("unknown output format %q", opts.Format)
	}
	return nil
}
