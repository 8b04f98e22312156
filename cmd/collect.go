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
	"errors"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rancher-sandbox/rancher-desktop/src/go/startup-flame/parsers"
	"github.com/rancher-sandbox/rancher-desktop/src/go/startup-flame/sources"
)

// collectCmd gathers raw events from log sources.
var collectCmd = &cobra.Command{
	Use:   "collect [outfile]",
	Short: "Collect startup timing events from logs",
	Long: `Reads the log sources described in the sources file, pairs their begin
and end lines, and writes the resulting events as JSON Lines suitable as input
to the main command.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := viper.GetString("sources")
		if path == "" {
			return errors.New("--sources is required")
		}
		cmd.SilenceUsage = true
		config, err := sources.LoadConfig(path)
		if err != nil {
			return err
		}
		return withOutput(cmd, args, 0, func(w io.Writer) error {
			return collect(cmd.Context(), config, w)
		})
	},
}

func collect(ctx context.Context, config *sources.Config, w io.Writer) error {
	events, err := sources.Collect(ctx, config)
	if err != nil {
		var merr *multierror.Error
		if !errors.As(err, &merr) {
			return err
		}
		logrus.WithField("skipped", len(merr.Errors)).Warn("Some optional sources could not be read")
	}
	if err := parsers.EncodeJSONLines(w, events); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"sources": len(config.Sources),
		"events":  humanize.Comma(int64(len(events))),
	}).Info("Collected events")
	return nil
}

func init() {
	collectCmd.Flags().String("sources", "", "YAML file describing the log sources")
	if err := viper.BindPFlag("sources", collectCmd.Flags().Lookup("sources")); err != nil {
		logrus.WithError(err).Fatal("Failed to set up flags")
	}
	rootCmd.AddCommand(collectCmd)
}
