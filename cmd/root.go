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

// Package cmd expresses the command-line interface.
package cmd

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const configFile = "startup-flame/config.yaml"

// rootCmd converts raw events into a flame graph.
var rootCmd = &cobra.Command{
	Use:   "startup-flame [infile] [outfile]",
	Short: "Convert startup timing events into a flame graph",
	Long: `Reads startup timing events and writes one folded stack line per
component, with each component's self time in milliseconds.  The input and
output default to standard input and output; "-" also selects them.`,
	Args: cobra.MaximumNArgs(2),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logrus.SetLevel(logrus.InfoLevel + logrus.Level(viper.GetInt("verbose")))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		input, err := openInput(cmd, args, 0)
		if err != nil {
			return err
		}
		defer input.Close()
		return withOutput(cmd, args, 1, func(w io.Writer) error {
			return convert(cmd.Context(), optionsFromConfig(), input, w)
		})
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Count("verbose", "enable extra logging")
	rootCmd.PersistentFlags().String("config", "", "config file (default $XDG_CONFIG_HOME/"+configFile+")")
	addConvertFlags(rootCmd)
	cobra.OnInitialize(initConfig)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("STARTUP_FLAME")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		logrus.WithError(err).Fatal("Failed to set up flags")
	}
	if err := viper.BindPFlags(rootCmd.Flags()); err != nil {
		logrus.WithError(err).Fatal("Failed to set up flags")
	}

	path := viper.GetString("config")
	if path == "" {
		found, err := xdg.SearchConfigFile(configFile)
		if err != nil {
			logrus.WithError(err).Trace("No config file found")
			return
		}
		path = found
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		logrus.WithError(err).WithField("path", path).Fatal("Failed to read config file")
	}
	logrus.WithField("path", viper.ConfigFileUsed()).Debug("Using config file")
}

// openInput opens the file named by args[index], or standard input if it is
// missing or "-".
func openInput(cmd *cobra.Command, args []string, index int) (io.ReadCloser, error) {
	if len(args) <= index || args[index] == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(args[index])
}

// withOutput calls fn with the file named by args[index], or standard output
// if it is missing or "-".  Errors closing the file are reported.
func withOutput(cmd *cobra.Command, args []string, index int, fn func(io.Writer) error) error {
	if len(args) <= index || args[index] == "-" {
		return fn(cmd.OutOrStdout())
	}
	file, err := os.Create(args[index])
	if err != nil {
		return err
	}
	err = fn(file)
	return errors.Join(err, file.Close())
}
