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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rancher-sandbox/rancher-desktop/src/go/startup-flame/version"
)

// showVersionCmd prints the build version.
var showVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Shows the startup-flame version.",
	Long:  `Shows the startup-flame version.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "startup-flame version: %s\n", version.Version)
		return err
	},
}

func init() {
	rootCmd.AddCommand(showVersionCmd)
}
