/*
Copyright © 2026 CROP Contributors
SPDX-License-Identifier: Apache-2.0
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trek10inc/crop/internal/version"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Info())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
