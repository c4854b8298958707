/*
Copyright © 2026 CROP Contributors
SPDX-License-Identifier: Apache-2.0
*/
package cmd

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/trek10inc/crop/internal/aws"
	"github.com/trek10inc/crop/internal/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "crop",
	Short: "Package services as auto-updating AWS Service Catalog products",
	Long: `CROP augments CloudFormation templates with a self-contained auto-update
capability for AWS Service Catalog products:

• Strips the private serverless deployment bucket from a packaged template
• Rewrites Lambda code locations to a shared distribution bucket
• Injects a scheduled updater agent that polls the catalog and triggers
  in-place updates when a newer provisioning artifact is published

The injected agent runs inside the consumer's account and needs no
access beyond its own execution role, which it enrolls into the product's
portfolio on first run.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version.Short())); err != nil {
		os.Exit(1)
	}
}

// awsConfigFromFlags reads the global AWS flags into a client config
func awsConfigFromFlags(cmd *cobra.Command) aws.Config {
	profile, _ := cmd.Root().PersistentFlags().GetString("profile")
	region, _ := cmd.Root().PersistentFlags().GetString("region")
	return aws.Config{
		Region:  region,
		Profile: profile,
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringP("profile", "p", "", "AWS profile (overrides environment)")
	rootCmd.PersistentFlags().String("region", "", "AWS region (overrides environment)")
}
