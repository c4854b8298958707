/*
Copyright © 2026 CROP Contributors
SPDX-License-Identifier: Apache-2.0
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/trek10inc/crop/internal/aws"
	"github.com/trek10inc/crop/internal/logging"
	"github.com/trek10inc/crop/internal/updater"
)

var (
	// catalogOps and stackOps can be injected for testing
	catalogOps aws.ServiceCatalogOperations
	stackOps   aws.CloudFormationOperations
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one auto-update check against a provisioned product's stack",
	Long: `Run a single tick of the auto-update decision engine from the terminal.

This performs exactly what the injected agent does on its schedule: read
the product's artifact list and the stack's status, and trigger an
in-place update when the latest artifact is newer than the stack's last
action. Useful for verifying a product's update wiring without waiting
for the next scheduled run.

Examples:
  crop check --product-id prod-def456 --portfolio-id port-abc123 \
      --stack-name SC-123456789012-pp-abcdefghijklm`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := updater.Config{}
		cfg.ProductID, _ = cmd.Flags().GetString("product-id")
		cfg.StackName, _ = cmd.Flags().GetString("stack-name")
		cfg.PortfolioID, _ = cmd.Flags().GetString("portfolio-id")
		cfg.RoleARN, _ = cmd.Flags().GetString("role-arn")
		logLevel, _ := cmd.Flags().GetString("log-level")
		return runCheck(cmd.Context(), awsConfigFromFlags(cmd), cfg, logLevel)
	},
}

// SetUpdaterOperations allows injection of updater collaborators (for testing)
func SetUpdaterOperations(catalog aws.ServiceCatalogOperations, stacks aws.CloudFormationOperations) {
	catalogOps = catalog
	stackOps = stacks
}

// getUpdaterOperations returns the updater collaborators, creating
// real AWS clients if none are set
func getUpdaterOperations(ctx context.Context, awsCfg aws.Config) (aws.ServiceCatalogOperations, aws.CloudFormationOperations, error) {
	if catalogOps != nil && stackOps != nil {
		return catalogOps, stackOps, nil
	}

	client, err := aws.NewDefaultClient(ctx, awsCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create AWS client: %w", err)
	}
	return client.NewServiceCatalogOperations(), client.NewCloudFormationOperations(), nil
}

// runCheck runs one updater tick and reports its outcome
func runCheck(ctx context.Context, awsCfg aws.Config, cfg updater.Config, logLevel string) error {
	catalog, stacks, err := getUpdaterOperations(ctx, awsCfg)
	if err != nil {
		return err
	}

	logger := logging.NewLogger(os.Stderr, logging.ParseLevel(logLevel))
	u := updater.New(catalog, stacks, cfg, logger)

	outcome, err := u.Run(ctx)
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}

	fmt.Printf("Update check finished: %s\n", outcome)
	return nil
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().String("product-id", "", "Service Catalog product id")
	checkCmd.Flags().String("stack-name", "", "name of the provisioned product's stack")
	checkCmd.Flags().String("portfolio-id", "", "portfolio to enroll into when catalog access is missing")
	checkCmd.Flags().String("role-arn", "", "principal ARN used for self-enrollment")
	checkCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	_ = checkCmd.MarkFlagRequired("product-id")
	_ = checkCmd.MarkFlagRequired("stack-name")
	_ = checkCmd.MarkFlagRequired("portfolio-id")
}
