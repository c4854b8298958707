/*
Copyright © 2026 CROP Contributors
SPDX-License-Identifier: Apache-2.0
*/

// crop-agent is the Lambda entrypoint for the auto-update decision
// engine. The transform pipeline injects a function resource pointing
// at this binary; every scheduled invocation runs one update check.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/trek10inc/crop/internal/aws"
	"github.com/trek10inc/crop/internal/logging"
	"github.com/trek10inc/crop/internal/updater"
)

func main() {
	logger := logging.NewLogger(os.Stderr, logging.ParseLevel(os.Getenv("CROP_LOG_LEVEL")))
	lambda.Start(func(ctx context.Context) error {
		return run(ctx, logger)
	})
}

// run performs one updater tick against real AWS
func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := updater.ConfigFromEnv()
	if err != nil {
		return err
	}

	client, err := aws.NewDefaultClient(ctx, aws.Config{})
	if err != nil {
		return err
	}

	u := updater.New(client.NewServiceCatalogOperations(), client.NewCloudFormationOperations(), cfg, logger)
	outcome, err := u.Run(ctx)
	if err != nil {
		return err
	}

	logger.Info("update check finished", "outcome", outcome.String())
	return nil
}
