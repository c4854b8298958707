/*
Copyright © 2026 CROP Contributors
SPDX-License-Identifier: Apache-2.0
*/

// Package updater implements the autoupdate decision engine: the
// scheduled agent that compares a provisioned product's stack against
// the latest published provisioning artifact and triggers an in-place
// update when the artifact is newer. Each run is stateless; all state
// is re-read from Service Catalog and CloudFormation on every tick.
package updater

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trek10inc/crop/internal/aws"
)

// Outcome is the terminal state of one updater run. All outcomes are
// successful; failures that should be retried on the next scheduled
// tick are returned as errors instead.
type Outcome int

const (
	// OutcomeEnrolled means the catalog was unreachable for lack of
	// a portfolio grant and the agent enrolled itself; checks resume
	// on the next tick.
	OutcomeEnrolled Outcome = iota

	// OutcomeBusy means the stack has a mutation in flight and no
	// checks beyond the status read were made.
	OutcomeBusy

	// OutcomeCurrent means the stack is already at or ahead of the
	// latest artifact.
	OutcomeCurrent

	// OutcomeUpdated means an update to the latest artifact was
	// triggered.
	OutcomeUpdated
)

// String returns a short name for the outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeEnrolled:
		return "enrolled"
	case OutcomeBusy:
		return "busy"
	case OutcomeCurrent:
		return "current"
	case OutcomeUpdated:
		return "updated"
	default:
		return fmt.Sprintf("unknown(%d)", int(o))
	}
}

// Updater polls for artifact drift and triggers updates
type Updater struct {
	catalog aws.ServiceCatalogOperations
	stacks  aws.CloudFormationOperations
	cfg     Config
	logger  *slog.Logger
}

// New creates an updater with the given collaborators
func New(catalog aws.ServiceCatalogOperations, stacks aws.CloudFormationOperations, cfg Config, logger *slog.Logger) *Updater {
	if logger == nil {
		logger = slog.Default()
	}
	return &Updater{
		catalog: catalog,
		stacks:  stacks,
		cfg:     cfg,
		logger:  logger,
	}
}

// Run performs one update check. It never retries in-process: every
// path either reaches a terminal outcome or returns an error for the
// platform to log, and the next scheduled tick starts from scratch.
func (u *Updater) Run(ctx context.Context) (Outcome, error) {
	provisionedID, err := ProvisionedProductID(u.cfg.StackName)
	if err != nil {
		return 0, err
	}

	u.logger.Info("checking product for updates",
		"product_id", u.cfg.ProductID,
		"provisioned_product_id", provisionedID)

	product, err := u.catalog.DescribeProduct(ctx, u.cfg.ProductID)
	if err != nil {
		if !aws.IsAccessDenied(err) {
			return 0, fmt.Errorf("failed to describe product: %w", err)
		}
		// The role has no portfolio grant yet. Enroll it; the grant
		// takes effect on the next tick.
		if err := u.catalog.AssociatePrincipal(ctx, u.cfg.PortfolioID, u.cfg.RoleARN); err != nil {
			return 0, fmt.Errorf("failed to self-enroll into portfolio: %w", err)
		}
		u.logger.Info("self-enrolled updater role into portfolio",
			"portfolio_id", u.cfg.PortfolioID,
			"role_arn", u.cfg.RoleARN)
		return OutcomeEnrolled, nil
	}

	stack, err := u.stacks.GetStack(ctx, u.cfg.StackName)
	if err != nil {
		return 0, fmt.Errorf("failed to read stack: %w", err)
	}

	if !stack.Status.IsSettled() {
		u.logger.Info("stack has a mutation in flight, skipping checks",
			"stack", stack.Name,
			"status", string(stack.Status))
		return OutcomeBusy, nil
	}

	latest, err := product.LatestArtifact()
	if err != nil {
		return 0, err
	}

	lastAction := stack.LastActionTime()
	if !latest.CreatedTime.After(lastAction) {
		u.logger.Info("stack is up to date",
			"stack", stack.Name,
			"artifact_id", latest.ID)
		return OutcomeCurrent, nil
	}

	// Reuse every currently-set parameter; the update carries no new
	// inputs, only the new artifact.
	params := make([]aws.UpdateParameter, len(stack.Parameters))
	for i, p := range stack.Parameters {
		params[i] = aws.UpdateParameter{
			Key:              p.Key,
			UsePreviousValue: true,
		}
	}

	err = u.catalog.UpdateProvisionedProduct(ctx, aws.UpdateProvisionedProductInput{
		ProvisionedProductID: provisionedID,
		ProductID:            u.cfg.ProductID,
		ArtifactID:           latest.ID,
		Parameters:           params,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to trigger update: %w", err)
	}

	u.logger.Info("triggered auto-update",
		"provisioned_product_id", provisionedID,
		"artifact_id", latest.ID)
	return OutcomeUpdated, nil
}
