/*
Copyright © 2026 CROP Contributors
SPDX-License-Identifier: Apache-2.0
*/
package updater

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the updater's entire runtime configuration surface. The
// transform pipeline injects these as environment variables on the
// agent function; env var names are part of that contract.
type Config struct {
	// ProductID is the Service Catalog product polled for updates.
	ProductID string `env:"ProductId,required,notEmpty"`

	// StackName is the enclosing stack's own name, from which the
	// provisioned product id is derived.
	StackName string `env:"StackName,required,notEmpty"`

	// PortfolioID is the portfolio the agent enrolls its role into
	// when it lacks catalog access.
	PortfolioID string `env:"PortfolioId,required,notEmpty"`

	// RoleARN is the agent's own execution role, the principal used
	// for self-enrollment.
	RoleARN string `env:"AutoUpdaterRoleARN,required,notEmpty"`
}

// ConfigFromEnv reads the updater configuration from the environment
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse updater environment: %w", err)
	}
	return cfg, nil
}
