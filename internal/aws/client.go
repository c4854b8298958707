/*
Copyright © 2026 CROP Contributors
SPDX-License-Identifier: Apache-2.0
*/
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/servicecatalog"
)

// DefaultClient provides a high-level interface for AWS operations
type DefaultClient struct {
	config aws.Config
	cfn    *cloudformation.Client
	sc     *servicecatalog.Client
}

// Config holds configuration for creating an AWS client
type Config struct {
	Region  string
	Profile string
}

// NewDefaultClient creates a new AWS client with the specified configuration
func NewDefaultClient(ctx context.Context, cfg Config) (*DefaultClient, error) {
	var opts []func(*config.LoadOptions) error

	// Set region if specified
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	// Set profile if specified
	if cfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.Profile))
	}

	// Load AWS configuration
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return &DefaultClient{
		config: awsCfg,
		cfn:    cloudformation.NewFromConfig(awsCfg),
		sc:     servicecatalog.NewFromConfig(awsCfg),
	}, nil
}

// CloudFormation returns the CloudFormation client
func (c *DefaultClient) CloudFormation() *cloudformation.Client {
	return c.cfn
}

// ServiceCatalog returns the Service Catalog client
func (c *DefaultClient) ServiceCatalog() *servicecatalog.Client {
	return c.sc
}

// Region returns the configured AWS region
func (c *DefaultClient) Region() string {
	return c.config.Region
}

// NewCloudFormationOperations creates a CloudFormation operations wrapper
func (c *DefaultClient) NewCloudFormationOperations() CloudFormationOperations {
	return &DefaultCloudFormationOperations{client: c.cfn}
}

// NewServiceCatalogOperations creates a Service Catalog operations wrapper
func (c *DefaultClient) NewServiceCatalogOperations() ServiceCatalogOperations {
	return &DefaultServiceCatalogOperations{client: c.sc}
}
