/*
Copyright © 2026 CROP Contributors
SPDX-License-Identifier: Apache-2.0
*/
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/servicecatalog"
)

// CloudFormationClient defines the interface for CloudFormation client
// operations the updater needs. This allows for easier testing with
// mock implementations.
type CloudFormationClient interface {
	DescribeStacks(ctx context.Context, params *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
}

// ServiceCatalogClient defines the interface for Service Catalog
// client operations the updater needs
type ServiceCatalogClient interface {
	DescribeProduct(ctx context.Context, params *servicecatalog.DescribeProductInput, optFns ...func(*servicecatalog.Options)) (*servicecatalog.DescribeProductOutput, error)
	AssociatePrincipalWithPortfolio(ctx context.Context, params *servicecatalog.AssociatePrincipalWithPortfolioInput, optFns ...func(*servicecatalog.Options)) (*servicecatalog.AssociatePrincipalWithPortfolioOutput, error)
	UpdateProvisionedProduct(ctx context.Context, params *servicecatalog.UpdateProvisionedProductInput, optFns ...func(*servicecatalog.Options)) (*servicecatalog.UpdateProvisionedProductOutput, error)
}

// Ensure the actual SDK clients implement our interfaces
var _ CloudFormationClient = (*cloudformation.Client)(nil)
var _ ServiceCatalogClient = (*servicecatalog.Client)(nil)

// Ensure the default operations implement the operations interfaces
var _ CloudFormationOperations = (*DefaultCloudFormationOperations)(nil)
var _ ServiceCatalogOperations = (*DefaultServiceCatalogOperations)(nil)

// CloudFormationOperations defines the stack-side interface consumed
// by the decision engine: a snapshot read of one stack
type CloudFormationOperations interface {
	GetStack(ctx context.Context, stackName string) (*Stack, error)
}

// ServiceCatalogOperations defines the catalog-side interface consumed
// by the decision engine
type ServiceCatalogOperations interface {
	DescribeProduct(ctx context.Context, productID string) (*Product, error)
	AssociatePrincipal(ctx context.Context, portfolioID, principalARN string) error
	UpdateProvisionedProduct(ctx context.Context, input UpdateProvisionedProductInput) error
}
