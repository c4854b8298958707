/*
Copyright © 2026 CROP Contributors
SPDX-License-Identifier: Apache-2.0
*/
package aws

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/servicecatalog"
	"github.com/aws/aws-sdk-go-v2/service/servicecatalog/types"
)

// ProvisioningArtifact is one immutable version of a product
type ProvisioningArtifact struct {
	ID          string
	Name        string
	CreatedTime time.Time
}

// Product represents a Service Catalog product and its ordered
// artifact list. The service returns artifacts in publication order;
// no ordering field is consulted beyond list position.
type Product struct {
	ID        string
	Name      string
	Artifacts []ProvisioningArtifact
}

// LatestArtifact returns the last entry of the product's artifact
// list, which is by contract the most recently published version
func (p *Product) LatestArtifact() (ProvisioningArtifact, error) {
	if len(p.Artifacts) == 0 {
		return ProvisioningArtifact{}, fmt.Errorf("product %s has no provisioning artifacts", p.ID)
	}
	return p.Artifacts[len(p.Artifacts)-1], nil
}

// UpdateParameter marks one provisioning parameter for an update call.
// The updater only ever reuses previous values; no value payloads are
// carried.
type UpdateParameter struct {
	Key              string
	UsePreviousValue bool
}

// UpdateProvisionedProductInput contains parameters for triggering an
// in-place update of a provisioned product
type UpdateProvisionedProductInput struct {
	ProvisionedProductID string
	ProductID            string
	ArtifactID           string
	Parameters           []UpdateParameter
}

// DefaultServiceCatalogOperations provides Service Catalog-specific operations
type DefaultServiceCatalogOperations struct {
	client ServiceCatalogClient
}

// NewServiceCatalogOperationsWithClient creates operations with a custom client (for testing)
func NewServiceCatalogOperationsWithClient(client ServiceCatalogClient) *DefaultServiceCatalogOperations {
	return &DefaultServiceCatalogOperations{client: client}
}

// DescribeProduct retrieves a product and its ordered artifact list
func (sc *DefaultServiceCatalogOperations) DescribeProduct(ctx context.Context, productID string) (*Product, error) {
	result, err := sc.client.DescribeProduct(ctx, &servicecatalog.DescribeProductInput{
		Id: aws.String(productID),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to describe product %s: %w", productID, err)
	}

	product := &Product{ID: productID}
	if result.ProductViewSummary != nil {
		product.Name = aws.ToString(result.ProductViewSummary.Name)
	}

	for _, artifact := range result.ProvisioningArtifacts {
		pa := ProvisioningArtifact{
			ID:   aws.ToString(artifact.Id),
			Name: aws.ToString(artifact.Name),
		}
		if artifact.CreatedTime != nil {
			pa.CreatedTime = *artifact.CreatedTime
		}
		product.Artifacts = append(product.Artifacts, pa)
	}

	return product, nil
}

// AssociatePrincipal grants an IAM principal access to a portfolio
func (sc *DefaultServiceCatalogOperations) AssociatePrincipal(ctx context.Context, portfolioID, principalARN string) error {
	_, err := sc.client.AssociatePrincipalWithPortfolio(ctx, &servicecatalog.AssociatePrincipalWithPortfolioInput{
		PortfolioId:   aws.String(portfolioID),
		PrincipalARN:  aws.String(principalARN),
		PrincipalType: types.PrincipalTypeIam,
	})

	if err != nil {
		return fmt.Errorf("failed to associate principal with portfolio %s: %w", portfolioID, err)
	}

	return nil
}

// UpdateProvisionedProduct triggers an in-place update of a
// provisioned product to the given artifact
func (sc *DefaultServiceCatalogOperations) UpdateProvisionedProduct(ctx context.Context, input UpdateProvisionedProductInput) error {
	params := make([]types.UpdateProvisioningParameter, len(input.Parameters))
	for i, p := range input.Parameters {
		params[i] = types.UpdateProvisioningParameter{
			Key:              aws.String(p.Key),
			UsePreviousValue: p.UsePreviousValue,
		}
	}

	_, err := sc.client.UpdateProvisionedProduct(ctx, &servicecatalog.UpdateProvisionedProductInput{
		ProvisionedProductId:   aws.String(input.ProvisionedProductID),
		ProductId:              aws.String(input.ProductID),
		ProvisioningArtifactId: aws.String(input.ArtifactID),
		ProvisioningParameters: params,
	})

	if err != nil {
		return fmt.Errorf("failed to update provisioned product %s: %w", input.ProvisionedProductID, err)
	}

	return nil
}
