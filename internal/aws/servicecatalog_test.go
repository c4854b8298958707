/*
Copyright © 2026 CROP Contributors
SPDX-License-Identifier: Apache-2.0
*/
package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/servicecatalog"
	"github.com/aws/aws-sdk-go-v2/service/servicecatalog/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDescribeProduct_MapsArtifactsInOrder(t *testing.T) {
	client := &MockServiceCatalogClient{}
	first := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	second := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	client.On("DescribeProduct", mock.Anything, &servicecatalog.DescribeProductInput{
		Id: aws.String("prod-def456"),
	}).Return(&servicecatalog.DescribeProductOutput{
		ProductViewSummary: &types.ProductViewSummary{
			Name: aws.String("my-service"),
		},
		ProvisioningArtifacts: []types.ProvisioningArtifact{
			{Id: aws.String("pa-1"), Name: aws.String("v1"), CreatedTime: &first},
			{Id: aws.String("pa-2"), Name: aws.String("v2"), CreatedTime: &second},
		},
	}, nil)

	ops := NewServiceCatalogOperationsWithClient(client)
	product, err := ops.DescribeProduct(context.Background(), "prod-def456")

	require.NoError(t, err)
	assert.Equal(t, "prod-def456", product.ID)
	assert.Equal(t, "my-service", product.Name)
	require.Len(t, product.Artifacts, 2)
	assert.Equal(t, "pa-1", product.Artifacts[0].ID)
	assert.Equal(t, "pa-2", product.Artifacts[1].ID)
	assert.Equal(t, second, product.Artifacts[1].CreatedTime)

	latest, err := product.LatestArtifact()
	require.NoError(t, err)
	assert.Equal(t, "pa-2", latest.ID)
}

func TestDescribeProduct_FailsWhenCallFails(t *testing.T) {
	client := &MockServiceCatalogClient{}
	client.On("DescribeProduct", mock.Anything, mock.Anything).
		Return(nil, errors.New("throttled"))

	ops := NewServiceCatalogOperationsWithClient(client)
	_, err := ops.DescribeProduct(context.Background(), "prod-def456")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to describe product")
}

func TestLatestArtifact_FailsOnEmptyList(t *testing.T) {
	product := &Product{ID: "prod-def456"}
	_, err := product.LatestArtifact()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no provisioning artifacts")
}

func TestAssociatePrincipal_SendsIAMPrincipal(t *testing.T) {
	client := &MockServiceCatalogClient{}
	client.On("AssociatePrincipalWithPortfolio", mock.Anything, &servicecatalog.AssociatePrincipalWithPortfolioInput{
		PortfolioId:   aws.String("port-abc123"),
		PrincipalARN:  aws.String("arn:aws:iam::123456789012:role/CROPAutoUpdaterRole"),
		PrincipalType: types.PrincipalTypeIam,
	}).Return(&servicecatalog.AssociatePrincipalWithPortfolioOutput{}, nil)

	ops := NewServiceCatalogOperationsWithClient(client)
	err := ops.AssociatePrincipal(context.Background(), "port-abc123", "arn:aws:iam::123456789012:role/CROPAutoUpdaterRole")

	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestUpdateProvisionedProduct_MarksParametersReusePrevious(t *testing.T) {
	client := &MockServiceCatalogClient{}

	var captured *servicecatalog.UpdateProvisionedProductInput
	client.On("UpdateProvisionedProduct", mock.Anything, mock.MatchedBy(func(input *servicecatalog.UpdateProvisionedProductInput) bool {
		captured = input
		return true
	})).Return(&servicecatalog.UpdateProvisionedProductOutput{}, nil)

	ops := NewServiceCatalogOperationsWithClient(client)
	err := ops.UpdateProvisionedProduct(context.Background(), UpdateProvisionedProductInput{
		ProvisionedProductID: "pp-abcdefghijklm",
		ProductID:            "prod-def456",
		ArtifactID:           "pa-2",
		Parameters: []UpdateParameter{
			{Key: "Stage", UsePreviousValue: true},
			{Key: "MemorySize", UsePreviousValue: true},
		},
	})

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, "pp-abcdefghijklm", aws.ToString(captured.ProvisionedProductId))
	assert.Equal(t, "prod-def456", aws.ToString(captured.ProductId))
	assert.Equal(t, "pa-2", aws.ToString(captured.ProvisioningArtifactId))
	require.Len(t, captured.ProvisioningParameters, 2)
	for _, param := range captured.ProvisioningParameters {
		assert.True(t, param.UsePreviousValue)
		assert.Nil(t, param.Value, "no value payloads should be carried")
	}
}

func TestUpdateProvisionedProduct_FailsWhenCallFails(t *testing.T) {
	client := &MockServiceCatalogClient{}
	client.On("UpdateProvisionedProduct", mock.Anything, mock.Anything).
		Return(nil, errors.New("validation error"))

	ops := NewServiceCatalogOperationsWithClient(client)
	err := ops.UpdateProvisionedProduct(context.Background(), UpdateProvisionedProductInput{
		ProvisionedProductID: "pp-abcdefghijklm",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to update provisioned product")
}
