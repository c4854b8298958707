/*
Copyright © 2026 CROP Contributors
SPDX-License-Identifier: Apache-2.0
*/

// Package transform implements the template transform pipeline: pure
// operations over a parsed template that strip the private deployment
// bucket, rewrite Lambda code locations to a distribution bucket, and
// inject the auto-update agent. Stages never mutate their input; each
// returns a new template value.
package transform

import (
	"errors"
	"fmt"

	"github.com/trek10inc/crop/internal/template"
)

// Logical ids of the serverless deployment bucket entries removed by
// StripDeploymentBucket.
const (
	DeploymentBucketResourceID = "ServerlessDeploymentBucket"
	DeploymentBucketOutputID   = "ServerlessDeploymentBucketName"
)

var (
	// ErrEntryNotFound indicates a template key a stage expected to
	// find was absent
	ErrEntryNotFound = errors.New("template entry not found")

	// ErrAssetNotMapped indicates a Lambda code asset with no entry
	// in the asset map
	ErrAssetNotMapped = errors.New("asset not present in asset map")

	// ErrReservedID indicates a template already uses a logical id
	// reserved by the injected updater
	ErrReservedID = errors.New("logical id conflicts with ids reserved by CROP")
)

// StripDeploymentBucket removes the resource and output that provision
// the private serverless deployment bucket. The input is expected to
// contain both entries; a missing entry is a lookup error. Callers
// whose templates have no embedded bucket must not call this stage.
func StripDeploymentBucket(t *template.Template) (*template.Template, error) {
	if !t.Resources.Has(DeploymentBucketResourceID) {
		return nil, fmt.Errorf("%w: resource %s", ErrEntryNotFound, DeploymentBucketResourceID)
	}
	if !t.Outputs.Has(DeploymentBucketOutputID) {
		return nil, fmt.Errorf("%w: output %s", ErrEntryNotFound, DeploymentBucketOutputID)
	}

	stripped, err := t.Clone()
	if err != nil {
		return nil, err
	}
	stripped.Resources.Delete(DeploymentBucketResourceID)
	stripped.Outputs.Delete(DeploymentBucketOutputID)
	if stripped.Outputs.Len() == 0 {
		// CloudFormation rejects an empty Outputs block
		stripped.Outputs = nil
	}
	return stripped, nil
}
