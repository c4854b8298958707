/*
Copyright © 2026 CROP Contributors
SPDX-License-Identifier: Apache-2.0
*/
package transform

import (
	"fmt"
	"path"

	"github.com/trek10inc/crop/internal/template"
)

// LambdaFunctionType is the CloudFormation resource type whose code
// locations the pipeline rewrites.
const LambdaFunctionType = "AWS::Lambda::Function"

// CodeLocation identifies an object in the distribution bucket. An
// empty ObjectVersion means the unversioned key is referenced.
type CodeLocation struct {
	Key           string
	ObjectVersion string
}

// AssetMap maps a code asset's base file name to its location in the
// distribution bucket.
type AssetMap map[string]CodeLocation

// RewriteCodeLocations repoints every Lambda function's Code property
// at the distribution bucket. The asset's base name is taken from the
// function's current Code.S3Key and looked up in assets; the map must
// cover every function in the template. On a missing entry the whole
// stage fails and the input is returned unmodified — no partially
// rewritten template escapes.
//
// Reapplying with the same map is idempotent. Reapplying with a
// different map overwrites again; last write wins.
func RewriteCodeLocations(t *template.Template, bucket string, assets AssetMap) (*template.Template, error) {
	rewritten, err := t.Clone()
	if err != nil {
		return nil, err
	}

	for _, logicalID := range rewritten.Resources.Keys() {
		resource, _ := rewritten.Resources.Get(logicalID)
		if resource.Type != LambdaFunctionType {
			continue
		}

		assetName, err := codeAssetName(resource)
		if err != nil {
			return nil, fmt.Errorf("resource %s: %w", logicalID, err)
		}

		location, ok := assets[assetName]
		if !ok {
			return nil, fmt.Errorf("%w: %s (resource %s)", ErrAssetNotMapped, assetName, logicalID)
		}

		code := map[string]any{
			"S3Bucket": bucket,
			"S3Key":    location.Key,
		}
		if location.ObjectVersion != "" {
			code["S3ObjectVersion"] = location.ObjectVersion
		}
		if resource.Properties == nil {
			resource.Properties = make(map[string]any)
		}
		resource.Properties["Code"] = code
	}

	return rewritten, nil
}

// codeAssetName extracts the base file name from a Lambda function's
// current Code.S3Key property
func codeAssetName(resource *template.Resource) (string, error) {
	code, ok := resource.Properties["Code"].(map[string]any)
	if !ok {
		return "", fmt.Errorf("%w: Properties.Code", ErrEntryNotFound)
	}
	key, ok := code["S3Key"].(string)
	if !ok || key == "" {
		return "", fmt.Errorf("%w: Properties.Code.S3Key", ErrEntryNotFound)
	}
	return path.Base(key), nil
}
