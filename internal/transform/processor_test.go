/*
Copyright © 2026 CROP Contributors
SPDX-License-Identifier: Apache-2.0
*/
package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSprigTemplateProcessor_SubstitutesVariables(t *testing.T) {
	processor := NewSprigTemplateProcessor()

	content := "Description: {{ .Service }} ({{ .Stage }})\n"
	result, err := processor.Process(content, map[string]interface{}{
		"Service": "my-service",
		"Stage":   "prod",
	})
	require.NoError(t, err)
	assert.Equal(t, "Description: my-service (prod)\n", result)
}

func TestSprigTemplateProcessor_SupportsSprigFunctions(t *testing.T) {
	processor := NewSprigTemplateProcessor()

	result, err := processor.Process("{{ .Name | upper }}", map[string]interface{}{
		"Name": "crop",
	})
	require.NoError(t, err)
	assert.Equal(t, "CROP", result)
}

func TestSprigTemplateProcessor_FailsOnInvalidTemplate(t *testing.T) {
	processor := NewSprigTemplateProcessor()

	_, err := processor.Process("{{ .Unclosed", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse template")
}

func TestSprigTemplateProcessor_PassesPlainContentThrough(t *testing.T) {
	processor := NewSprigTemplateProcessor()

	content := "Resources:\n  Bucket:\n    Type: AWS::S3::Bucket\n"
	result, err := processor.Process(content, nil)
	require.NoError(t, err)
	assert.Equal(t, content, result)
}
