/*
Copyright © 2026 CROP Contributors
SPDX-License-Identifier: Apache-2.0
*/
package transform

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trek10inc/crop/internal/template"
)

const plainTemplate = `Parameters:
  Stage:
    Type: String
Resources:
  HelloFunction:
    Type: AWS::Lambda::Function
    Properties:
      Code:
        S3Bucket: crop-dist
        S3Key: v4/hello.zip
`

func validInjectOptions() InjectOptions {
	return InjectOptions{
		PortfolioID:     "port-abc123",
		ProductID:       "prod-def456",
		Force:           false,
		IntervalMinutes: 15,
		AgentCode: AgentCode{
			Bucket: "crop-dist",
			Key:    "v4/crop-agent.zip",
		},
	}
}

func parseTemplate(t *testing.T, content string) *template.Template {
	t.Helper()
	tmpl, err := template.Parse([]byte(content))
	require.NoError(t, err)
	return tmpl
}

func TestInjectUpdater_AddsFourResources(t *testing.T) {
	tmpl := parseTemplate(t, plainTemplate)

	injected, err := InjectUpdater(tmpl, validInjectOptions())
	require.NoError(t, err)

	for _, logicalID := range []string{UpdaterRoleID, UpdaterEventID, UpdaterEventPermissionID, UpdaterFunctionID} {
		assert.True(t, injected.Resources.Has(logicalID), "expected injected resource %s", logicalID)
	}

	role, _ := injected.Resources.Get(UpdaterRoleID)
	assert.Equal(t, "AWS::IAM::Role", role.Type)
	event, _ := injected.Resources.Get(UpdaterEventID)
	assert.Equal(t, "AWS::Events::Rule", event.Type)
	permission, _ := injected.Resources.Get(UpdaterEventPermissionID)
	assert.Equal(t, "AWS::Lambda::Permission", permission.Type)
	function, _ := injected.Resources.Get(UpdaterFunctionID)
	assert.Equal(t, "AWS::Lambda::Function", function.Type)
}

func TestInjectUpdater_WiresAgentConfiguration(t *testing.T) {
	tmpl := parseTemplate(t, plainTemplate)

	injected, err := InjectUpdater(tmpl, validInjectOptions())
	require.NoError(t, err)

	function, _ := injected.Resources.Get(UpdaterFunctionID)

	code := function.Properties["Code"].(map[string]any)
	assert.Equal(t, "crop-dist", code["S3Bucket"])
	assert.Equal(t, "v4/crop-agent.zip", code["S3Key"])
	assert.NotContains(t, code, "S3ObjectVersion")

	env := function.Properties["Environment"].(map[string]any)
	variables := env["Variables"].(map[string]any)
	assert.Equal(t, "port-abc123", variables["PortfolioId"])
	assert.Equal(t, "prod-def456", variables["ProductId"])
	assert.Equal(t, map[string]any{"Ref": "AWS::StackName"}, variables["StackName"])
	assert.Equal(t, map[string]any{"Fn::GetAtt": []any{UpdaterRoleID, "Arn"}}, variables["AutoUpdaterRoleARN"])
}

func TestInjectUpdater_AgentCodeObjectVersion(t *testing.T) {
	tmpl := parseTemplate(t, plainTemplate)

	opts := validInjectOptions()
	opts.AgentCode.ObjectVersion = "3T1hT9cbmsoDkypJB2"
	injected, err := InjectUpdater(tmpl, opts)
	require.NoError(t, err)

	function, _ := injected.Resources.Get(UpdaterFunctionID)
	code := function.Properties["Code"].(map[string]any)
	assert.Equal(t, "3T1hT9cbmsoDkypJB2", code["S3ObjectVersion"])
}

func TestInjectUpdater_OptionalUpdatesAddParameterAndCondition(t *testing.T) {
	tmpl := parseTemplate(t, plainTemplate)

	injected, err := InjectUpdater(tmpl, validInjectOptions())
	require.NoError(t, err)

	param, ok := injected.Parameters.Get(AutoUpdatesParameterID)
	require.True(t, ok)
	assert.Equal(t, AutoUpdatesEnabled, param.(map[string]any)["Default"])
	assert.Equal(t, []any{"Enable", "Disable"}, param.(map[string]any)["AllowedValues"])

	condition, ok := injected.Conditions.Get(UpdatingConditionID)
	require.True(t, ok)
	assert.Equal(t, map[string]any{
		"Fn::Equals": []any{
			map[string]any{"Ref": AutoUpdatesParameterID},
			AutoUpdatesEnabled,
		},
	}, condition)

	for _, logicalID := range []string{UpdaterRoleID, UpdaterEventID, UpdaterEventPermissionID, UpdaterFunctionID} {
		resource, _ := injected.Resources.Get(logicalID)
		assert.Equal(t, UpdatingConditionID, resource.Condition,
			"resource %s should be gated on the updating condition", logicalID)
	}
}

func TestInjectUpdater_ForcedUpdatesAreUnconditional(t *testing.T) {
	tmpl := parseTemplate(t, plainTemplate)

	opts := validInjectOptions()
	opts.Force = true
	injected, err := InjectUpdater(tmpl, opts)
	require.NoError(t, err)

	assert.False(t, injected.Parameters.Has(AutoUpdatesParameterID))
	assert.False(t, injected.Conditions.Has(UpdatingConditionID))

	for _, logicalID := range []string{UpdaterRoleID, UpdaterEventID, UpdaterEventPermissionID, UpdaterFunctionID} {
		resource, _ := injected.Resources.Get(logicalID)
		assert.Empty(t, resource.Condition, "resource %s should not carry a condition", logicalID)
	}
}

func TestInjectUpdater_IntervalWording(t *testing.T) {
	tests := []struct {
		interval int
		expected string
	}{
		{interval: 1, expected: "rate(1 minute)"},
		{interval: 5, expected: "rate(5 minutes)"},
		{interval: 15, expected: "rate(15 minutes)"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			tmpl := parseTemplate(t, plainTemplate)

			opts := validInjectOptions()
			opts.IntervalMinutes = tc.interval
			injected, err := InjectUpdater(tmpl, opts)
			require.NoError(t, err)

			event, _ := injected.Resources.Get(UpdaterEventID)
			assert.Equal(t, tc.expected, event.Properties["ScheduleExpression"])
		})
	}
}

func TestInjectUpdater_RejectsInvalidInterval(t *testing.T) {
	for _, interval := range []int{0, -1, -15} {
		t.Run(fmt.Sprintf("interval=%d", interval), func(t *testing.T) {
			tmpl := parseTemplate(t, plainTemplate)

			opts := validInjectOptions()
			opts.IntervalMinutes = interval
			_, err := InjectUpdater(tmpl, opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInterval)
		})
	}
}

func TestInjectUpdater_RejectsReservedResourceIDs(t *testing.T) {
	for _, logicalID := range []string{UpdaterRoleID, UpdaterEventID, UpdaterEventPermissionID, UpdaterFunctionID} {
		t.Run(logicalID, func(t *testing.T) {
			content := fmt.Sprintf("Resources:\n  %s:\n    Type: AWS::S3::Bucket\n", logicalID)
			tmpl := parseTemplate(t, content)

			_, err := InjectUpdater(tmpl, validInjectOptions())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrReservedID)

			// Input must be untouched after a collision failure
			assert.Equal(t, []string{logicalID}, tmpl.Resources.Keys())
			assert.False(t, tmpl.Parameters.Has(AutoUpdatesParameterID))
		})
	}
}

func TestInjectUpdater_RejectsReservedParameterID(t *testing.T) {
	content := "Parameters:\n  AutoUpdates:\n    Type: String\nResources:\n  Bucket:\n    Type: AWS::S3::Bucket\n"
	tmpl := parseTemplate(t, content)

	_, err := InjectUpdater(tmpl, validInjectOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReservedID)
	assert.Contains(t, err.Error(), AutoUpdatesParameterID)
}

func TestInjectUpdater_RejectsReservedConditionID(t *testing.T) {
	content := "Conditions:\n  CROPAutoUpdating:\n    Fn::Equals: [a, b]\nResources:\n  Bucket:\n    Type: AWS::S3::Bucket\n"
	tmpl := parseTemplate(t, content)

	_, err := InjectUpdater(tmpl, validInjectOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrReservedID)
	assert.Contains(t, err.Error(), UpdatingConditionID)
}

func TestInjectUpdater_RequiresAgentCode(t *testing.T) {
	tmpl := parseTemplate(t, plainTemplate)

	opts := validInjectOptions()
	opts.AgentCode = AgentCode{}
	_, err := InjectUpdater(tmpl, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "agent code")
}

func TestInjectUpdater_DoesNotMutateInput(t *testing.T) {
	tmpl := parseTemplate(t, plainTemplate)

	_, err := InjectUpdater(tmpl, validInjectOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"HelloFunction"}, tmpl.Resources.Keys())
	assert.Equal(t, []string{"Stage"}, tmpl.Parameters.Keys())
	assert.Equal(t, 0, tmpl.Conditions.Len())
}

func TestInjectUpdater_CreatesMissingSections(t *testing.T) {
	// No Parameters or Conditions sections at all
	tmpl := parseTemplate(t, "Resources:\n  Bucket:\n    Type: AWS::S3::Bucket\n")

	injected, err := InjectUpdater(tmpl, validInjectOptions())
	require.NoError(t, err)

	assert.True(t, injected.Parameters.Has(AutoUpdatesParameterID))
	assert.True(t, injected.Conditions.Has(UpdatingConditionID))
}

func TestScheduleExpression(t *testing.T) {
	assert.Equal(t, "rate(1 minute)", scheduleExpression(1))
	assert.Equal(t, "rate(2 minutes)", scheduleExpression(2))
	assert.Equal(t, "rate(60 minutes)", scheduleExpression(60))
}
