/*
Copyright © 2026 CROP Contributors
SPDX-License-Identifier: Apache-2.0
*/
package transform

import (
	"errors"
	"fmt"

	"github.com/trek10inc/crop/internal/template"
)

// Logical ids reserved by InjectUpdater. Templates that already use
// any of them are rejected.
const (
	UpdaterRoleID            = "CROPAutoUpdaterRole"
	UpdaterEventID           = "CROPAutoUpdaterEvent"
	UpdaterEventPermissionID = "CROPAutoUpdaterEventPermission"
	UpdaterFunctionID        = "CROPAutoUpdaterFunction"

	// AutoUpdatesParameterID is the operator-facing toggle parameter
	// added when updates are not forced.
	AutoUpdatesParameterID = "AutoUpdates"

	// UpdatingConditionID gates the injected resources on the toggle
	// parameter.
	UpdatingConditionID = "CROPAutoUpdating"

	// AutoUpdatesEnabled is the parameter value that turns the
	// injected updater on.
	AutoUpdatesEnabled = "Enable"
)

var reservedResourceIDs = []string{
	UpdaterRoleID,
	UpdaterEventID,
	UpdaterEventPermissionID,
	UpdaterFunctionID,
}

// ErrInvalidInterval indicates a polling interval below one minute
var ErrInvalidInterval = errors.New("autoupdate interval must be at least 1 minute")

// AgentCode locates the packaged updater agent binary the injected
// function runs. The agent is versioned and uploaded separately; the
// pipeline only wires the reference.
type AgentCode struct {
	Bucket        string
	Key           string
	ObjectVersion string
}

// InjectOptions configures InjectUpdater.
type InjectOptions struct {
	// PortfolioID is the Service Catalog portfolio the updater
	// enrolls its execution role into.
	PortfolioID string

	// ProductID is the Service Catalog product polled for new
	// provisioning artifacts.
	ProductID string

	// Force makes the injected resources unconditional. When false,
	// an AutoUpdates template parameter lets the stack's operator
	// disable updating at provision time.
	Force bool

	// IntervalMinutes is the polling schedule, at least one minute.
	IntervalMinutes int

	// AgentCode locates the updater agent binary.
	AgentCode AgentCode
}

// InjectUpdater adds the auto-update agent to a template: an execution
// role, a scheduled event rule, the event's invoke permission, and the
// agent function itself, wired with the portfolio id, product id, the
// stack's own name, and the role's ARN as environment variables.
//
// Every precondition failure leaves the input untouched and returns an
// error; a template that fails injection must be discarded, not
// retried.
func InjectUpdater(t *template.Template, opts InjectOptions) (*template.Template, error) {
	for _, logicalID := range reservedResourceIDs {
		if t.Resources.Has(logicalID) {
			return nil, fmt.Errorf("%w: resource %s", ErrReservedID, logicalID)
		}
	}
	if t.Parameters.Has(AutoUpdatesParameterID) {
		return nil, fmt.Errorf("%w: parameter %s", ErrReservedID, AutoUpdatesParameterID)
	}
	if t.Conditions.Has(UpdatingConditionID) {
		return nil, fmt.Errorf("%w: condition %s", ErrReservedID, UpdatingConditionID)
	}
	if opts.IntervalMinutes < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidInterval, opts.IntervalMinutes)
	}
	if opts.AgentCode.Bucket == "" || opts.AgentCode.Key == "" {
		return nil, fmt.Errorf("agent code bucket and key are required")
	}

	injected, err := t.Clone()
	if err != nil {
		return nil, err
	}

	injected.Resources.Set(UpdaterRoleID, updaterRole())
	injected.Resources.Set(UpdaterEventID, updaterEvent(opts.IntervalMinutes))
	injected.Resources.Set(UpdaterEventPermissionID, updaterEventPermission())
	injected.Resources.Set(UpdaterFunctionID, updaterFunction(opts))

	if !opts.Force {
		if injected.Parameters == nil {
			injected.Parameters = template.NewSection()
		}
		injected.Parameters.Set(AutoUpdatesParameterID, map[string]any{
			"Type": "String",
			"Description": "Allow the service to automatically update itself when " +
				"an update is available, otherwise you must manually approve updates.",
			"AllowedValues": []any{"Enable", "Disable"},
			"Default":       AutoUpdatesEnabled,
		})

		if injected.Conditions == nil {
			injected.Conditions = template.NewSection()
		}
		injected.Conditions.Set(UpdatingConditionID, map[string]any{
			"Fn::Equals": []any{
				map[string]any{"Ref": AutoUpdatesParameterID},
				AutoUpdatesEnabled,
			},
		})

		for _, logicalID := range reservedResourceIDs {
			resource, _ := injected.Resources.Get(logicalID)
			resource.Condition = UpdatingConditionID
		}
	}

	return injected, nil
}

// scheduleExpression renders the polling interval as an EventBridge
// rate expression, with singular wording for a one-minute interval
func scheduleExpression(intervalMinutes int) string {
	if intervalMinutes == 1 {
		return "rate(1 minute)"
	}
	return fmt.Sprintf("rate(%d minutes)", intervalMinutes)
}

// updaterRole builds the agent's execution role. The role enrolls
// itself into the portfolio on first run, so it carries the update
// policy up front.
func updaterRole() *template.Resource {
	return &template.Resource{
		Type: "AWS::IAM::Role",
		Properties: map[string]any{
			"AssumeRolePolicyDocument": map[string]any{
				"Version": "2012-10-17",
				"Statement": []any{
					map[string]any{
						"Action": []any{"sts:AssumeRole"},
						"Effect": "Allow",
						"Principal": map[string]any{
							"Service": []any{"lambda.amazonaws.com"},
						},
					},
				},
			},
			"Policies": []any{
				map[string]any{
					"PolicyName": "AutoUpdateServiceCatalog",
					"PolicyDocument": map[string]any{
						"Version": "2012-10-17",
						"Statement": []any{
							map[string]any{
								"Action":   []any{"*"},
								"Effect":   "Allow",
								"Resource": []any{"*"},
							},
						},
					},
				},
			},
		},
	}
}

// updaterEvent builds the scheduled rule that invokes the agent
func updaterEvent(intervalMinutes int) *template.Resource {
	return &template.Resource{
		Type: "AWS::Events::Rule",
		Properties: map[string]any{
			"ScheduleExpression": scheduleExpression(intervalMinutes),
			"State":              "ENABLED",
			"Targets": []any{
				map[string]any{
					"Arn": map[string]any{"Fn::GetAtt": []any{UpdaterFunctionID, "Arn"}},
					"Id":  "autoUpdaterSchedule",
				},
			},
		},
	}
}

// updaterEventPermission allows the event rule to invoke the agent
func updaterEventPermission() *template.Resource {
	return &template.Resource{
		Type: "AWS::Lambda::Permission",
		Properties: map[string]any{
			"Action":       "lambda:InvokeFunction",
			"FunctionName": map[string]any{"Fn::GetAtt": []any{UpdaterFunctionID, "Arn"}},
			"Principal":    "events.amazonaws.com",
			"SourceArn":    map[string]any{"Fn::GetAtt": []any{UpdaterEventID, "Arn"}},
		},
	}
}

// updaterFunction builds the agent function itself. Its environment
// variables are the agent's entire configuration surface.
func updaterFunction(opts InjectOptions) *template.Resource {
	code := map[string]any{
		"S3Bucket": opts.AgentCode.Bucket,
		"S3Key":    opts.AgentCode.Key,
	}
	if opts.AgentCode.ObjectVersion != "" {
		code["S3ObjectVersion"] = opts.AgentCode.ObjectVersion
	}

	return &template.Resource{
		Type: LambdaFunctionType,
		Properties: map[string]any{
			"Code":        code,
			"Description": "AutoUpdater for ServiceCatalog Function",
			"Handler":     "bootstrap",
			"MemorySize":  256,
			"Environment": map[string]any{
				"Variables": map[string]any{
					"PortfolioId":        opts.PortfolioID,
					"StackName":          map[string]any{"Ref": "AWS::StackName"},
					"AutoUpdaterRoleARN": map[string]any{"Fn::GetAtt": []any{UpdaterRoleID, "Arn"}},
					"ProductId":          opts.ProductID,
				},
			},
			"Role":    map[string]any{"Fn::GetAtt": []any{UpdaterRoleID, "Arn"}},
			"Runtime": "provided.al2023",
			"Timeout": 30,
		},
	}
}
