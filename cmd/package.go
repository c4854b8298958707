/*
Copyright © 2026 CROP Contributors
SPDX-License-Identifier: Apache-2.0
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/trek10inc/crop/internal/template"
	"github.com/trek10inc/crop/internal/transform"
)

var (
	// processor can be injected for testing
	processor transform.TemplateProcessor
)

// packageOptions collects everything the transform pipeline needs
type packageOptions struct {
	templateFile    string
	outputFile      string
	stripBucket     bool
	assetBucket     string
	assets          []string
	vars            []string
	portfolioID     string
	productID       string
	force           bool
	intervalMinutes int
	agentBucket     string
	agentKey        string
	agentVersion    string
}

// packageCmd represents the package command
var packageCmd = &cobra.Command{
	Use:   "package",
	Short: "Transform a template into an auto-updating Service Catalog product template",
	Long: `Transform a packaged CloudFormation template for distribution through
AWS Service Catalog.

The pipeline applies three stages in order:

  1. strip   — remove the private serverless deployment bucket
               (skip with --keep-deployment-bucket)
  2. rewrite — repoint every Lambda function's code at the public
               distribution bucket, using --asset mappings
  3. inject  — add the scheduled auto-update agent, wired to the given
               portfolio and product

Asset mappings take the form name=key or name=key@version, where name is
the base file name of the code bundle referenced by the input template.

Examples:
  crop package -t packaged.yaml -o product.yaml \
      --bucket crop-dist --asset service.zip=v4/service.zip \
      --portfolio-id port-abc123 --product-id prod-def456 \
      --agent-key v4/crop-agent.zip

  crop package -t packaged.yaml --bucket crop-dist \
      --asset service.zip=v4/service.zip@3T1hT9cbmsoDkypJB2 \
      --portfolio-id port-abc123 --product-id prod-def456 \
      --agent-key v4/crop-agent.zip --force --interval 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := packageOptions{}
		opts.templateFile, _ = cmd.Flags().GetString("template")
		opts.outputFile, _ = cmd.Flags().GetString("output")
		keepBucket, _ := cmd.Flags().GetBool("keep-deployment-bucket")
		opts.stripBucket = !keepBucket
		opts.assetBucket, _ = cmd.Flags().GetString("bucket")
		opts.assets, _ = cmd.Flags().GetStringArray("asset")
		opts.vars, _ = cmd.Flags().GetStringArray("var")
		opts.portfolioID, _ = cmd.Flags().GetString("portfolio-id")
		opts.productID, _ = cmd.Flags().GetString("product-id")
		opts.force, _ = cmd.Flags().GetBool("force")
		opts.intervalMinutes, _ = cmd.Flags().GetInt("interval")
		opts.agentBucket, _ = cmd.Flags().GetString("agent-bucket")
		opts.agentKey, _ = cmd.Flags().GetString("agent-key")
		opts.agentVersion, _ = cmd.Flags().GetString("agent-version")
		return runPackage(opts)
	},
}

// getProcessor returns the template processor, creating a default one if none is set
func getProcessor() transform.TemplateProcessor {
	if processor != nil {
		return processor
	}
	return transform.NewSprigTemplateProcessor()
}

// SetProcessor allows injection of a template processor (for testing)
func SetProcessor(p transform.TemplateProcessor) {
	processor = p
}

// runPackage runs the full transform pipeline over the input template
func runPackage(opts packageOptions) error {
	content, err := os.ReadFile(opts.templateFile)
	if err != nil {
		return fmt.Errorf("failed to read template file %s: %w", opts.templateFile, err)
	}

	rendered := string(content)
	if len(opts.vars) > 0 {
		variables, err := parseVars(opts.vars)
		if err != nil {
			return err
		}
		rendered, err = getProcessor().Process(rendered, variables)
		if err != nil {
			return fmt.Errorf("failed to render template: %w", err)
		}
	}

	tmpl, err := template.Parse([]byte(rendered))
	if err != nil {
		return err
	}

	if opts.stripBucket {
		tmpl, err = transform.StripDeploymentBucket(tmpl)
		if err != nil {
			return err
		}
	}

	assets, err := parseAssets(opts.assets)
	if err != nil {
		return err
	}
	tmpl, err = transform.RewriteCodeLocations(tmpl, opts.assetBucket, assets)
	if err != nil {
		return err
	}

	agentBucket := opts.agentBucket
	if agentBucket == "" {
		agentBucket = opts.assetBucket
	}
	tmpl, err = transform.InjectUpdater(tmpl, transform.InjectOptions{
		PortfolioID:     opts.portfolioID,
		ProductID:       opts.productID,
		Force:           opts.force,
		IntervalMinutes: opts.intervalMinutes,
		AgentCode: transform.AgentCode{
			Bucket:        agentBucket,
			Key:           opts.agentKey,
			ObjectVersion: opts.agentVersion,
		},
	})
	if err != nil {
		return err
	}

	output, err := tmpl.Marshal()
	if err != nil {
		return err
	}

	if opts.outputFile == "" || opts.outputFile == "-" {
		fmt.Print(string(output))
		return nil
	}
	if err := os.WriteFile(opts.outputFile, output, 0o644); err != nil {
		return fmt.Errorf("failed to write template file %s: %w", opts.outputFile, err)
	}

	fmt.Printf("Wrote product template to %s\n", opts.outputFile)
	return nil
}

// parseAssets converts name=key[@version] flags into an asset map
func parseAssets(flags []string) (transform.AssetMap, error) {
	assets := make(transform.AssetMap, len(flags))
	for _, flag := range flags {
		name, location, ok := strings.Cut(flag, "=")
		if !ok || name == "" || location == "" {
			return nil, fmt.Errorf("invalid asset mapping %q, expected name=key[@version]", flag)
		}
		key, objectVersion, _ := strings.Cut(location, "@")
		assets[name] = transform.CodeLocation{
			Key:           key,
			ObjectVersion: objectVersion,
		}
	}
	return assets, nil
}

// parseVars converts key=value flags into template variables
func parseVars(flags []string) (map[string]interface{}, error) {
	variables := make(map[string]interface{}, len(flags))
	for _, flag := range flags {
		key, value, ok := strings.Cut(flag, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid variable %q, expected key=value", flag)
		}
		variables[key] = value
	}
	return variables, nil
}

func init() {
	rootCmd.AddCommand(packageCmd)

	packageCmd.Flags().StringP("template", "t", "", "input template file")
	packageCmd.Flags().StringP("output", "o", "-", "output file (- for stdout)")
	packageCmd.Flags().Bool("keep-deployment-bucket", false, "skip stripping the serverless deployment bucket")
	packageCmd.Flags().String("bucket", "", "distribution bucket consumers can read code assets from")
	packageCmd.Flags().StringArray("asset", nil, "asset mapping name=key[@version] (repeatable)")
	packageCmd.Flags().StringArray("var", nil, "template variable key=value (repeatable)")
	packageCmd.Flags().String("portfolio-id", "", "Service Catalog portfolio id")
	packageCmd.Flags().String("product-id", "", "Service Catalog product id")
	packageCmd.Flags().Bool("force", false, "force auto-updates instead of adding an operator toggle parameter")
	packageCmd.Flags().Int("interval", 15, "minutes between update checks")
	packageCmd.Flags().String("agent-bucket", "", "bucket holding the crop-agent binary (defaults to --bucket)")
	packageCmd.Flags().String("agent-key", "", "key of the crop-agent binary")
	packageCmd.Flags().String("agent-version", "", "object version of the crop-agent binary")

	_ = packageCmd.MarkFlagRequired("template")
	_ = packageCmd.MarkFlagRequired("bucket")
	_ = packageCmd.MarkFlagRequired("portfolio-id")
	_ = packageCmd.MarkFlagRequired("product-id")
	_ = packageCmd.MarkFlagRequired("agent-key")
}
