/*
Copyright © 2026 CROP Contributors
SPDX-License-Identifier: Apache-2.0
*/
package transform

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// TemplateProcessor defines the interface for pre-rendering template
// documents before they enter the pipeline
type TemplateProcessor interface {
	Process(templateContent string, variables map[string]interface{}) (string, error)
}

// SprigTemplateProcessor implements TemplateProcessor using Go's
// text/template with Sprig functions
type SprigTemplateProcessor struct{}

// NewSprigTemplateProcessor creates a new template processor
func NewSprigTemplateProcessor() *SprigTemplateProcessor {
	return &SprigTemplateProcessor{}
}

// Process renders a template document with the provided variables
// using Go templates and Sprig functions
func (tp *SprigTemplateProcessor) Process(templateContent string, variables map[string]interface{}) (string, error) {
	tmpl, err := template.New("cloudformation").
		Funcs(sprig.TxtFuncMap()).
		Parse(templateContent)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, variables)
	if err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}
