/*
Copyright © 2026 CROP Contributors
SPDX-License-Identifier: Apache-2.0
*/

// Package template provides an in-memory representation of
// CloudFormation templates that preserves the key order of the
// top-level collections across a parse/serialize round trip. The
// transform pipeline operates on these values without mutating its
// inputs: callers clone, mutate the clone, and return it.
package template

import (
	"bytes"
	"fmt"

	"github.com/mitchellh/copystructure"
	"gopkg.in/yaml.v3"
)

// Canonical top-level keys, in the order they are emitted when a
// section was not present in the parsed input.
const (
	keyFormatVersion = "AWSTemplateFormatVersion"
	keyDescription   = "Description"
	keyParameters    = "Parameters"
	keyMappings      = "Mappings"
	keyConditions    = "Conditions"
	keyResources     = "Resources"
	keyOutputs       = "Outputs"
)

var canonicalOrder = []string{
	keyFormatVersion,
	keyDescription,
	keyParameters,
	keyMappings,
	keyConditions,
	keyResources,
	keyOutputs,
}

// Template is a CloudFormation template document. Resources is the
// only required section. Top-level sections not modelled explicitly
// (Transform, Metadata, and so on) are carried through untouched.
type Template struct {
	FormatVersion string
	Description   string
	Parameters    *Section
	Mappings      *Section
	Conditions    *Section
	Resources     *Resources
	Outputs       *Section

	// order records the top-level keys as they appeared in the
	// parsed input so serialization can reproduce them.
	order []string
	extra map[string]any
}

// New creates an empty template with an empty resource collection
func New() *Template {
	return &Template{Resources: NewResources()}
}

// Parse decodes a YAML (or JSON) template document
func Parse(data []byte) (*Template, error) {
	t := &Template{}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	if t.Resources == nil {
		return nil, fmt.Errorf("template has no Resources section")
	}
	return t, nil
}

// Marshal serializes the template to YAML, emitting top-level sections
// in the order they were parsed
func (t *Template) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return nil, fmt.Errorf("failed to serialize template: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to serialize template: %w", err)
	}
	return buf.Bytes(), nil
}

// Clone returns a deep copy of the template. The copy shares no state
// with the original, so pipeline stages can mutate it freely.
func (t *Template) Clone() (*Template, error) {
	clone := &Template{
		FormatVersion: t.FormatVersion,
		Description:   t.Description,
	}

	var err error
	if clone.Parameters, err = t.Parameters.Clone(); err != nil {
		return nil, fmt.Errorf("failed to clone template: %w", err)
	}
	if clone.Mappings, err = t.Mappings.Clone(); err != nil {
		return nil, fmt.Errorf("failed to clone template: %w", err)
	}
	if clone.Conditions, err = t.Conditions.Clone(); err != nil {
		return nil, fmt.Errorf("failed to clone template: %w", err)
	}
	if clone.Resources, err = t.Resources.Clone(); err != nil {
		return nil, fmt.Errorf("failed to clone template: %w", err)
	}
	if clone.Outputs, err = t.Outputs.Clone(); err != nil {
		return nil, fmt.Errorf("failed to clone template: %w", err)
	}

	if t.order != nil {
		clone.order = make([]string, len(t.order))
		copy(clone.order, t.order)
	}
	if t.extra != nil {
		copied, err := copystructure.Copy(t.extra)
		if err != nil {
			return nil, fmt.Errorf("failed to clone template: %w", err)
		}
		clone.extra = copied.(map[string]any)
	}
	return clone, nil
}

// UnmarshalYAML decodes the top-level template mapping, recording the
// order in which sections appear
func (t *Template) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping node, got %s", nodeKind(node))
	}
	for i := 0; i < len(node.Content)-1; i += 2 {
		key := node.Content[i].Value
		value := node.Content[i+1]
		t.order = append(t.order, key)

		var err error
		switch key {
		case keyFormatVersion:
			err = value.Decode(&t.FormatVersion)
		case keyDescription:
			err = value.Decode(&t.Description)
		case keyParameters:
			t.Parameters = NewSection()
			err = value.Decode(t.Parameters)
		case keyMappings:
			t.Mappings = NewSection()
			err = value.Decode(t.Mappings)
		case keyConditions:
			t.Conditions = NewSection()
			err = value.Decode(t.Conditions)
		case keyResources:
			t.Resources = NewResources()
			err = value.Decode(t.Resources)
		case keyOutputs:
			t.Outputs = NewSection()
			err = value.Decode(t.Outputs)
		default:
			var raw any
			if err = value.Decode(&raw); err == nil {
				if t.extra == nil {
					t.extra = make(map[string]any)
				}
				t.extra[key] = raw
			}
		}
		if err != nil {
			return fmt.Errorf("failed to decode template section %q: %w", key, err)
		}
	}
	return nil
}

// MarshalYAML encodes the template, reproducing the parsed section
// order and appending sections added since parsing in canonical order
func (t *Template) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	emitted := make(map[string]bool)
	for _, key := range t.order {
		if emitted[key] {
			continue
		}
		if err := t.appendSection(node, key); err != nil {
			return nil, err
		}
		emitted[key] = true
	}
	for _, key := range canonicalOrder {
		if emitted[key] {
			continue
		}
		if err := t.appendSection(node, key); err != nil {
			return nil, err
		}
		emitted[key] = true
	}
	return node, nil
}

// appendSection appends a top-level key/value pair to the template
// mapping node. Absent sections are skipped; a section that is present
// but empty still serializes, so round trips stay faithful.
func (t *Template) appendSection(node *yaml.Node, key string) error {
	var value any
	switch key {
	case keyFormatVersion:
		if t.FormatVersion == "" {
			return nil
		}
		value = t.FormatVersion
	case keyDescription:
		if t.Description == "" {
			return nil
		}
		value = t.Description
	case keyParameters:
		if t.Parameters == nil {
			return nil
		}
		value = t.Parameters
	case keyMappings:
		if t.Mappings == nil {
			return nil
		}
		value = t.Mappings
	case keyConditions:
		if t.Conditions == nil {
			return nil
		}
		value = t.Conditions
	case keyResources:
		if t.Resources == nil {
			return nil
		}
		value = t.Resources
	case keyOutputs:
		if t.Outputs == nil {
			return nil
		}
		value = t.Outputs
	default:
		raw, ok := t.extra[key]
		if !ok {
			return nil
		}
		value = raw
	}

	keyNode := &yaml.Node{}
	if err := keyNode.Encode(key); err != nil {
		return err
	}
	valueNode := &yaml.Node{}
	if err := valueNode.Encode(value); err != nil {
		return fmt.Errorf("failed to encode template section %q: %w", key, err)
	}
	node.Content = append(node.Content, keyNode, valueNode)
	return nil
}
