/*
Copyright © 2026 CROP Contributors
SPDX-License-Identifier: Apache-2.0
*/
package template

import (
	"fmt"

	"github.com/mitchellh/copystructure"
	"gopkg.in/yaml.v3"
)

// Resource is one named, typed entity within a template
type Resource struct {
	Type                string         `yaml:"Type"`
	Condition           string         `yaml:"Condition,omitempty"`
	DependsOn           any            `yaml:"DependsOn,omitempty"`
	DeletionPolicy      string         `yaml:"DeletionPolicy,omitempty"`
	UpdateReplacePolicy string         `yaml:"UpdateReplacePolicy,omitempty"`
	Metadata            map[string]any `yaml:"Metadata,omitempty"`
	Properties          map[string]any `yaml:"Properties,omitempty"`
}

// Clone returns a deep copy of the resource
func (r *Resource) Clone() (*Resource, error) {
	copied, err := copystructure.Copy(r)
	if err != nil {
		return nil, fmt.Errorf("failed to copy resource: %w", err)
	}
	return copied.(*Resource), nil
}

// Resources is an ordered mapping of logical ids to resources.
// Like Section, it preserves key order across serialization.
type Resources struct {
	keys   []string
	values map[string]*Resource
}

// NewResources creates an empty resource collection
func NewResources() *Resources {
	return &Resources{values: make(map[string]*Resource)}
}

// Len returns the number of resources
func (r *Resources) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Has reports whether a resource exists under the given logical id
func (r *Resources) Has(logicalID string) bool {
	if r == nil {
		return false
	}
	_, ok := r.values[logicalID]
	return ok
}

// Get returns the resource stored under logicalID, if present
func (r *Resources) Get(logicalID string) (*Resource, bool) {
	if r == nil {
		return nil, false
	}
	res, ok := r.values[logicalID]
	return res, ok
}

// Set stores resource under logicalID, appending to the iteration order
// if the id is new
func (r *Resources) Set(logicalID string, resource *Resource) {
	if r.values == nil {
		r.values = make(map[string]*Resource)
	}
	if _, ok := r.values[logicalID]; !ok {
		r.keys = append(r.keys, logicalID)
	}
	r.values[logicalID] = resource
}

// Delete removes the resource under logicalID and reports whether it
// was present
func (r *Resources) Delete(logicalID string) bool {
	if r == nil {
		return false
	}
	if _, ok := r.values[logicalID]; !ok {
		return false
	}
	delete(r.values, logicalID)
	for i, k := range r.keys {
		if k == logicalID {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
	return true
}

// Clone returns a deep copy of the resource collection
func (r *Resources) Clone() (*Resources, error) {
	if r == nil {
		return nil, nil
	}
	clone := NewResources()
	for _, logicalID := range r.keys {
		resource, err := r.values[logicalID].Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to copy resource %s: %w", logicalID, err)
		}
		clone.Set(logicalID, resource)
	}
	return clone, nil
}

// Keys returns the logical ids in insertion order
func (r *Resources) Keys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// UnmarshalYAML decodes the Resources mapping, retaining key order
func (r *Resources) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping node, got %s", nodeKind(node))
	}
	r.keys = nil
	r.values = make(map[string]*Resource, len(node.Content)/2)
	for i := 0; i < len(node.Content)-1; i += 2 {
		logicalID := node.Content[i].Value
		resource := &Resource{}
		if err := node.Content[i+1].Decode(resource); err != nil {
			return fmt.Errorf("failed to decode resource %q: %w", logicalID, err)
		}
		r.Set(logicalID, resource)
	}
	return nil
}

// MarshalYAML encodes the resources as a mapping node in insertion order
func (r *Resources) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, logicalID := range r.keys {
		keyNode := &yaml.Node{}
		if err := keyNode.Encode(logicalID); err != nil {
			return nil, err
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(r.values[logicalID]); err != nil {
			return nil, fmt.Errorf("failed to encode resource %q: %w", logicalID, err)
		}
		node.Content = append(node.Content, keyNode, valueNode)
	}
	return node, nil
}
