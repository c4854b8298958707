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

// Section is an ordered mapping of logical ids to arbitrary template
// values (parameter definitions, condition expressions, outputs).
// Key order survives a parse/serialize round trip so that generated
// templates diff cleanly against their inputs.
type Section struct {
	keys   []string
	values map[string]any
}

// NewSection creates an empty section
func NewSection() *Section {
	return &Section{values: make(map[string]any)}
}

// Len returns the number of entries in the section
func (s *Section) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Has reports whether the section contains the given key
func (s *Section) Has(key string) bool {
	if s == nil {
		return false
	}
	_, ok := s.values[key]
	return ok
}

// Get returns the value stored under key, if present
func (s *Section) Get(key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key, appending the key to the iteration order
// if it is not already present
func (s *Section) Set(key string, value any) {
	if s.values == nil {
		s.values = make(map[string]any)
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Delete removes key from the section and reports whether it was present
func (s *Section) Delete(key string) bool {
	if s == nil {
		return false
	}
	if _, ok := s.values[key]; !ok {
		return false
	}
	delete(s.values, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
	return true
}

// Clone returns a deep copy of the section
func (s *Section) Clone() (*Section, error) {
	if s == nil {
		return nil, nil
	}
	copied, err := copystructure.Copy(s.values)
	if err != nil {
		return nil, fmt.Errorf("failed to copy section: %w", err)
	}
	clone := &Section{values: copied.(map[string]any)}
	clone.keys = make([]string, len(s.keys))
	copy(clone.keys, s.keys)
	return clone, nil
}

// Keys returns the section's keys in insertion order
func (s *Section) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, len(s.keys))
	copy(keys, s.keys)
	return keys
}

// UnmarshalYAML decodes a YAML mapping node, retaining key order
func (s *Section) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping node, got %s", nodeKind(node))
	}
	s.keys = nil
	s.values = make(map[string]any, len(node.Content)/2)
	for i := 0; i < len(node.Content)-1; i += 2 {
		key := node.Content[i].Value
		var value any
		if err := node.Content[i+1].Decode(&value); err != nil {
			return fmt.Errorf("failed to decode value for key %q: %w", key, err)
		}
		s.Set(key, value)
	}
	return nil
}

// MarshalYAML encodes the section as a mapping node in insertion order
func (s *Section) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range s.keys {
		keyNode := &yaml.Node{}
		if err := keyNode.Encode(key); err != nil {
			return nil, err
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(s.values[key]); err != nil {
			return nil, fmt.Errorf("failed to encode value for key %q: %w", key, err)
		}
		node.Content = append(node.Content, keyNode, valueNode)
	}
	return node, nil
}

// nodeKind describes a YAML node kind for error messages
func nodeKind(node *yaml.Node) string {
	switch node.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
