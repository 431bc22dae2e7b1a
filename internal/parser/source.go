// Package parser provides utilities for parsing and transforming input data.
// It decodes inventory documents into ordered source bundles and turns target
// bundles into reference graphs.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/talifan/adv-reverse2seaf/internal/models"
)

// ErrStructure matches every StructureError.
var ErrStructure = errors.New("malformed source bundle")

// StructureError reports a document whose shape is not kind → key → attributes.
type StructureError struct {
	Path   string
	Reason string
}

func (e *StructureError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", ErrStructure, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrStructure, e.Path, e.Reason)
}

func (e *StructureError) Is(target error) bool {
	return target == ErrStructure
}

// ParseSource decodes a YAML or JSON inventory document. Mapping order is
// kept at every level. A null document yields an empty bundle.
func ParseSource(data []byte) (*models.SourceBundle, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("empty source data")
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal source: %w", err)
	}

	bundle := models.NewSourceBundle()
	root := resolve(&doc)
	if root == nil || isNull(root) {
		return bundle, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, &StructureError{Reason: "document must be a mapping of entity kinds"}
	}

	err := eachPair(root, func(kind string, value *yaml.Node) error {
		collection, err := decodeCollection(kind, value)
		if err != nil {
			return err
		}
		bundle.Set(kind, collection)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bundle, nil
}

func decodeCollection(kind string, node *yaml.Node) (*models.Collection, error) {
	collection := &models.Collection{}
	node = resolve(node)
	if isNull(node) {
		return collection, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, &StructureError{Path: kind, Reason: "entity kind must be a mapping"}
	}
	err := eachPair(node, func(key string, value *yaml.Node) error {
		value = resolve(value)
		if isNull(value) {
			collection.Set(key, models.NewMap())
			return nil
		}
		if value.Kind != yaml.MappingNode {
			return &StructureError{Path: kind + "." + key, Reason: "entity must be a mapping"}
		}
		attrs, err := decodeMap(value)
		if err != nil {
			return fmt.Errorf("failed to decode %s.%s: %w", kind, key, err)
		}
		collection.Set(key, attrs)
		return nil
	})
	return collection, err
}

func decodeMap(node *yaml.Node) (*models.Map, error) {
	out := models.NewMap()
	err := eachPair(node, func(key string, value *yaml.Node) error {
		decoded, err := decodeValue(value)
		if err != nil {
			return err
		}
		out.Set(key, decoded)
		return nil
	})
	return out, err
}

func decodeValue(node *yaml.Node) (any, error) {
	node = resolve(node)
	switch node.Kind {
	case yaml.MappingNode:
		return decodeMap(node)
	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			item, err := decodeValue(child)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	case yaml.ScalarNode:
		return decodeScalar(node)
	}
	return nil, nil
}

func decodeScalar(node *yaml.Node) (any, error) {
	switch node.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int":
		if n, err := strconv.Atoi(node.Value); err == nil {
			return n, nil
		}
		var n any
		if err := node.Decode(&n); err != nil {
			return nil, err
		}
		return n, nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, err
		}
		return f, nil
	}
	return node.Value, nil
}

// eachPair visits the pairs of a mapping node in document order, expanding
// merge keys in place.
func eachPair(node *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	node = resolve(node)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.ShortTag() == "!!merge" {
			if err := eachMerged(value, fn); err != nil {
				return err
			}
			continue
		}
		if err := fn(key.Value, value); err != nil {
			return err
		}
	}
	return nil
}

func eachMerged(node *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	node = resolve(node)
	switch node.Kind {
	case yaml.MappingNode:
		return eachPair(node, fn)
	case yaml.SequenceNode:
		for _, child := range node.Content {
			if err := eachMerged(child, fn); err != nil {
				return err
			}
		}
		return nil
	}
	return &StructureError{Path: "<<", Reason: "merge value must be a mapping"}
}

func resolve(node *yaml.Node) *yaml.Node {
	for node != nil {
		switch node.Kind {
		case yaml.DocumentNode:
			if len(node.Content) == 0 {
				return nil
			}
			node = node.Content[0]
		case yaml.AliasNode:
			node = node.Alias
		default:
			return node
		}
	}
	return nil
}

func isNull(node *yaml.Node) bool {
	node = resolve(node)
	return node == nil || node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null")
}
