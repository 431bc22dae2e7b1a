package fileio

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/talifan/adv-reverse2seaf/internal/logging"
	"github.com/talifan/adv-reverse2seaf/internal/models"
	"github.com/talifan/adv-reverse2seaf/internal/transform"
)

// RootFile lists every written file under its imports key.
const RootFile = "root.yaml"

// ManualFillComment marks values an operator has to complete.
const ManualFillComment = "<--- Заполнить вручную"

// FileName returns the output file name of a target kind.
func FileName(kind string) string {
	switch kind {
	case models.TargetNetworkDevice:
		return "network_devices.yaml"
	case models.TargetNetwork:
		return "networks.yaml"
	}
	return models.ShortKind(kind) + ".yaml"
}

// Sink writes target bundles into Dir, one file per target kind. Existing
// files are merged rather than replaced.
type Sink struct {
	Dir    string
	Logger *slog.Logger
}

// Write stores every kind of bundle and returns the sorted unique names of
// the files it touched.
func (s *Sink) Write(bundle *models.TargetBundle) ([]string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	seen := map[string]bool{}
	var files []string
	var err error
	bundle.Each(func(kind string, entities *models.Entities) bool {
		name := FileName(kind)
		if err = s.writeKind(name, kind, entities); err != nil {
			return false
		}
		if !seen[name] {
			seen[name] = true
			files = append(files, name)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// WriteRoot writes root.yaml importing files.
func (s *Sink) WriteRoot(files []string) error {
	imports := append([]string(nil), files...)
	sort.Strings(imports)
	unique := imports[:0]
	for i, name := range imports {
		if i == 0 || name != imports[i-1] {
			unique = append(unique, name)
		}
	}

	data, err := encodeYAML(map[string][]string{"imports": unique})
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", RootFile, err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir, RootFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", RootFile, err)
	}
	return nil
}

func (s *Sink) writeKind(name, kind string, entities *models.Entities) error {
	path := filepath.Join(s.Dir, name)
	root := s.readExisting(path)

	container := mappingValue(root, kind)
	var encodeErr error
	entities.Each(func(id string, record any) bool {
		node := &yaml.Node{}
		if encodeErr = node.Encode(record); encodeErr != nil {
			encodeErr = fmt.Errorf("failed to encode %s: %w", id, encodeErr)
			return false
		}
		setMappingValue(container, id, node)
		return true
	})
	if encodeErr != nil {
		return encodeErr
	}

	markPlaceholders(root)
	data, err := encodeYAML(root)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	logging.OrDiscard(s.Logger).Debug("saved converted entities", "file", path, "kind", kind, "count", entities.Len())
	return nil
}

// readExisting returns the root mapping of path, or a fresh mapping when the
// file is missing or unusable.
func (s *Sink) readExisting(path string) *yaml.Node {
	fresh := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	data, err := os.ReadFile(path)
	if err != nil {
		return fresh
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		logging.OrDiscard(s.Logger).Warn("existing file is not valid YAML, overwriting", "file", path, "error", err)
		return fresh
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fresh
	}
	return doc.Content[0]
}

func mappingValue(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			value := mapping.Content[i+1]
			if value.Kind != yaml.MappingNode {
				value = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
				mapping.Content[i+1] = value
			}
			return value
		}
	}
	value := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	setMappingValue(mapping, key, value)
	return value
}

func setMappingValue(mapping *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			mapping.Content[i+1] = value
			return
		}
	}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		value,
	)
}

// markPlaceholders empties every zone placeholder and flags it for manual input.
func markPlaceholders(node *yaml.Node) {
	if node == nil {
		return
	}
	if node.Kind == yaml.ScalarNode && node.Value == transform.ZonePlaceholder {
		node.Value = ""
		node.Tag = "!!null"
		node.Style = 0
		node.LineComment = ManualFillComment
		return
	}
	for _, child := range node.Content {
		markPlaceholders(child)
	}
}

func encodeYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
