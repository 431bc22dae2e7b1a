package parser

import (
	"reflect"
	"strings"

	"github.com/talifan/adv-reverse2seaf/internal/models"
)

// BuildGraph turns a target bundle into a reference graph. Every entity is a
// node and every reference slot value carrying prefix is an edge; edges to
// ids the bundle does not define are marked dangling.
func BuildGraph(bundle *models.TargetBundle, prefix string) *models.Graph {
	graph := &models.Graph{
		Nodes: []models.Node{},
		Edges: []models.Edge{},
	}
	stats := &models.Stats{
		EntitiesByKind: map[string]int{},
		EdgesBySlot:    map[string]int{},
	}
	nodeMap := make(map[string]bool)

	bundle.Each(func(kind string, entities *models.Entities) bool {
		entities.Each(func(id string, record any) bool {
			if nodeMap[id] {
				return true
			}
			graph.Nodes = append(graph.Nodes, models.Node{
				ID:       id,
				Kind:     kind,
				Title:    stringField(record, "Title"),
				Metadata: buildMetadata(kind, record),
			})
			nodeMap[id] = true
			stats.EntitiesByKind[models.ShortKind(kind)]++
			return true
		})
		return true
	})

	qualifier := prefix + "."
	for _, node := range graph.Nodes {
		record, _ := bundle.Lookup(node.Kind, node.ID)
		for _, ref := range collectReferences(record, qualifier) {
			edge := models.Edge{
				Source:   node.ID,
				Target:   ref.Target,
				Type:     ref.Slot,
				Dangling: !nodeMap[ref.Target],
			}
			graph.Edges = append(graph.Edges, edge)
			stats.EdgesBySlot[ref.Slot]++
			if edge.Dangling {
				stats.DanglingEdges++
			}
		}
	}

	stats.TotalNodes = len(graph.Nodes)
	stats.TotalEdges = len(graph.Edges)
	graph.Stats = stats
	return graph
}

// collectReferences returns the distinct prefixed references of record in
// slot order.
func collectReferences(record any, qualifier string) []models.Reference {
	referencer, ok := record.(models.Referencer)
	if !ok {
		return nil
	}
	seen := make(map[models.Reference]bool)
	var out []models.Reference
	for _, ref := range referencer.References() {
		if !strings.HasPrefix(ref.Target, qualifier) || seen[ref] {
			continue
		}
		seen[ref] = true
		out = append(out, ref)
	}
	return out
}

func buildMetadata(kind string, record any) map[string]any {
	metadata := map[string]any{
		"short_kind": models.ShortKind(kind),
	}

	if externalID := field(record, "ExternalID"); externalID != nil && externalID != "" {
		metadata["external_id"] = externalID
	}

	if typ := stringField(record, "Type"); typ != "" {
		metadata["type"] = typ
	}

	return metadata
}

func stringField(record any, name string) string {
	if s, ok := field(record, name).(string); ok {
		return s
	}
	return ""
}

// field reads an exported struct field through pointers. Nil pointers and
// missing fields yield nil.
func field(record any, name string) any {
	val := reflect.ValueOf(record)
	for val.Kind() == reflect.Ptr || val.Kind() == reflect.Interface {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil
	}
	f := val.FieldByName(name)
	if !f.IsValid() {
		return nil
	}
	for f.Kind() == reflect.Ptr || f.Kind() == reflect.Interface {
		if f.IsNil() {
			return nil
		}
		f = f.Elem()
	}
	return f.Interface()
}
