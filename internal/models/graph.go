// Package models defines the core data structures shared by the converter.
// It includes ordered containers, source and target bundles, and the reference graph.
package models

type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	Stats *Stats `json:"stats,omitempty"`
}

type Node struct {
	ID       string         `json:"id"`
	Kind     string         `json:"kind"`
	Title    string         `json:"title,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type Edge struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Type     string `json:"type"`
	Dangling bool   `json:"dangling,omitempty"`
}

type Stats struct {
	TotalNodes     int            `json:"total_nodes"`
	TotalEdges     int            `json:"total_edges"`
	DanglingEdges  int            `json:"dangling_edges"`
	EntitiesByKind map[string]int `json:"entities_by_kind,omitempty"`
	EdgesBySlot    map[string]int `json:"edges_by_slot,omitempty"`
}
