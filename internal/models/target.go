// Package models defines the core data structures shared by the converter.
// It includes ordered containers, source and target bundles, and the reference graph.
package models

import (
	"reflect"
	"strings"
)

// Target kinds of the architecture model.
const (
	TargetDCRegion              = "seaf.ta.services.dc_region"
	TargetDCAZ                  = "seaf.ta.services.dc_az"
	TargetDC                    = "seaf.ta.services.dc"
	TargetNetworkSegment        = "seaf.ta.services.network_segment"
	TargetNetwork               = "seaf.ta.services.network"
	TargetNetworkDevice         = "seaf.ta.components.network"
	TargetServer                = "seaf.ta.components.server"
	TargetCluster               = "seaf.ta.services.cluster"
	TargetK8s                   = "seaf.ta.services.k8s"
	TargetClusterVirtualization = "seaf.ta.services.cluster_virtualization"
	TargetComputeService        = "seaf.ta.services.compute_service"
	TargetStorage               = "seaf.ta.services.storage"
	TargetBackup                = "seaf.ta.services.backup"
	TargetKB                    = "seaf.ta.services.kb"
	TargetOffice                = "seaf.ta.services.office"
	TargetLogicalLink           = "seaf.ta.services.logical_link"
	TargetNetworkLinks          = "seaf.ta.services.network_links"
)

// TargetKinds lists the target kinds in their canonical output order.
var TargetKinds = []string{
	TargetDCRegion, TargetDCAZ, TargetDC, TargetNetworkSegment, TargetNetwork,
	TargetNetworkDevice, TargetServer, TargetCluster, TargetK8s,
	TargetClusterVirtualization, TargetComputeService, TargetStorage, TargetBackup,
	TargetKB, TargetOffice, TargetLogicalLink, TargetNetworkLinks,
}

// Reference is one outbound identifier held in a named slot of a target record.
type Reference struct {
	Slot   string
	Target string
}

// Referencer is implemented by target records that point at other entities.
type Referencer interface {
	References() []Reference
}

func refs(out []Reference, slot string, targets ...string) []Reference {
	for _, target := range targets {
		if target != "" {
			out = append(out, Reference{Slot: slot, Target: target})
		}
	}
	return out
}

func refPtr(out []Reference, slot string, target *string) []Reference {
	if target == nil {
		return out
	}
	return refs(out, slot, *target)
}

// Entities maps target ids to records of one target kind.
type Entities = OrderedMap[any]

// TargetBundle maps target-kind names to their entities.
type TargetBundle struct {
	OrderedMap[*Entities]
	collisions []Collision
}

// Collision records an id that was put twice with different records.
type Collision struct {
	Kind     string
	ID       string
	Existing any
	Incoming any
}

func NewTargetBundle() *TargetBundle {
	return &TargetBundle{}
}

// Put stores a record under kind and id, creating the kind when needed.
// Replacing a different record under the same id is recorded as a collision.
func (b *TargetBundle) Put(kind, id string, record any) {
	entities := b.Entities(kind)
	if existing, ok := entities.Get(id); ok && !reflect.DeepEqual(existing, record) {
		b.collisions = append(b.collisions, Collision{Kind: kind, ID: id, Existing: existing, Incoming: record})
	}
	entities.Set(id, record)
}

// Collisions returns the collisions recorded by Put.
func (b *TargetBundle) Collisions() []Collision {
	return b.collisions
}

// Entities returns the entities of kind, creating an empty set when needed.
func (b *TargetBundle) Entities(kind string) *Entities {
	e, ok := b.Get(kind)
	if !ok || e == nil {
		e = &Entities{}
		b.Set(kind, e)
	}
	return e
}

// Lookup returns the record stored under kind and id.
func (b *TargetBundle) Lookup(kind, id string) (any, bool) {
	e, ok := b.Get(kind)
	if !ok {
		return nil, false
	}
	return e.Get(id)
}

// Count returns the number of entities of kind.
func (b *TargetBundle) Count(kind string) int {
	e, _ := b.Get(kind)
	return e.Len()
}

// ShortKind returns the last dotted segment of a kind name.
func ShortKind(kind string) string {
	if i := strings.LastIndex(kind, "."); i >= 0 {
		return kind[i+1:]
	}
	return kind
}
