// Package models defines the core data structures shared by the converter.
// It includes ordered containers, source and target bundles, and the reference graph.
package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SourceKindPrefix namespaces every kind of the reverse inventory.
const SourceKindPrefix = "seaf.ta.reverse.cloud_ru.advanced."

// Short names of the source kinds.
const (
	SourceVPCs           = "vpcs"
	SourceSubnets        = "subnets"
	SourceECSs           = "ecss"
	SourceCCEs           = "cces"
	SourceRDSs           = "rdss"
	SourceDMSs           = "dmss"
	SourceNATGateways    = "nat_gateways"
	SourceELBs           = "elbs"
	SourceVPNGateways    = "vpn_gateways"
	SourceVPNConnections = "vpn_connections"
	SourcePeerings       = "peerings"
	SourceEIPs           = "eips"
	SourceVaults         = "vaults"
	SourceSecurityGroups = "security_groups"
	SourceBranches       = "branches"
)

// SourceKinds lists every source kind the converter understands.
var SourceKinds = []string{
	SourceVPCs, SourceSubnets, SourceECSs, SourceCCEs, SourceRDSs, SourceDMSs,
	SourceNATGateways, SourceELBs, SourceVPNGateways, SourceVPNConnections,
	SourcePeerings, SourceEIPs, SourceVaults, SourceSecurityGroups, SourceBranches,
}

func SourceKindName(short string) string {
	return SourceKindPrefix + short
}

// Map is an ordered attribute mapping decoded from the inventory.
// Nested mappings are *Map, sequences are []any and scalars keep their decoded type.
type Map struct {
	OrderedMap[any]
}

func NewMap() *Map {
	return &Map{}
}

// MapOf builds a Map from alternating key/value arguments. Intended for tests and fixtures.
func MapOf(pairs ...any) *Map {
	m := NewMap()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(fmt.Sprint(pairs[i]), pairs[i+1])
	}
	return m
}

// Value returns the raw attribute or nil when absent.
func (m *Map) Value(key string) any {
	if m == nil {
		return nil
	}
	v, _ := m.Get(key)
	return v
}

// Len returns the number of attributes. A nil Map has none.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return m.OrderedMap.Len()
}

// Has reports whether key exists, even with a null value.
func (m *Map) Has(key string) bool {
	if m == nil {
		return false
	}
	return m.OrderedMap.Has(key)
}

// Each visits attributes in order. A nil Map has nothing to visit.
func (m *Map) Each(fn func(key string, value any) bool) {
	if m == nil {
		return
	}
	m.OrderedMap.Each(fn)
}

// Str returns the attribute when it is a string, otherwise "".
func (m *Map) Str(key string) string {
	s, _ := m.Value(key).(string)
	return s
}

// Text renders a scalar attribute for human-readable output.
func (m *Map) Text(key string) string {
	return FormatScalar(m.Value(key))
}

// List returns the attribute when it is a sequence.
func (m *Map) List(key string) []any {
	l, _ := m.Value(key).([]any)
	return l
}

// Child returns the attribute when it is a nested mapping.
func (m *Map) Child(key string) *Map {
	c, _ := m.Value(key).(*Map)
	return c
}

// Strings returns the string entries of a sequence attribute, or the attribute
// itself as a one-element slice when it is a string.
func (m *Map) Strings(key string) []string {
	switch v := m.Value(key).(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// FormatScalar renders decoded YAML values the way they appear in descriptions.
func FormatScalar(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "True"
		}
		return "False"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float64:
		s := strconv.FormatFloat(val, 'f', -1, 64)
		if val == math.Trunc(val) && !math.IsInf(val, 0) {
			s += ".0"
		}
		return s
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, FormatScalar(item))
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(v)
}

// Collection maps entity keys to their attributes for one source kind.
type Collection = OrderedMap[*Map]

// SourceBundle maps full source-kind names to their collections.
type SourceBundle struct {
	OrderedMap[*Collection]
}

func NewSourceBundle() *SourceBundle {
	return &SourceBundle{}
}

// Kind returns the collection for a short kind name, looking up the full
// name first and then any top-level key ending in ".<short>".
// It never returns nil.
func (b *SourceBundle) Kind(short string) *Collection {
	if b == nil {
		return &Collection{}
	}
	if c, ok := b.Get(SourceKindName(short)); ok && c != nil {
		return c
	}
	suffix := "." + short
	for _, key := range b.keys {
		if strings.HasSuffix(key, suffix) {
			if c := b.items[key]; c != nil {
				return c
			}
		}
	}
	return &Collection{}
}

// Put adds an entity to the named short kind, creating the collection when needed.
func (b *SourceBundle) Put(short, key string, attrs *Map) {
	name := SourceKindName(short)
	c, ok := b.Get(name)
	if !ok || c == nil {
		c = &Collection{}
		b.Set(name, c)
	}
	c.Set(key, attrs)
}

// FlattenKeyed returns the mappings of a sequence whose entries are either
// plain mappings or single-level wrappers keyed by an identifier.
// A mapping value is treated as one entry as well.
func FlattenKeyed(value any) []*Map {
	var items []any
	switch v := value.(type) {
	case []any:
		items = v
	case *Map:
		items = []any{v}
	default:
		return nil
	}
	var out []*Map
	for _, item := range items {
		entry, ok := item.(*Map)
		if !ok || entry == nil {
			continue
		}
		if nested := keyedChildren(entry); nested != nil {
			out = append(out, nested...)
			continue
		}
		out = append(out, entry)
	}
	return out
}

func keyedChildren(entry *Map) []*Map {
	if entry.Len() == 0 {
		return nil
	}
	var nested []*Map
	allMaps := true
	entry.Each(func(_ string, value any) bool {
		child, ok := value.(*Map)
		if !ok {
			allMaps = false
			return false
		}
		nested = append(nested, child)
		return true
	})
	if !allMaps {
		return nil
	}
	return nested
}
