// Package transform converts each kind of the reverse inventory into the
// target architecture model. Every transformer is a pure function of the
// source bundle and the per-run Env.
package transform

import (
	"github.com/talifan/adv-reverse2seaf/internal/catalog"
	"github.com/talifan/adv-reverse2seaf/internal/derived"
	"github.com/talifan/adv-reverse2seaf/internal/ids"
	"github.com/talifan/adv-reverse2seaf/internal/location"
	"github.com/talifan/adv-reverse2seaf/internal/models"
	"github.com/talifan/adv-reverse2seaf/internal/warnings"
)

// Func converts one source kind into a target fragment.
type Func func(src *models.SourceBundle, env *Env) *models.TargetBundle

// Env is the read-only context of one conversion run. Warnings is the only
// part transformers mutate.
type Env struct {
	IDs      *ids.Service
	Warnings *warnings.Collector
	Resolver *location.Resolver
	Catalog  *catalog.Catalog

	// KnownDCs holds the DC names the DC builder derives from the same bundle.
	KnownDCs map[string]bool

	// BranchSegments maps lower-cased remote branch ids to "<dc>.<SEGMENT>".
	BranchSegments map[string]string
}

// DefaultBranchSegments returns the built-in branch mapping.
func DefaultBranchSegments() map[string]string {
	return map[string]string{
		"hq":      "ru-moscow-1a." + derived.SegmentIntNet,
		"kremlin": "ru-moscow-1a." + derived.SegmentIntNet,
		"spb":     "ru-moscow-1b." + derived.SegmentIntNet,
	}
}

// NewEnv indexes src for a run using the prefix already held by idSvc.
// A nil branches map selects DefaultBranchSegments. Branch ids match
// case-insensitively.
func NewEnv(src *models.SourceBundle, idSvc *ids.Service, w *warnings.Collector, branches map[string]string) *Env {
	if branches == nil {
		branches = DefaultBranchSegments()
	}
	known := map[string]bool{}
	for _, name := range derived.ZoneNames(src, nil) {
		known[name] = true
	}
	return &Env{
		IDs:            idSvc,
		Warnings:       w,
		Resolver:       location.New(src, idSvc.Prefix()),
		Catalog:        catalog.New(src, idSvc),
		KnownDCs:       known,
		BranchSegments: foldBranchKeys(branches),
	}
}

// DCNames returns the sorted names in KnownDCs.
func (e *Env) DCNames() []string {
	names := make([]string, 0, len(e.KnownDCs))
	for name := range e.KnownDCs {
		names = append(names, name)
	}
	return catalog.SortedUnique(names)
}

// SegmentRef returns the id of a predefined segment, or nil when dc is not
// a derived data center.
func (e *Env) SegmentRef(dc, zone string) *string {
	if dc == "" || !e.KnownDCs[dc] {
		return nil
	}
	ref := e.IDs.Segment(dc, zone)
	return &ref
}

// SegmentRefs is SegmentRef for list-valued slots.
func (e *Env) SegmentRefs(dc, zone string) []string {
	if ref := e.SegmentRef(dc, zone); ref != nil {
		return []string{*ref}
	}
	return []string{}
}

// PrimaryDC picks the first derived DC among ranked candidates and falls back
// to the first candidate.
func (e *Env) PrimaryDC(candidates []string) string {
	for _, name := range candidates {
		if e.KnownDCs[name] {
			return name
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return ""
}

// DCRefs returns the sorted unique DC ids of names.
func (e *Env) DCRefs(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name != "" {
			out = append(out, e.IDs.DC(name))
		}
	}
	return catalog.SortedUnique(out)
}

// AZRefs returns the sorted unique AZ ids of the valid names.
func (e *Env) AZRefs(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if derived.ValidAZName(name) {
			out = append(out, e.IDs.DCAZ(name))
		}
	}
	return catalog.SortedUnique(out)
}
