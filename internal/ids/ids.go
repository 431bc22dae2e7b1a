// Package ids builds the prefix-qualified identifiers of target entities.
package ids

import (
	"strings"

	"github.com/talifan/adv-reverse2seaf/internal/models"
)

// DefaultPrefix is used until a run sets or infers a tenant prefix.
const DefaultPrefix = "tenant"

// Identifier kinds.
const (
	KindDCRegion              = "dc_region"
	KindDCAZ                  = "dc_az"
	KindDC                    = "dc"
	KindSegment               = "segment"
	KindVPCs                  = "vpcs"
	KindSubnets               = "subnets"
	KindECSs                  = "ecss"
	KindCCEs                  = "cces"
	KindRDSs                  = "rdss"
	KindDMSs                  = "dmss"
	KindNATGateways           = "nat_gateways"
	KindELBs                  = "elbs"
	KindVPNGateways           = "vpn_gateways"
	KindVPNConnections        = "vpn_connections"
	KindPeerings              = "peerings"
	KindEIPs                  = "eips"
	KindVaults                = "vaults"
	KindSecurityGroups        = "security_groups"
	KindBranches              = "branches"
	KindOffice                = "office"
	KindClusterVirtualization = "cluster_virtualization"
	KindKB                    = "kb"
)

var reservedPrefixes = map[string]bool{"seaf": true, "metadata": true}

// Service owns the tenant prefix of one run.
type Service struct {
	prefix string
}

func New() *Service {
	return &Service{prefix: DefaultPrefix}
}

// SetPrefix replaces the prefix. Blank values are ignored.
func (s *Service) SetPrefix(prefix string) {
	if trimmed := strings.TrimSpace(prefix); trimmed != "" {
		s.prefix = trimmed
	}
}

func (s *Service) Prefix() string {
	return s.prefix
}

// EnsurePrefix applies override when it is not blank. Otherwise, while the
// prefix is still the default, it infers one from the first dotted entity key
// of src whose leading segment is not reserved.
func (s *Service) EnsurePrefix(override string, src *models.SourceBundle) string {
	if strings.TrimSpace(override) != "" {
		s.SetPrefix(override)
		return s.prefix
	}
	if s.prefix != DefaultPrefix || src == nil {
		return s.prefix
	}
	if inferred := InferPrefix(src); inferred != "" {
		s.prefix = inferred
	}
	return s.prefix
}

// InferPrefix returns the leading segment of the first qualifying entity key.
func InferPrefix(src *models.SourceBundle) string {
	var found string
	if src == nil {
		return found
	}
	src.Each(func(_ string, collection *models.Collection) bool {
		collection.Each(func(key string, _ *models.Map) bool {
			head, _, ok := strings.Cut(key, ".")
			if !ok {
				return true
			}
			head = strings.TrimSpace(head)
			if head == "" || reservedPrefixes[strings.ToLower(head)] {
				return true
			}
			found = head
			return false
		})
		return found == ""
	})
	return found
}

// Build joins the prefix, kind and the non-blank trimmed parts with dots.
func (s *Service) Build(kind string, parts ...string) string {
	out := make([]string, 0, len(parts)+2)
	out = append(out, s.prefix)
	for _, part := range append([]string{kind}, parts...) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, ".")
}

func (s *Service) DC(name string) string     { return s.Build(KindDC, name) }
func (s *Service) DCAZ(name string) string   { return s.Build(KindDCAZ, name) }
func (s *Service) Region(name string) string { return s.Build(KindDCRegion, name) }
func (s *Service) VPC(id string) string      { return s.Build(KindVPCs, id) }
func (s *Service) Subnet(id string) string   { return s.Build(KindSubnets, id) }

func (s *Service) Segment(dc, segment string) string {
	return s.Build(KindSegment, dc, segment)
}

// KB builds a knowledge-base reference keyed by tag and technology, both lower-cased.
func (s *Service) KB(tag, technology string) string {
	return s.Build(KindKB, strings.ToLower(tag), strings.ToLower(technology))
}

// Child qualifies the non-blank trimmed parts under an identifier that was
// already built by the service.
func (s *Service) Child(parent string, parts ...string) string {
	out := []string{strings.TrimSpace(parent)}
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, ".")
}

// Router returns the identifier of the synthetic router of a VPC.
func (s *Service) Router(vpcID string) string {
	return s.Child(vpcID, "router")
}

// Canonical returns the target identifier of a source entity stored under key.
// Keys already qualified with the run prefix and kind are kept, keys carrying
// a foreign prefix are re-qualified, and bare keys are built from scratch.
func (s *Service) Canonical(kind, key string) string {
	key = strings.TrimSpace(key)
	if strings.HasPrefix(key, s.prefix+"."+kind+".") {
		return key
	}
	marker := "." + kind + "."
	if i := strings.Index(key, marker); i >= 0 {
		return s.Build(kind, key[i+len(marker):])
	}
	return s.Build(kind, key)
}

// NameFromRef returns the last dotted segment of ref.
func NameFromRef(ref string) string {
	if i := strings.LastIndex(ref, "."); i >= 0 {
		return ref[i+1:]
	}
	return ref
}

// Variants returns the raw identifier and, for dotted ones, its last segment.
func Variants(id string) []string {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	if i := strings.LastIndex(id, "."); i >= 0 && i < len(id)-1 {
		return []string{id, id[i+1:]}
	}
	return []string{id}
}
