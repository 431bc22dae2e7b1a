package transform

import (
	"sort"
	"strings"

	"github.com/talifan/adv-reverse2seaf/internal/derived"
	"github.com/talifan/adv-reverse2seaf/internal/ids"
	"github.com/talifan/adv-reverse2seaf/internal/models"
)

const (
	peeringTechnology = "VPC Peering"
	linkBidirectional = "<==>"
)

// Peerings emits a network link between the routers of two peered VPCs.
// Peerings with an unknown VPC are dropped.
func Peerings(src *models.SourceBundle, env *Env) *models.TargetBundle {
	out := models.NewTargetBundle()
	src.Kind(models.SourcePeerings).Each(func(key string, peering *models.Map) bool {
		var routers []string
		for _, field := range []string{"request_vpc", "accept_vpc"} {
			vpc, ok := env.Catalog.Find(models.SourceVPCs, peering.Str(field))
			if !ok {
				env.Warnings.Collectf(key, field, "Unknown VPC '%s'. Peering link will not be created.", peering.Text(field))
				return true
			}
			routers = append(routers, env.IDs.Router(vpc.ID))
		}

		var desc description
		desc.raw(peering.Value("description"))
		desc.add("Status", peering.Value("status"))
		desc.add("Tenant", peering.Value("tenant"))
		desc.add("DC", peering.Value("DC"))

		out.Put(models.TargetNetworkLinks, env.IDs.Canonical(models.SourcePeerings, key), &models.NetworkLink{
			Title:             peering.Text("name"),
			Description:       desc.String(),
			ExternalID:        scalarOrNil(peering.Value("id")),
			Technology:        peeringTechnology,
			NetworkConnection: routers,
		})
		return true
	})
	return out
}

// VPNConnections emits a logical link from a VPN gateway to the segment of
// the remote branch. Connections whose gateway or branch cannot be resolved
// are dropped.
func VPNConnections(src *models.SourceBundle, env *Env) *models.TargetBundle {
	out := models.NewTargetBundle()
	src.Kind(models.SourceVPNConnections).Each(func(key string, conn *models.Map) bool {
		gateway, ok := env.Catalog.Find(models.SourceVPNGateways, conn.Str("gw_id"))
		if !ok {
			env.Warnings.Collectf(key, "gw_id", "Unknown VPN gateway '%s'. Logical link will not be created.", conn.Text("gw_id"))
			return true
		}
		target := env.branchSegment(conn.Str("branch_id"))
		if target == "" {
			env.Warnings.Collectf(key, "branch_id", "Unknown branch '%s'. Logical link will not be created.", conn.Text("branch_id"))
			return true
		}

		var desc description
		desc.add("Remote Gateway IP", conn.Value("remote_gw_ip"))
		desc.add("Remote Subnets", joined(conn, "remote_subnets"))
		desc.add("Tenant", conn.Value("tenant"))
		desc.add("DC", conn.Value("DC"))

		out.Put(models.TargetLogicalLink, env.IDs.Canonical(models.SourceVPNConnections, key), &models.LogicalLink{
			Title:       conn.Text("name"),
			Description: desc.String(),
			ExternalID:  scalarOrNil(conn.Value("id")),
			Source:      gateway.ID,
			Target:      []string{target},
			Direction:   linkBidirectional,
		})
		return true
	})
	return out
}

// branchSegment maps a branch id to a predefined segment id. Branch ids are
// matched whole, then by their last dotted segment. A DC reference maps to
// the INT-NET segment of that DC.
func (e *Env) branchSegment(branch string) string {
	branch = strings.TrimSpace(branch)
	if branch == "" {
		return ""
	}
	for _, candidate := range ids.Variants(branch) {
		if mapped, ok := e.BranchSegments[strings.ToLower(candidate)]; ok {
			dc, zone, found := cutLast(mapped)
			if !found {
				return ""
			}
			return e.IDs.Segment(dc, zone)
		}
	}
	if strings.Contains(branch, ".dc.") || strings.HasPrefix(branch, "dc.") {
		if dc := e.Resolver.Normalize(branch); dc != "" {
			return e.IDs.Segment(dc, derived.SegmentIntNet)
		}
	}
	return ""
}

// foldBranchKeys lower-cases branch ids. Config loaders fold map keys the
// same way. On a clash the lexically first original key wins.
func foldBranchKeys(branches map[string]string) map[string]string {
	keys := make([]string, 0, len(branches))
	for key := range branches {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make(map[string]string, len(branches))
	for _, key := range keys {
		folded := strings.ToLower(strings.TrimSpace(key))
		if _, taken := out[folded]; !taken {
			out[folded] = branches[key]
		}
	}
	return out
}

func cutLast(value string) (before, after string, found bool) {
	i := strings.LastIndex(value, ".")
	if i <= 0 || i == len(value)-1 {
		return "", "", false
	}
	return value[:i], value[i+1:], true
}
