package transform

import (
	"net/netip"
	"strings"

	"github.com/talifan/adv-reverse2seaf/internal/catalog"
	"github.com/talifan/adv-reverse2seaf/internal/derived"
	"github.com/talifan/adv-reverse2seaf/internal/models"
)

const elasticIPTechnology = "Elastic IP"

var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

// EIPs emits a WAN network per elastic IP and a network link joining it to
// every internal resource that holds its internal address.
func EIPs(src *models.SourceBundle, env *Env) *models.TargetBundle {
	out := models.NewTargetBundle()
	src.Kind(models.SourceEIPs).Each(func(key string, eip *models.Map) bool {
		id := env.IDs.Canonical(models.SourceEIPs, key)
		limit := eip.Child("limit")

		var desc description
		desc.add("Internal IP", eip.Value("int_address"))
		desc.add("Address Type", eip.Value("type"))
		desc.add("Port ID", eip.Value("port_id"))
		desc.add("Limit Rule ID", limit.Value("rule_id"))
		desc.add("Limit Rule Name", limit.Value("rule_name"))
		desc.add("Limit Throughput (Mbps)", limit.Value("throughput"))
		desc.add("Limit Type", limit.Value("type"))
		desc.add("Tenant", eip.Value("tenant"))
		desc.add("DC", eip.Value("DC"))

		var owners []*catalog.Entry
		if addr, err := netip.ParseAddr(strings.TrimSpace(eip.Str("int_address"))); err == nil {
			owners = env.Catalog.OwnerEntries(addr)
		}

		primary := env.eipDC(eip, owners)
		locations := []string{}
		if primary != "" {
			locations = []string{env.IDs.DC(primary)}
		}

		zone := derived.SegmentIntNet
		if isPublic(eip.Str("ext_address")) {
			zone = derived.SegmentInternet
		}

		out.Put(models.TargetNetwork, id, &models.PublicAddress{
			Title:       eip.Text("ext_address"),
			Description: desc.String(),
			ExternalID:  scalarOrNil(eip.Value("id")),
			Type:        networkWAN,
			WanIP:       scalarOrNil(eip.Value("ext_address")),
			Segment:     env.SegmentRefs(primary, zone),
			Location:    locations,
			Provider:    providerName,
		})

		if len(owners) == 0 {
			return true
		}
		connection := []string{id}
		var ownerNames []string
		for _, owner := range owners {
			connection = append(connection, owner.ID)
			ownerNames = append(ownerNames, owner.ID)
		}
		var linkDesc description
		linkDesc.add("Elastic IP", eip.Value("ext_address"))
		linkDesc.add("Internal IP", eip.Value("int_address"))
		linkDesc.add("Attached To", strings.Join(ownerNames, ", "))
		out.Put(models.TargetNetworkLinks, env.IDs.Child(id, "link"), &models.NetworkLink{
			Title:             elasticIPTechnology + " " + eip.Text("ext_address"),
			Description:       linkDesc.String(),
			ExternalID:        scalarOrNil(eip.Value("id")),
			Technology:        elasticIPTechnology,
			NetworkConnection: connection,
		})
		return true
	})
	return out
}

// eipDC picks the DC of an elastic IP from its own hints, then from the
// subnet holding its internal address, then from the resources using it.
func (e *Env) eipDC(eip *models.Map, owners []*catalog.Entry) string {
	candidates := validZones(eip.Value("availability_zone"))
	if len(candidates) == 0 {
		if name := e.Resolver.ResolveDCName(eip.Value("DC")); name != "" {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) == 0 {
		if addr, err := netip.ParseAddr(strings.TrimSpace(eip.Str("int_address"))); err == nil {
			if subnet, ok := e.Catalog.SubnetContaining(addr); ok {
				if name := e.subnetDC(subnet.Entry.Key, subnet.Entry.Attrs); name != "" {
					candidates = append(candidates, name)
				}
			}
		}
	}
	if len(candidates) == 0 {
		for _, owner := range owners {
			candidates = append(candidates, ownerZones(owner.Attrs)...)
			if name := e.Resolver.ResolveDCName(owner.Attrs.Value("DC")); name != "" {
				candidates = append(candidates, name)
			}
		}
	}
	return e.PrimaryDC(catalog.SortedUnique(candidates))
}

func ownerZones(attrs *models.Map) []string {
	var out []string
	for _, field := range []string{"az", "masters_az", "available_az", "availability_zone"} {
		out = append(out, validZones(attrs.Value(field))...)
	}
	for _, node := range models.FlattenKeyed(attrs.Value("nodes")) {
		out = append(out, validZones(node.Value("availability_zone"))...)
	}
	return out
}

// isPublic reports whether raw is a globally routable unicast address.
func isPublic(raw string) bool {
	addr, err := netip.ParseAddr(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	if !addr.IsGlobalUnicast() || addr.IsPrivate() {
		return false
	}
	return !sharedAddressSpace.Contains(addr)
}
