package transform

import (
	"strings"

	"github.com/talifan/adv-reverse2seaf/internal/derived"
	"github.com/talifan/adv-reverse2seaf/internal/models"
)

const (
	networkLAN   = "LAN"
	networkWAN   = "WAN"
	lanWired     = "Проводная"
	providerName = "Cloud.ru"
)

// Subnets emits a LAN or WAN network per subnet.
func Subnets(src *models.SourceBundle, env *Env) *models.TargetBundle {
	out := models.NewTargetBundle()
	src.Kind(models.SourceSubnets).Each(func(key string, subnet *models.Map) bool {
		var desc description
		desc.raw(subnet.Value("description"))
		desc.add("Gateway", subnet.Value("gateway"))
		desc.add("DNS", joined(subnet, "dns_list"))
		desc.add("Tenant", subnet.Value("tenant"))

		network := &models.Network{
			Title:       subnet.Text("name"),
			Description: desc.String(),
			ExternalID:  scalarOrNil(subnet.Value("id")),
			Type:        networkLAN,
			IPNetwork:   scalarOrNil(subnet.Value("cidr")),
			Segment:     env.SegmentRefs(env.subnetDC(key, subnet), derived.SegmentIntNet),
		}
		if strings.Contains(strings.ToUpper(subnet.Text("name")), networkWAN) {
			network.Type = networkWAN
			network.Provider = providerName
		} else {
			network.LanType = lanWired
		}

		out.Put(models.TargetNetwork, env.IDs.Canonical(models.SourceSubnets, key), network)
		return true
	})
	return out
}

// subnetDC resolves the DC of a subnet from its own AZ, the resolver hints,
// its DC attribute and finally the DCs of its VPC.
func (e *Env) subnetDC(key string, subnet *models.Map) string {
	for _, field := range []string{"availability_zone", "az"} {
		if name := e.Resolver.ResolveDCName(subnet.Value(field)); name != "" {
			return name
		}
	}
	for _, id := range []string{subnet.Str("id"), key} {
		if id == "" {
			continue
		}
		if name := e.Resolver.DCForSubnet(id); name != "" {
			return name
		}
	}
	if name := e.Resolver.ResolveDCName(subnet.Value("DC")); name != "" {
		return name
	}
	vpcID := subnet.Str("vpc")
	if vpcID == "" {
		vpcID = subnet.Str("vpc_id")
	}
	if vpcID == "" {
		return ""
	}
	if vpc, ok := e.Catalog.Find(models.SourceVPCs, vpcID); ok {
		return e.PrimaryDC(e.vpcDCs(vpc.Key, vpc.Attrs))
	}
	return e.PrimaryDC(e.Resolver.DCNamesForVPC(vpcID))
}
