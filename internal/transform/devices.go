package transform

import (
	"strings"

	"github.com/talifan/adv-reverse2seaf/internal/catalog"
	"github.com/talifan/adv-reverse2seaf/internal/derived"
	"github.com/talifan/adv-reverse2seaf/internal/models"
)

// NATGateways emits a network device per NAT gateway.
func NATGateways(src *models.SourceBundle, env *Env) *models.TargetBundle {
	return env.devices(src, models.SourceNATGateways, "Cloud NAT Gateway", "NAT", "address",
		func(nat *models.Map, desc *description) {
			desc.raw(nat.Value("description"))
			desc.add("Internal IP", nat.Value("address"))
			desc.add("Status", nat.Value("status"))
			desc.add("Tenant", nat.Value("tenant"))
			desc.addJSON("SNAT Rules", nat.Value("snat_rules"))
			dnat := nat.Value("dnat_rules")
			if dnat == nil {
				dnat = []any{}
			}
			desc.addf("DNAT Rules: %s", indentJSON(dnat))
		})
}

// ELBs emits a network device per elastic load balancer.
func ELBs(src *models.SourceBundle, env *Env) *models.TargetBundle {
	return env.devices(src, models.SourceELBs, "Cloud ELB", routerType, "address",
		func(elb *models.Map, desc *description) {
			desc.raw(elb.Value("description"))
			desc.add("Internal IP", elb.Value("address"))
			desc.add("Operating Status", elb.Value("operating_status"))
			desc.add("Provisioning Status", elb.Value("provisioning_status"))
			desc.add("Tags", tags(elb.Value("tags")))
			desc.add("Tenant", elb.Value("tenant"))
			desc.addJSON("Listeners", elb.Value("listeners"))
			desc.addJSON("Pools", elb.Value("pools"))
		})
}

// VPNGateways emits a network device per VPN gateway.
func VPNGateways(src *models.SourceBundle, env *Env) *models.TargetBundle {
	return env.devices(src, models.SourceVPNGateways, "Cloud VPN Gateway", "VPN", "ip_address",
		func(gw *models.Map, desc *description) {
			desc.add("IP Address", gw.Value("ip_address"))
			desc.add("Protocol", gw.Value("type"))
			desc.add("Tenant", gw.Value("tenant"))
		})
}

func (e *Env) devices(src *models.SourceBundle, kind, model, deviceType, addressField string, describe func(*models.Map, *description)) *models.TargetBundle {
	out := models.NewTargetBundle()
	src.Kind(kind).Each(func(key string, device *models.Map) bool {
		var desc description
		describe(device, &desc)

		dcs := e.deviceDCs(device)
		locations := e.DCRefs(dcs)
		if len(locations) > 0 {
			desc.add("DC", strings.Join(locations, ", "))
		} else {
			desc.add("DC", device.Value("DC"))
		}

		out.Put(models.TargetNetworkDevice, e.IDs.Canonical(kind, key), &models.NetworkDevice{
			Title:             device.Text("name"),
			Description:       desc.String(),
			ExternalID:        scalarOrNil(device.Value("id")),
			Model:             model,
			RealizationType:   virtualRealization,
			Type:              deviceType,
			NetworkConnection: e.subnetConnection(key, device.Value("subnet_id"), true),
			Segment:           e.SegmentRef(e.PrimaryDC(dcs), derived.SegmentIntNet),
			Location:          locations,
			Address:           scalarOrNil(device.Value(addressField)),
		})
		return true
	})
	return out
}

// deviceDCs collects the DC names of a network device from its own zone, the
// zones of its subnet and of the VMs sharing that subnet. Without any zone it
// falls back to the resolver hints for the subnet and the DC attributes.
func (e *Env) deviceDCs(device *models.Map) []string {
	names := validZones(device.Value("availability_zone"))

	subnetID := device.Str("subnet_id")
	var subnet *catalog.Entry
	if subnetID != "" {
		subnet, _ = e.Catalog.Find(models.SourceSubnets, subnetID)
		for _, vm := range e.Catalog.VMsInSubnet(subnetID) {
			names = append(names, validZones(vm.Attrs.Value("az"))...)
			for _, disk := range models.FlattenKeyed(vm.Attrs.Value("disks")) {
				names = append(names, validZones(disk.Value("az"))...)
			}
		}
	}
	if subnet != nil {
		names = append(names, validZones(subnet.Attrs.Value("availability_zone"))...)
		names = append(names, validZones(subnet.Attrs.Value("az"))...)
	}
	if len(names) > 0 {
		return catalog.SortedUnique(names)
	}

	if subnetID != "" {
		if name := e.Resolver.DCForSubnet(subnetID); name != "" {
			names = append(names, name)
		}
	}
	if subnet != nil {
		if name := e.Resolver.ResolveDCName(subnet.Attrs.Value("DC")); name != "" {
			names = append(names, name)
		}
	}
	if name := e.Resolver.ResolveDCName(device.Value("DC")); name != "" {
		names = append(names, name)
	}
	return catalog.SortedUnique(names)
}
