package location

import (
	"github.com/talifan/adv-reverse2seaf/internal/ids"
	"github.com/talifan/adv-reverse2seaf/internal/models"
)

func (r *Resolver) index(src *models.SourceBundle) {
	if src == nil {
		return
	}

	src.Kind(models.SourceSubnets).Each(func(key string, subnet *models.Map) bool {
		id := entityID(key, subnet)
		for _, field := range []string{"availability_zone", "az", "DC"} {
			r.addSubnetHint(id, subnet.Value(field))
		}
		r.addAlias(subnet.Value("DC"), subnet.Value("availability_zone"))
		r.addAlias(subnet.Value("DC"), subnet.Value("az"))
		return true
	})

	src.Kind(models.SourceVPCs).Each(func(key string, vpc *models.Map) bool {
		r.addVPCHint(entityID(key, vpc), vpc.Value("DC"))
		return true
	})

	src.Kind(models.SourceECSs).Each(func(_ string, ecs *models.Map) bool {
		vpcID, dc, az := ecs.Str("vpc_id"), ecs.Value("DC"), ecs.Value("az")
		r.addVPCHint(vpcID, az)
		r.addVPCHint(vpcID, dc)
		r.addAlias(dc, az)
		subnets := ecs.Strings("subnets")
		for _, subnetID := range subnets {
			r.addSubnetHint(subnetID, az)
			r.addSubnetHint(subnetID, dc)
		}
		for _, disk := range models.FlattenKeyed(ecs.Value("disks")) {
			r.addAlias(dc, disk.Value("az"))
			for _, subnetID := range subnets {
				r.addSubnetHint(subnetID, disk.Value("az"))
			}
		}
		return true
	})

	r.indexPlaced(src.Kind(models.SourceCCEs), "masters_az")
	r.indexPlaced(src.Kind(models.SourceRDSs), "az")
	r.indexPlaced(src.Kind(models.SourceDMSs), "available_az")

	src.Kind(models.SourceRDSs).Each(func(_ string, rds *models.Map) bool {
		for _, node := range models.FlattenKeyed(rds.Value("nodes")) {
			nodeAZ := node.Value("availability_zone")
			r.addVPCHint(rds.Str("vpc_id"), nodeAZ)
			r.addSubnetHint(rds.Str("subnet_id"), nodeAZ)
			r.addAlias(rds.Value("DC"), nodeAZ)
		}
		return true
	})

	for _, kind := range []string{models.SourceNATGateways, models.SourceELBs, models.SourceVPNGateways} {
		src.Kind(kind).Each(func(_ string, device *models.Map) bool {
			subnetID, dc, az := device.Str("subnet_id"), device.Value("DC"), device.Value("availability_zone")
			r.addSubnetHint(subnetID, az)
			r.addSubnetHint(subnetID, dc)
			r.addAlias(dc, az)
			return true
		})
	}

	src.Kind(models.SourceEIPs).Each(func(_ string, eip *models.Map) bool {
		r.addAlias(eip.Value("DC"), eip.Value("availability_zone"))
		return true
	})
}

// indexPlaced registers VPC, subnet and alias hints of resources that carry
// their availability zones in azField next to vpc_id, subnet_id and DC.
func (r *Resolver) indexPlaced(collection *models.Collection, azField string) {
	collection.Each(func(_ string, item *models.Map) bool {
		vpcID, subnetID := item.Str("vpc_id"), item.Str("subnet_id")
		az, dc := item.Value(azField), item.Value("DC")
		r.addVPCHint(vpcID, az)
		r.addVPCHint(vpcID, dc)
		r.addAlias(dc, az)
		r.addSubnetHint(subnetID, az)
		r.addSubnetHint(subnetID, dc)
		return true
	})
}

func (r *Resolver) addSubnetHint(subnetID string, hint any) {
	addHint(r.subnetHints, subnetID, r.normalizeAll(hint))
}

func (r *Resolver) addVPCHint(vpcID string, hint any) {
	addHint(r.vpcHints, vpcID, r.normalizeAll(hint))
}

func addHint(hints map[string]nameSet, id string, names []string) {
	if id == "" {
		return
	}
	for _, name := range names {
		for _, key := range ids.Variants(id) {
			if hints[key] == nil {
				hints[key] = nameSet{}
			}
			hints[key].add(name)
		}
	}
}

// addAlias links every DC name of primary with every DC name of secondary in both directions.
func (r *Resolver) addAlias(primary, secondary any) {
	for _, a := range r.normalizeAll(primary) {
		for _, b := range r.normalizeAll(secondary) {
			if a == b {
				continue
			}
			r.link(a, b)
			r.link(b, a)
		}
	}
}

func (r *Resolver) link(from, to string) {
	if r.aliases[from] == nil {
		r.aliases[from] = nameSet{}
	}
	r.aliases[from].add(to)
}

func (r *Resolver) normalizeAll(hint any) []string {
	var out []string
	for _, value := range hintValues(hint) {
		if name := r.Normalize(value); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func entityID(key string, attrs *models.Map) string {
	if id := attrs.Str("id"); id != "" {
		return id
	}
	return key
}
