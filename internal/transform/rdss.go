package transform

import (
	"fmt"
	"strings"

	"github.com/talifan/adv-reverse2seaf/internal/catalog"
	"github.com/talifan/adv-reverse2seaf/internal/derived"
	"github.com/talifan/adv-reverse2seaf/internal/models"
)

const databaseService = "СУБД"

// RDSs emits a service cluster per relational database instance.
func RDSs(src *models.SourceBundle, env *Env) *models.TargetBundle {
	out := models.NewTargetBundle()
	src.Kind(models.SourceRDSs).Each(func(key string, rds *models.Map) bool {
		nodes := models.FlattenKeyed(rds.Value("nodes"))

		var desc description
		desc.add("Status", rds.Value("status"))
		desc.add("Flavor", rds.Value("flavor"))
		if datastore := rds.Child("datastore"); datastore.Len() > 0 {
			desc.add("Datastore Type", datastore.Value("type"))
			desc.add("Datastore Version", datastore.Value("version"))
			desc.add("Datastore Complete Version", datastore.Value("complete_version"))
		}
		if volume := rds.Child("volume"); volume.Len() > 0 {
			desc.add("Volume Type", volume.Value("type"))
			desc.add("Volume Size (GB)", volume.Value("size"))
		}
		desc.add("Nodes", describeNodes(nodes))
		if backup := rds.Child("backup_strategy"); backup.Len() > 0 {
			desc.add("Backup Start Time", backup.Value("start_time"))
			desc.add("Backup Keep Days", backup.Value("keep_days"))
		}

		var zones []string
		if len(nodes) == 0 {
			env.Warnings.Collect(key, "nodes", "Missing or empty 'nodes'. Availability zone and location will be empty.")
		}
		for _, node := range nodes {
			if name := node.Str("availability_zone"); derived.ValidAZName(name) {
				zones = append(zones, strings.TrimSpace(name))
			}
		}
		if len(zones) == 0 {
			zones = validZones(rds.Value("az"))
		}

		network := env.subnetConnection(key, rds.Value("subnet_id"), true)
		env.requireVPC(key, rds)

		out.Put(models.TargetCluster, env.IDs.Canonical(models.SourceRDSs, key),
			env.serviceCluster(rds, desc.String(), zones, network, databaseService, firstString(rds, "private_ips")))
		return true
	})
	return out
}

func (e *Env) serviceCluster(attrs *models.Map, desc string, zones, network []string, serviceType string, fqdn any) *models.ServiceCluster {
	locations := e.DCRefs(zones)
	primary := e.PrimaryDC(catalog.SortedUnique(zones))
	if len(locations) == 0 {
		if name := e.Resolver.ResolveDCName(attrs.Value("DC")); name != "" {
			locations = []string{e.IDs.DC(name)}
			primary = name
		}
	}
	return &models.ServiceCluster{
		Title:             attrs.Text("name"),
		Description:       desc,
		ExternalID:        scalarOrNil(attrs.Value("id")),
		FQDN:              fqdn,
		ReservationType:   scalarOrNil(attrs.Value("type")),
		ServiceType:       serviceType,
		AvailabilityZone:  e.AZRefs(zones),
		Location:          locations,
		NetworkConnection: network,
		Segment:           e.SegmentRef(primary, derived.SegmentIntNet),
	}
}

func (e *Env) requireVPC(key string, attrs *models.Map) {
	if !truthy(attrs.Value("vpc_id")) {
		e.Warnings.Collect(key, "vpc_id", "Missing 'vpc_id'. Ensure upstream segment references are available.")
	}
}

func describeNodes(nodes []*models.Map) string {
	parts := make([]string, 0, len(nodes))
	for _, node := range nodes {
		parts = append(parts, fmt.Sprintf("Node ID: %s, Name: %s, Role: %s, Status: %s, AZ: %s",
			node.Text("id"), node.Text("name"), node.Text("role"), node.Text("status"), node.Text("availability_zone")))
	}
	return strings.Join(parts, "; ")
}

// validZones returns the valid AZ names of a scalar or list attribute.
func validZones(value any) []string {
	var items []any
	switch v := value.(type) {
	case string:
		items = []any{v}
	case []any:
		items = v
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok && derived.ValidAZName(s) {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func firstString(attrs *models.Map, key string) any {
	if values := attrs.Strings(key); len(values) > 0 && values[0] != "" {
		return values[0]
	}
	return nil
}
