// Package derived synthesizes the entities that no single inventory record
// describes: the region, availability zones, data centers, their predefined
// network segments and the virtualization cluster.
package derived

import (
	"sort"
	"strings"

	"github.com/talifan/adv-reverse2seaf/internal/catalog"
	"github.com/talifan/adv-reverse2seaf/internal/ids"
	"github.com/talifan/adv-reverse2seaf/internal/models"
	"github.com/talifan/adv-reverse2seaf/internal/warnings"
)

const (
	RegionName     = "russia"
	RegionTitle    = "Россия"
	Vendor         = "Cloud.ru"
	DCType         = "Облачный"
	ClusterName    = "cloud_ru_virtualization_cluster"
	ClusterTitle   = "Cloud.ru Virtualization Cluster"
	HypervisorName = "Cloud.ru Hypervisor"
	SegmentType    = "Default"
)

// Predefined segment zones in emission order.
const (
	SegmentExternalNet    = "EXTERNAL-NET"
	SegmentInternet       = "INTERNET"
	SegmentTransportWAN   = "TRANSPORT-WAN"
	SegmentInetEdge       = "INET-EDGE"
	SegmentExtWANEdge     = "EXT-WAN-EDGE"
	SegmentIntWANEdge     = "INT-WAN-EDGE"
	SegmentDMZ            = "DMZ"
	SegmentIntNet         = "INT-NET"
	SegmentIntSecurityNet = "INT-SECURITY-NET"
)

var PredefinedSegments = []string{
	SegmentExternalNet, SegmentInternet, SegmentTransportWAN, SegmentInetEdge,
	SegmentExtWANEdge, SegmentIntWANEdge, SegmentDMZ, SegmentIntNet, SegmentIntSecurityNet,
}

// IsPredefinedSegment reports whether name is one of the fixed segment zones.
func IsPredefinedSegment(name string) bool {
	for _, segment := range PredefinedSegments {
		if segment == name {
			return true
		}
	}
	return false
}

// ValidAZName reports whether value names an availability zone. The same
// rule decides which data centers exist, so every AZ has exactly one DC.
func ValidAZName(value string) bool {
	return len(strings.TrimSpace(value)) > 3
}

// Region builds the single geographic umbrella entity.
func Region(idSvc *ids.Service) *models.TargetBundle {
	out := models.NewTargetBundle()
	out.Put(models.TargetDCRegion, idSvc.Region(RegionName), &models.Region{
		Title:      RegionTitle,
		ExternalID: RegionName,
	})
	return out
}

// AvailabilityZones emits one AZ per valid zone name found in src.
func AvailabilityZones(src *models.SourceBundle, idSvc *ids.Service) *models.TargetBundle {
	out := models.NewTargetBundle()
	entities := out.Entities(models.TargetDCAZ)
	for _, name := range ZoneNames(src, nil) {
		entities.Set(idSvc.DCAZ(name), &models.AvailabilityZone{
			Title:      name,
			ExternalID: name,
			Vendor:     Vendor,
			Region:     idSvc.Region(RegionName),
		})
	}
	return out
}

// DataCenters emits one DC per valid zone name and reports every rejected
// zone value to w.
func DataCenters(src *models.SourceBundle, idSvc *ids.Service, w *warnings.Collector) *models.TargetBundle {
	out := models.NewTargetBundle()
	entities := out.Entities(models.TargetDC)
	for _, name := range ZoneNames(src, w) {
		entities.Set(idSvc.DC(name), &models.DataCenter{
			Title:            name,
			ExternalID:       name,
			Type:             DCType,
			Vendor:           Vendor,
			Address:          name,
			AvailabilityZone: idSvc.DCAZ(name),
		})
	}
	return out
}

// Segments emits the predefined segment set for every DC name.
func Segments(dcNames []string, idSvc *ids.Service) *models.TargetBundle {
	out := models.NewTargetBundle()
	entities := out.Entities(models.TargetNetworkSegment)
	for _, dc := range dcNames {
		for _, zone := range PredefinedSegments {
			entities.Set(idSvc.Segment(dc, zone), &models.PredefinedSegment{
				Title:       zone + " (" + dc + ")",
				Description: "Predefined network segment " + zone + " for data center " + dc,
				ExternalID:  "segment_" + dc + "_" + zone,
				Location:    idSvc.DC(dc),
				Type:        SegmentType,
				Zone:        zone,
			})
		}
	}
	return out
}

// VirtualizationCluster emits the singleton cluster hosting every VM, or
// nothing when the inventory has no VMs.
func VirtualizationCluster(src *models.SourceBundle, idSvc *ids.Service, cat *catalog.Catalog) *models.TargetBundle {
	out := models.NewTargetBundle()
	vms := src.Kind(models.SourceECSs)
	if vms.Len() == 0 {
		return out
	}

	var zones, subnets []string
	vms.Each(func(_ string, vm *models.Map) bool {
		if az := vm.Str("az"); ValidAZName(az) {
			zones = append(zones, idSvc.DCAZ(az))
		}
		for _, disk := range models.FlattenKeyed(vm.Value("disks")) {
			if az := disk.Str("az"); ValidAZName(az) {
				zones = append(zones, idSvc.DCAZ(az))
			}
		}
		for _, subnet := range vm.Strings("subnets") {
			subnets = append(subnets, cat.Ref(models.SourceSubnets, subnet))
		}
		return true
	})

	out.Put(models.TargetClusterVirtualization, ClusterID(idSvc), &models.VirtualizationCluster{
		Title:             ClusterTitle,
		ExternalID:        ClusterName,
		Hypervisor:        HypervisorName,
		AvailabilityZone:  catalog.SortedUnique(zones),
		Location:          []string{},
		NetworkConnection: catalog.SortedUnique(subnets),
	})
	return out
}

// ClusterID is the identifier of the virtualization cluster.
func ClusterID(idSvc *ids.Service) string {
	return idSvc.Build(ids.KindClusterVirtualization, ClusterName)
}

// ZoneNames returns the sorted unique zone names referenced by VMs and their
// disks, container clusters, databases and their nodes, and messaging
// services. Rejected values are reported to w when it is not nil.
func ZoneNames(src *models.SourceBundle, w *warnings.Collector) []string {
	z := zoneWalker{seen: map[string]struct{}{}, w: w}

	src.Kind(models.SourceECSs).Each(func(key string, vm *models.Map) bool {
		z.scalar(key, "az", vm.Value("az"))
		for _, disk := range models.FlattenKeyed(vm.Value("disks")) {
			z.scalar(key, "disks.az", disk.Value("az"))
		}
		return true
	})
	src.Kind(models.SourceCCEs).Each(func(key string, cce *models.Map) bool {
		z.mixed(key, "masters_az", cce.Value("masters_az"))
		return true
	})
	src.Kind(models.SourceRDSs).Each(func(key string, rds *models.Map) bool {
		z.mixed(key, "az", rds.Value("az"))
		for _, node := range models.FlattenKeyed(rds.Value("nodes")) {
			z.scalar(key, "nodes.availability_zone", node.Value("availability_zone"))
		}
		return true
	})
	src.Kind(models.SourceDMSs).Each(func(key string, dms *models.Map) bool {
		z.mixed(key, "available_az", dms.Value("available_az"))
		return true
	})

	names := make([]string, 0, len(z.seen))
	for name := range z.seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type zoneWalker struct {
	seen map[string]struct{}
	w    *warnings.Collector
}

func (z *zoneWalker) mixed(entity, field string, value any) {
	if list, ok := value.([]any); ok {
		for _, item := range list {
			z.listItem(entity, field, item)
		}
		return
	}
	z.scalar(entity, field, value)
}

func (z *zoneWalker) scalar(entity, field string, value any) {
	switch v := value.(type) {
	case nil:
	case string:
		if ValidAZName(v) {
			z.seen[strings.TrimSpace(v)] = struct{}{}
			return
		}
		z.warn(entity, field, "Invalid AZ name '%s' (too short). Skipping.", v)
	default:
		z.warn(entity, field, "Invalid AZ entry '%s' (not a string). Skipping.", render(v))
	}
}

func (z *zoneWalker) listItem(entity, field string, value any) {
	s, ok := value.(string)
	if !ok {
		z.warn(entity, field, "Invalid AZ entry '%s' (not a string) in list. Skipping.", render(value))
		return
	}
	if ValidAZName(s) {
		z.seen[strings.TrimSpace(s)] = struct{}{}
		return
	}
	z.warn(entity, field, "Invalid AZ name '%s' (too short) in list. Skipping.", s)
}

func (z *zoneWalker) warn(entity, field, format string, arg string) {
	if z.w != nil {
		z.w.Collectf(entity, field, format, arg)
	}
}

func render(value any) string {
	if value == nil {
		return "null"
	}
	return models.FormatScalar(value)
}
