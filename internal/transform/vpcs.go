package transform

import (
	"strings"

	"github.com/talifan/adv-reverse2seaf/internal/derived"
	"github.com/talifan/adv-reverse2seaf/internal/models"
)

// ZonePlaceholder marks a zone the operator fills in after conversion.
const ZonePlaceholder = "###PLACEHOLDER_FOR_MANUAL_ZONE###"

const (
	routerModel           = "Cloud Router"
	routerType            = "Маршрутизатор"
	virtualRealization    = "Виртуальный"
	routerTitlePrefix     = "Маршрутизатор "
	routerVPCLabel        = "Связанная VPC"
	routerLocationLabel   = "Расположение"
	routerDefaultVPCTitle = "VPC"
)

// VPCs emits a network segment and a synthetic router per VPC.
func VPCs(src *models.SourceBundle, env *Env) *models.TargetBundle {
	out := models.NewTargetBundle()
	src.Kind(models.SourceVPCs).Each(func(key string, vpc *models.Map) bool {
		id := env.IDs.Canonical(models.SourceVPCs, key)
		dcs := env.vpcDCs(key, vpc)
		primary := env.PrimaryDC(dcs)

		var location *string
		if primary != "" {
			location = strPtr(env.IDs.DC(primary))
		}

		var desc description
		desc.raw(vpc.Value("description"))
		desc.add("CIDR", vpc.Value("cidr"))
		desc.add("Tenant", vpc.Value("tenant"))

		out.Put(models.TargetNetworkSegment, id, &models.VPCSegment{
			Title:       vpc.Text("name"),
			Description: desc.String(),
			ExternalID:  vpc.Text("id"),
			Sber:        models.SegmentPlacement{Location: location, Zone: ZonePlaceholder},
		})
		out.Put(models.TargetNetworkDevice, env.IDs.Router(id), env.router(vpc, primary))
		return true
	})
	return out
}

func (e *Env) router(vpc *models.Map, primary string) *models.NetworkDevice {
	name := vpc.Text("name")
	if name == "" {
		name = routerDefaultVPCTitle
	}

	locations := []string{}
	if primary != "" {
		locations = []string{e.IDs.DC(primary)}
	}

	var desc description
	desc.add(routerVPCLabel, vpc.Value("name"))
	desc.add("CIDR", vpc.Value("cidr"))
	desc.add(routerLocationLabel, strings.Join(locations, ", "))

	externalID := vpc.Text("id")
	if externalID != "" {
		externalID += ".router"
	}

	return &models.NetworkDevice{
		Title:             routerTitlePrefix + name,
		Description:       desc.String(),
		ExternalID:        scalarOrNil(externalID),
		Model:             routerModel,
		RealizationType:   virtualRealization,
		Type:              routerType,
		NetworkConnection: e.Catalog.SubnetsWithin(vpc.Str("cidr")),
		Segment:           e.SegmentRef(primary, derived.SegmentIntNet),
		Location:          locations,
	}
}

// vpcDCs ranks the DC names associated with a VPC, falling back to its own DC hint.
func (e *Env) vpcDCs(key string, vpc *models.Map) []string {
	var names []string
	if id := vpc.Str("id"); id != "" {
		names = e.Resolver.DCNamesForVPC(id)
	}
	if len(names) == 0 {
		names = e.Resolver.DCNamesForVPC(key)
	}
	if len(names) == 0 {
		if name := e.Resolver.ResolveDCName(vpc.Value("DC")); name != "" {
			names = []string{name}
		}
	}
	return names
}
