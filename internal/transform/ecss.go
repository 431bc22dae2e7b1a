package transform

import (
	"strings"

	"github.com/talifan/adv-reverse2seaf/internal/derived"
	"github.com/talifan/adv-reverse2seaf/internal/models"
)

const serverVirtual = "Виртуальный"

// ECSs emits a virtual server per elastic cloud server.
func ECSs(src *models.SourceBundle, env *Env) *models.TargetBundle {
	out := models.NewTargetBundle()
	src.Kind(models.SourceECSs).Each(func(key string, vm *models.Map) bool {
		cpu := vm.Child("cpu")
		osInfo := vm.Child("os")

		if !truthy(vm.Value("name")) {
			env.Warnings.Collect(key, "name", "Missing 'name'. Title will be empty.")
		}

		var desc description
		desc.raw(vm.Value("description"))
		desc.add("Flavor", vm.Value("flavor"))
		desc.add("CPU Architecture", cpu.Value("arch"))
		desc.add("Status", vm.Value("status"))
		desc.add("IP Addresses", joined(vm, "addresses"))
		desc.add("Security Groups", joined(vm, "security_groups"))
		desc.add("Tags", tags(vm.Value("tags")))
		desc.add("Tenant", vm.Value("tenant"))
		desc.add("DC", vm.Value("DC"))

		var zones, locations []string
		az := vm.Value("az")
		name, isString := az.(string)
		switch {
		case !truthy(az):
			env.Warnings.Collect(key, "az", "Missing 'az'. Availability zone and location will be empty.")
		case !isString:
			env.Warnings.Collectf(key, "az", "Invalid type '%s' for 'az'. Expected string.", typeName(az))
		case derived.ValidAZName(name):
			name = strings.TrimSpace(name)
			zones = append(zones, env.IDs.DCAZ(name))
			locations = append(locations, env.IDs.DC(name))
		}

		frequency := env.number(key, "cpu.frequency", cpu.Value("frequency"))
		ram := env.number(key, "ram", vm.Value("ram")) / 1024
		disks := env.disks(key, vm.Value("disks"))

		subnets := []string{}
		for _, raw := range vm.Strings("subnets") {
			if ref := env.Catalog.Ref(models.SourceSubnets, raw); ref != "" {
				subnets = append(subnets, ref)
			}
		}

		out.Put(models.TargetServer, env.IDs.Canonical(models.SourceECSs, key), &models.Server{
			Title:       vm.Text("name"),
			Description: desc.String(),
			ExternalID:  scalarOrNil(vm.Value("id")),
			Type:        serverVirtual,
			FQDN:        scalarOrNil(vm.Value("name")),
			OS: models.OS{
				Type: osInfo.Value("type"),
				Bit:  osInfo.Value("bit"),
			},
			CPU: models.CPU{
				Cores:     cpu.Value("cores"),
				Frequency: frequency,
			},
			RAM:            ram,
			NICQty:         vm.Value("nic_qty"),
			Disks:          disks,
			AZ:             nonNil(zones),
			Location:       nonNil(locations),
			Subnets:        subnets,
			Virtualization: derived.ClusterID(env.IDs),
		})
		return true
	})
	return out
}

func (e *Env) disks(key string, value any) []models.Disk {
	out := []models.Disk{}
	for _, disk := range models.FlattenKeyed(value) {
		var az *string
		if name := disk.Str("az"); derived.ValidAZName(name) {
			az = strPtr(e.IDs.DCAZ(name))
		}
		out = append(out, models.Disk{
			AZ:     az,
			Size:   e.number(key, "disks.size", disk.Value("size")),
			Type:   disk.Value("type"),
			Device: disk.Value("device"),
		})
	}
	return out
}

// number parses a leading number and warns when a present value is malformed.
func (e *Env) number(key, field string, value any) int {
	n, ok := leadingNumber(value)
	if !ok {
		e.Warnings.Collectf(key, field, "Invalid value '%s' for '%s'. Using 0.", models.FormatScalar(value), field)
		return 0
	}
	return n
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
