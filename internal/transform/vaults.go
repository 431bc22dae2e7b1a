package transform

import (
	"math"
	"strings"

	"github.com/talifan/adv-reverse2seaf/internal/catalog"
	"github.com/talifan/adv-reverse2seaf/internal/models"
)

const (
	storageType     = "Simple Storage Service"
	storageSoftware = "Cloud Backup Service"
	deletedStatus   = "deleted"
	bytesPerGiB     = 1024 * 1024 * 1024
)

// Vaults emits a storage per backup vault and a backup per protected
// resource. Backups inherit placement from the protected VM and the storage
// collects the placement of its backups.
func Vaults(src *models.SourceBundle, env *Env) *models.TargetBundle {
	out := models.NewTargetBundle()
	src.Kind(models.SourceVaults).Each(func(key string, vault *models.Map) bool {
		storageID := env.IDs.Canonical(models.SourceVaults, key)
		var zones, locations, network []string

		for _, resource := range models.FlattenKeyed(vault.Value("resources")) {
			if resource.Str("protect_status") == deletedStatus {
				continue
			}
			resourceID := strings.TrimSpace(resource.Text("id"))
			if resourceID == "" {
				env.Warnings.Collectf(key, "resources.id", "Missing 'id' for resource '%s'. Backup will not be created.", resource.Text("name"))
				continue
			}
			backup := env.backup(vault, resource, storageID)
			zones = append(zones, backup.AvailabilityZone...)
			locations = append(locations, backup.Location...)
			network = append(network, backup.NetworkConnection...)
			out.Put(models.TargetBackup, env.IDs.Child(storageID, resourceID), backup)
		}

		locations = catalog.SortedUnique(locations)
		if len(locations) == 0 {
			if name := env.Resolver.ResolveDCName(vault.Value("DC")); name != "" {
				locations = []string{env.IDs.DC(name)}
			}
		}

		var desc description
		desc.raw(vault.Value("description"))
		desc.add("Tenant", vault.Value("tenant"))

		out.Put(models.TargetStorage, storageID, &models.Storage{
			Title:             vault.Text("name"),
			Description:       desc.String(),
			ExternalID:        scalarOrNil(vault.Value("id")),
			Type:              storageType,
			Software:          storageSoftware,
			AvailabilityZone:  catalog.SortedUnique(zones),
			Location:          locations,
			NetworkConnection: catalog.SortedUnique(network),
		})
		return true
	})
	return out
}

func (e *Env) backup(vault, resource *models.Map, storageID string) *models.Backup {
	name := resource.Text("name")
	if name == "" {
		name = "Unknown"
	}

	var desc description
	desc.add("Resource Name", resource.Value("name"))
	desc.add("Resource Type", resource.Value("type"))
	if truthy(resource.Value("size")) {
		desc.addf("Limit Size: %s GB", resource.Text("size"))
	}
	if size, ok := numeric(resource.Value("backup_size")); ok && size != 0 {
		gib := math.Round(size/bytesPerGiB*100) / 100
		desc.addf("Current Size: %s GB", models.FormatScalar(gib))
	}
	desc.add("Backup Count", resource.Value("backup_count"))
	desc.add("Protect Status", resource.Value("protect_status"))
	if extra := resource.Value("extra_info"); extra != nil {
		desc.addf("Extra Info: %s", extraInfo(extra))
	}

	backup := &models.Backup{
		Title:             "Backup for " + name,
		Description:       desc.String(),
		ExternalID:        scalarOrNil(resource.Value("id")),
		Path:              "Vault: " + vault.Text("name"),
		NetworkConnection: []string{},
		AvailabilityZone:  []string{},
		Location:          []string{},
		Storage:           storageID,
	}
	if vm, ok := e.Catalog.FindVM(resource.Text("id")); ok {
		zones := validZones(vm.Attrs.Value("az"))
		backup.AvailabilityZone = e.AZRefs(zones)
		backup.Location = e.DCRefs(zones)
		var subnets []string
		for _, raw := range vm.Attrs.Strings("subnets") {
			subnets = append(subnets, e.Catalog.Ref(models.SourceSubnets, raw))
		}
		backup.NetworkConnection = catalog.SortedUnique(subnets)
	}
	return backup
}

func extraInfo(value any) string {
	switch value.(type) {
	case *models.Map, []any:
		return compactJSON(value)
	}
	return models.FormatScalar(value)
}
