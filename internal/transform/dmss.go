package transform

import (
	"strings"

	"github.com/talifan/adv-reverse2seaf/internal/derived"
	"github.com/talifan/adv-reverse2seaf/internal/models"
)

const messagingService = "Интеграционная шина  (MQ, ETL, API)"

// DMSs emits a service cluster per distributed messaging instance.
func DMSs(src *models.SourceBundle, env *Env) *models.TargetBundle {
	out := models.NewTargetBundle()
	src.Kind(models.SourceDMSs).Each(func(key string, dms *models.Map) bool {
		var desc description
		desc.add("Engine", dms.Value("engine"))
		desc.add("Engine Version", dms.Value("engine_version"))
		desc.add("Port", dms.Value("port"))
		desc.add("Status", dms.Value("status"))
		desc.add("Specification", dms.Value("specification"))
		desc.add("Security Groups", joined(dms, "security_groups"))
		desc.add("Storage Space", dms.Value("storage_space"))
		desc.add("Total Storage Space", dms.Value("total_storage_space"))
		desc.add("Used Storage Space", dms.Value("used_storage_space"))
		desc.add("Storage Spec Code", dms.Value("storage_spec_code"))
		desc.add("Management URL", dms.Value("management"))
		desc.add("Supported Features", dms.Value("support_features"))
		desc.add("Node Num", dms.Value("node_num"))
		if encrypted := dms.Value("disk_encrypted"); encrypted != nil {
			desc.addf("Disk Encrypted: %s", models.FormatScalar(encrypted))
		}
		desc.add("Tenant", dms.Value("tenant"))
		desc.add("DC", dms.Value("DC"))

		zones := env.availableAZ(key, dms.Value("available_az"))
		network := env.subnetConnection(key, dms.Value("subnet_id"), true)
		env.requireVPC(key, dms)

		out.Put(models.TargetCluster, env.IDs.Canonical(models.SourceDMSs, key),
			env.serviceCluster(dms, desc.String(), zones, network, messagingService, scalarOrNil(dms.Value("address"))))
		return true
	})
	return out
}

// availableAZ returns the valid zones of a messaging instance, warning about
// each rejected value and about lists without any valid zone.
func (e *Env) availableAZ(key string, value any) []string {
	var items []any
	switch v := value.(type) {
	case nil:
		return nil
	case []any:
		items = v
	default:
		items = []any{v}
	}

	var zones []string
	for _, item := range items {
		if s, ok := item.(string); ok && derived.ValidAZName(s) {
			zones = append(zones, strings.TrimSpace(s))
			continue
		}
		e.Warnings.Collectf(key+".available_az", "value", "Invalid AZ value '%s'. Skipping.", renderValue(item))
	}
	if len(items) > 0 && len(zones) == 0 {
		e.Warnings.Collect(key, "available_az", "No valid AZ values found. Location will be empty.")
	}
	return zones
}
