package transform

import (
	"strings"

	"github.com/talifan/adv-reverse2seaf/internal/derived"
	"github.com/talifan/adv-reverse2seaf/internal/models"
)

const (
	idpTag          = "IdP"
	istioMesh       = "istio"
	internalNetwork = "Internal"
)

// CCEs emits a Kubernetes cluster per container engine cluster together with
// the identity-provider knowledge-base entry its auth slot points at.
func CCEs(src *models.SourceBundle, env *Env) *models.TargetBundle {
	out := models.NewTargetBundle()
	src.Kind(models.SourceCCEs).Each(func(key string, cce *models.Map) bool {
		var desc description
		desc.add("Flavor", cce.Value("flavor"))
		desc.add("Platform Version", cce.Value("platform_version"))
		desc.add("IP Addresses", joined(cce, "addresses"))
		desc.add("Security Groups", joined(cce, "security_groups"))
		desc.add("Container Network", cce.Value("container_network"))
		desc.add("Tenant", cce.Value("tenant"))
		desc.add("Alias", cce.Value("alias"))

		zones := env.mastersAZ(key, cce.Value("masters_az"))

		var software *string
		if truthy(cce.Value("version")) {
			software = strPtr("CCE " + cce.Text("version"))
		}
		var mesh *string
		if truthy(cce.Value("supportistio")) {
			mesh = strPtr(istioMesh)
		}

		var auth *string
		if method := strings.ToLower(strings.TrimSpace(cce.Text("authentication"))); method != "" {
			ref := env.IDs.KB(idpTag, method)
			auth = &ref
			out.Put(models.TargetKB, ref, &models.IdentityProvider{
				Title:       method,
				Description: "Authentication: " + method,
				ExternalID:  method,
				Technology:  method,
				Tag:         idpTag,
			})
		}

		out.Put(models.TargetK8s, env.IDs.Canonical(models.SourceCCEs, key), &models.K8sCluster{
			Title:              cce.Text("name"),
			Description:        desc.String(),
			ExternalID:         scalarOrNil(cce.Value("id")),
			FQDN:               internalEndpoint(cce),
			Software:           software,
			AvailabilityZone:   env.AZRefs(zones),
			Location:           env.DCRefs(zones),
			ServiceMesh:        mesh,
			NetworkConnection:  env.subnetConnection(key, cce.Value("subnet_id"), true),
			ManagementNetworks: managementNetworks(cce.Str("service_network")),
			Auth:               auth,
			Monitoring:         []string{},
			Backup:             []string{},
			Registries:         []string{},
		})
		return true
	})
	return out
}

// mastersAZ returns the valid master zones and warns about everything else.
func (e *Env) mastersAZ(key string, value any) []string {
	var items []any
	switch v := value.(type) {
	case nil:
		e.Warnings.Collect(key, "masters_az", "Missing 'masters_az'. Location will be empty.")
		return nil
	case string:
		items = []any{v}
	case []any:
		items = v
	default:
		e.Warnings.Collectf(key, "masters_az", "Invalid type '%s' for 'masters_az'. Expected string or list.", typeName(v))
		return nil
	}

	var zones []string
	for _, item := range items {
		if s, ok := item.(string); ok && derived.ValidAZName(s) {
			zones = append(zones, strings.TrimSpace(s))
			continue
		}
		e.Warnings.Collectf(key+".masters_az", "value", "Invalid AZ value '%s'. Skipping.", renderValue(item))
	}
	if len(items) > 0 && len(zones) == 0 {
		e.Warnings.Collect(key, "masters_az", "No valid AZ values found. Location will be empty.")
	}
	return zones
}

// subnetConnection resolves the subnet_id attribute into a network_connection
// list. Missing values are warned when warn is set.
func (e *Env) subnetConnection(key string, value any, warn bool) []string {
	switch v := value.(type) {
	case nil:
	case string:
		if ref := e.Catalog.Ref(models.SourceSubnets, v); ref != "" {
			return []string{ref}
		}
	default:
		if warn {
			e.Warnings.Collectf(key, "subnet_id", "Invalid type '%s' for 'subnet_id'. network_connection will be empty.", typeName(v))
		}
		return []string{}
	}
	if warn {
		e.Warnings.Collect(key, "subnet_id", "Missing or empty 'subnet_id'. network_connection will be empty.")
	}
	return []string{}
}

func internalEndpoint(cce *models.Map) any {
	for _, endpoint := range models.FlattenKeyed(cce.Value("endpoints")) {
		if endpoint.Str("type") == internalNetwork {
			return scalarOrNil(endpoint.Value("url"))
		}
	}
	return nil
}

// managementNetworks turns the service CIDR into a pseudo-id.
func managementNetworks(cidr string) []string {
	cidr = strings.TrimSpace(cidr)
	if cidr == "" {
		return []string{}
	}
	return []string{"cidr." + strings.NewReplacer("/", "_", ".", "_").Replace(cidr)}
}

func renderValue(value any) string {
	if value == nil {
		return "null"
	}
	return models.FormatScalar(value)
}
