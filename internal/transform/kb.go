package transform

import (
	"net/netip"
	"strings"

	"github.com/talifan/adv-reverse2seaf/internal/catalog"
	"github.com/talifan/adv-reverse2seaf/internal/models"
)

const (
	firewallTechnology = "Межсетевое экранирование"
	firewallSoftware   = "Cloud Security Group"
	firewallTag        = "FW"
	kbStatusInUse      = "Используется"

	// Rule prefixes shorter than this are too broad to place a group.
	minRulePrefixBits = 16
)

// SecurityGroups emits a firewall knowledge-base entry per security group.
func SecurityGroups(src *models.SourceBundle, env *Env) *models.TargetBundle {
	out := models.NewTargetBundle()
	src.Kind(models.SourceSecurityGroups).Each(func(key string, sg *models.Map) bool {
		var desc description
		desc.raw(sg.Value("description"))
		desc.add("Tenant", sg.Value("tenant"))
		desc.add("DC", sg.Value("DC"))
		desc.addJSON("Rules", sg.Value("rules"))

		out.Put(models.TargetKB, env.IDs.Canonical(models.SourceSecurityGroups, key), &models.SecurityControl{
			Title:             sg.Text("name"),
			Description:       desc.String(),
			ExternalID:        scalarOrNil(sg.Value("id")),
			Technology:        firewallTechnology,
			SoftwareName:      firewallSoftware,
			Tag:               firewallTag,
			Status:            kbStatusInUse,
			NetworkConnection: env.groupSubnets(key, sg),
		})
		return true
	})
	return out
}

// groupSubnets returns the subnets of the VMs that list the group. When no VM
// does, it falls back to the subnets overlapping the group's rule prefixes.
func (e *Env) groupSubnets(key string, sg *models.Map) []string {
	names := map[string]bool{}
	for _, candidate := range []string{key, sg.Str("id"), sg.Str("name")} {
		if candidate != "" {
			names[candidate] = true
		}
	}

	var subnets []string
	for _, vm := range e.Catalog.Entries(models.SourceECSs) {
		if !listsAny(vm.Attrs.Strings("security_groups"), names) {
			continue
		}
		for _, raw := range vm.Attrs.Strings("subnets") {
			subnets = append(subnets, e.Catalog.Ref(models.SourceSubnets, raw))
		}
	}
	if len(subnets) > 0 {
		return catalog.SortedUnique(subnets)
	}

	for _, rule := range models.FlattenKeyed(sg.Value("rules")) {
		prefix, err := netip.ParsePrefix(strings.TrimSpace(rule.Str("remote_ip_prefix")))
		if err != nil || prefix.Bits() < minRulePrefixBits {
			continue
		}
		prefix = prefix.Masked()
		for _, subnet := range e.Catalog.Subnets() {
			if catalog.SubnetOf(subnet.Prefix, prefix) || catalog.SubnetOf(prefix, subnet.Prefix) {
				subnets = append(subnets, subnet.ID)
			}
		}
	}
	return catalog.SortedUnique(subnets)
}

func listsAny(values []string, names map[string]bool) bool {
	for _, value := range values {
		if names[value] {
			return true
		}
	}
	return false
}
