package pipeline

import (
	"strings"

	"github.com/talifan/adv-reverse2seaf/internal/derived"
	"github.com/talifan/adv-reverse2seaf/internal/models"
	"github.com/talifan/adv-reverse2seaf/internal/transform"
)

// Names accepted by Select for "every step".
const (
	SelectAll      = "*"
	SelectAllAlias = "__all__"
)

// Step is one unit of work of a conversion run. Source is the short source
// kind the step reads, empty for derived entities.
type Step struct {
	Name   string
	Source string
	Build  transform.Func
}

// Derived reports whether the step synthesizes entities rather than
// converting one source kind.
func (s Step) Derived() bool {
	return s.Source == ""
}

// Steps returns every step in execution order.
func Steps() []Step {
	return []Step{
		{Name: "dc_region", Build: func(_ *models.SourceBundle, env *transform.Env) *models.TargetBundle {
			return derived.Region(env.IDs)
		}},
		{Name: "dc_az", Build: func(src *models.SourceBundle, env *transform.Env) *models.TargetBundle {
			return derived.AvailabilityZones(src, env.IDs)
		}},
		{Name: "dcs", Build: func(src *models.SourceBundle, env *transform.Env) *models.TargetBundle {
			return derived.DataCenters(src, env.IDs, env.Warnings)
		}},
		{Name: "dc_segments", Build: func(_ *models.SourceBundle, env *transform.Env) *models.TargetBundle {
			return derived.Segments(env.DCNames(), env.IDs)
		}},
		{Name: "cluster_virtualization", Build: func(src *models.SourceBundle, env *transform.Env) *models.TargetBundle {
			return derived.VirtualizationCluster(src, env.IDs, env.Catalog)
		}},
		source(models.SourceVPCs, transform.VPCs),
		source(models.SourceSubnets, transform.Subnets),
		source(models.SourceECSs, transform.ECSs),
		source(models.SourceCCEs, transform.CCEs),
		source(models.SourceRDSs, transform.RDSs),
		source(models.SourceDMSs, transform.DMSs),
		source(models.SourceNATGateways, transform.NATGateways),
		source(models.SourcePeerings, transform.Peerings),
		source(models.SourceVaults, transform.Vaults),
		source(models.SourceVPNGateways, transform.VPNGateways),
		source(models.SourceVPNConnections, transform.VPNConnections),
		source(models.SourceEIPs, transform.EIPs),
		source(models.SourceSecurityGroups, transform.SecurityGroups),
		source(models.SourceBranches, transform.Branches),
		source(models.SourceELBs, transform.ELBs),
	}
}

func source(kind string, build transform.Func) Step {
	return Step{Name: kind, Source: kind, Build: build}
}

// StepNames lists the names of every step in execution order.
func StepNames() []string {
	steps := Steps()
	names := make([]string, len(steps))
	for i, step := range steps {
		names[i] = step.Name
	}
	return names
}

// Select returns the steps named by kinds in execution order, followed by
// the names that matched no step. An empty filter, "*" or "__all__" selects
// every step. Full source kind names are accepted as well.
func Select(kinds []string) (selected []Step, skipped []string) {
	all := Steps()
	if len(kinds) == 0 {
		return all, nil
	}

	wanted := map[string]bool{}
	for _, raw := range kinds {
		name := strings.TrimPrefix(strings.TrimSpace(raw), models.SourceKindPrefix)
		switch {
		case name == "":
			continue
		case name == SelectAll || name == SelectAllAlias:
			return all, nil
		case known(all, name):
			wanted[name] = true
		default:
			skipped = append(skipped, raw)
		}
	}

	for _, step := range all {
		if wanted[step.Name] {
			selected = append(selected, step)
		}
	}
	return selected, skipped
}

func known(steps []Step, name string) bool {
	for _, step := range steps {
		if step.Name == name {
			return true
		}
	}
	return false
}
