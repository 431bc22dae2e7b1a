// Package catalog indexes a source bundle so transformers can turn raw
// cross-references (subnet ids, VPC ids, VM UUIDs, IP addresses) into the
// canonical identifiers of the entities they point at.
package catalog

import (
	"net/netip"
	"strings"

	"github.com/google/uuid"

	"github.com/talifan/adv-reverse2seaf/internal/ids"
	"github.com/talifan/adv-reverse2seaf/internal/models"
)

// Entry is an indexed source entity.
type Entry struct {
	Kind  string
	Key   string
	ID    string
	Attrs *models.Map
}

// SubnetPrefix is a subnet with a parseable CIDR.
type SubnetPrefix struct {
	ID     string
	Prefix netip.Prefix
	Entry  *Entry
}

// IPOwner is an internal resource that holds an IP address.
type IPOwner struct {
	Addr  netip.Addr
	ID    string
	Kind  string
	Entry *Entry
}

// Catalog is a read-only index over one source bundle.
type Catalog struct {
	ids      *ids.Service
	entries  map[string][]*Entry
	lookup   map[string]map[string]*Entry
	vmByUUID map[string]*Entry
	subnets  []SubnetPrefix
	owners   []IPOwner
}

// New indexes every source kind of src. Identifiers are qualified with the
// prefix currently held by idSvc.
func New(src *models.SourceBundle, idSvc *ids.Service) *Catalog {
	c := &Catalog{
		ids:      idSvc,
		entries:  map[string][]*Entry{},
		lookup:   map[string]map[string]*Entry{},
		vmByUUID: map[string]*Entry{},
	}
	for _, kind := range models.SourceKinds {
		src.Kind(kind).Each(func(key string, attrs *models.Map) bool {
			c.add(kind, key, attrs)
			return true
		})
	}
	c.indexSubnets()
	c.indexOwners()
	return c
}

func (c *Catalog) add(kind, key string, attrs *models.Map) {
	if attrs == nil {
		attrs = models.NewMap()
	}
	entry := &Entry{Kind: kind, Key: key, ID: c.ids.Canonical(kind, key), Attrs: attrs}
	c.entries[kind] = append(c.entries[kind], entry)

	if c.lookup[kind] == nil {
		c.lookup[kind] = map[string]*Entry{}
	}
	variants := append(ids.Variants(key), ids.Variants(attrs.Str("id"))...)
	for _, variant := range variants {
		if _, taken := c.lookup[kind][variant]; !taken {
			c.lookup[kind][variant] = entry
		}
	}

	if kind == models.SourceECSs {
		for _, variant := range variants {
			if canonical := canonicalUUID(variant); canonical != "" {
				if _, taken := c.vmByUUID[canonical]; !taken {
					c.vmByUUID[canonical] = entry
				}
			}
		}
	}
}

// Entries returns the indexed entities of kind in source order.
func (c *Catalog) Entries(kind string) []*Entry {
	return c.entries[kind]
}

// Find looks up an entity of kind by its id, key or key tail.
func (c *Catalog) Find(kind, raw string) (*Entry, bool) {
	for _, variant := range ids.Variants(raw) {
		if entry, ok := c.lookup[kind][variant]; ok {
			return entry, true
		}
	}
	return nil, false
}

// Ref returns the canonical identifier raw points at. References to entities
// absent from the bundle are still qualified. Blank references yield "".
func (c *Catalog) Ref(kind, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if entry, ok := c.Find(kind, raw); ok {
		return entry.ID
	}
	return c.ids.Canonical(kind, raw)
}

// FindVM matches a protected resource id against virtual machines, first by
// id variants and then by UUID regardless of case and formatting.
func (c *Catalog) FindVM(raw string) (*Entry, bool) {
	if entry, ok := c.Find(models.SourceECSs, raw); ok {
		return entry, true
	}
	if canonical := canonicalUUID(raw); canonical != "" {
		entry, ok := c.vmByUUID[canonical]
		return entry, ok
	}
	return nil, false
}

func canonicalUUID(raw string) string {
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return parsed.String()
}

// Subnets returns the subnets with a valid CIDR in source order.
func (c *Catalog) Subnets() []SubnetPrefix {
	return c.subnets
}

func (c *Catalog) indexSubnets() {
	for _, entry := range c.entries[models.SourceSubnets] {
		prefix, err := netip.ParsePrefix(strings.TrimSpace(entry.Attrs.Str("cidr")))
		if err != nil {
			continue
		}
		c.subnets = append(c.subnets, SubnetPrefix{ID: entry.ID, Prefix: prefix.Masked(), Entry: entry})
	}
}

// SubnetsWithin returns the sorted ids of subnets whose CIDR lies inside cidr.
func (c *Catalog) SubnetsWithin(cidr string) []string {
	outer, err := netip.ParsePrefix(strings.TrimSpace(cidr))
	if err != nil {
		return []string{}
	}
	outer = outer.Masked()
	out := []string{}
	for _, subnet := range c.subnets {
		if SubnetOf(subnet.Prefix, outer) {
			out = append(out, subnet.ID)
		}
	}
	return SortedUnique(out)
}

// SubnetOf reports whether inner is contained in outer.
func SubnetOf(inner, outer netip.Prefix) bool {
	if inner.Addr().Is4() != outer.Addr().Is4() {
		return false
	}
	return inner.Bits() >= outer.Bits() && outer.Contains(inner.Addr())
}

// SubnetContaining returns the first subnet whose CIDR holds addr.
func (c *Catalog) SubnetContaining(addr netip.Addr) (SubnetPrefix, bool) {
	for _, subnet := range c.subnets {
		if subnet.Prefix.Contains(addr) {
			return subnet, true
		}
	}
	return SubnetPrefix{}, false
}

func (c *Catalog) indexOwners() {
	for _, entry := range c.entries[models.SourceECSs] {
		c.addOwners(entry, entry.Attrs.Strings("addresses")...)
	}
	for _, entry := range c.entries[models.SourceCCEs] {
		c.addOwners(entry, entry.Attrs.Strings("addresses")...)
	}
	for _, entry := range c.entries[models.SourceRDSs] {
		c.addOwners(entry, entry.Attrs.Strings("private_ips")...)
	}
	for _, entry := range c.entries[models.SourceDMSs] {
		c.addOwners(entry, entry.Attrs.Strings("address")...)
	}
	for _, kind := range []string{models.SourceNATGateways, models.SourceELBs} {
		for _, entry := range c.entries[kind] {
			c.addOwners(entry, entry.Attrs.Strings("address")...)
		}
	}
}

func (c *Catalog) addOwners(entry *Entry, addresses ...string) {
	for _, raw := range addresses {
		addr, err := netip.ParseAddr(strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		c.owners = append(c.owners, IPOwner{Addr: addr, ID: entry.ID, Kind: entry.Kind, Entry: entry})
	}
}

// OwnersOf returns the ids of internal resources holding addr, in index order.
func (c *Catalog) OwnersOf(addr netip.Addr) []string {
	var out []string
	seen := map[string]bool{}
	for _, owner := range c.owners {
		if owner.Addr == addr && !seen[owner.ID] {
			seen[owner.ID] = true
			out = append(out, owner.ID)
		}
	}
	return out
}

// OwnerEntries returns the distinct entities holding addr, in index order.
func (c *Catalog) OwnerEntries(addr netip.Addr) []*Entry {
	var out []*Entry
	seen := map[string]bool{}
	for _, owner := range c.owners {
		if owner.Addr == addr && !seen[owner.ID] {
			seen[owner.ID] = true
			out = append(out, owner.Entry)
		}
	}
	return out
}

// VMsInSubnet returns the virtual machines attached to subnetID.
func (c *Catalog) VMsInSubnet(subnetID string) []*Entry {
	target := c.Ref(models.SourceSubnets, subnetID)
	if target == "" {
		return nil
	}
	var out []*Entry
	for _, vm := range c.entries[models.SourceECSs] {
		for _, raw := range vm.Attrs.Strings("subnets") {
			if c.Ref(models.SourceSubnets, raw) == target {
				out = append(out, vm)
				break
			}
		}
	}
	return out
}
