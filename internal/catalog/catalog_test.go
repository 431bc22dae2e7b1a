package catalog

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talifan/adv-reverse2seaf/internal/ids"
	"github.com/talifan/adv-reverse2seaf/internal/models"
)

func fixture() *models.SourceBundle {
	src := models.NewSourceBundle()
	src.Put(models.SourceSubnets, "tenant.subnets.s1", models.MapOf("id", "s1", "cidr", "10.10.0.0/24"))
	src.Put(models.SourceSubnets, "tenant.subnets.s2", models.MapOf("id", "s2", "cidr", "10.10.10.0/24"))
	src.Put(models.SourceSubnets, "tenant.subnets.s3", models.MapOf("id", "s3", "cidr", "10.1.5.0/24"))
	src.Put(models.SourceSubnets, "tenant.subnets.bad", models.MapOf("id", "bad", "cidr", "not-a-cidr"))
	src.Put(models.SourceECSs, "flix.ecss.vm1", models.MapOf(
		"id", "E5E60A69-0653-4297-8799-EA0DF4F0CACC",
		"addresses", []any{"10.10.0.51"},
		"subnets", []any{"s1"},
	))
	src.Put(models.SourceRDSs, "tenant.rdss.db", models.MapOf("private_ips", []any{"10.10.0.40"}))
	src.Put(models.SourceNATGateways, "tenant.nat_gateways.n1", models.MapOf("address", "10.10.0.51"))
	return src
}

func TestRef(t *testing.T) {
	c := New(fixture(), ids.New())

	t.Run("bare id resolves to the entity key", func(t *testing.T) {
		assert.Equal(t, "tenant.subnets.s1", c.Ref(models.SourceSubnets, "s1"))
	})

	t.Run("foreign prefix is requalified", func(t *testing.T) {
		assert.Equal(t, "tenant.ecss.vm1", c.Ref(models.SourceECSs, "vm1"))
	})

	t.Run("unknown reference is still qualified", func(t *testing.T) {
		assert.Equal(t, "tenant.vpcs.v9", c.Ref(models.SourceVPCs, "v9"))
	})

	t.Run("blank reference", func(t *testing.T) {
		assert.Equal(t, "", c.Ref(models.SourceVPCs, "  "))
	})
}

func TestFindVM(t *testing.T) {
	c := New(fixture(), ids.New())

	entry, ok := c.FindVM("e5e60a69-0653-4297-8799-ea0df4f0cacc")
	require.True(t, ok)
	assert.Equal(t, "tenant.ecss.vm1", entry.ID)

	entry, ok = c.FindVM("urn:uuid:e5e60a69-0653-4297-8799-ea0df4f0cacc")
	require.True(t, ok)
	assert.Equal(t, "tenant.ecss.vm1", entry.ID)

	_, ok = c.FindVM("fb77c40e-b1e2-4aa5-89a9-45725b7ccf30")
	assert.False(t, ok)
}

func TestSubnetsWithin(t *testing.T) {
	c := New(fixture(), ids.New())

	assert.Equal(t, []string{"tenant.subnets.s1", "tenant.subnets.s2"}, c.SubnetsWithin("10.10.0.0/16"))
	assert.Equal(t, []string{"tenant.subnets.s3"}, c.SubnetsWithin("10.1.0.0/16"))
	assert.Equal(t, []string{}, c.SubnetsWithin("garbage"))
	assert.Len(t, c.Subnets(), 3)
}

func TestSubnetOf(t *testing.T) {
	outer := netip.MustParsePrefix("10.0.0.0/8")

	assert.True(t, SubnetOf(netip.MustParsePrefix("10.1.0.0/16"), outer))
	assert.False(t, SubnetOf(outer, netip.MustParsePrefix("10.1.0.0/16")))
	assert.False(t, SubnetOf(netip.MustParsePrefix("fd00::/64"), outer))
}

func TestOwnersOf(t *testing.T) {
	c := New(fixture(), ids.New())

	assert.Equal(t, []string{"tenant.ecss.vm1", "tenant.nat_gateways.n1"}, c.OwnersOf(netip.MustParseAddr("10.10.0.51")))
	assert.Equal(t, []string{"tenant.rdss.db"}, c.OwnersOf(netip.MustParseAddr("10.10.0.40")))
	assert.Empty(t, c.OwnersOf(netip.MustParseAddr("192.168.1.1")))

	subnet, ok := c.SubnetContaining(netip.MustParseAddr("10.10.10.7"))
	require.True(t, ok)
	assert.Equal(t, "tenant.subnets.s2", subnet.ID)
}

func TestVMsInSubnet(t *testing.T) {
	c := New(fixture(), ids.New())

	vms := c.VMsInSubnet("tenant.subnets.s1")
	require.Len(t, vms, 1)
	assert.Equal(t, "tenant.ecss.vm1", vms[0].ID)
	assert.Empty(t, c.VMsInSubnet("s2"))
}

func TestSortedUnique(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SortedUnique([]string{"b", "", "a", "b"}))
	assert.Equal(t, []string{}, SortedUnique(nil))
}
