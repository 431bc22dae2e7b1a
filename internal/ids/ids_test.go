package ids

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/talifan/adv-reverse2seaf/internal/models"
)

func bundleWithKeys(keys ...string) *models.SourceBundle {
	b := models.NewSourceBundle()
	for _, key := range keys {
		b.Put(models.SourceVPCs, key, models.NewMap())
	}
	return b
}

func TestBuild(t *testing.T) {
	s := New()

	t.Run("joins prefix kind and parts", func(t *testing.T) {
		assert.Equal(t, "tenant.segment.ru-moscow-1a.INT-NET", s.Segment("ru-moscow-1a", "INT-NET"))
	})

	t.Run("drops blank parts and trims", func(t *testing.T) {
		assert.Equal(t, "tenant.dc.a1", s.Build(KindDC, "", "  a1 ", "   "))
		assert.Equal(t, "tenant.dc", s.Build(KindDC))
	})

	t.Run("kb lowercases", func(t *testing.T) {
		assert.Equal(t, "tenant.kb.idp.rbac", s.KB("IdP", "RBAC"))
	})

	t.Run("router suffix", func(t *testing.T) {
		assert.Equal(t, "tenant.vpcs.v1.router", s.Router(s.VPC("v1")))
	})

	t.Run("child ids skip blank parts", func(t *testing.T) {
		assert.Equal(t, "tenant.eips.e1.link", s.Child(s.Build(KindEIPs, "e1"), "link"))
		assert.Equal(t, "tenant.vaults.v1.r1", s.Child("tenant.vaults.v1", " r1 ", ""))
		assert.Equal(t, "tenant.vaults.v1", s.Child("tenant.vaults.v1", "  "))
	})
}

func TestSetPrefix(t *testing.T) {
	s := New()
	s.SetPrefix("   ")
	assert.Equal(t, DefaultPrefix, s.Prefix())

	s.SetPrefix(" acme ")
	assert.Equal(t, "acme", s.Prefix())
}

func TestEnsurePrefix(t *testing.T) {
	t.Run("override wins", func(t *testing.T) {
		s := New()
		assert.Equal(t, "flix", s.EnsurePrefix("flix", bundleWithKeys("acme.vpcs.v1")))
	})

	t.Run("infers from first non-reserved key", func(t *testing.T) {
		s := New()
		src := bundleWithKeys("plain", "seaf.x.y", "Metadata.z", "acme.vpcs.v1", "other.vpcs.v2")
		assert.Equal(t, "acme", s.EnsurePrefix("", src))
	})

	t.Run("keeps explicit prefix", func(t *testing.T) {
		s := New()
		s.SetPrefix("fixed")
		assert.Equal(t, "fixed", s.EnsurePrefix("", bundleWithKeys("acme.vpcs.v1")))
	})

	t.Run("nothing to infer", func(t *testing.T) {
		s := New()
		assert.Equal(t, DefaultPrefix, s.EnsurePrefix("", bundleWithKeys("plain")))
		assert.Equal(t, DefaultPrefix, s.EnsurePrefix("", nil))
	})
}

func TestCanonical(t *testing.T) {
	s := New()

	tests := []struct {
		name string
		kind string
		key  string
		want string
	}{
		{"already qualified", KindVPCs, "tenant.vpcs.v1", "tenant.vpcs.v1"},
		{"foreign prefix", KindVPCs, "flix.vpcs.v1", "tenant.vpcs.v1"},
		{"bare key", KindVPCs, "v1", "tenant.vpcs.v1"},
		{"dotted bare key", KindBranches, "b.k", "tenant.branches.b.k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Canonical(tt.kind, tt.key))
		})
	}
}

func TestVariants(t *testing.T) {
	assert.Equal(t, []string{"tenant.subnets.s1", "s1"}, Variants(" tenant.subnets.s1 "))
	assert.Equal(t, []string{"s1"}, Variants("s1"))
	assert.Nil(t, Variants("  "))
	assert.Equal(t, "s1", NameFromRef("tenant.subnets.s1"))
}
