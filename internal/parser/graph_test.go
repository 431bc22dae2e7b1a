package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talifan/adv-reverse2seaf/internal/models"
)

func strPtr(s string) *string { return &s }

func sampleBundle() *models.TargetBundle {
	b := models.NewTargetBundle()
	b.Put(models.TargetDCAZ, "tenant.dc_az.ru-moscow-1a", &models.AvailabilityZone{
		Title: "ru-moscow-1a", ExternalID: "ru-moscow-1a", Region: "tenant.dc_region.russia",
	})
	b.Put(models.TargetDC, "tenant.dc.ru-moscow-1a", &models.DataCenter{
		Title: "ru-moscow-1a", ExternalID: "ru-moscow-1a", AvailabilityZone: "tenant.dc_az.ru-moscow-1a",
	})
	b.Put(models.TargetNetworkDevice, "tenant.vpcs.v1.router", &models.NetworkDevice{
		Title:             "Маршрутизатор main",
		ExternalID:        "v1.router",
		Type:              "Маршрутизатор",
		NetworkConnection: []string{"tenant.subnets.s1", "tenant.subnets.s1"},
		Segment:           strPtr("tenant.segment.ru-moscow-1a.INT-NET"),
		Location:          []string{"tenant.dc.ru-moscow-1a"},
	})
	b.Put(models.TargetNetwork, "tenant.subnets.s1", &models.Network{Title: "apps", ExternalID: nil})
	return b
}

func TestBuildGraph(t *testing.T) {
	t.Run("empty bundle returns empty graph", func(t *testing.T) {
		graph := BuildGraph(models.NewTargetBundle(), "tenant")

		assert.NotNil(t, graph)
		assert.Empty(t, graph.Nodes)
		assert.Empty(t, graph.Edges)
		require.NotNil(t, graph.Stats)
		assert.Zero(t, graph.Stats.TotalNodes)
	})

	t.Run("one node per entity in bundle order", func(t *testing.T) {
		graph := BuildGraph(sampleBundle(), "tenant")

		require.Len(t, graph.Nodes, 4)
		assert.Equal(t, "tenant.dc_az.ru-moscow-1a", graph.Nodes[0].ID)
		assert.Equal(t, models.TargetDCAZ, graph.Nodes[0].Kind)
		assert.Equal(t, "Маршрутизатор main", graph.Nodes[2].Title)
		assert.Equal(t, map[string]any{
			"short_kind":  "network",
			"external_id": "v1.router",
			"type":        "Маршрутизатор",
		}, graph.Nodes[2].Metadata)
		assert.Equal(t, map[string]any{"short_kind": "network"}, graph.Nodes[3].Metadata)
	})

	t.Run("reference slots become edges", func(t *testing.T) {
		graph := BuildGraph(sampleBundle(), "tenant")

		assert.Contains(t, graph.Edges, models.Edge{
			Source: "tenant.dc.ru-moscow-1a",
			Target: "tenant.dc_az.ru-moscow-1a",
			Type:   "availabilityzone",
		})
		assert.Contains(t, graph.Edges, models.Edge{
			Source: "tenant.vpcs.v1.router",
			Target: "tenant.subnets.s1",
			Type:   "network_connection",
		})
	})

	t.Run("duplicate references are collapsed", func(t *testing.T) {
		graph := BuildGraph(sampleBundle(), "tenant")

		assert.Equal(t, 1, graph.Stats.EdgesBySlot["network_connection"])
	})

	t.Run("unknown targets are dangling", func(t *testing.T) {
		graph := BuildGraph(sampleBundle(), "tenant")

		assert.Contains(t, graph.Edges, models.Edge{
			Source:   "tenant.vpcs.v1.router",
			Target:   "tenant.segment.ru-moscow-1a.INT-NET",
			Type:     "segment",
			Dangling: true,
		})
		assert.Equal(t, 2, graph.Stats.DanglingEdges)
		assert.Equal(t, 5, graph.Stats.TotalEdges)
		assert.Equal(t, 4, graph.Stats.TotalNodes)
		assert.Equal(t, 1, graph.Stats.EntitiesByKind["dc"])
	})

	t.Run("values without the prefix are not references", func(t *testing.T) {
		graph := BuildGraph(sampleBundle(), "other")

		assert.Len(t, graph.Nodes, 4)
		assert.Empty(t, graph.Edges)
	})
}

func TestField(t *testing.T) {
	t.Run("reads through pointers", func(t *testing.T) {
		assert.Equal(t, "x", field(&models.Region{Title: "x"}, "Title"))
		assert.Equal(t, "dc", field(&models.Office{Region: strPtr("dc")}, "Region"))
	})

	t.Run("missing values yield nil", func(t *testing.T) {
		assert.Nil(t, field(&models.Office{}, "Region"))
		assert.Nil(t, field(&models.Region{}, "Nope"))
		assert.Nil(t, field("plain", "Title"))
		assert.Nil(t, field((*models.Region)(nil), "Title"))
	})
}
