package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talifan/adv-reverse2seaf/internal/models"
)

func TestECSs(t *testing.T) {
	src := networkFixture()
	src.Put(models.SourceECSs, "tenant.ecss.vm1", models.MapOf(
		"id", "vm1", "name", "app", "az", "ru-moscow-1a", "flavor", "s6.large",
		"cpu", models.MapOf("cores", 4, "frequency", "2.6GHz", "arch", "x86"),
		"ram", 8192,
		"os", models.MapOf("type", "Linux", "bit", 64),
		"nic_qty", 1,
		"disks", []any{models.MapOf("d1", models.MapOf("az", "ru-moscow-1a", "size", "40GB", "type", "SSD", "device", "/dev/vda"))},
		"subnets", []any{"s1"},
		"tags", []any{models.MapOf("key", "env", "value", "prod")},
	))
	src.Put(models.SourceECSs, "tenant.ecss.vm2", models.MapOf(
		"ram", "lots",
		"cpu", models.MapOf("frequency", "fast"),
		"disks", []any{models.MapOf("size", 20, "az", "x")},
	))
	env := newTestEnv(src)
	out := ECSs(src, env)

	t.Run("complete server", func(t *testing.T) {
		server := record[*models.Server](t, out, models.TargetServer, "tenant.ecss.vm1")
		assert.Equal(t, &models.Server{
			Title:       "app",
			Description: "Flavor: s6.large\nCPU Architecture: x86\nTags: env:prod",
			ExternalID:  "vm1",
			Type:        "Виртуальный",
			FQDN:        "app",
			OS:          models.OS{Type: "Linux", Bit: 64},
			CPU:         models.CPU{Cores: 4, Frequency: 2},
			RAM:         8,
			NICQty:      1,
			Disks: []models.Disk{
				{AZ: strPtr("tenant.dc_az.ru-moscow-1a"), Size: 40, Type: "SSD", Device: "/dev/vda"},
			},
			AZ:             []string{"tenant.dc_az.ru-moscow-1a"},
			Location:       []string{"tenant.dc.ru-moscow-1a"},
			Subnets:        []string{"tenant.subnets.s1"},
			Virtualization: "tenant.cluster_virtualization.cloud_ru_virtualization_cluster",
		}, server)
	})

	t.Run("incomplete server", func(t *testing.T) {
		server := record[*models.Server](t, out, models.TargetServer, "tenant.ecss.vm2")
		assert.Empty(t, server.Title)
		assert.Equal(t, 0, server.RAM)
		assert.Equal(t, 0, server.CPU.Frequency)
		assert.Equal(t, []models.Disk{{Size: 20}}, server.Disks)
		assert.Equal(t, []string{}, server.AZ)
		assert.Equal(t, []string{}, server.Subnets)

		assert.Equal(t, []string{
			"WARNING: Entity 'tenant.ecss.vm2' - Field 'name': Missing 'name'. Title will be empty.",
			"WARNING: Entity 'tenant.ecss.vm2' - Field 'az': Missing 'az'. Availability zone and location will be empty.",
			"WARNING: Entity 'tenant.ecss.vm2' - Field 'cpu.frequency': Invalid value 'fast' for 'cpu.frequency'. Using 0.",
			"WARNING: Entity 'tenant.ecss.vm2' - Field 'ram': Invalid value 'lots' for 'ram'. Using 0.",
		}, env.Warnings.Snapshot())
	})

	t.Run("non-string az is warned", func(t *testing.T) {
		src := models.NewSourceBundle()
		src.Put(models.SourceECSs, "tenant.ecss.list", models.MapOf("name", "l", "az", []any{"ru-moscow-1a"}))
		src.Put(models.SourceECSs, "tenant.ecss.num", models.MapOf("name", "n", "az", 7))
		env := newTestEnv(src)
		out := ECSs(src, env)

		assert.Equal(t, []string{}, record[*models.Server](t, out, models.TargetServer, "tenant.ecss.list").AZ)
		assert.Equal(t, []string{}, record[*models.Server](t, out, models.TargetServer, "tenant.ecss.num").Location)
		assert.Equal(t, []string{
			"WARNING: Entity 'tenant.ecss.list' - Field 'az': Invalid type 'sequence' for 'az'. Expected string.",
			"WARNING: Entity 'tenant.ecss.num' - Field 'az': Invalid type 'int' for 'az'. Expected string.",
		}, env.Warnings.Snapshot())
	})
}

func TestCCEs(t *testing.T) {
	src := models.NewSourceBundle()
	src.Put(models.SourceCCEs, "tenant.cces.k1", models.MapOf(
		"id", "k1", "name", "k8s", "flavor", "cce.s1.small",
		"masters_az", []any{"ru-moscow-1a", "x"},
		"subnet_id", "s1",
		"version", "v1.25",
		"supportistio", true,
		"authentication", "x509",
		"service_network", "10.247.0.0/16",
		"endpoints", []any{
			models.MapOf("url", "https://10.0.0.5:5443", "type", "Internal"),
			models.MapOf("url", "https://1.2.3.4:5443", "type", "External"),
		},
	))
	src.Put(models.SourceCCEs, "tenant.cces.k2", models.MapOf("id", "k2", "masters_az", 5))
	src.Put(models.SourceCCEs, "tenant.cces.k3", models.MapOf("id", "k3", "subnet_id", "s1"))
	env := newTestEnv(src)
	out := CCEs(src, env)

	t.Run("cluster", func(t *testing.T) {
		cluster := record[*models.K8sCluster](t, out, models.TargetK8s, "tenant.cces.k1")
		assert.Equal(t, "k8s", cluster.Title)
		assert.Equal(t, "Flavor: cce.s1.small", cluster.Description)
		assert.Equal(t, "https://10.0.0.5:5443", cluster.FQDN)
		require.NotNil(t, cluster.Software)
		assert.Equal(t, "CCE v1.25", *cluster.Software)
		require.NotNil(t, cluster.ServiceMesh)
		assert.Equal(t, "istio", *cluster.ServiceMesh)
		assert.Equal(t, []string{"tenant.dc_az.ru-moscow-1a"}, cluster.AvailabilityZone)
		assert.Equal(t, []string{"tenant.dc.ru-moscow-1a"}, cluster.Location)
		assert.Equal(t, []string{"tenant.subnets.s1"}, cluster.NetworkConnection)
		assert.Equal(t, []string{"cidr.10_247_0_0_16"}, cluster.ManagementNetworks)
		require.NotNil(t, cluster.Auth)
		assert.Equal(t, "tenant.kb.idp.x509", *cluster.Auth)
		assert.Nil(t, cluster.IsOwn)
		assert.Equal(t, []string{}, cluster.Registries)
	})

	t.Run("identity provider closes the auth reference", func(t *testing.T) {
		idp := record[*models.IdentityProvider](t, out, models.TargetKB, "tenant.kb.idp.x509")
		assert.Equal(t, "IdP", idp.Tag)
		assert.Equal(t, "x509", idp.Technology)
	})

	t.Run("authentication case does not split the identity provider", func(t *testing.T) {
		src := models.NewSourceBundle()
		src.Put(models.SourceCCEs, "tenant.cces.a", models.MapOf("id", "a", "masters_az", "ru-moscow-1a", "authentication", "RBAC"))
		src.Put(models.SourceCCEs, "tenant.cces.b", models.MapOf("id", "b", "masters_az", "ru-moscow-1a", "authentication", " rbac "))
		out := CCEs(src, newTestEnv(src))

		assert.Empty(t, out.Collisions())
		assert.Equal(t, 1, out.Count(models.TargetKB))
		idp := record[*models.IdentityProvider](t, out, models.TargetKB, "tenant.kb.idp.rbac")
		assert.Equal(t, &models.IdentityProvider{
			Title:       "rbac",
			Description: "Authentication: rbac",
			ExternalID:  "rbac",
			Technology:  "rbac",
			Tag:         "IdP",
		}, idp)
		for _, key := range []string{"tenant.cces.a", "tenant.cces.b"} {
			cluster := record[*models.K8sCluster](t, out, models.TargetK8s, key)
			require.NotNil(t, cluster.Auth)
			assert.Equal(t, "tenant.kb.idp.rbac", *cluster.Auth)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		cluster := record[*models.K8sCluster](t, out, models.TargetK8s, "tenant.cces.k2")
		assert.Nil(t, cluster.Software)
		assert.Nil(t, cluster.ServiceMesh)
		assert.Nil(t, cluster.Auth)
		assert.Nil(t, cluster.FQDN)
		assert.Equal(t, []string{}, cluster.Location)
		assert.Equal(t, []string{}, cluster.ManagementNetworks)
	})

	t.Run("warnings", func(t *testing.T) {
		assert.Equal(t, []string{
			"WARNING: Entity 'tenant.cces.k1.masters_az' - Field 'value': Invalid AZ value 'x'. Skipping.",
			"WARNING: Entity 'tenant.cces.k2' - Field 'masters_az': Invalid type 'int' for 'masters_az'. Expected string or list.",
			"WARNING: Entity 'tenant.cces.k2' - Field 'subnet_id': Missing or empty 'subnet_id'. network_connection will be empty.",
			"WARNING: Entity 'tenant.cces.k3' - Field 'masters_az': Missing 'masters_az'. Location will be empty.",
		}, env.Warnings.Snapshot())
	})
}

func TestRDSs(t *testing.T) {
	t.Run("empty nodes", func(t *testing.T) {
		src := models.NewSourceBundle()
		src.Put(models.SourceRDSs, "tenant.rdss.db1", models.MapOf(
			"id", "db1", "name", "db", "nodes", []any{}, "subnet_id", "", "vpc_id", "v1",
		))
		env := newTestEnv(src)
		out := RDSs(src, env)

		assert.Equal(t, &models.ServiceCluster{
			Title:             "db",
			ExternalID:        "db1",
			ServiceType:       "СУБД",
			AvailabilityZone:  []string{},
			Location:          []string{},
			NetworkConnection: []string{},
		}, record[*models.ServiceCluster](t, out, models.TargetCluster, "tenant.rdss.db1"))
		assert.Equal(t, []string{
			"WARNING: Entity 'tenant.rdss.db1' - Field 'nodes': Missing or empty 'nodes'. Availability zone and location will be empty.",
			"WARNING: Entity 'tenant.rdss.db1' - Field 'subnet_id': Missing or empty 'subnet_id'. network_connection will be empty.",
		}, env.Warnings.Snapshot())
	})

	t.Run("placed by nodes", func(t *testing.T) {
		src := models.NewSourceBundle()
		src.Put(models.SourceSubnets, "tenant.subnets.s1", models.MapOf("id", "s1"))
		src.Put(models.SourceRDSs, "tenant.rdss.db2", models.MapOf(
			"id", "db2", "name", "pg", "type", "Ha", "status", "ACTIVE",
			"datastore", models.MapOf("type", "PostgreSQL", "version", "14"),
			"volume", models.MapOf("type", "ULTRAHIGH", "size", 100),
			"nodes", []any{
				models.MapOf("id", "n1", "name", "pg-1", "role", "master", "status", "ACTIVE", "availability_zone", "ru-moscow-1b"),
				models.MapOf("id", "n2", "name", "pg-2", "role", "slave", "status", "ACTIVE", "availability_zone", "ru-moscow-1a"),
			},
			"backup_strategy", models.MapOf("start_time", "01:00-02:00", "keep_days", 7),
			"private_ips", []any{"10.0.0.7"},
			"subnet_id", "s1", "vpc_id", "v1",
		))
		env := newTestEnv(src)
		cluster := record[*models.ServiceCluster](t, RDSs(src, env), models.TargetCluster, "tenant.rdss.db2")

		assert.Equal(t, "10.0.0.7", cluster.FQDN)
		assert.Equal(t, "Ha", cluster.ReservationType)
		assert.Equal(t, []string{"tenant.dc_az.ru-moscow-1a", "tenant.dc_az.ru-moscow-1b"}, cluster.AvailabilityZone)
		assert.Equal(t, []string{"tenant.dc.ru-moscow-1a", "tenant.dc.ru-moscow-1b"}, cluster.Location)
		assert.Equal(t, []string{"tenant.subnets.s1"}, cluster.NetworkConnection)
		require.NotNil(t, cluster.Segment)
		assert.Equal(t, "tenant.segment.ru-moscow-1a.INT-NET", *cluster.Segment)
		assert.Equal(t, "Status: ACTIVE\n"+
			"Datastore Type: PostgreSQL\nDatastore Version: 14\n"+
			"Volume Type: ULTRAHIGH\nVolume Size (GB): 100\n"+
			"Nodes: Node ID: n1, Name: pg-1, Role: master, Status: ACTIVE, AZ: ru-moscow-1b; "+
			"Node ID: n2, Name: pg-2, Role: slave, Status: ACTIVE, AZ: ru-moscow-1a\n"+
			"Backup Start Time: 01:00-02:00\nBackup Keep Days: 7", cluster.Description)
		assert.Empty(t, env.Warnings.Snapshot())
	})
}

func TestDMSs(t *testing.T) {
	src := models.NewSourceBundle()
	src.Put(models.SourceDMSs, "tenant.dmss.invalid", models.MapOf(
		"id", "invalid", "name", "invalid-dms", "available_az", []any{"ru", 123}, "subnet_id", "",
	))
	src.Put(models.SourceDMSs, "tenant.dmss.kafka", models.MapOf(
		"id", "kafka", "name", "kafka", "engine", "kafka", "port", 9092, "disk_encrypted", false,
		"available_az", []any{"ru-moscow-1a"}, "address", "10.0.0.9", "type", "cluster",
		"subnet_id", "s1", "vpc_id", "v1",
	))
	env := newTestEnv(src)
	out := DMSs(src, env)

	assert.Equal(t, &models.ServiceCluster{
		Title:             "invalid-dms",
		ExternalID:        "invalid",
		ServiceType:       "Интеграционная шина  (MQ, ETL, API)",
		AvailabilityZone:  []string{},
		Location:          []string{},
		NetworkConnection: []string{},
	}, record[*models.ServiceCluster](t, out, models.TargetCluster, "tenant.dmss.invalid"))

	kafka := record[*models.ServiceCluster](t, out, models.TargetCluster, "tenant.dmss.kafka")
	assert.Equal(t, "Engine: kafka\nPort: 9092\nDisk Encrypted: False", kafka.Description)
	assert.Equal(t, "10.0.0.9", kafka.FQDN)
	assert.Equal(t, []string{"tenant.dc.ru-moscow-1a"}, kafka.Location)
	assert.Equal(t, strPtr("tenant.segment.ru-moscow-1a.INT-NET"), kafka.Segment)

	assert.Equal(t, []string{
		"WARNING: Entity 'tenant.dmss.invalid.available_az' - Field 'value': Invalid AZ value 'ru'. Skipping.",
		"WARNING: Entity 'tenant.dmss.invalid.available_az' - Field 'value': Invalid AZ value '123'. Skipping.",
		"WARNING: Entity 'tenant.dmss.invalid' - Field 'available_az': No valid AZ values found. Location will be empty.",
		"WARNING: Entity 'tenant.dmss.invalid' - Field 'subnet_id': Missing or empty 'subnet_id'. network_connection will be empty.",
		"WARNING: Entity 'tenant.dmss.invalid' - Field 'vpc_id': Missing 'vpc_id'. Ensure upstream segment references are available.",
	}, env.Warnings.Snapshot())
}
