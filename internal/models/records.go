// Package models defines the core data structures shared by the converter.
// It includes ordered containers, source and target bundles, and the reference graph.
package models

type Region struct {
	Title      string `yaml:"title" json:"title"`
	ExternalID string `yaml:"external_id" json:"external_id"`
}

type AvailabilityZone struct {
	Title      string `yaml:"title" json:"title"`
	ExternalID string `yaml:"external_id" json:"external_id"`
	Vendor     string `yaml:"vendor" json:"vendor"`
	Region     string `yaml:"region" json:"region"`
}

func (r *AvailabilityZone) References() []Reference {
	return refs(nil, "region", r.Region)
}

type DataCenter struct {
	Title            string `yaml:"title" json:"title"`
	ExternalID       string `yaml:"external_id" json:"external_id"`
	Type             string `yaml:"type" json:"type"`
	Vendor           string `yaml:"vendor" json:"vendor"`
	Address          string `yaml:"address" json:"address"`
	AvailabilityZone string `yaml:"availabilityzone" json:"availabilityzone"`
}

func (r *DataCenter) References() []Reference {
	return refs(nil, "availabilityzone", r.AvailabilityZone)
}

// PredefinedSegment is one of the fixed network zones attached to a DC.
type PredefinedSegment struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	ExternalID  string `yaml:"external_id" json:"external_id"`
	Location    string `yaml:"location" json:"location"`
	Type        string `yaml:"type" json:"type"`
	Zone        string `yaml:"zone" json:"zone"`
}

func (r *PredefinedSegment) References() []Reference {
	return refs(nil, "location", r.Location)
}

type SegmentPlacement struct {
	Location *string `yaml:"location" json:"location"`
	Zone     string  `yaml:"zone" json:"zone"`
}

// VPCSegment is the network segment emitted for a VPC.
type VPCSegment struct {
	Title       string           `yaml:"title" json:"title"`
	Description string           `yaml:"description" json:"description"`
	ExternalID  string           `yaml:"external_id" json:"external_id"`
	Sber        SegmentPlacement `yaml:"sber" json:"sber"`
}

func (r *VPCSegment) References() []Reference {
	return refPtr(nil, "sber.location", r.Sber.Location)
}

type VirtualizationCluster struct {
	Title             string   `yaml:"title" json:"title"`
	ExternalID        string   `yaml:"external_id" json:"external_id"`
	Hypervisor        string   `yaml:"hypervisor" json:"hypervisor"`
	AvailabilityZone  []string `yaml:"availabilityzone" json:"availabilityzone"`
	Location          []string `yaml:"location" json:"location"`
	NetworkConnection []string `yaml:"network_connection" json:"network_connection"`
}

func (r *VirtualizationCluster) References() []Reference {
	out := refs(nil, "availabilityzone", r.AvailabilityZone...)
	out = refs(out, "location", r.Location...)
	return refs(out, "network_connection", r.NetworkConnection...)
}

// NetworkDevice covers routers, NAT gateways, load balancers and VPN gateways.
type NetworkDevice struct {
	Title             string   `yaml:"title" json:"title"`
	Description       string   `yaml:"description" json:"description"`
	ExternalID        any      `yaml:"external_id" json:"external_id"`
	Model             string   `yaml:"model" json:"model"`
	RealizationType   string   `yaml:"realization_type" json:"realization_type"`
	Type              string   `yaml:"type" json:"type"`
	NetworkConnection []string `yaml:"network_connection" json:"network_connection"`
	Segment           *string  `yaml:"segment" json:"segment"`
	Location          []string `yaml:"location" json:"location"`
	Address           any      `yaml:"address,omitempty" json:"address,omitempty"`
}

func (r *NetworkDevice) References() []Reference {
	out := refs(nil, "network_connection", r.NetworkConnection...)
	out = refPtr(out, "segment", r.Segment)
	return refs(out, "location", r.Location...)
}

// Network is a LAN or WAN subnet.
type Network struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	ExternalID  any      `yaml:"external_id" json:"external_id"`
	Type        string   `yaml:"type" json:"type"`
	IPNetwork   any      `yaml:"ipnetwork" json:"ipnetwork"`
	Segment     []string `yaml:"segment" json:"segment"`
	LanType     string   `yaml:"lan_type,omitempty" json:"lan_type,omitempty"`
	Provider    string   `yaml:"provider,omitempty" json:"provider,omitempty"`
}

func (r *Network) References() []Reference {
	return refs(nil, "segment", r.Segment...)
}

// PublicAddress is the WAN network emitted for an elastic IP.
type PublicAddress struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	ExternalID  any      `yaml:"external_id" json:"external_id"`
	Type        string   `yaml:"type" json:"type"`
	WanIP       any      `yaml:"wan_ip" json:"wan_ip"`
	Segment     []string `yaml:"segment" json:"segment"`
	Location    []string `yaml:"location" json:"location"`
	Provider    string   `yaml:"provider" json:"provider"`
}

func (r *PublicAddress) References() []Reference {
	out := refs(nil, "segment", r.Segment...)
	return refs(out, "location", r.Location...)
}

type OS struct {
	Type any `yaml:"type" json:"type"`
	Bit  any `yaml:"bit" json:"bit"`
}

type CPU struct {
	Cores     any `yaml:"cores" json:"cores"`
	Frequency int `yaml:"frequency" json:"frequency"`
}

type Disk struct {
	AZ     *string `yaml:"az" json:"az"`
	Size   int     `yaml:"size" json:"size"`
	Type   any     `yaml:"type" json:"type"`
	Device any     `yaml:"device" json:"device"`
}

type Server struct {
	Title          string   `yaml:"title" json:"title"`
	Description    string   `yaml:"description" json:"description"`
	ExternalID     any      `yaml:"external_id" json:"external_id"`
	Type           string   `yaml:"type" json:"type"`
	FQDN           any      `yaml:"fqdn" json:"fqdn"`
	OS             OS       `yaml:"os" json:"os"`
	CPU            CPU      `yaml:"cpu" json:"cpu"`
	RAM            int      `yaml:"ram" json:"ram"`
	NICQty         any      `yaml:"nic_qty" json:"nic_qty"`
	Disks          []Disk   `yaml:"disks" json:"disks"`
	AZ             []string `yaml:"az" json:"az"`
	Location       []string `yaml:"location" json:"location"`
	Subnets        []string `yaml:"subnets" json:"subnets"`
	Virtualization string   `yaml:"virtualization" json:"virtualization"`
}

func (r *Server) References() []Reference {
	var out []Reference
	for _, disk := range r.Disks {
		out = refPtr(out, "disks.az", disk.AZ)
	}
	out = refs(out, "az", r.AZ...)
	out = refs(out, "location", r.Location...)
	out = refs(out, "subnets", r.Subnets...)
	return refs(out, "virtualization", r.Virtualization)
}

type K8sCluster struct {
	Title              string   `yaml:"title" json:"title"`
	Description        string   `yaml:"description" json:"description"`
	ExternalID         any      `yaml:"external_id" json:"external_id"`
	FQDN               any      `yaml:"fqdn" json:"fqdn"`
	Software           *string  `yaml:"software" json:"software"`
	AvailabilityZone   []string `yaml:"availabilityzone" json:"availabilityzone"`
	Location           []string `yaml:"location" json:"location"`
	ServiceMesh        *string  `yaml:"service_mesh" json:"service_mesh"`
	NetworkConnection  []string `yaml:"network_connection" json:"network_connection"`
	ManagementNetworks []string `yaml:"management_networks" json:"management_networks"`
	Auth               *string  `yaml:"auth" json:"auth"`
	IsOwn              any      `yaml:"is_own" json:"is_own"`
	CNI                any      `yaml:"cni" json:"cni"`
	ClusterAutoscaler  any      `yaml:"cluster_autoscaler" json:"cluster_autoscaler"`
	Keys               any      `yaml:"keys" json:"keys"`
	IDM                any      `yaml:"idm" json:"idm"`
	Policy             any      `yaml:"policy" json:"policy"`
	PAM                any      `yaml:"pam" json:"pam"`
	CA                 any      `yaml:"ca" json:"ca"`
	Audit              any      `yaml:"audit" json:"audit"`
	AuditPolicy        any      `yaml:"audit_policy" json:"audit_policy"`
	Monitoring         []string `yaml:"monitoring" json:"monitoring"`
	Backup             []string `yaml:"backup" json:"backup"`
	Registries         []string `yaml:"registries" json:"registries"`
}

func (r *K8sCluster) References() []Reference {
	out := refs(nil, "availabilityzone", r.AvailabilityZone...)
	out = refs(out, "location", r.Location...)
	out = refs(out, "network_connection", r.NetworkConnection...)
	return refPtr(out, "auth", r.Auth)
}

// ServiceCluster is a managed database or messaging cluster.
type ServiceCluster struct {
	Title             string   `yaml:"title" json:"title"`
	Description       string   `yaml:"description" json:"description"`
	ExternalID        any      `yaml:"external_id" json:"external_id"`
	FQDN              any      `yaml:"fqdn" json:"fqdn"`
	ReservationType   any      `yaml:"reservation_type" json:"reservation_type"`
	ServiceType       string   `yaml:"service_type" json:"service_type"`
	AvailabilityZone  []string `yaml:"availabilityzone" json:"availabilityzone"`
	Location          []string `yaml:"location" json:"location"`
	NetworkConnection []string `yaml:"network_connection" json:"network_connection"`
	Segment           *string  `yaml:"segment" json:"segment"`
}

func (r *ServiceCluster) References() []Reference {
	out := refs(nil, "availabilityzone", r.AvailabilityZone...)
	out = refs(out, "location", r.Location...)
	out = refs(out, "network_connection", r.NetworkConnection...)
	return refPtr(out, "segment", r.Segment)
}

type Storage struct {
	Title             string   `yaml:"title" json:"title"`
	Description       string   `yaml:"description" json:"description"`
	ExternalID        any      `yaml:"external_id" json:"external_id"`
	Type              string   `yaml:"type" json:"type"`
	Software          string   `yaml:"software" json:"software"`
	AvailabilityZone  []string `yaml:"availabilityzone" json:"availabilityzone"`
	Location          []string `yaml:"location" json:"location"`
	NetworkConnection []string `yaml:"network_connection" json:"network_connection"`
	SLA               any      `yaml:"sla" json:"sla"`
}

func (r *Storage) References() []Reference {
	out := refs(nil, "availabilityzone", r.AvailabilityZone...)
	out = refs(out, "location", r.Location...)
	return refs(out, "network_connection", r.NetworkConnection...)
}

type Backup struct {
	Title             string   `yaml:"title" json:"title"`
	Description       string   `yaml:"description" json:"description"`
	ExternalID        any      `yaml:"external_id" json:"external_id"`
	Path              string   `yaml:"path" json:"path"`
	Replication       any      `yaml:"replication" json:"replication"`
	NetworkConnection []string `yaml:"network_connection" json:"network_connection"`
	AvailabilityZone  []string `yaml:"availabilityzone" json:"availabilityzone"`
	Location          []string `yaml:"location" json:"location"`
	Storage           string   `yaml:"storage" json:"storage"`
}

func (r *Backup) References() []Reference {
	out := refs(nil, "network_connection", r.NetworkConnection...)
	out = refs(out, "availabilityzone", r.AvailabilityZone...)
	out = refs(out, "location", r.Location...)
	return refs(out, "storage", r.Storage)
}

// SecurityControl is a knowledge-base entry describing a firewall.
type SecurityControl struct {
	Title             string   `yaml:"title" json:"title"`
	Description       string   `yaml:"description" json:"description"`
	ExternalID        any      `yaml:"external_id" json:"external_id"`
	Technology        string   `yaml:"technology" json:"technology"`
	SoftwareName      string   `yaml:"software_name" json:"software_name"`
	Tag               string   `yaml:"tag" json:"tag"`
	Status            string   `yaml:"status" json:"status"`
	NetworkConnection []string `yaml:"network_connection" json:"network_connection"`
}

func (r *SecurityControl) References() []Reference {
	return refs(nil, "network_connection", r.NetworkConnection...)
}

// IdentityProvider is a knowledge-base entry describing cluster authentication.
type IdentityProvider struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	ExternalID  string `yaml:"external_id" json:"external_id"`
	Technology  string `yaml:"technology" json:"technology"`
	Tag         string `yaml:"tag" json:"tag"`
}

type Office struct {
	Title       string  `yaml:"title" json:"title"`
	Description string  `yaml:"description" json:"description"`
	ExternalID  any     `yaml:"external_id" json:"external_id"`
	Address     any     `yaml:"address" json:"address"`
	Region      *string `yaml:"region" json:"region"`
}

type LogicalLink struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	ExternalID  any      `yaml:"external_id" json:"external_id"`
	Source      string   `yaml:"source" json:"source"`
	Target      []string `yaml:"target" json:"target"`
	Direction   string   `yaml:"direction" json:"direction"`
}

func (r *LogicalLink) References() []Reference {
	out := refs(nil, "source", r.Source)
	return refs(out, "target", r.Target...)
}

type NetworkLink struct {
	Title             string   `yaml:"title" json:"title"`
	Description       string   `yaml:"description" json:"description"`
	ExternalID        any      `yaml:"external_id" json:"external_id"`
	Technology        string   `yaml:"technology" json:"technology"`
	NetworkConnection []string `yaml:"network_connection" json:"network_connection"`
}

func (r *NetworkLink) References() []Reference {
	return refs(nil, "network_connection", r.NetworkConnection...)
}

func (r *Office) References() []Reference {
	return refPtr(nil, "region", r.Region)
}
