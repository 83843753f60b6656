package oxm

import "fmt"

// OpenFlow basic field codes.
const (
	FieldInPort uint8 = iota
	FieldInPhyPort
	FieldMetadata
	FieldEthDst
	FieldEthSrc
	FieldEthType
	FieldVlanVID
	FieldVlanPCP
	FieldIPDSCP
	FieldIPECN
	FieldIPProto
	FieldIPv4Src
	FieldIPv4Dst
	FieldTCPSrc
	FieldTCPDst
	FieldUDPSrc
	FieldUDPDst
	FieldSCTPSrc
	FieldSCTPDst
	FieldICMPv4Type
	FieldICMPv4Code
	FieldARPOp
	FieldARPSPA
	FieldARPTPA
	FieldARPSHA
	FieldARPTHA
	FieldIPv6Src
	FieldIPv6Dst
	FieldIPv6FLabel
	FieldICMPv6Type
	FieldICMPv6Code
	FieldIPv6NDTarget
	FieldIPv6NDSLL
	FieldIPv6NDTLL
	FieldMPLSLabel
	FieldMPLSTC
	FieldMPLSBOS
	FieldPBBISID
	FieldTunnelID
	FieldIPv6ExtHdr
)

type basicField struct {
	name     string
	size     int
	maskable bool
}

var basicFields = map[uint8]basicField{
	FieldInPort:       {"in_port", 4, false},
	FieldInPhyPort:    {"in_phy_port", 4, false},
	FieldMetadata:     {"metadata", 8, true},
	FieldEthDst:       {"eth_dst", 6, true},
	FieldEthSrc:       {"eth_src", 6, true},
	FieldEthType:      {"eth_type", 2, false},
	FieldVlanVID:      {"vlan_vid", 2, true},
	FieldVlanPCP:      {"vlan_pcp", 1, false},
	FieldIPDSCP:       {"ip_dscp", 1, false},
	FieldIPECN:        {"ip_ecn", 1, false},
	FieldIPProto:      {"ip_proto", 1, false},
	FieldIPv4Src:      {"ipv4_src", 4, true},
	FieldIPv4Dst:      {"ipv4_dst", 4, true},
	FieldTCPSrc:       {"tcp_src", 2, false},
	FieldTCPDst:       {"tcp_dst", 2, false},
	FieldUDPSrc:       {"udp_src", 2, false},
	FieldUDPDst:       {"udp_dst", 2, false},
	FieldSCTPSrc:      {"sctp_src", 2, false},
	FieldSCTPDst:      {"sctp_dst", 2, false},
	FieldICMPv4Type:   {"icmpv4_type", 1, false},
	FieldICMPv4Code:   {"icmpv4_code", 1, false},
	FieldARPOp:        {"arp_op", 2, false},
	FieldARPSPA:       {"arp_spa", 4, true},
	FieldARPTPA:       {"arp_tpa", 4, true},
	FieldARPSHA:       {"arp_sha", 6, true},
	FieldARPTHA:       {"arp_tha", 6, true},
	FieldIPv6Src:      {"ipv6_src", 16, true},
	FieldIPv6Dst:      {"ipv6_dst", 16, true},
	FieldIPv6FLabel:   {"ipv6_flabel", 4, true},
	FieldICMPv6Type:   {"icmpv6_type", 1, false},
	FieldICMPv6Code:   {"icmpv6_code", 1, false},
	FieldIPv6NDTarget: {"ipv6_nd_target", 16, false},
	FieldIPv6NDSLL:    {"ipv6_nd_sll", 6, false},
	FieldIPv6NDTLL:    {"ipv6_nd_tll", 6, false},
	FieldMPLSLabel:    {"mpls_label", 4, false},
	FieldMPLSTC:       {"mpls_tc", 1, false},
	FieldMPLSBOS:      {"mpls_bos", 1, false},
	FieldPBBISID:      {"pbb_isid", 3, true},
	FieldTunnelID:     {"tunnel_id", 8, true},
	FieldIPv6ExtHdr:   {"ipv6_exthdr", 2, true},
}

// FieldName returns the basic field's name or a numeric fallback.
func FieldName(field uint8) string {
	if f, ok := basicFields[field]; ok {
		return f.name
	}
	return fmt.Sprintf("field_%d", field)
}

// FieldSize returns the value width of a basic field.
func FieldSize(field uint8) (int, bool) {
	f, ok := basicFields[field]
	return f.size, ok
}

// BasicFields lists every known basic field code in ascending order.
func BasicFields() []uint8 {
	out := make([]uint8, 0, len(basicFields))
	for code := FieldInPort; code <= FieldIPv6ExtHdr; code++ {
		if _, ok := basicFields[code]; ok {
			out = append(out, code)
		}
	}
	return out
}
