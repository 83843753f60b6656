package codec

import (
	"testing"

	"github.com/danmuck/ofwire/internal/protocol"
	"github.com/danmuck/ofwire/internal/protocol/action"
	"github.com/danmuck/ofwire/internal/protocol/buffer"
	"github.com/danmuck/ofwire/internal/protocol/expkey"
	"github.com/danmuck/ofwire/internal/protocol/ext/cisco"
	"github.com/danmuck/ofwire/internal/protocol/ext/nicira"
	"github.com/danmuck/ofwire/internal/protocol/frame"
	"github.com/danmuck/ofwire/internal/protocol/instruction"
	"github.com/danmuck/ofwire/internal/protocol/message"
	"github.com/danmuck/ofwire/internal/protocol/meter"
	"github.com/danmuck/ofwire/internal/protocol/multipart"
	"github.com/danmuck/ofwire/internal/protocol/queue"
	"github.com/danmuck/ofwire/internal/protocol/registry"
	"github.com/danmuck/ofwire/internal/protocol/tablefeature"
	"github.com/danmuck/ofwire/internal/testutil/testlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistryDefaultsToAllVendors(t *testing.T) {
	testlog.Start(t)
	reg, err := NewRegistry()
	require.NoError(t, err)
	for _, v := range protocol.Versions {
		_, err := reg.Lookup(expkey.Action(v, nicira.Experimenter))
		require.NoError(t, err, "nicira dispatcher for OF%s", v)
	}
	assert.Equal(t, []string{"cisco", "nicira"}, VendorNames())
}

func TestNewRegistryVendorSelection(t *testing.T) {
	reg, err := NewRegistry(WithVendors())
	require.NoError(t, err)
	_, err = reg.Lookup(expkey.Action(protocol.OF13, nicira.Experimenter))
	require.ErrorIs(t, err, protocol.ErrUnknownKey)

	_, err = NewRegistry(WithVendors("bogus"))
	require.Error(t, err)
}

func TestNewRegistryDuplicateAbortsConstruction(t *testing.T) {
	_, err := NewRegistry(WithRegister(action.Register))
	require.ErrorIs(t, err, protocol.ErrDuplicateKey)
}

func TestNewRegistryVersionFilter(t *testing.T) {
	reg, err := NewRegistry(WithVersions(protocol.OF13))
	require.NoError(t, err)
	for _, k := range reg.Keys() {
		require.Equal(t, protocol.OF13, k.Version, "unexpected key %s", k)
	}
	_, err = NewRegistry(WithVersions(protocol.Version(0x02)))
	require.ErrorIs(t, err, protocol.ErrUnsupportedVersion)
}

func TestEncodeDecodeWithHint(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	w := buffer.NewWriter(16)
	require.NoError(t, Encode(reg, w, protocol.OF13, action.Output{Port: 1, MaxLen: 0xffff}))
	want := []byte{0, 0, 0, 16, 0, 0, 0, 1, 0xff, 0xff, 0, 0, 0, 0, 0, 0}
	require.Equal(t, want, w.Bytes())

	hint := registry.NewKey(protocol.OF13, registry.ClassAction, registry.Standard(action.TypeOutput))
	got, err := Decode(reg, buffer.NewReader(want), protocol.OF13, hint)
	require.NoError(t, err)
	assert.Equal(t, action.Output{Port: 1, MaxLen: 0xffff}, got)

	_, err = Decode(reg, buffer.NewReader(want), protocol.OF10, hint)
	require.ErrorIs(t, err, protocol.ErrUnknownKey)
}

func TestDecodeActionsHex(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)
	s, err := EncodeHex(reg, protocol.OF13,
		action.DecMplsTTL{},
		nicira.RegLoad{NBits: 8, Dst: nicira.MustReg(2), Value: 0x2a},
	)
	require.NoError(t, err)

	got, err := DecodeActionsHex(reg, protocol.OF13, "0x"+s)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, action.DecMplsTTL{}, got[0])
	assert.Equal(t, nicira.RegLoad{NBits: 8, Dst: nicira.MustReg(2), Value: 0x2a}, got[1])

	items := DescribeAll(got)
	assert.Equal(t, "nicira.RegLoad", items[1].Type)

	_, err = DecodeActionsHex(reg, protocol.OF13, s[:len(s)-2])
	require.ErrorIs(t, err, protocol.ErrTruncated)
	_, err = DecodeActionsHex(reg, protocol.OF13, "zz")
	require.Error(t, err)
}

func TestParseHexSeparators(t *testing.T) {
	raw, err := ParseHex(" 0x00:10-ff aa\n")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x10, 0xff, 0xaa}, raw)
}

func TestDecodeMessageDispatchesByType(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	m, err := DecodeMessageHex(reg, "04 01 00 10 00 00 00 2a  00 01 00 06 de ad be ef", MessageOptions{})
	require.NoError(t, err)
	assert.Equal(t, "error", m.Kind)
	assert.Equal(t, uint32(42), m.Header.XID)
	assert.Equal(t, message.Error{Type: 1, Code: 6, Data: []byte{0xde, 0xad, 0xbe, 0xef}}, m.Body)

	stats := "0413 0038 00000007 0005 0000 00000000" +
		"00000001 00000002 0000000000000003 0000000000000004 0000000000000005 00000006 00000007"
	m, err = DecodeMessageHex(reg, stats, MessageOptions{})
	require.NoError(t, err)
	assert.Equal(t, "multipart_reply", m.Kind)
	rep, ok := m.Body.(multipart.Reply)
	require.True(t, ok, "body %T", m.Body)
	assert.Equal(t, multipart.QueueStatsReply{Stats: []multipart.QueueStats{{
		PortNo: 1, QueueID: 2, TxBytes: 3, TxPackets: 4, TxErrors: 5, DurationSec: 6, DurationNsec: 7,
	}}}, rep.Body)

	m, err = DecodeMessageHex(reg, "0100 0008 00000001", MessageOptions{})
	require.NoError(t, err)
	assert.Equal(t, "other", m.Kind)
	assert.Nil(t, m.Body)
}

func TestDecodeMessageRejectsBadFraming(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	_, err = DecodeMessageHex(reg, "0401 0010 0000", MessageOptions{})
	require.ErrorIs(t, err, frame.ErrShortHeader)

	_, err = DecodeMessageHex(reg, "0200 0008 00000001", MessageOptions{})
	require.ErrorIs(t, err, protocol.ErrUnsupportedVersion)

	_, err = DecodeMessageHex(reg, "0400 0008 00000001 00", MessageOptions{})
	require.ErrorIs(t, err, protocol.ErrMalformedLength)

	_, err = DecodeMessageHex(reg, "0404 0010 00000001 00000099 00000001", MessageOptions{})
	require.ErrorIs(t, err, protocol.ErrUnknownKey)
	m, err := DecodeMessageHex(reg, "0404 0010 00000001 00000099 00000001", MessageOptions{Lenient: true})
	require.NoError(t, err)
	assert.Equal(t, message.Experimenter{Experimenter: 0x99, ExpType: 1, Data: []byte{}}, m.Body)
}

func TestEncodedUnitsAreZeroPaddedToEight(t *testing.T) {
	testlog.Start(t)
	reg, err := NewRegistry()
	require.NoError(t, err)

	addr := make([]byte, 16)
	addr[15] = 1
	cases := []struct {
		name string
		val  registry.Value
		// used is the width of the unit before trailing zero fill.
		used int
		// lengthField is the value expected in the unit's 16-bit length.
		lengthField int
	}{
		{"set_queue", action.SetQueue{QueueID: 7}, 8, 8},
		{"dec_mpls_ttl", action.DecMplsTTL{}, 4, 8},
		{"output", action.Output{Port: 1, MaxLen: 0xffff}, 10, 16},
		{"nicira_resubmit_table", nicira.ResubmitTable{InPort: nicira.InPort, Table: 3}, 13, 16},
		{"cisco_next_hop", cisco.NextHop{
			AddressType:        cisco.AddressIPv6,
			ExtraType:          cisco.ExtraRouteDistinguisher,
			RouteDistinguisher: 0x0102030405060708,
			Address:            addr,
		}, 36, 40},
		{"goto_table", instruction.GotoTable{TableID: 3}, 5, 8},
		{"write_metadata", instruction.WriteMetadata{Metadata: 1, Mask: 0xff}, 24, 24},
		{"next_tables", tablefeature.NextTables{TableIDs: []uint8{2, 5, 9}}, 7, 7},
		{"meter_drop", meter.Drop{Rate: 1, BurstSize: 2}, 12, 16},
		{"meter_dscp_remark", meter.DSCPRemark{Rate: 1, BurstSize: 2, PrecLevel: 1}, 13, 16},
		{"queue_min_rate", queue.MinRate{Rate: 5}, 10, 16},
		{"queue_max_rate", queue.MaxRate{Rate: 5}, 10, 16},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := buffer.NewWriter(64)
			require.NoError(t, Encode(reg, w, protocol.OF13, tc.val))
			got := w.Bytes()

			assert.Zero(t, len(got)%8, "unit length %d", len(got))
			assert.Less(t, len(got)-tc.used, 8, "fill exceeds one alignment unit")
			for i, b := range got[tc.used:] {
				assert.Zero(t, b, "fill byte %d", tc.used+i)
			}
			require.GreaterOrEqual(t, len(got), 4)
			assert.Equal(t, tc.lengthField, int(got[2])<<8|int(got[3]))
		})
	}
}
