package ipv4

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mel2oo/go-peel"
)

// ipv4Header is a captured IPv4 header used as a parse fixture.
var ipv4Header = []byte{
	0x45, 0x00, 0x01, 0xa5, 0xd6, 0x63, 0x40, 0x00, 0x3f, 0x06, 0x9b, 0xfc, 0xc0,
	0xa8, 0x01, 0x0a, 0xad, 0xfc, 0x58, 0x44,
}

func TestParseSuccess(t *testing.T) {
	outcome := New().Parse(ipv4Header, nil, nil)

	require.Equal(t, peel.OutcomeDone, outcome.Kind)
	got := outcome.Value.(Header)

	assert.Equal(t, Header{
		Version:                4,
		IHL:                    20,
		TOS:                    0,
		Length:                 421,
		ID:                     54883,
		FlagsAndFragmentOffset: 16384,
		TTL:                    63,
		Protocol:               6, // TCP
		Checksum:               39932,
		Src:                    net.IPv4(192, 168, 1, 10),
		Dst:                    net.IPv4(173, 252, 88, 68),
	}, got)
	assert.Empty(t, outcome.Remaining)
}

func TestParseSuccessUDP(t *testing.T) {
	input := append([]byte(nil), ipv4Header...)
	input[9] = 17 // UDP

	outcome := New().Parse(input, nil, nil)

	require.Equal(t, peel.OutcomeDone, outcome.Kind)
	got := outcome.Value.(Header)
	assert.EqualValues(t, 17, got.Protocol)
}

func TestParseFailureWrongVersion(t *testing.T) {
	input := append([]byte(nil), ipv4Header...)
	input[0] = 0x55

	outcome := New().Parse(input, nil, nil)

	require.Equal(t, peel.OutcomeMismatch, outcome.Kind)
	assert.Equal(t, peel.MismatchTagBits, outcome.MismatchKind)
	assert.Equal(t, 0, outcome.Position)
}

func TestParseFailureUnknownProtocol(t *testing.T) {
	input := append([]byte(nil), ipv4Header...)
	input[9] = 0xff

	outcome := New().Parse(input, nil, nil)

	require.Equal(t, peel.OutcomeMismatch, outcome.Kind)
	assert.Equal(t, peel.MismatchMapOpt, outcome.MismatchKind)
	assert.Equal(t, 9, outcome.Position)
}

func TestParseFailureTooSmall(t *testing.T) {
	input := ipv4Header[:len(ipv4Header)-1]

	outcome := New().Parse(input, nil, nil)

	require.Equal(t, peel.OutcomeIncomplete, outcome.Kind)
	got, ok := outcome.Needed.Get()
	require.True(t, ok)
	assert.Equal(t, int64(20), got)
}
