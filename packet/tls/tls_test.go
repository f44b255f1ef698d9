package tls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mel2oo/go-peel"
	"github.com/mel2oo/go-peel/packet/session"
)

func clientHelloRecord(payload []byte) []byte {
	body := append([]byte{
		0x01, 0x00, 0x00, 0x02, // handshake header: ClientHello, length=2 (we only care about the version bytes here)
		0x03, 0x03, // client version: TLS 1.2
	}, payload...)
	record := append([]byte{
		0x16, 0x03, 0x01, // handshake record, protocol version 3.1
		byte(len(body) >> 8), byte(len(body)),
	}, body...)
	return record
}

func TestParseClientHello(t *testing.T) {
	input := append(clientHelloRecord(nil), []byte("trailing")...)

	state := session.New()
	outcome := New().Parse(input, nil, state)

	require.Equal(t, peel.OutcomeDone, outcome.Kind)
	rec := outcome.Value.(Record)
	assert.True(t, rec.IsClientHello)
	assert.Equal(t, uint16(0x0303), rec.Version)
	assert.Equal(t, []byte("trailing"), outcome.Remaining)
	assert.True(t, state.TLSSeen)
	assert.Equal(t, rec.HandshakeID, state.HandshakeID)
	assert.NotEmpty(t, rec.HandshakeID.String())
}

func TestParseMismatchNotHandshakeRecord(t *testing.T) {
	input := []byte{0x17, 0x03, 0x01, 0x00, 0x05, 1, 2, 3, 4, 5}

	outcome := New().Parse(input, nil, nil)

	require.Equal(t, peel.OutcomeMismatch, outcome.Kind)
	assert.Equal(t, peel.MismatchTagBits, outcome.MismatchKind)
}

func TestParseIncompleteOnShortInput(t *testing.T) {
	outcome := New().Parse([]byte{0x16, 0x03}, nil, nil)

	require.Equal(t, peel.OutcomeIncomplete, outcome.Kind)
}
