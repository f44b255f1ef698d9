// Package ntp decodes an NTP packet (RFC 5905 §7.3). It is the UDP-layer
// sibling of packet/http: wherever a UDP datagram is dissected, an NTP
// packet may follow it.
package ntp

import (
	"fmt"

	"github.com/mel2oo/go-peel"
	"github.com/mel2oo/go-peel/optionals"
	"github.com/mel2oo/go-peel/packet/session"
	"github.com/mel2oo/go-peel/packet/udp"
)

// Variant is this parser's peel.VariantTag.
const Variant peel.VariantTag = "NTP"

const packetLength_bytes = 48

// Packet is the result of a successful parse.
type Packet struct {
	LeapIndicator uint8
	Version       uint8
	Mode          uint8
	Stratum       uint8
	Poll          int8
	Precision     int8
	RootDelay     uint32
	RootDispersion uint32
	ReferenceID   uint32

	ReferenceTimestamp uint64
	OriginTimestamp    uint64
	ReceiveTimestamp   uint64
	TransmitTimestamp  uint64
}

func (p Packet) String() string {
	return fmt.Sprintf("NTP v%d mode=%d stratum=%d", p.Version, p.Mode, p.Stratum)
}

// Parser decodes a single NTP packet. It only matches directly beneath a
// UDP datagram, per DefaultGraph's wiring.
type Parser struct{}

// New returns an NTP packet parser.
func New() Parser { return Parser{} }

func (Parser) Variant() peel.VariantTag { return Variant }

func (Parser) Parse(input []byte, prior peel.ResultSequence, _ *session.Session) peel.ParseOutcome {
	if !precededByUDP(prior) {
		return peel.Mismatch(0, peel.MismatchMapOpt)
	}

	if len(input) < packetLength_bytes {
		return peel.Incomplete(optionals.Some(int64(packetLength_bytes)))
	}

	version := (input[0] >> 3) & 0x07
	if version != 3 && version != 4 {
		return peel.Mismatch(0, peel.MismatchTagBits)
	}

	p := Packet{
		LeapIndicator:      input[0] >> 6,
		Version:            version,
		Mode:               input[0] & 0x07,
		Stratum:            input[1],
		Poll:               int8(input[2]),
		Precision:          int8(input[3]),
		RootDelay:          be32(input[4:8]),
		RootDispersion:     be32(input[8:12]),
		ReferenceID:        be32(input[12:16]),
		ReferenceTimestamp: be64(input[16:24]),
		OriginTimestamp:    be64(input[24:32]),
		ReceiveTimestamp:   be64(input[32:40]),
		TransmitTimestamp:  be64(input[40:48]),
	}

	return peel.Done(input[packetLength_bytes:], p)
}

func precededByUDP(prior peel.ResultSequence) bool {
	if len(prior) == 0 {
		return false
	}
	_, ok := prior[len(prior)-1].(udp.Datagram)
	return ok
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func be64(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}
