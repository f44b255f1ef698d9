// Package ipv6 decodes a fixed IPv6 header (RFC 8200 §3), the sibling of
// packet/ipv4 under the Ethernet node of the default packet graph.
package ipv6

import (
	"fmt"
	"net"

	"github.com/google/gopacket/layers"

	"github.com/mel2oo/go-peel"
	"github.com/mel2oo/go-peel/optionals"
	"github.com/mel2oo/go-peel/packet/session"
)

// Variant is this parser's peel.VariantTag.
const Variant peel.VariantTag = "IPv6"

const headerLength_bytes = 40

var knownNextHeaders = map[layers.IPProtocol]bool{
	layers.IPProtocolICMPv4: true,
	layers.IPProtocolTCP:    true,
	layers.IPProtocolUDP:    true,
	layers.IPProtocolICMPv6: true,
}

// Header is the result of a successful parse.
type Header struct {
	TrafficClass uint8
	FlowLabel    uint32
	PayloadLen   uint16
	NextHeader   layers.IPProtocol
	HopLimit     uint8
	Src          net.IP
	Dst          net.IP
}

func (h Header) String() string {
	return fmt.Sprintf("IPv6 %s -> %s next=%s len=%d", h.Src, h.Dst, h.NextHeader, h.PayloadLen)
}

// Parser decodes an IPv6 fixed header.
type Parser struct{}

// New returns an IPv6 header parser.
func New() Parser { return Parser{} }

func (Parser) Variant() peel.VariantTag { return Variant }

func (Parser) Parse(input []byte, _ peel.ResultSequence, _ *session.Session) peel.ParseOutcome {
	if len(input) < 1 {
		return peel.Incomplete(optionals.None[int64]())
	}

	version := input[0] >> 4
	if version != 6 {
		return peel.Mismatch(0, peel.MismatchTagBits)
	}

	if len(input) < headerLength_bytes {
		return peel.Incomplete(optionals.Some(int64(headerLength_bytes)))
	}

	nextHeader := layers.IPProtocol(input[6])
	if !knownNextHeaders[nextHeader] {
		return peel.Mismatch(6, peel.MismatchMapOpt)
	}

	h := Header{
		TrafficClass: (input[0]&0x0f)<<4 | input[1]>>4,
		FlowLabel:    uint32(input[1]&0x0f)<<16 | uint32(input[2])<<8 | uint32(input[3]),
		PayloadLen:   uint16(input[4])<<8 | uint16(input[5]),
		NextHeader:   nextHeader,
		HopLimit:     input[7],
		Src:          net.IP(append([]byte(nil), input[8:24]...)),
		Dst:          net.IP(append([]byte(nil), input[24:40]...)),
	}

	return peel.Done(input[headerLength_bytes:], h)
}
