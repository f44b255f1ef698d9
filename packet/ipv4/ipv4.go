// Package ipv4 decodes an IPv4 header.
package ipv4

import (
	"fmt"
	"net"

	"github.com/google/gopacket/layers"

	"github.com/mel2oo/go-peel"
	"github.com/mel2oo/go-peel/optionals"
	"github.com/mel2oo/go-peel/packet/session"
)

// Variant is this parser's peel.VariantTag.
const Variant peel.VariantTag = "IPv4"

const minHeaderLength_bytes = 20

// knownProtocols is the set of IP protocol numbers this graph knows how to
// route onward (TCP and UDP, plus the ICMP variants, which are accepted but
// have no registered child parser). Anything outside this set is treated
// the way the fixture's parse_ipv4_failure_wrong_ipprotocol test expects: a
// MapOpt mismatch, not a panic or a silently-unrouted header.
var knownProtocols = map[layers.IPProtocol]bool{
	layers.IPProtocolICMPv4: true,
	layers.IPProtocolTCP:    true,
	layers.IPProtocolUDP:    true,
	layers.IPProtocolICMPv6: true,
}

// Header is the result of a successful parse.
type Header struct {
	Version                uint8
	IHL                    uint8 // header length in bytes, not 32-bit words
	TOS                    uint8
	Length                 uint16
	ID                      uint16
	FlagsAndFragmentOffset uint16
	TTL                    uint8
	Protocol               layers.IPProtocol
	Checksum               uint16
	Src                    net.IP
	Dst                    net.IP
}

func (h Header) String() string {
	return fmt.Sprintf("IPv4 %s -> %s proto=%s len=%d", h.Src, h.Dst, h.Protocol, h.Length)
}

// Parser decodes an IPv4 header.
type Parser struct{}

// New returns an IPv4 header parser.
func New() Parser { return Parser{} }

func (Parser) Variant() peel.VariantTag { return Variant }

func (Parser) Parse(input []byte, _ peel.ResultSequence, _ *session.Session) peel.ParseOutcome {
	if len(input) < 1 {
		return peel.Incomplete(optionals.None[int64]())
	}

	version := input[0] >> 4
	if version != 4 {
		return peel.Mismatch(0, peel.MismatchTagBits)
	}

	ihlWords := input[0] & 0x0f
	headerLen := int(ihlWords) * 4
	if headerLen < minHeaderLength_bytes {
		return peel.Mismatch(0, peel.MismatchLength)
	}

	if len(input) < headerLen {
		return peel.Incomplete(optionals.Some(int64(headerLen)))
	}

	protocol := layers.IPProtocol(input[9])
	if !knownProtocols[protocol] {
		return peel.Mismatch(9, peel.MismatchMapOpt)
	}

	h := Header{
		Version:                version,
		IHL:                    uint8(headerLen),
		TOS:                    input[1],
		Length:                 uint16(input[2])<<8 | uint16(input[3]),
		ID:                     uint16(input[4])<<8 | uint16(input[5]),
		FlagsAndFragmentOffset: uint16(input[6])<<8 | uint16(input[7]),
		TTL:                    input[8],
		Protocol:               protocol,
		Checksum:               uint16(input[10])<<8 | uint16(input[11]),
		Src:                    net.IPv4(input[12], input[13], input[14], input[15]),
		Dst:                    net.IPv4(input[16], input[17], input[18], input[19]),
	}

	return peel.Done(input[headerLen:], h)
}
