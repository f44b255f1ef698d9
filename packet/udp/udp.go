// Package udp decodes a UDP datagram header: the sibling of packet/tcp
// under the IPv4/IPv6 nodes of the default packet graph.
package udp

import (
	"fmt"

	"github.com/mel2oo/go-peel"
	"github.com/mel2oo/go-peel/optionals"
	"github.com/mel2oo/go-peel/packet/ipv4"
	"github.com/mel2oo/go-peel/packet/ipv6"
	"github.com/mel2oo/go-peel/packet/session"
)

// Variant is this parser's peel.VariantTag.
const Variant peel.VariantTag = "UDP"

const headerLength_bytes = 8

// Datagram is the result of a successful parse.
type Datagram struct {
	SrcPort, DstPort uint16
	Length           uint16
	Checksum         uint16
}

func (d Datagram) String() string {
	return fmt.Sprintf("UDP %d -> %d len=%d", d.SrcPort, d.DstPort, d.Length)
}

// Parser decodes a UDP header. Like packet/tcp, it only matches when the
// preceding layer names UDP as its payload protocol.
type Parser struct{}

// New returns a UDP header parser.
func New() Parser { return Parser{} }

func (Parser) Variant() peel.VariantTag { return Variant }

func (Parser) Parse(input []byte, prior peel.ResultSequence, _ *session.Session) peel.ParseOutcome {
	if !precededByUDP(prior) {
		return peel.Mismatch(0, peel.MismatchMapOpt)
	}

	if len(input) < headerLength_bytes {
		return peel.Incomplete(optionals.Some(int64(headerLength_bytes)))
	}

	d := Datagram{
		SrcPort:  uint16(input[0])<<8 | uint16(input[1]),
		DstPort:  uint16(input[2])<<8 | uint16(input[3]),
		Length:   uint16(input[4])<<8 | uint16(input[5]),
		Checksum: uint16(input[6])<<8 | uint16(input[7]),
	}

	return peel.Done(input[headerLength_bytes:], d)
}

func precededByUDP(prior peel.ResultSequence) bool {
	if len(prior) == 0 {
		return false
	}
	switch last := prior[len(prior)-1].(type) {
	case ipv4.Header:
		return last.Protocol == 17
	case ipv6.Header:
		return last.NextHeader == 17
	default:
		return false
	}
}
