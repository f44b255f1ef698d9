// Package tcp decodes a TCP segment header, exposing its flag bits
// (SYN/ACK/FIN/RST and the rest) as named booleans rather than a raw
// bitmask.
package tcp

import (
	"fmt"

	"github.com/mel2oo/go-peel"
	"github.com/mel2oo/go-peel/optionals"
	"github.com/mel2oo/go-peel/packet/ipv4"
	"github.com/mel2oo/go-peel/packet/ipv6"
	"github.com/mel2oo/go-peel/packet/session"
)

// Variant is this parser's peel.VariantTag.
const Variant peel.VariantTag = "TCP"

const minHeaderLength_bytes = 20

// Flags mirrors the control bits of the TCP header.
type Flags struct {
	FIN, SYN, RST, PSH, ACK, URG, ECE, CWR bool
}

// Segment is the result of a successful parse. The segment's payload is
// left in the traversal's remaining bytes for TLS/HTTP to parse.
type Segment struct {
	SrcPort, DstPort uint16
	Seq, Ack         uint32
	DataOffset       uint8 // header length in bytes
	Flags            Flags
	Window           uint16
	Checksum         uint16
	Urgent           uint16
}

func (s Segment) String() string {
	return fmt.Sprintf("TCP %d -> %d seq=%d ack=%d", s.SrcPort, s.DstPort, s.Seq, s.Ack)
}

// Parser decodes a TCP segment header. It only matches when the
// immediately preceding layer in the traversal is an IPv4 or IPv6 header
// whose protocol/next-header field names TCP; this keeps the IPv4/IPv6 ->
// {TCP, UDP} fan-out in DefaultGraph probe-safe without requiring either IP
// parser to know about TCP's existence.
type Parser struct{}

// New returns a TCP header parser.
func New() Parser { return Parser{} }

func (Parser) Variant() peel.VariantTag { return Variant }

func (Parser) Parse(input []byte, prior peel.ResultSequence, _ *session.Session) peel.ParseOutcome {
	if !precededByTCP(prior) {
		return peel.Mismatch(0, peel.MismatchMapOpt)
	}

	if len(input) < 13 {
		return peel.Incomplete(optionals.Some(int64(minHeaderLength_bytes)))
	}

	dataOffsetWords := input[12] >> 4
	headerLen := int(dataOffsetWords) * 4
	if headerLen < minHeaderLength_bytes {
		return peel.Mismatch(12, peel.MismatchLength)
	}
	if len(input) < headerLen {
		return peel.Incomplete(optionals.Some(int64(headerLen)))
	}

	flagByte := input[13]
	seg := Segment{
		SrcPort:    uint16(input[0])<<8 | uint16(input[1]),
		DstPort:    uint16(input[2])<<8 | uint16(input[3]),
		Seq:        uint32(input[4])<<24 | uint32(input[5])<<16 | uint32(input[6])<<8 | uint32(input[7]),
		Ack:        uint32(input[8])<<24 | uint32(input[9])<<16 | uint32(input[10])<<8 | uint32(input[11]),
		DataOffset: uint8(headerLen),
		Flags: Flags{
			FIN: flagByte&0x01 != 0,
			SYN: flagByte&0x02 != 0,
			RST: flagByte&0x04 != 0,
			PSH: flagByte&0x08 != 0,
			ACK: flagByte&0x10 != 0,
			URG: flagByte&0x20 != 0,
			ECE: flagByte&0x40 != 0,
			CWR: flagByte&0x80 != 0,
		},
		Window:   uint16(input[14])<<8 | uint16(input[15]),
		Checksum: uint16(input[16])<<8 | uint16(input[17]),
		Urgent:   uint16(input[18])<<8 | uint16(input[19]),
	}

	return peel.Done(input[headerLen:], seg)
}

func precededByTCP(prior peel.ResultSequence) bool {
	if len(prior) == 0 {
		return false
	}
	switch last := prior[len(prior)-1].(type) {
	case ipv4.Header:
		return last.Protocol == 6
	case ipv6.Header:
		return last.NextHeader == 6
	default:
		return false
	}
}
