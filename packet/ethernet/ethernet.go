// Package ethernet provides the root parser of the default packet graph: an
// Ethernet II frame decoder built on gopacket/layers' EtherType constants.
package ethernet

import (
	"fmt"
	"net"

	"github.com/google/gopacket/layers"

	"github.com/mel2oo/go-peel"
	"github.com/mel2oo/go-peel/optionals"
	"github.com/mel2oo/go-peel/packet/session"
)

// Variant is this parser's peel.VariantTag.
const Variant peel.VariantTag = "Ethernet"

// frameHeaderLength_bytes is dst MAC (6) + src MAC (6) + EtherType (2).
const frameHeaderLength_bytes = 14

// Frame is the result produced by Parser: the fixed-size Ethernet II
// header, with the payload left in the traversal's remaining bytes for the
// next layer to parse.
type Frame struct {
	Dst       net.HardwareAddr
	Src       net.HardwareAddr
	EtherType layers.EthernetType
}

func (f Frame) String() string {
	return fmt.Sprintf("Ethernet %s -> %s [%s]", f.Src, f.Dst, f.EtherType)
}

// Parser decodes an Ethernet II frame header.
type Parser struct{}

// New returns an Ethernet frame parser.
func New() Parser { return Parser{} }

func (Parser) Variant() peel.VariantTag { return Variant }

func (Parser) Parse(input []byte, _ peel.ResultSequence, _ *session.Session) peel.ParseOutcome {
	if len(input) < frameHeaderLength_bytes {
		return peel.Incomplete(optionals.Some(int64(frameHeaderLength_bytes)))
	}

	frame := Frame{
		Dst:       net.HardwareAddr(append([]byte(nil), input[0:6]...)),
		Src:       net.HardwareAddr(append([]byte(nil), input[6:12]...)),
		EtherType: layers.EthernetType(uint16(input[12])<<8 | uint16(input[13])),
	}

	return peel.Done(input[frameHeaderLength_bytes:], frame)
}
