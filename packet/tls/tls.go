// Package tls recognizes a TLS 1.2/1.3 Client Hello or Server Hello
// handshake record by matching fixed byte offsets across the record
// header, the handshake header, and the protocol version, and classifies
// the result as a single-shot Done/Mismatch/Incomplete decision over one
// record.
package tls

import (
	"fmt"

	"github.com/mel2oo/go-peel"
	"github.com/mel2oo/go-peel/gid"
	"github.com/mel2oo/go-peel/optionals"
	"github.com/mel2oo/go-peel/packet/session"
)

// Variant is this parser's peel.VariantTag.
const Variant peel.VariantTag = "TLS"

const (
	// handshake(1) + version(2) + length(2)
	recordHeaderLength_bytes = 5
	// handshake type(1) + length(3)
	handshakeHeaderLength_bytes = 4
	versionLength_bytes         = 2

	handshakeRecordType = 0x16

	clientHelloType = 0x01
	serverHelloType = 0x02
)

// Record is the result of a successful parse: just enough of a Client or
// Server Hello to identify the handshake and its negotiated version.
type Record struct {
	IsClientHello bool
	Version       uint16 // e.g. 0x0303 for TLS 1.2
	HandshakeID   gid.HandshakeID
}

func (r Record) String() string {
	kind := "ServerHello"
	if r.IsClientHello {
		kind = "ClientHello"
	}
	return fmt.Sprintf("TLS %s version=0x%04x", kind, r.Version)
}

// Parser recognizes a single TLS handshake record.
type Parser struct{}

// New returns a TLS Client/Server Hello parser.
func New() Parser { return Parser{} }

func (Parser) Variant() peel.VariantTag { return Variant }

func (Parser) Parse(input []byte, _ peel.ResultSequence, state *session.Session) peel.ParseOutcome {
	if len(input) < recordHeaderLength_bytes {
		return peel.Incomplete(optionals.None[int64]())
	}
	if input[0] != handshakeRecordType {
		return peel.Mismatch(0, peel.MismatchTagBits)
	}

	recordLen := int(input[3])<<8 | int(input[4])
	total := recordHeaderLength_bytes + recordLen

	minNeeded := recordHeaderLength_bytes + handshakeHeaderLength_bytes + versionLength_bytes
	if len(input) < minNeeded {
		return peel.Incomplete(optionals.Some(int64(minNeeded)))
	}

	handshakeType := input[recordHeaderLength_bytes]
	if handshakeType != clientHelloType && handshakeType != serverHelloType {
		return peel.Mismatch(recordHeaderLength_bytes, peel.MismatchTagBits)
	}

	if len(input) < total {
		return peel.Incomplete(optionals.Some(int64(total)))
	}

	versionOffset := recordHeaderLength_bytes + handshakeHeaderLength_bytes
	version := uint16(input[versionOffset])<<8 | uint16(input[versionOffset+1])

	handshakeID := gid.GenerateHandshakeID()
	if state != nil && state.TLSSeen {
		// A Server Hello pairs with the Client Hello already seen earlier
		// in this connection; both carry the same handshake identifier.
		handshakeID = state.HandshakeID
	}

	rec := Record{
		IsClientHello: handshakeType == clientHelloType,
		Version:       version,
		HandshakeID:   handshakeID,
	}

	if state != nil {
		state.TLSSeen = true
		state.TLSVersion = rec.String()
		state.HandshakeID = handshakeID
	}

	return peel.Done(input[total:], rec)
}
