// Package session defines the shared state threaded through one traversal
// of the default packet graph (peel/packet.DefaultGraph). It lets sibling
// layers (the TLS parser, then the HTTP parser) communicate without the
// engine itself knowing anything about TLS or HTTP.
package session

import "github.com/mel2oo/go-peel/gid"

// Session is the S type parameter for peel.Graph[Session] in the packet
// subpackage. A fresh Session should be created per traversal (per
// connection-worth of bytes); it is not safe to share across concurrent
// traversals.
type Session struct {
	// ConnectionID identifies the byte stream this traversal is dissecting,
	// without the engine itself assigning any meaning to it.
	ConnectionID gid.ConnectionID

	// TLSSeen and TLSVersion record whether the TLS parser matched earlier
	// in this traversal, so the HTTP parser can report "https" rather than
	// "http" as the inferred scheme.
	TLSSeen    bool
	TLSVersion string

	// HandshakeID identifies the TLS handshake recorded by TLSSeen, minted
	// the first time the TLS parser matches in this traversal. It is the
	// zero HandshakeID until then.
	HandshakeID gid.HandshakeID
}

// New returns a Session with a freshly generated connection identifier.
func New() *Session {
	return &Session{ConnectionID: gid.GenerateConnectionID()}
}
