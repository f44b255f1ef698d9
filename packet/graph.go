// Package packet assembles the protocol parsers (ethernet, ipv4, ipv6,
// tcp, udp, tls, http, ntp) into a ready-to-use dissection graph.
// DefaultGraph's topology: Ethernet fans out to IPv4 and IPv6; each fans
// out to TCP and UDP; each TCP node fans out to TLS and directly to HTTP;
// each TLS node also fans out to HTTP; each UDP node fans out to NTP.
package packet

import (
	"github.com/mel2oo/go-peel"
	"github.com/mel2oo/go-peel/packet/ethernet"
	"github.com/mel2oo/go-peel/packet/http"
	"github.com/mel2oo/go-peel/packet/ipv4"
	"github.com/mel2oo/go-peel/packet/ipv6"
	"github.com/mel2oo/go-peel/packet/ntp"
	"github.com/mel2oo/go-peel/packet/session"
	"github.com/mel2oo/go-peel/packet/tcp"
	"github.com/mel2oo/go-peel/packet/tls"
	"github.com/mel2oo/go-peel/packet/udp"
)

// DefaultGraph returns the default packet-dissection graph, ready to pass
// to peel.NewDriver or peel.Traverse with a *session.Session as shared
// state.
func DefaultGraph() *peel.Graph[session.Session] {
	g := peel.NewGraph[session.Session]()

	eth := g.NewParser(ethernet.New())

	v4 := link(g, eth, ipv4.New())
	v6 := link(g, eth, ipv6.New())

	tcp4 := link(g, v4, tcp.New())
	tcp6 := link(g, v6, tcp.New())

	udp4 := link(g, v4, udp.New())
	udp6 := link(g, v6, udp.New())

	tls4 := link(g, tcp4, tls.New())
	tls6 := link(g, tcp6, tls.New())

	link(g, tcp4, http.New())
	link(g, tcp6, http.New())
	link(g, tls4, http.New())
	link(g, tls6, http.New())

	link(g, udp4, ntp.New())
	link(g, udp6, ntp.New())

	return g
}

// link wires p beneath parent. DefaultGraph's topology is static and every
// parent handle it passes here was itself just returned by this same
// function (or NewParser), so the only way Link/LinkNewParser can fail --
// an unknown node ID -- cannot occur; a failure here means DefaultGraph
// itself has a bug.
func link(g *peel.Graph[session.Session], parent peel.NodeID, p peel.Parser[session.Session]) peel.NodeID {
	id, err := g.LinkNewParser(parent, p)
	if err != nil {
		panic(err)
	}
	return id
}
