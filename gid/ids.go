package gid

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Tags used to distinguish the kinds of IDs minted by this package. They
// form the prefix of a GID's string form, e.g. "trv_3KX9...".
const (
	TraversalTag = "trv"
	ConnectionTag = "cxn"
	HandshakeTag  = "hsk"
)

var idConstructorMap = map[string]func(uuid.UUID) ID{
	TraversalTag:  func(id uuid.UUID) ID { return NewTraversalID(id) },
	ConnectionTag: func(id uuid.UUID) ID { return NewConnectionID(id) },
	HandshakeTag:  func(id uuid.UUID) ID { return NewHandshakeID(id) },
}

// TraversalID identifies one run of the traversal driver, for correlating
// log lines and API responses with the request that produced them.
type TraversalID struct {
	baseID
}

func (TraversalID) GetType() string    { return TraversalTag }
func (id TraversalID) String() string  { return String(id) }
func NewTraversalID(id uuid.UUID) TraversalID {
	return TraversalID{baseID(id)}
}
func GenerateTraversalID() TraversalID {
	return NewTraversalID(uuid.New())
}
func (id TraversalID) MarshalText() ([]byte, error) {
	return toText(id)
}
func (id *TraversalID) UnmarshalText(data []byte) error {
	return fromText(id, data)
}

// ConnectionID identifies a single TCP connection as seen across the TCP,
// TLS and HTTP layers of the example packet graph.
type ConnectionID struct {
	baseID
}

func (ConnectionID) GetType() string    { return ConnectionTag }
func (id ConnectionID) String() string  { return String(id) }
func NewConnectionID(id uuid.UUID) ConnectionID {
	return ConnectionID{baseID(id)}
}
func GenerateConnectionID() ConnectionID {
	return NewConnectionID(uuid.New())
}
func (id ConnectionID) MarshalText() ([]byte, error) {
	return toText(id)
}
func (id *ConnectionID) UnmarshalText(data []byte) error {
	return fromText(id, data)
}

// HandshakeID identifies one TLS handshake (the pairing of a Client Hello
// and a Server Hello) within a connection.
type HandshakeID struct {
	baseID
}

func (HandshakeID) GetType() string    { return HandshakeTag }
func (id HandshakeID) String() string  { return String(id) }
func NewHandshakeID(id uuid.UUID) HandshakeID {
	return HandshakeID{baseID(id)}
}
func GenerateHandshakeID() HandshakeID {
	return NewHandshakeID(uuid.New())
}
func (id HandshakeID) MarshalText() ([]byte, error) {
	return toText(id)
}
func (id *HandshakeID) UnmarshalText(data []byte) error {
	return fromText(id, data)
}

func parseIDParts(str string) (string, uuid.UUID, error) {
	parts := strings.Split(str, "_")
	if len(parts) != 2 {
		return "", uuid.Nil, errors.New("invalid GID structure")
	}
	idPart, err := decodeUUID(parts[1])
	if err != nil {
		return "", uuid.Nil, errors.Wrap(err, "invalid unique id part of GID")
	}
	return parts[0], idPart, nil
}

// ParseID parses the string form of any GID minted by this package back into
// its typed representation.
func ParseID(str string) (ID, error) {
	tag, uniquePart, err := parseIDParts(str)
	if err != nil {
		return nil, err
	}

	constructor := idConstructorMap[tag]
	if constructor == nil {
		return nil, errors.Errorf("no known gid for tag %s", tag)
	}

	return constructor(uniquePart), nil
}

// ParseIDAs parses str and assigns the result to destID, which must be a
// pointer to one of the concrete ID types in this package.
func ParseIDAs(str string, destID interface{}) error {
	id, err := ParseID(str)
	if err != nil {
		return err
	}
	return assignTo(id, destID)
}
