// Package peel implements a generic, tree-structured parser dispatcher.
//
// Callers register arbitrary parsers as nodes in a directed graph (a
// Graph); the Driver then walks the graph starting from a root, consuming
// input bytes at each node via the parser's Parse method, and probing the
// node's children to discover which branch (if any) applies next.
//
// The engine itself carries no protocol knowledge. See the packet
// subpackage for a worked set of collaborating parsers (Ethernet, IPv4/6,
// TCP/UDP, TLS, HTTP, NTP).
package peel

import "github.com/mel2oo/go-peel/optionals"

// VariantTag names a parser's kind. It exists purely for observability and
// routing hints; the engine never branches on it.
type VariantTag string

// ParserResult is the heterogeneous, typed value produced by one parser
// invocation. Successive layers of a traversal generally produce
// different concrete types, so this is an open, dynamically-typed handle:
// callers and parsers recover the concrete type with a type assertion or
// type switch.
type ParserResult interface {
	// String returns a short, human-readable description of the result,
	// suitable for logging or CLI output.
	String() string
}

// ResultSequence is the ordered, append-only sequence of ParserResult
// values accumulated over one traversal. Index 0 is the outermost/earliest
// layer. It is handed to parsers read-only; a parser must not mutate the
// slice it is given.
type ResultSequence []ParserResult

// MismatchKind classifies why a parser declined to match an input prefix.
// The names (TagBits, MapOpt) echo the combinator-error vocabulary of a
// nom-style parser: a fixed bit pattern not matching, or a decoded value
// not mapping to anything recognized.
type MismatchKind int

const (
	// MismatchTagBits indicates a fixed tag, magic number, or bit pattern in
	// the input did not match what the parser expected (e.g. wrong IP
	// version nibble).
	MismatchTagBits MismatchKind = iota

	// MismatchMapOpt indicates a field decoded successfully but did not map
	// to any value the parser recognizes (e.g. an unknown IP protocol
	// number).
	MismatchMapOpt

	// MismatchLength indicates a length field in the input is inconsistent
	// with what the parser can accept.
	MismatchLength

	// MismatchOther covers mismatches that do not fit the above.
	MismatchOther
)

func (k MismatchKind) String() string {
	switch k {
	case MismatchTagBits:
		return "TagBits"
	case MismatchMapOpt:
		return "MapOpt"
	case MismatchLength:
		return "Length"
	default:
		return "Other"
	}
}

// OutcomeKind identifies which of the four cases a ParseOutcome carries.
type OutcomeKind int

const (
	// OutcomeDone indicates the parser matched and consumed a prefix of the
	// input.
	OutcomeDone OutcomeKind = iota

	// OutcomeIncomplete indicates the parser would match given more bytes.
	OutcomeIncomplete

	// OutcomeMismatch indicates the parser does not apply to this input.
	OutcomeMismatch

	// OutcomeFatal indicates an unrecoverable condition; it aborts the
	// entire traversal.
	OutcomeFatal
)

// ParseOutcome is the result of one call to Parser.Parse. Exactly one of
// the per-kind fields below is meaningful, selected by Kind; use the
// Done/Incomplete/Mismatch/Fatal constructors rather than building this
// struct directly.
type ParseOutcome struct {
	Kind OutcomeKind

	// Remaining and Value are populated when Kind == OutcomeDone. Remaining
	// must be a suffix of the input passed to Parse.
	Remaining []byte
	Value     ParserResult

	// Needed is populated when Kind == OutcomeIncomplete. optionals.None[int64]
	// means "more bytes are needed, count unknown"; optionals.Some(n) gives
	// the exact number of bytes needed in total.
	Needed optionals.Optional[int64]

	// Position and MismatchKind are populated when Kind == OutcomeMismatch.
	// Position indexes into the input slice that was passed to Parse.
	Position     int
	MismatchKind MismatchKind

	// Cause is populated when Kind == OutcomeFatal.
	Cause error
}

// Done reports that the parser matched, consuming input up to the start of
// remaining and producing value.
func Done(remaining []byte, value ParserResult) ParseOutcome {
	return ParseOutcome{Kind: OutcomeDone, Remaining: remaining, Value: value}
}

// Incomplete reports that the parser would match given more bytes. Pass
// optionals.None[int64]() if the number of additional bytes needed isn't
// known yet.
func Incomplete(needed optionals.Optional[int64]) ParseOutcome {
	return ParseOutcome{Kind: OutcomeIncomplete, Needed: needed}
}

// Mismatch reports that the parser does not apply to this input prefix.
func Mismatch(position int, kind MismatchKind) ParseOutcome {
	return ParseOutcome{Kind: OutcomeMismatch, Position: position, MismatchKind: kind}
}

// Fatal reports an unrecoverable condition. It aborts the whole traversal.
func Fatal(cause error) ParseOutcome {
	return ParseOutcome{Kind: OutcomeFatal, Cause: cause}
}

// Parser is the behavioral contract every node in a Graph must satisfy.
// The S type parameter is the caller's shared-state type, threaded
// mutably through every parser call during one traversal; use struct{} if
// a parser graph needs no shared state.
//
// Implementations must be deterministic given (input, prior, state): the
// driver may invoke Parse on several sibling parsers with the same input
// while probing for a match, and expects at most one to report Done.
// Implementations must also be probe-safe: a Mismatch outcome must leave
// state semantically unchanged. A parser that needs to mutate state should
// only do so on the path that returns Done, or must snapshot and restore
// on Mismatch.
type Parser[S any] interface {
	// Variant identifies this parser's kind. Pure, side-effect free, cheap.
	Variant() VariantTag

	// Parse attempts to consume a prefix of input and produce a result.
	//
	// prior is the read-only sequence of results accumulated so far in this
	// traversal; it is nil on a fresh traversal's root call. state is the
	// caller's shared state, or nil if the traversal has none.
	Parse(input []byte, prior ResultSequence, state *S) ParseOutcome
}
