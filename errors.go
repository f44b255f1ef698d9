package peel

import "github.com/pkg/errors"

// AbortCause classifies why a traversal was aborted. See TraversalReport.
type AbortCause int

const (
	// NoCause is the zero value; it is never reported on an Aborted status.
	NoCause AbortCause = iota

	// NoRoot indicates Traverse could not pick a start node: the graph has
	// no nodes, every node has an incoming edge, or the explicit start node
	// is not a node of the graph.
	NoRoot

	// DepthExceeded indicates the traversal hit the configured MaxDepth.
	DepthExceeded

	// FatalCause indicates some parser returned a Fatal outcome.
	FatalCause

	// InternalCause indicates an engine invariant was violated. This should
	// never happen; seeing it means the graph or driver has a bug.
	InternalCause
)

func (c AbortCause) String() string {
	switch c {
	case NoRoot:
		return "NoRoot"
	case DepthExceeded:
		return "DepthExceeded"
	case FatalCause:
		return "Fatal"
	case InternalCause:
		return "Internal"
	default:
		return "None"
	}
}

// internal builds an errors.Errorf error, reported with InternalCause, for conditions
// that indicate a bug in the engine itself rather than in caller-supplied
// parsers or graphs.
func internal(format string, args ...interface{}) error {
	return errors.Errorf("peel: internal error: "+format, args...)
}
