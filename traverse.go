package peel

import (
	"github.com/mel2oo/go-peel/internal/plog"
	"github.com/mel2oo/go-peel/optionals"
	"github.com/pkg/errors"
)

// Status is the terminal state of a traversal.
type Status int

const (
	// Completed means a leaf was reached, or every child of the current
	// node reported Mismatch (a natural end of a branch).
	Completed Status = iota

	// IncompleteStatus means the traversal stopped because some child
	// reported Incomplete and no sibling matched.
	IncompleteStatus

	// Aborted means the traversal stopped early: the depth bound was
	// exceeded, a parser reported Fatal, or the graph had no root. See the
	// report's AbortCause and Err fields.
	Aborted
)

func (s Status) String() string {
	switch s {
	case Completed:
		return "Completed"
	case IncompleteStatus:
		return "Incomplete"
	case Aborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// TraversalReport is the outcome of one call to Driver.Traverse.
type TraversalReport struct {
	// Result is the final ResultSequence. It may equal the initial sequence
	// passed to Traverse if nothing matched.
	Result ResultSequence

	// LeftInput is the unconsumed suffix of the input at the point the
	// traversal stopped.
	LeftInput []byte

	Status Status

	// Needed carries the Incomplete hint when Status == IncompleteStatus.
	Needed optionals.Optional[int64]

	// AbortCause and Err are populated when Status == Aborted.
	AbortCause AbortCause
	Err        error
}

// Driver walks a Graph, consuming input bytes at each node via the
// selected parser and probing the node's children to pick the next one.
// Build one with NewDriver.
type Driver[S any] struct {
	graph  *Graph[S]
	config Config
	logger plog.Logger
}

// NewDriver returns a Driver over g configured by opts.
func NewDriver[S any](g *Graph[S], opts ...ConfigOption) *Driver[S] {
	cfg := NewConfig(opts...)
	return &Driver[S]{
		graph:  g,
		config: cfg,
		logger: loggerForLevel(cfg.LogLevel),
	}
}

func loggerForLevel(l LogLevel) plog.Logger {
	if l == LogOff {
		return plog.Noop()
	}
	return plog.New(plog.Level(l))
}

// Traverse walks the graph starting from a root (or, if start is given,
// from that node), accumulating results onto initial. state may be nil if
// the graph's parsers need no shared state.
//
// In short: invoke the starting
// node's parser, then repeatedly probe the current node's children in
// insertion order and take the first one that reports Done, until a node
// with no matching child is reached, a child reports Incomplete with none
// of its siblings matching, a parser reports Fatal, or the configured
// MaxDepth is reached.
func (d *Driver[S]) Traverse(input []byte, initial ResultSequence, state *S, start ...NodeID) TraversalReport {
	g := d.graph

	if g.NodeCount() == 0 {
		return d.abort(initial, input, NoRoot, errors.New("peel: traverse called on an empty graph"))
	}

	startNode, err := d.resolveStart(start)
	if err != nil {
		return d.abort(initial, input, NoRoot, err)
	}

	d.logger.Debugf("starting traversal at node %d (%s)", startNode, g.Variant(startNode))

	outcome := g.parserAt(startNode).Parse(input, nil, state)
	switch outcome.Kind {
	case OutcomeMismatch:
		d.logger.Tracef("root node %d (%s) mismatched at %d: %s", startNode, g.Variant(startNode), outcome.Position, outcome.MismatchKind)
		return TraversalReport{Result: initial, LeftInput: input, Status: Completed}
	case OutcomeIncomplete:
		d.logger.Debugf("root node %d (%s) incomplete", startNode, g.Variant(startNode))
		return TraversalReport{Result: initial, LeftInput: input, Status: IncompleteStatus, Needed: outcome.Needed}
	case OutcomeFatal:
		return d.abort(initial, input, FatalCause, outcome.Cause)
	case OutcomeDone:
		// handled below
	default:
		return d.abort(initial, input, InternalCause, internal("parser %q returned unknown outcome kind %d", g.Variant(startNode), outcome.Kind))
	}

	result := append(ResultSequence{}, initial...)
	result = append(result, outcome.Value)
	remaining := outcome.Remaining
	current := startNode
	count := 1

	d.logger.Infof("node %d (%s) matched, %d byte(s) remaining", current, g.Variant(current), len(remaining))

	if count >= d.config.MaxDepth {
		return d.abort(result, remaining, DepthExceeded, errors.Errorf("peel: traversal reached max depth %d", d.config.MaxDepth))
	}

	for {
		children := g.Children(current)

		var (
			matched     bool
			nextNode    NodeID
			nextRemain  []byte
			nextValue   ParserResult
			sawIncomple bool
			knownHint   *optionals.Optional[int64]
			anyHint     *optionals.Optional[int64]
		)

		for _, child := range children {
			d.logger.Tracef("probing child %d (%s) of node %d", child, g.Variant(child), current)

			childOutcome := g.parserAt(child).Parse(remaining, result, state)
			switch childOutcome.Kind {
			case OutcomeDone:
				nextNode = child
				nextRemain = childOutcome.Remaining
				nextValue = childOutcome.Value
				matched = true
			case OutcomeIncomplete:
				sawIncomple = true
				hint := childOutcome.Needed
				if anyHint == nil {
					anyHint = &hint
				}
				if _, known := hint.Get(); known && knownHint == nil {
					knownHint = &hint
				}
			case OutcomeMismatch:
				d.logger.Tracef("child %d (%s) mismatched at %d: %s", child, g.Variant(child), childOutcome.Position, childOutcome.MismatchKind)
			case OutcomeFatal:
				return d.abort(result, remaining, FatalCause, childOutcome.Cause)
			default:
				return d.abort(result, remaining, InternalCause, internal("parser %q returned unknown outcome kind %d", g.Variant(child), childOutcome.Kind))
			}

			if matched {
				break
			}
		}

		if matched {
			result = append(result, nextValue)
			remaining = nextRemain
			current = nextNode
			count++

			d.logger.Infof("node %d (%s) matched, %d byte(s) remaining", current, g.Variant(current), len(remaining))

			if count >= d.config.MaxDepth {
				return d.abort(result, remaining, DepthExceeded, errors.Errorf("peel: traversal reached max depth %d", d.config.MaxDepth))
			}
			continue
		}

		if sawIncomple {
			hint := anyHint
			if knownHint != nil {
				hint = knownHint
			}
			return TraversalReport{Result: result, LeftInput: remaining, Status: IncompleteStatus, Needed: *hint}
		}

		return TraversalReport{Result: result, LeftInput: remaining, Status: Completed}
	}
}

func (d *Driver[S]) resolveStart(start []NodeID) (NodeID, error) {
	g := d.graph
	if len(start) > 0 {
		if !g.valid(start[0]) {
			return 0, errors.Errorf("peel: unknown start node %d", start[0])
		}
		return start[0], nil
	}

	roots := g.Roots()
	if len(roots) == 0 {
		return 0, errors.New("peel: graph has no root (every node has an incoming edge)")
	}
	return roots[0], nil
}

func (d *Driver[S]) abort(result ResultSequence, leftInput []byte, cause AbortCause, err error) TraversalReport {
	d.logger.Errorf("traversal aborted: %s: %v", cause, err)
	return TraversalReport{
		Result:     result,
		LeftInput:  leftInput,
		Status:     Aborted,
		AbortCause: cause,
		Err:        err,
	}
}

// Traverse is a convenience wrapper that builds a one-shot Driver and calls
// Traverse on it. Prefer constructing a Driver directly when running many
// traversals against the same graph and configuration.
func Traverse[S any](g *Graph[S], input []byte, initial ResultSequence, state *S, opts ...ConfigOption) TraversalReport {
	return NewDriver(g, opts...).Traverse(input, initial, state)
}
