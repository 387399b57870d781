package resolver

import "fmt"

// ErrorKind classifies a resolver-level structural failure. These are
// distinct from the data-class anomalies (cycles, downgrades, version
// conflicts) reported in AnalyzeResult, which are not errors.
type ErrorKind int

const (
	// ErrInvalidGraph means the input graph violated a structural
	// invariant (nil root, or outer/inner pointers out of sync).
	ErrInvalidGraph ErrorKind = iota
	// ErrDidNotConverge means the fixpoint loop exhausted its patience
	// budget without every node reaching a terminal disposition. This is
	// an internal-invariant violation, not a retryable condition.
	ErrDidNotConverge
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidGraph:
		return "InvalidGraph"
	case ErrDidNotConverge:
		return "ResolverDidNotConverge"
	default:
		return "Unknown"
	}
}

// Error is the resolver's structural-failure type. Callers distinguish
// kinds with errors.As and the Kind field, rather than string matching.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func invalidGraph(format string, args ...any) error {
	return &Error{Kind: ErrInvalidGraph, Msg: fmt.Sprintf(format, args...)}
}

func didNotConverge(format string, args ...any) error {
	return &Error{Kind: ErrDidNotConverge, Msg: fmt.Sprintf(format, args...)}
}
