package solver

import "fmt"

// ErrorKind classifies why a solve failed — callers branch on Kind,
// not on string matching.
type ErrorKind int

const (
	// ErrorKindInvalidInput means the problem itself is malformed in a
	// way Validate would have caught (structurally impossible, not just
	// hard to satisfy).
	ErrorKindInvalidInput ErrorKind = iota
	// ErrorKindInfeasible means preprocessing or search proved no
	// solution exists.
	ErrorKindInfeasible
	// ErrorKindTimeout means the time budget elapsed before search
	// could prove feasibility or infeasibility.
	ErrorKindTimeout
	// ErrorKindGenerationExhausted means a generator's retry budget ran
	// out without hitting its target (k-targeting, difficulty binning).
	ErrorKindGenerationExhausted
	// ErrorKindInternalInvariantViolation means the engine detected its
	// own state was inconsistent — a bug, not a property of the input.
	ErrorKindInternalInvariantViolation
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindInvalidInput:
		return "invalid_input"
	case ErrorKindInfeasible:
		return "infeasible"
	case ErrorKindTimeout:
		return "timeout"
	case ErrorKindGenerationExhausted:
		return "generation_exhausted"
	case ErrorKindInternalInvariantViolation:
		return "internal_invariant_violation"
	default:
		return "unknown"
	}
}

// Error wraps a solver failure with its classification. Errors.Is
// matches against the Kind, not pointer identity, so callers can do
// errors.Is(err, solver.Error{Kind: solver.ErrorKindTimeout}).
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e Error) Is(target error) bool {
	other, ok := target.(Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

func newError(kind ErrorKind, format string, args ...any) Error {
	return Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
