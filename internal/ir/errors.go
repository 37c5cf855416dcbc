package ir

import "fmt"

// CompileErrorKind enumerates the hard-failure categories the compiler can
// raise, per spec.md §7. Each carries structured context instead of a
// pre-formatted message so callers (CLI, tests) can branch on Kind via
// errors.As without string matching.
type CompileErrorKind string

const (
	// ErrUnknownKind means a TransformSpec or ModelSpec named a kind the
	// factory does not recognize.
	ErrUnknownKind CompileErrorKind = "unknown_kind"
	// ErrMissingParam means a required parameter was absent from a spec.
	ErrMissingParam CompileErrorKind = "missing_param"
	// ErrTypeError means a parameter or rule-action argument had the wrong
	// Variant type for its role.
	ErrTypeError CompileErrorKind = "type_error"
	// ErrInvalidCondition means a rule's condition string failed to parse
	// against the `<path> <op> <number>` grammar.
	ErrInvalidCondition CompileErrorKind = "invalid_condition"
	// ErrMultipleWriters means more than one edge or model targets the same
	// signal.
	ErrMultipleWriters CompileErrorKind = "multiple_writers"
	// ErrAlgebraicLoop means the non-delay subgraph contains a cycle.
	ErrAlgebraicLoop CompileErrorKind = "algebraic_loop"
	// ErrStabilityViolation means a model's declared dt exceeds its own
	// compute_stability_limit().
	ErrStabilityViolation CompileErrorKind = "stability_violation"
)

// CompileError is the typed error every compiler failure returns, satisfying
// error and unwrappable via errors.As. The shape (Kind enum, human Message,
// structured context fields) is grounded on the teacher's
// compiler.ValidationError / engine.RuntimeError pattern rather than baking
// pre-formatted strings into the type.
type CompileError struct {
	Kind    CompileErrorKind
	Message string

	// Path identifies the signal path, model name, or rule id the error is
	// about, when applicable.
	Path string
	// Cycle is the ordered list of signal paths forming an algebraic loop,
	// populated only when Kind == ErrAlgebraicLoop.
	Cycle []string
	// Expected/Got describe a type mismatch, populated only when
	// Kind == ErrTypeError.
	Expected string
	Got      string
	// Limit is the violated stability limit, populated only when
	// Kind == ErrStabilityViolation.
	Limit float64
	Dt    float64
}

func (e *CompileError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewCompileError builds a CompileError with just a kind, message, and path,
// the common case for unknown-kind/missing-param/multiple-writers/invalid-
// condition failures.
func NewCompileError(kind CompileErrorKind, path, message string) *CompileError {
	return &CompileError{Kind: kind, Path: path, Message: message}
}

// NewAlgebraicLoopError builds the CompileError raised when the compiler's
// cycle detector finds a cycle in the non-delay subgraph.
func NewAlgebraicLoopError(cycle []string) *CompileError {
	return &CompileError{
		Kind:    ErrAlgebraicLoop,
		Message: "algebraic loop detected",
		Cycle:   cycle,
	}
}

// NewTypeError builds the CompileError raised when a parameter or argument
// has the wrong Variant type for its role.
func NewTypeError(path, expected, got string) *CompileError {
	return &CompileError{
		Kind:     ErrTypeError,
		Path:     path,
		Message:  fmt.Sprintf("expected %s, got %s", expected, got),
		Expected: expected,
		Got:      got,
	}
}

// NewStabilityViolationError builds the CompileError raised when a model's
// declared dt exceeds its own compute_stability_limit().
func NewStabilityViolationError(path string, dt, limit float64) *CompileError {
	return &CompileError{
		Kind:    ErrStabilityViolation,
		Path:    path,
		Message: fmt.Sprintf("dt %g exceeds stability limit %g", dt, limit),
		Dt:      dt,
		Limit:   limit,
	}
}

// IsAlgebraicLoop reports whether err is a CompileError of kind
// ErrAlgebraicLoop.
func IsAlgebraicLoop(err error) bool {
	ce, ok := err.(*CompileError)
	return ok && ce.Kind == ErrAlgebraicLoop
}
