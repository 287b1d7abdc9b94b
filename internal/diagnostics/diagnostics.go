// Package diagnostics provides structured, stable-coded errors shared by
// every component of the matching core. It follows the teacher's
// diagnostics.DiagnosticError/ErrXNNN convention: a closed set of string
// codes, a single error type, and constructors that never panic.
package diagnostics

import "fmt"

// Code identifies the class of a Diagnostic. Codes are stable and may be
// matched on by callers; the message text is not.
type Code string

const (
	// Structural errors: malformed expressions and axiom registration
	// conflicts. Reported immediately, never deferred.
	ErrStructNullChild          Code = "D-STRUCT-001"
	ErrStructEmptyRepetition    Code = "D-STRUCT-002"
	ErrStructDuplicatePatternID Code = "D-STRUCT-003"
	ErrStructLatticeCycle       Code = "D-STRUCT-004"
	ErrStructTypeConflict       Code = "D-STRUCT-005"
	ErrStructBadCardinality     Code = "D-STRUCT-006"

	// Programmer misuse: calling an API on an empty/nil expression, or
	// otherwise violating a documented precondition.
	ErrMisuseEmptyExpression Code = "D-MISUSE-001"
	ErrMisuseNilNamespace    Code = "D-MISUSE-002"

	// Divergence: canonicalize failed to reach a fixpoint within a
	// caller-supplied bound. Never raised by the unbounded Canonicalize.
	ErrDivergeNoFixpoint Code = "D-DIVERGE-001"
)

// Location is an optional source position. The core never populates it
// (the parser boundary is out of scope); callers that retain parser
// positions on Expression metadata may attach one when wrapping errors.
type Location struct {
	File   string
	Line   int
	Column int
}

// Diagnostic is the sole error type produced by this module. It carries a
// stable Code plus a human-readable Message and satisfies the error
// interface.
type Diagnostic struct {
	Code     Code
	Message  string
	Location *Location
}

func (d *Diagnostic) Error() string {
	if d.Location != nil {
		return fmt.Sprintf("%s: %s (%s:%d:%d)", d.Code, d.Message, d.Location.File, d.Location.Line, d.Location.Column)
	}
	return fmt.Sprintf("%s: %s", d.Code, d.Message)
}

// New builds a Diagnostic with no location, formatting Message the way
// fmt.Sprintf does.
func New(code Code, format string, args ...any) *Diagnostic {
	return &Diagnostic{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NewAt builds a Diagnostic with an attached source location.
func NewAt(code Code, loc *Location, format string, args ...any) *Diagnostic {
	return &Diagnostic{Code: code, Message: fmt.Sprintf(format, args...), Location: loc}
}

// Is reports whether err is a *Diagnostic with the given code, without
// requiring callers to import errors.As at every call site.
func Is(err error, code Code) bool {
	d, ok := err.(*Diagnostic)
	return ok && d.Code == code
}
