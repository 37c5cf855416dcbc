package store

import (
	"fmt"

	"github.com/fluxgraph/fluxgraph/internal/ir"
)

// UnitMismatchError is returned by Write when a signal already has a
// declared unit and the write's unit differs from it.
type UnitMismatchError struct {
	Signal   ir.SignalId
	Declared string
	Got      string
}

func (e *UnitMismatchError) Error() string {
	return fmt.Sprintf("unit mismatch on signal %d: declared %q, got %q", e.Signal, e.Declared, e.Got)
}
