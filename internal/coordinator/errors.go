package coordinator

import "fmt"

// ErrorKind enumerates the coordinator-level failure categories of
// spec.md §7, distinct from *ir.CompileError (compile time) and
// *engine.RuntimeError (tick time).
type ErrorKind string

const (
	// ErrNotLoaded means the coordinator has no compiled program.
	ErrNotLoaded ErrorKind = "not_loaded"
	// ErrInvalidArgument means a caller-supplied argument failed basic
	// validation (e.g. an empty provider id).
	ErrInvalidArgument ErrorKind = "invalid_argument"
	// ErrUnknownSession means a session id does not name a registered
	// session.
	ErrUnknownSession ErrorKind = "unknown_session"
	// ErrUnknownSignal means a signal path was never interned by the
	// loaded program.
	ErrUnknownSignal ErrorKind = "unknown_signal"
	// ErrAlreadyExists means RegisterProvider was called with a provider
	// id already held by a live session.
	ErrAlreadyExists ErrorKind = "already_exists"
	// ErrOwnershipConflict means a requested device id is already owned
	// by another live session.
	ErrOwnershipConflict ErrorKind = "ownership_conflict"
	// ErrPermissionDenied means a write targeted a protected signal: an
	// edge target or model output that external providers may not write.
	ErrPermissionDenied ErrorKind = "permission_denied"
)

// Error is the typed error every coordinator operation returns, matching
// the Kind/Message/context shape used throughout by *ir.CompileError and
// *engine.RuntimeError.
type Error struct {
	Kind    ErrorKind
	Message string

	// Path identifies the signal path, provider id, or session id the
	// error is about, when applicable.
	Path string
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func errNotLoaded() *Error {
	return &Error{Kind: ErrNotLoaded, Message: "coordinator has no program loaded"}
}

func errInvalidArgument(path, message string) *Error {
	return &Error{Kind: ErrInvalidArgument, Path: path, Message: message}
}

func errUnknownSession(sessionID string) *Error {
	return &Error{Kind: ErrUnknownSession, Path: sessionID, Message: "unknown session id"}
}

func errUnknownSignal(path string) *Error {
	return &Error{Kind: ErrUnknownSignal, Path: path, Message: "unknown signal path"}
}

func errAlreadyExists(providerID string) *Error {
	return &Error{Kind: ErrAlreadyExists, Path: providerID, Message: "provider already registered"}
}

func errOwnershipConflict(deviceID string) *Error {
	return &Error{Kind: ErrOwnershipConflict, Path: deviceID, Message: "device already owned by another session"}
}

func errPermissionDenied(path string) *Error {
	return &Error{Kind: ErrPermissionDenied, Path: path, Message: "signal is protected against external writes"}
}
