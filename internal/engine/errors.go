package engine

import (
	"errors"
	"fmt"
)

// RuntimeErrorCode categorizes a tick-time failure, distinct from a
// *ir.CompileError: these happen after a program has already compiled
// successfully.
type RuntimeErrorCode string

const (
	// ErrCodeNotLoaded means Tick was called before Load.
	ErrCodeNotLoaded RuntimeErrorCode = "NOT_LOADED"
	// ErrCodeInvalidDt means Tick was called with dt <= 0.
	ErrCodeInvalidDt RuntimeErrorCode = "INVALID_DT"
	// ErrCodeStabilityViolation means dt exceeds a model's stability limit
	// at tick time, mirroring the compiler's stability check but evaluated
	// against the dt actually passed to Tick rather than the coordinator's
	// declared expected_dt.
	ErrCodeStabilityViolation RuntimeErrorCode = "STABILITY_VIOLATION"
)

// RuntimeError is the typed error every Engine.Tick failure returns,
// grounded on the teacher's engine.RuntimeError shape (a Code enum, a human
// message, and structured context) rather than an ad hoc formatted string.
type RuntimeError struct {
	Code    RuntimeErrorCode
	Message string

	// ModelDescription and Dt/Limit are populated only for
	// ErrCodeStabilityViolation.
	ModelDescription string
	Dt               float64
	Limit            float64
}

func (e *RuntimeError) Error() string {
	if e.ModelDescription != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.ModelDescription)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsStabilityViolation reports whether err is a RuntimeError raised by the
// tick-time stability guard.
func IsStabilityViolation(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeStabilityViolation
	}
	return false
}

func errNotLoaded() *RuntimeError {
	return &RuntimeError{Code: ErrCodeNotLoaded, Message: "engine has no program loaded"}
}

func errInvalidDt(dt float64) *RuntimeError {
	return &RuntimeError{Code: ErrCodeInvalidDt, Message: fmt.Sprintf("dt must be positive, got %g", dt)}
}

func errStabilityViolation(description string, dt, limit float64) *RuntimeError {
	return &RuntimeError{
		Code:             ErrCodeStabilityViolation,
		Message:          fmt.Sprintf("dt %g exceeds stability limit %g", dt, limit),
		ModelDescription: description,
		Dt:               dt,
		Limit:            limit,
	}
}
