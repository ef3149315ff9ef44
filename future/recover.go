package future

import (
	"fmt"
	"runtime"

	"github.com/pkg/errors"
)

// Recovered holds a recovered panic value together with the callers of the
// panicking frame.
type Recovered struct {
	Value   interface{}
	Callers []uintptr
}

func newRecovered(skip int, value interface{}) *Recovered {
	var callers [32]uintptr
	n := runtime.Callers(skip+1, callers[:])
	return &Recovered{
		Value:   value,
		Callers: callers[:n],
	}
}

func (p *Recovered) AsError() error {
	if p == nil {
		return nil
	}
	return &RecoveredError{p}
}

// RecoveredError is the error form of a Recovered panic. It unwraps to
// ErrPanic and exposes the captured frames as an errors.StackTrace.
type RecoveredError struct {
	*Recovered
}

func (e *RecoveredError) Error() string {
	return fmt.Sprintf("%s: %v", ErrPanic.Error(), e.Value)
}

func (e *RecoveredError) Unwrap() error {
	return ErrPanic
}

func (e *RecoveredError) StackTrace() errors.StackTrace {
	if e == nil {
		return nil
	}
	frames := make([]errors.Frame, len(e.Callers))
	for i, pc := range e.Callers {
		frames[i] = errors.Frame(pc)
	}
	return frames
}

// runProtected evaluates fn, converting a panic into a RecoveredError.
func runProtected[T any](fn func() (T, error)) (val T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newRecovered(2, r).AsError()
		}
	}()
	return fn()
}
