package future

import "errors"

var (
	// ErrBrokenPromise reports that every producer of a pending future was
	// released before its deferred function ran.
	ErrBrokenPromise = errors.New("broken promise")

	// ErrMultipleOwnedContinuations reports an attempt to attach a second
	// continuation to a future that owns its value. An owned value is moved
	// to exactly one reader; see PackageOwned.
	ErrMultipleOwnedContinuations = errors.New("multiple continuations attached to a future owning its value")

	// ErrMultipleErrorContinuations reports an attempt to attach a second
	// error continuation to a pending future.
	ErrMultipleErrorContinuations = errors.New("multiple error continuations attached to a future")

	// ErrPanic marks errors recovered from a panicking deferred function.
	ErrPanic = errors.New("async panic")
)
