package future

// Unit is the value type of futures that carry no payload. WhenAll elides
// Unit values from its result.
type Unit struct{}

// Package wraps a deferred function into a producer/consumer pair backed by
// one shared state. The caller typically hands the task to a worker and
// keeps the future.
func Package[T any](fn func() (T, error)) (*Task[T], *Future[T]) {
	s := newState[T]()
	s.fn = fn
	return newTask(s), newFuture(s)
}

// PackageOwned is Package for values that must not be duplicated: the
// resulting state moves its value to exactly one success-path reader. A
// second continuation attachment fails with ErrMultipleOwnedContinuations,
// and every read drains the slot.
func PackageOwned[T any](fn func() (T, error)) (*Task[T], *Future[T]) {
	s := newState[T]()
	s.owned = true
	s.fn = fn
	return newTask(s), newFuture(s)
}

// PackageUnit wraps a deferred function with no result.
func PackageUnit(fn func() error) (*Task[Unit], *Future[Unit]) {
	return Package(func() (Unit, error) {
		return Unit{}, fn()
	})
}

// MakeReadyFuture synthesises a future already settled to v, with no
// producer task behind it.
func MakeReadyFuture[T any](v T) *Future[T] {
	s := newState[T]()
	s.kind = slotValue
	s.val = v
	return newFuture(s)
}

// MakeReadyUnitFuture synthesises a ready future with no payload.
func MakeReadyUnitFuture() *Future[Unit] {
	return MakeReadyFuture(Unit{})
}

// MakeFailedFuture synthesises a future already settled to err.
func MakeFailedFuture[T any](err error) *Future[T] {
	s := newState[T]()
	s.kind = slotError
	s.err = err
	return newFuture(s)
}

// Then attaches a continuation to f's success path, using the chosen
// executor rule with no explicit executor: the state's captured scheduler
// if any, the package default otherwise.
func Then[T, R any](f *Future[T], fn func(T) (R, error)) *Future[R] {
	return ThenOn(f, nil, fn)
}

// ThenOn attaches fn to f's success path and returns the future of fn's
// result. If f settles with a value, fn runs on the chosen executor; if f
// settles with a failure, fn is not invoked and the derived future adopts
// the failure unchanged.
//
// An attachment that the underlying state cannot accept (a second
// continuation on an owned value) yields a derived future already settled
// with ErrMultipleOwnedContinuations.
func ThenOn[T, R any](f *Future[T], e Executor, fn func(T) (R, error)) *Future[R] {
	s := f.st()
	task, fut := Package(func() (R, error) {
		v, err := s.consume()
		s.release()
		if err != nil {
			var zero R
			return zero, err
		}
		return fn(v)
	})
	if err := s.attach(e, false, func(ex Executor) {
		ex.Submit(func() { task.Run(ex) })
	}); err != nil {
		fut.Release()
		task.Release()
		return MakeFailedFuture[R](err)
	}
	return fut
}

// OnError attaches a failure handler with no explicit executor; see
// OnErrorOn.
func OnError[T any](f *Future[T], h func(error) (T, error)) *Future[T] {
	return OnErrorOn(f, nil, h)
}

// OnErrorOn attaches h to f's failure path. If f settles with a failure, h
// runs on the chosen executor and its result settles the derived future; if
// f settles with a value, h is not invoked and the derived future adopts
// the value unchanged.
//
// At most one failure handler may wait on a pending state; a second
// attachment yields a derived future already settled with
// ErrMultipleErrorContinuations.
func OnErrorOn[T any](f *Future[T], e Executor, h func(error) (T, error)) *Future[T] {
	s := f.st()
	task, fut := Package(func() (T, error) {
		v, err := s.consume()
		s.release()
		if err != nil {
			return h(err)
		}
		return v, nil
	})
	if err := s.attach(e, true, func(ex Executor) {
		ex.Submit(func() { task.Run(ex) })
	}); err != nil {
		fut.Release()
		task.Release()
		return MakeFailedFuture[T](err)
	}
	return fut
}

// Fmap applies fn to f's eventual value. It is Then under its functor name.
func Fmap[T, R any](f *Future[T], fn func(T) (R, error)) *Future[R] {
	return Then(f, fn)
}
