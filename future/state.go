package future

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

type slotKind uint8

const (
	slotEmpty slotKind = iota
	slotValue
	slotError
)

// continuation is a recorded dispatch waiting for its state to settle.
// Executor resolution (explicit argument, then the captured scheduler, then
// the package default) happens at fire time, once the scheduler is known.
type continuation struct {
	e        Executor
	dispatch func(Executor)
}

// state is the rendezvous object between one producing task and its
// consumers. All mutations are serialised by mu except the two reference
// counters, which are plain atomics; their decrement-to-zero edges reacquire
// mu before touching the slot.
//
// Firing discipline: every settle path collects its continuation batch under
// mu and dispatches it after releasing mu.
type state[T any] struct {
	mu sync.Mutex

	kind slotKind
	val  T
	err  error

	// fn is the deferred function. It is present exactly while the state is
	// pending and stays present during the run itself, so attachments made
	// from other goroutines keep seeing a valid state.
	fn      func() (T, error)
	running bool

	// scheduler is the executor the producing task was run with.
	scheduler Executor

	conts   []continuation
	errCont *continuation

	// owned states move their value to exactly one success-path reader;
	// claimed is set once that reader exists (an attached continuation, or
	// a TryGet that drained the slot).
	owned   bool
	claimed bool

	producers atomic.Int64
	consumers atomic.Int64
}

func newState[T any]() *state[T] {
	return &state[T]{}
}

func (s *state[T]) validLocked() bool {
	return s.kind != slotEmpty || s.fn != nil
}

func (s *state[T]) pendingLocked() bool {
	return s.kind == slotEmpty && s.fn != nil
}

func (s *state[T]) addConsumer() {
	s.consumers.Add(1)
}

func (s *state[T]) release() {
	s.consumers.Add(-1)
}

// tryGet reports the current outcome without blocking. A value read by the
// last consumer (or any read of an owned value) empties the slot, so the
// caller takes sole ownership of it.
func (s *state[T]) tryGet() (T, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	switch s.kind {
	case slotValue:
		if s.owned && s.claimed {
			// the value is spoken for by an attached continuation
			return zero, false, nil
		}
		v := s.val
		if s.owned || s.consumers.Load() == 1 {
			s.val = zero
			s.kind = slotEmpty
			s.claimed = true
		}
		return v, true, nil
	case slotError:
		return zero, false, s.err
	default:
		return zero, false, nil
	}
}

// consume is the settled read used by continuation thunks. It applies the
// same drain rules as tryGet but never races with one: thunks only run after
// settle, and each outstanding thunk holds a consumer reference of its own,
// so it drains the slot only when no other handle is left to read it.
func (s *state[T]) consume() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	switch s.kind {
	case slotValue:
		v := s.val
		if s.owned || s.consumers.Load() == 1 {
			s.val = zero
			s.kind = slotEmpty
		}
		return v, nil
	case slotError:
		return zero, s.err
	default:
		panic("futures: settled state read found an empty slot")
	}
}

// attach registers dispatch to run once the state settles, or hands it to
// the chosen executor immediately if the state already has. withErrSlot
// additionally claims the at-most-one error continuation slot, so the
// dispatch also fires, first, when the state fails. The producing task's
// run-once guarantee makes the double fire harmless.
func (s *state[T]) attach(e Executor, withErrSlot bool, dispatch func(Executor)) error {
	s.mu.Lock()
	if s.owned && s.claimed {
		s.mu.Unlock()
		return errors.WithStack(ErrMultipleOwnedContinuations)
	}
	if !s.validLocked() {
		s.mu.Unlock()
		panic("futures: operation on an invalid shared state")
	}

	if s.pendingLocked() {
		if withErrSlot && s.errCont != nil {
			s.mu.Unlock()
			return errors.WithStack(ErrMultipleErrorContinuations)
		}
		c := continuation{e: e, dispatch: dispatch}
		if withErrSlot {
			s.errCont = &c
		}
		if s.owned {
			s.claimed = true
		}
		s.addConsumer()
		s.conts = append(s.conts, c)
		s.mu.Unlock()
		return nil
	}

	// settled: submit directly, in attachment-call order; the actual
	// execution order is the executor's choice.
	if s.owned && s.kind == slotValue {
		s.claimed = true
	}
	s.addConsumer()
	run := s.fireLocked(continuation{e: e, dispatch: dispatch})
	s.mu.Unlock()
	run()
	return nil
}

// watch subscribes type-erased callbacks for WhenAll bookkeeping. Exactly
// one of onValue/onErr is invoked, inline in the goroutine that settles the
// state (or inline here, if it already has).
func (s *state[T]) watch(onValue func(T), onErr func(error)) error {
	var handled bool
	dispatch := func(Executor) {
		if handled {
			return
		}
		handled = true
		v, err := s.consume()
		s.release()
		if err != nil {
			onErr(err)
			return
		}
		onValue(v)
	}
	return s.attach(inlineExecutor{}, true, dispatch)
}

// inlineExecutor keeps watch dispatches out of the scheduler: bookkeeping
// continuations run in whichever goroutine settled the input.
type inlineExecutor struct{}

func (inlineExecutor) Submit(f func()) {
	f()
}

// settleLocked writes the outcome and collects the continuation batch: the
// error continuation first on failure, then the settle notifications in
// attachment order. Caller must hold mu and run the batch after unlocking.
// The first settle wins; later calls are no-ops.
func (s *state[T]) settleLocked(v T, err error) []func() {
	if s.kind != slotEmpty {
		return nil
	}
	var batch []func()
	if err != nil {
		s.kind = slotError
		s.err = err
		if s.errCont != nil {
			batch = append(batch, s.fireLocked(*s.errCont))
		}
	} else {
		s.kind = slotValue
		s.val = v
	}
	for _, c := range s.conts {
		batch = append(batch, s.fireLocked(c))
	}
	s.conts = nil
	s.errCont = nil
	return batch
}

// fireLocked resolves the chosen executor for a continuation. Caller must
// hold mu.
func (s *state[T]) fireLocked(c continuation) func() {
	ex := c.e
	if ex == nil {
		ex = s.scheduler
	}
	if ex == nil {
		ex = executor
	}
	d := c.dispatch
	return func() { d(ex) }
}

func (s *state[T]) addProducer() {
	s.producers.Add(1)
}

// removeProducer drops one producer reference. The last producer of a still
// pending state settles it to the broken-promise failure.
func (s *state[T]) removeProducer() {
	if s.producers.Add(-1) != 0 {
		return
	}
	s.mu.Lock()
	if !s.pendingLocked() || s.running {
		s.mu.Unlock()
		return
	}
	s.fn = nil
	var zero T
	batch := s.settleLocked(zero, errors.WithStack(ErrBrokenPromise))
	s.mu.Unlock()
	for _, fire := range batch {
		fire()
	}
}
