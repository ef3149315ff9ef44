package future

import (
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"
)

// ExceptionPolicy selects how WhenAll treats failing inputs.
type ExceptionPolicy int

const (
	// Aggregate waits for every input and collects all failures into one
	// *multierror.Error.
	Aggregate ExceptionPolicy = iota

	// AbortOnFirstFailure completes the joined future immediately with the
	// first failure; later results and errors are discarded.
	AbortOnFirstFailure
)

type whenAllState struct {
	mu       sync.Mutex
	slots    []any
	resolved []bool
	errs     *multierror.Error
	abortErr error

	remaining atomic.Int64
	task      *Task[[]any]
}

func (w *whenAllState) arrive() {
	if w.remaining.Add(-1) == 0 {
		w.task.Run(nil)
	}
}

func (w *whenAllState) fail(policy ExceptionPolicy, err error) {
	switch policy {
	case AbortOnFirstFailure:
		w.mu.Lock()
		first := w.abortErr == nil
		if first {
			w.abortErr = err
		}
		w.mu.Unlock()
		if first {
			w.task.Run(nil)
		}
		w.arrive()
	default:
		w.mu.Lock()
		w.errs = multierror.Append(w.errs, err)
		w.mu.Unlock()
		w.arrive()
	}
}

// WhenAll joins futures of possibly mixed value types into one future of
// their values, in input order, with Unit values elided.
//
// Bookkeeping continuations run inline in whichever goroutine settles each
// input; only the joined future's own continuations go through executors.
// With no inputs, WhenAll returns a ready future of an empty result.
//
// Joining an input whose state cannot accept the subscription (a second
// continuation on an owned value, or an occupied failure slot) records that
// attachment error as the input's failure under the chosen policy.
func WhenAll(policy ExceptionPolicy, futures ...Awaitable) *Future[[]any] {
	if len(futures) == 0 {
		return MakeReadyFuture([]any{})
	}

	w := &whenAllState{
		slots:    make([]any, len(futures)),
		resolved: make([]bool, len(futures)),
	}
	w.remaining.Store(int64(len(futures)))

	task, fut := Package(func() ([]any, error) {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.abortErr != nil {
			return nil, w.abortErr
		}
		if err := w.errs.ErrorOrNil(); err != nil {
			return nil, err
		}
		out := make([]any, 0, len(w.slots))
		for i, v := range w.slots {
			if !w.resolved[i] {
				continue
			}
			if _, isUnit := v.(Unit); isUnit {
				continue
			}
			out = append(out, v)
		}
		return out, nil
	})
	w.task = task

	for i, f := range futures {
		i := i
		err := f.watch(func(v any) {
			w.mu.Lock()
			w.slots[i] = v
			w.resolved[i] = true
			w.mu.Unlock()
			w.arrive()
		}, func(err error) {
			w.fail(policy, err)
		})
		if err != nil {
			w.fail(policy, err)
		}
	}
	return fut
}
