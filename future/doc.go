// Package future provides composable deferred computations with
// user-supplied executors for work placement.
//
// A call to Package splits one deferred function into a producer half
// (Task) and a consumer half (Future) sharing a single internal state.
// Running the task settles the shared state with a value or an error;
// consumers poll it with TryGet or attach continuations with Then and
// OnError, which produce derived futures of their own. WhenAll joins
// many futures of mixed value types into one.
//
// Inspired by https://github.com/jizhuozhi/go-future
package future
