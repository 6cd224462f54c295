package errors

import "sync"

// Recorder is an ErrorHandler that keeps every report in memory.
type Recorder struct {
	mu     sync.Mutex
	errors []*BindError
	panics []*PanicError
}

// HandleError records err.
func (r *Recorder) HandleError(err *BindError) {
	r.mu.Lock()
	r.errors = append(r.errors, err)
	r.mu.Unlock()
}

// HandlePanic records err.
func (r *Recorder) HandlePanic(err *PanicError) {
	r.mu.Lock()
	r.panics = append(r.panics, err)
	r.mu.Unlock()
}

// Errors returns a copy of the recorded errors.
func (r *Recorder) Errors() []*BindError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*BindError(nil), r.errors...)
}

// Panics returns a copy of the recorded panics.
func (r *Recorder) Panics() []*PanicError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*PanicError(nil), r.panics...)
}

// Kinds returns the kinds of the recorded errors in report order.
func (r *Recorder) Kinds() []ErrorKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]ErrorKind, len(r.errors))
	for i, e := range r.errors {
		kinds[i] = e.Kind
	}
	return kinds
}

// CaptureForTest installs a Recorder as the global handler and restores the
// previous handler on cleanup.
//
//	rec := errors.CaptureForTest(t)
func CaptureForTest(tb interface{ Cleanup(func()) }) *Recorder {
	rec := &Recorder{}
	old := SetHandler(rec)
	tb.Cleanup(func() { SetHandler(old) })
	return rec
}
