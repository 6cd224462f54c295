package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"
)

var (
	handlerMu sync.RWMutex
	handler   ErrorHandler = &LogHandler{}
)

// SetHandler installs h as the process-wide diagnostic handler and returns
// the handler it replaced. A nil h restores a plain LogHandler.
func SetHandler(h ErrorHandler) (previous ErrorHandler) {
	if h == nil {
		h = &LogHandler{}
	}
	handlerMu.Lock()
	defer handlerMu.Unlock()
	previous, handler = handler, h
	return previous
}

func getHandler() ErrorHandler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return handler
}

// Report delivers err to the installed handler.
//
// Structural rejections and identity conflicts point at a mistake in the
// calling code, so unless err already carries one they get the caller's
// stack attached. Handlers print it in verbose mode.
func Report(err *BindError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	if err.StackTrace == "" && (err.Kind == KindStructure || err.Kind == KindDuplicate) {
		err.StackTrace = stack(3)
	}
	getHandler().HandleError(err)
}

// ReportPanic delivers a recovered panic to the installed handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	getHandler().HandlePanic(err)
}

// Recover reports a panic in the calling function instead of letting it
// unwind further. Closures run from toolkit callbacks are wrapped with it:
//
//	defer errors.Recover("signals.dispatch clicked")
func Recover(op string) {
	if r := recover(); r != nil {
		ReportPanic(&PanicError{
			Op:         op,
			Value:      r,
			StackTrace: stack(3),
			Timestamp:  time.Now(),
		})
	}
}

// CaptureStack returns the stack of its caller, one function per entry.
func CaptureStack() string {
	return stack(3)
}

// stack formats the goroutine's stack starting skip frames above
// runtime.Callers.
func stack(skip int) string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(skip, pcs[:])
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		if !more {
			break
		}
	}
	return sb.String()
}
