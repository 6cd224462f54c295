// Package errors provides structured diagnostics for the binding layer.
//
// Nothing in the binding core is fatal: duplicate identities, unknown type
// tags and invalid structural operations are recovered locally and reported
// here so the UI keeps running.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindNative indicates a failed call into the native toolkit.
	KindNative
	// KindDuplicate indicates two wrappers claimed the same native handle.
	KindDuplicate
	// KindUnknownType indicates a type tag with no dispatch entry.
	KindUnknownType
	// KindStructure indicates a rejected structural operation (reparenting,
	// second child in a single-child container, removing a non-child).
	KindStructure
	// KindNullHandle indicates an absent native handle where one was required.
	KindNullHandle
	// KindSignal indicates a signal emission that could not be dispatched.
	KindSignal
	// KindConfig indicates an invalid configuration value.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindNative:
		return "native"
	case KindDuplicate:
		return "duplicate"
	case KindUnknownType:
		return "unknown-type"
	case KindStructure:
		return "structure"
	case KindNullHandle:
		return "null-handle"
	case KindSignal:
		return "signal"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// BindError represents a structured error in the binding layer.
type BindError struct {
	// Op is the operation that failed (e.g., "registry.Register").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Handle is the native handle involved, if any.
	Handle uintptr
	// Tag is the native type tag involved, if any.
	Tag string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *BindError) Error() string {
	switch {
	case e.Handle != 0 && e.Tag != "":
		return fmt.Sprintf("%s [%s] handle=%#x tag=%s: %v", e.Op, e.Kind, e.Handle, e.Tag, e.Err)
	case e.Handle != 0:
		return fmt.Sprintf("%s [%s] handle=%#x: %v", e.Op, e.Kind, e.Handle, e.Err)
	case e.Tag != "":
		return fmt.Sprintf("%s [%s] tag=%s: %v", e.Op, e.Kind, e.Tag, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "signals.dispatch").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by the binding layer.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *BindError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
