package widgets

import (
	"errors"
	"fmt"

	binderrors "github.com/go-drift/gbind/pkg/errors"
)

// Structural errors. They are reported through the errors package and
// returned; the rejected operation leaves all state unchanged.
var (
	ErrHasParent        = errors.New("widget already has a parent")
	ErrSingleChild      = errors.New("container can only contain one widget at a time")
	ErrNotChild         = errors.New("widget is not a child of this container")
	ErrDestroyed        = errors.New("widget has been destroyed")
	ErrCycle            = errors.New("widget cannot contain itself or an ancestor")
	ErrNilWidget        = errors.New("nil widget")
	ErrWrongType        = errors.New("handle resolved to an unexpected wrapper type")
	ErrDuplicateTag     = errors.New("type tag already registered")
	ErrUnknownParentTag = errors.New("parent type tag not registered")
)

func structureError(op string, c Widget, err error) error {
	e := &binderrors.BindError{
		Op:   op,
		Kind: binderrors.KindStructure,
		Err:  err,
	}
	if c != nil {
		e.Handle = uintptr(c.Handle())
		e.Tag = c.TypeTag()
	}
	binderrors.Report(e)
	return e
}

func nativeError(op string, w Widget, err error) error {
	e := &binderrors.BindError{
		Op:   op,
		Kind: binderrors.KindNative,
		Err:  err,
	}
	if w != nil {
		e.Handle = uintptr(w.Handle())
		e.Tag = w.TypeTag()
	}
	binderrors.Report(e)
	return e
}

func wrongType(want string, got Widget) error {
	return fmt.Errorf("%w: want %s, got %T", ErrWrongType, want, got)
}
