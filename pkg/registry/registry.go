// Package registry maps native handles to their wrapper objects.
//
// A Registry enforces at most one wrapper per native handle. It is the single
// source of truth used by the type-dispatch resolver and by signal
// trampolines to find the wrapper behind a native handle.
//
// Registries are not safe for concurrent use. Every call happens on the
// toolkit's UI thread, which never re-enters binding code concurrently.
package registry

import (
	"errors"
	"fmt"
	"slices"

	binderrors "github.com/go-drift/gbind/pkg/errors"
	"github.com/go-drift/gbind/pkg/native"
)

// Object is a wrapper over exactly one native handle.
type Object interface {
	Handle() native.Handle
}

// ErrDuplicate describes a second wrapper claiming a registered handle.
var ErrDuplicate = errors.New("handle already registered to a different wrapper")

// Registry is an identity map from native handle to wrapper.
type Registry struct {
	objects map[native.Handle]Object
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{objects: make(map[native.Handle]Object)}
}

var defaultRegistry *Registry

// Default returns the process-wide registry, creating it on first use.
// Application roots inject their own registry; Default serves callers that
// wrap handles outside any application scope.
func Default() *Registry {
	if defaultRegistry == nil {
		defaultRegistry = New()
	}
	return defaultRegistry
}

// Register associates obj with its handle and returns the canonical wrapper.
//
// If the handle is already registered to a different wrapper, the conflict
// is reported and the first-registered wrapper is returned; obj is discarded.
// A null handle is reported and obj is returned without being registered.
func (r *Registry) Register(obj Object) Object {
	h := obj.Handle()
	if h.IsNull() {
		binderrors.Report(&binderrors.BindError{
			Op:   "registry.Register",
			Kind: binderrors.KindNullHandle,
			Err:  native.ErrNullHandle,
		})
		return obj
	}
	if existing, ok := r.objects[h]; ok {
		if existing != obj {
			binderrors.Report(&binderrors.BindError{
				Op:     "registry.Register",
				Kind:   binderrors.KindDuplicate,
				Handle: uintptr(h),
				Err:    fmt.Errorf("%w: keeping %T, discarding %T", ErrDuplicate, existing, obj),
			})
		}
		return existing
	}
	r.objects[h] = obj
	return obj
}

// Lookup returns the wrapper registered for h.
func (r *Registry) Lookup(h native.Handle) (Object, bool) {
	obj, ok := r.objects[h]
	return obj, ok
}

// Unregister removes the mapping for h. Unknown handles are ignored.
func (r *Registry) Unregister(h native.Handle) {
	delete(r.objects, h)
}

// Len returns the number of registered wrappers.
func (r *Registry) Len() int {
	return len(r.objects)
}

// Handles returns the registered handles in ascending order.
func (r *Registry) Handles() []native.Handle {
	hs := make([]native.Handle, 0, len(r.objects))
	for h := range r.objects {
		hs = append(hs, h)
	}
	slices.Sort(hs)
	return hs
}

// LookupAs returns the wrapper registered for h if it has type T.
func LookupAs[T Object](r *Registry, h native.Handle) (T, bool) {
	obj, ok := r.objects[h]
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := obj.(T)
	return t, ok
}
