// Package native defines the boundary between the binding layer and the
// native widget toolkit.
//
// The toolkit owns every widget object. Go code only borrows opaque handles
// and talks to the toolkit through the Toolkit interface: create, query the
// type tag, list children, add/remove, connect signals and destroy. Native
// signal emissions come back into Go through a Trampoline carrying the
// origin handle and the emission's primitive arguments.
package native

import (
	"errors"
	"fmt"
)

// Handle is an opaque reference to a toolkit-owned object.
// Identity is handle equality.
type Handle uintptr

// NullHandle is the absent handle.
const NullHandle Handle = 0

// IsNull reports whether h is the absent handle.
func (h Handle) IsNull() bool {
	return h == NullHandle
}

func (h Handle) String() string {
	if h == NullHandle {
		return "<null>"
	}
	return fmt.Sprintf("%#x", uintptr(h))
}

// Trampoline receives a native signal emission. origin is the object that
// emitted the signal; args holds the emission's arguments after the instance
// argument, in declaration order.
type Trampoline func(origin Handle, signal string, args Args)

// Toolkit is the set of native calls the binding layer makes.
//
// All methods are called from the toolkit's UI thread.
type Toolkit interface {
	// New creates a native object of the given type tag.
	New(tag string) (Handle, error)

	// TypeTag returns the concrete type tag of h, or "" if h is unknown.
	TypeTag(h Handle) string

	// IsA reports whether h is an instance of tag or one of its subtypes.
	IsA(h Handle, tag string) bool

	// Parent returns the native parent of h, or NullHandle.
	Parent(h Handle) Handle

	// Children returns the application-visible children of container h in
	// native order.
	Children(h Handle) []Handle

	// AllChildren returns every child of container h in native order,
	// including internal children the toolkit created for its own use.
	AllChildren(h Handle) []Handle

	// Add attaches child to container.
	Add(container, child Handle) error

	// Remove detaches child from container.
	Remove(container, child Handle) error

	// Destroy destroys h. The toolkit emits "destroy" on h before it is freed.
	Destroy(h Handle) error

	// Connect routes emissions of signal on h to t.
	Connect(h Handle, signal string, t Trampoline) error

	// Emit asks the toolkit to emit signal on h.
	Emit(h Handle, signal string, args ...any) error

	// Property reads a property of h.
	Property(h Handle, name string) (any, error)

	// SetProperty writes a property of h.
	SetProperty(h Handle, name string, value any) error
}

// Sentinel errors for native calls.
var (
	// ErrNullHandle is returned when an operation requires a handle but got NullHandle.
	ErrNullHandle = errors.New("native: null handle")

	// ErrUnknownHandle is returned for handles the toolkit does not know.
	ErrUnknownHandle = errors.New("native: unknown handle")

	// ErrUnknownType is returned by New for type tags the toolkit cannot create.
	ErrUnknownType = errors.New("native: unknown type tag")

	// ErrNotContainer is returned when a child operation targets a non-container.
	ErrNotContainer = errors.New("native: not a container")

	// ErrUnknownProperty is returned for properties the object does not have.
	ErrUnknownProperty = errors.New("native: unknown property")
)
