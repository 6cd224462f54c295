package widgets

import (
	"fmt"

	"github.com/go-drift/gbind/pkg/errors"
	"github.com/go-drift/gbind/pkg/native"
	"github.com/go-drift/gbind/pkg/registry"
	"github.com/go-drift/gbind/pkg/signals"
)

// Resolver turns native handles into registered wrappers.
type Resolver struct {
	tk     native.Toolkit
	reg    *registry.Registry
	bridge *signals.Bridge
	table  *DispatchTable
}

// NewResolver returns a resolver over tk. A nil reg, bridge or table is
// replaced by a fresh registry, a bridge over that registry and
// DefaultTable respectively.
func NewResolver(tk native.Toolkit, reg *registry.Registry, bridge *signals.Bridge, table *DispatchTable) *Resolver {
	if reg == nil {
		reg = registry.New()
	}
	if bridge == nil {
		bridge = signals.NewBridge(tk, reg)
	}
	if table == nil {
		table = DefaultTable()
	}
	return &Resolver{tk: tk, reg: reg, bridge: bridge, table: table}
}

// Toolkit returns the native toolkit.
func (r *Resolver) Toolkit() native.Toolkit { return r.tk }

// Registry returns the handle registry.
func (r *Resolver) Registry() *registry.Registry { return r.reg }

// Bridge returns the signal bridge.
func (r *Resolver) Bridge() *signals.Bridge { return r.bridge }

// Table returns the dispatch table.
func (r *Resolver) Table() *DispatchTable { return r.table }

// Resolve returns the wrapper for h, building and registering it on first
// sight. Containers built here are synchronized with their native children.
// The null handle, and handles the toolkit does not know, resolve to nil.
func (r *Resolver) Resolve(h native.Handle) Widget {
	return r.resolve(h, true)
}

// Lookup returns the registered wrapper for h without building one.
func (r *Resolver) Lookup(h native.Handle) Widget {
	obj, ok := r.reg.Lookup(h)
	if !ok {
		return nil
	}
	w, _ := obj.(Widget)
	return w
}

func (r *Resolver) resolve(h native.Handle, syncChildren bool) Widget {
	if h.IsNull() {
		return nil
	}
	if obj, ok := r.reg.Lookup(h); ok {
		w, ok := obj.(Widget)
		if !ok {
			errors.Report(&errors.BindError{
				Op:     "widgets.Resolve",
				Kind:   errors.KindDuplicate,
				Handle: uintptr(h),
				Err:    fmt.Errorf("handle is registered to non-widget %T", obj),
			})
			return nil
		}
		return w
	}

	tag := r.tk.TypeTag(h)
	if tag == "" {
		errors.Report(&errors.BindError{
			Op:     "widgets.Resolve",
			Kind:   errors.KindNative,
			Handle: uintptr(h),
			Err:    native.ErrUnknownHandle,
		})
		return nil
	}

	// A tag that is not modeled resolves silently to its most specific
	// modeled ancestor; only a type outside every modeled hierarchy is
	// reported.
	ctor := Constructor(wrapBase)
	entry, _ := r.table.Match(r.tk, h, tag)
	if entry == nil {
		used := "base"
		if entry = r.table.Root(); entry != nil {
			used = entry.Tag
		}
		errors.Report(&errors.BindError{
			Op:     "widgets.Resolve",
			Kind:   errors.KindUnknownType,
			Handle: uintptr(h),
			Tag:    tag,
			Err:    fmt.Errorf("no dispatch entry, using %s wrapper", used),
		})
	}
	if entry != nil {
		ctor = entry.New
	}

	w := r.adopt(ctor(newBase(r, h, tag)))
	if hc, ok := w.(HasChildren); ok && syncChildren {
		r.Sync(hc)
	}
	return w
}

// adopt registers a freshly built wrapper and returns the canonical one.
// The destroy hook is only attached to the wrapper that won registration.
func (r *Resolver) adopt(w Widget) Widget {
	canonical := r.reg.Register(w)
	if canonical != registry.Object(w) {
		if cw, ok := canonical.(Widget); ok {
			return cw
		}
		return w
	}
	r.bridge.ConnectAfter(w, "destroy", signals.Void, func(ev signals.Event) {
		if dw, ok := ev.Source.(Widget); ok {
			r.teardown(dw)
		}
	})
	return w
}

// teardown marks w destroyed, detaches it from its parent's bookkeeping and
// drops its registry entry and signal bindings. Descendants are left to
// their own "destroy" emissions, so their closures still run. It makes no
// native calls and is idempotent.
func (r *Resolver) teardown(w Widget) {
	b := w.base()
	if b.destroyed {
		return
	}
	b.destroyed = true
	if p := b.parent; p != nil {
		p.container().forget(w)
		b.parent = nil
	}
	if obj, ok := r.reg.Lookup(b.handle); ok && obj == registry.Object(w) {
		r.reg.Unregister(b.handle)
	}
	r.bridge.Release(w)
}

// create makes a native object of tag and resolves it to a *T wrapper.
func create[T Widget](r *Resolver, tag string) (T, error) {
	var zero T
	h, err := r.tk.New(tag)
	if err != nil {
		errors.Report(&errors.BindError{
			Op:   "widgets.New",
			Kind: errors.KindNative,
			Tag:  tag,
			Err:  err,
		})
		return zero, err
	}
	w := r.Resolve(h)
	t, ok := w.(T)
	if !ok {
		return zero, wrongType(fmt.Sprintf("%T", zero), w)
	}
	return t, nil
}

// ResolveAs resolves h and asserts the wrapper type.
func ResolveAs[T Widget](r *Resolver, h native.Handle) (T, error) {
	var zero T
	if h.IsNull() {
		return zero, native.ErrNullHandle
	}
	w := r.Resolve(h)
	if w == nil {
		return zero, fmt.Errorf("%w: %s", native.ErrUnknownHandle, h)
	}
	t, ok := w.(T)
	if !ok {
		return zero, wrongType(fmt.Sprintf("%T", zero), w)
	}
	return t, nil
}
