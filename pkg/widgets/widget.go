package widgets

import (
	"github.com/go-drift/gbind/pkg/errors"
	"github.com/go-drift/gbind/pkg/native"
	"github.com/go-drift/gbind/pkg/signals"
)

// Widget is a wrapper over one native widget handle.
type Widget interface {
	signals.Holder

	// TypeTag returns the native type tag the wrapper was built for.
	TypeTag() string

	// Parent returns the container holding this widget, or nil.
	Parent() HasChildren

	// Destroyed reports whether the wrapper has been torn down.
	Destroyed() bool

	// Destroy destroys the native widget and tears the wrapper down.
	Destroy()

	base() *Base
}

// HasChildren is implemented by wrappers that hold child widgets.
type HasChildren interface {
	Widget

	// Children returns the application children in native order.
	Children() []Widget

	// InternalChildren returns children the toolkit created for its own
	// implementation.
	InternalChildren() []Widget

	// Add attaches w natively and records it as a child.
	Add(w Widget) error

	// Remove detaches w natively and forgets it.
	Remove(w Widget) error

	container() *Container
}

// SupportsSingleChild is implemented by containers that hold at most one
// application child.
type SupportsSingleChild interface {
	HasChildren

	// Child returns the single child, or nil.
	Child() Widget
}

// IsTopLevel is implemented by top-level windows.
type IsTopLevel interface {
	Widget

	Title() string
	SetTitle(title string)

	// Present shows the window and raises it.
	Present()
}

// Base is the generic wrapper. It is used directly for native types the
// dispatch table does not model and embedded by every other wrapper.
type Base struct {
	handle    native.Handle
	tag       string
	r         *Resolver
	self      Widget
	parent    HasChildren
	destroyed bool
	signals   signals.Set
}

func newBase(r *Resolver, h native.Handle, tag string) *Base {
	b := &Base{handle: h, tag: tag, r: r}
	b.self = b
	return b
}

func wrapBase(b *Base) Widget { return b }

// Handle returns the native handle.
func (b *Base) Handle() native.Handle { return b.handle }

// TypeTag returns the native type tag.
func (b *Base) TypeTag() string { return b.tag }

// Signals returns the wrapper's signal bindings.
func (b *Base) Signals() *signals.Set { return &b.signals }

// Parent returns the containing wrapper, or nil.
func (b *Base) Parent() HasChildren { return b.parent }

// Destroyed reports whether the wrapper has been torn down.
func (b *Base) Destroyed() bool { return b.destroyed }

func (b *Base) base() *Base { return b }

// Self returns the outermost wrapper embedding b.
func (b *Base) Self() Widget { return b.self }

// Destroy destroys the native widget. The toolkit's "destroy" emissions run
// the destroy closures of w and each descendant and tear them down. Wrappers
// the toolkit did not emit for are torn down before Destroy returns.
func (b *Base) Destroy() {
	if b.destroyed {
		return
	}
	var subtree []Widget
	WalkAll(b.self, func(w Widget, _ int) bool {
		subtree = append(subtree, w)
		return true
	})
	if err := b.r.tk.Destroy(b.handle); err != nil {
		nativeError("widgets.Destroy", b.self, err)
	}
	for _, w := range subtree {
		b.r.teardown(w)
	}
}

// OnDestroy registers fn to run when the native widget is destroyed.
func (b *Base) OnDestroy(fn func(Widget)) {
	b.r.bridge.Connect(b.self, "destroy", signals.Void, func(ev signals.Event) {
		fn(ev.Source.(Widget))
	})
}

// Name returns the widget name.
func (b *Base) Name() string { return b.stringProp("name") }

// SetName sets the widget name.
func (b *Base) SetName(name string) { b.setProp("name", name) }

// Visible reports whether the widget is visible.
func (b *Base) Visible() bool { return b.boolProp("visible") }

// Show makes the widget visible.
func (b *Base) Show() { b.setProp("visible", true) }

// Hide makes the widget invisible.
func (b *Base) Hide() { b.setProp("visible", false) }

// ShowAll shows the widget and all of its descendants.
func (b *Base) ShowAll() {
	Walk(b.self, func(w Widget, _ int) bool {
		w.base().Show()
		return true
	})
}

func (b *Base) prop(name string) (any, bool) {
	if b.destroyed {
		return nil, false
	}
	v, err := b.r.tk.Property(b.handle, name)
	if err != nil {
		nativeError("widgets.Property", b.self, err)
		return nil, false
	}
	return v, true
}

func (b *Base) stringProp(name string) string {
	v, ok := b.prop(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func (b *Base) boolProp(name string) bool {
	v, ok := b.prop(name)
	if !ok {
		return false
	}
	on, err := native.Args{v}.Bool(0)
	return err == nil && on
}

func (b *Base) intProp(name string) int {
	v, ok := b.prop(name)
	if !ok {
		return 0
	}
	n, _ := native.Args{v}.Int(0)
	return n
}

func (b *Base) handleProp(name string) native.Handle {
	v, ok := b.prop(name)
	if !ok {
		return native.NullHandle
	}
	h, _ := native.Args{v}.Handle(0)
	return h
}

func (b *Base) setProp(name string, value any) {
	if b.destroyed {
		errors.Report(&errors.BindError{
			Op:     "widgets.SetProperty",
			Kind:   errors.KindStructure,
			Handle: uintptr(b.handle),
			Tag:    b.tag,
			Err:    ErrDestroyed,
		})
		return
	}
	if err := b.r.tk.SetProperty(b.handle, name, value); err != nil {
		nativeError("widgets.SetProperty", b.self, err)
	}
}

// Walk visits w and its application descendants depth first, in child order.
// Returning false from fn skips the widget's children.
func Walk(w Widget, fn func(w Widget, depth int) bool) {
	walk(w, 0, false, fn)
}

// WalkAll is like Walk but also visits internal children, after the
// application children of each container.
func WalkAll(w Widget, fn func(w Widget, depth int) bool) {
	walk(w, 0, true, fn)
}

func walk(w Widget, depth int, internal bool, fn func(Widget, int) bool) {
	if !fn(w, depth) {
		return
	}
	hc, ok := w.(HasChildren)
	if !ok {
		return
	}
	for _, c := range hc.Children() {
		walk(c, depth+1, internal, fn)
	}
	if internal {
		for _, c := range hc.InternalChildren() {
			walk(c, depth+1, internal, fn)
		}
	}
}

// Toplevel returns the top-level window containing w, or nil.
func Toplevel(w Widget) IsTopLevel {
	for cur := w; cur != nil; {
		if tl, ok := cur.(IsTopLevel); ok {
			return tl
		}
		p := cur.Parent()
		if p == nil {
			return nil
		}
		cur = p
	}
	return nil
}

// isAncestor reports whether a is w or one of w's ancestors.
func isAncestor(a, w Widget) bool {
	for cur := w; cur != nil; {
		if cur.Handle() == a.Handle() {
			return true
		}
		p := cur.Parent()
		if p == nil {
			return false
		}
		cur = p
	}
	return false
}
