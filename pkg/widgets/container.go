package widgets

import (
	"slices"

	"github.com/go-drift/gbind/pkg/native"
)

// Container is the wrapper for GtkContainer. It keeps its own bookkeeping of
// application children and internal children; Resolver.Sync reconciles that
// bookkeeping with the native child list.
type Container struct {
	*Base
	children []Widget
	internal []Widget
	single   bool
}

func newContainer(b *Base) *Container {
	c := &Container{Base: b}
	b.self = c
	return c
}

func wrapContainer(b *Base) Widget { return newContainer(b) }

func (c *Container) container() *Container { return c }

// Children returns the application children in native order.
func (c *Container) Children() []Widget {
	return slices.Clone(c.children)
}

// InternalChildren returns children the toolkit created for its own use.
func (c *Container) InternalChildren() []Widget {
	return slices.Clone(c.internal)
}

// Add attaches w to the container.
//
// The call is rejected, reported and has no effect if w already has a
// parent, if either side is destroyed, if w would contain its own ancestor,
// or if the container holds a single child and is occupied.
func (c *Container) Add(w Widget) error {
	if err := c.checkAdd("widgets.Add", w); err != nil {
		return err
	}
	if err := c.r.tk.Add(c.handle, w.Handle()); err != nil {
		return nativeError("widgets.Add", c.self, err)
	}
	c.adopt(w)
	return nil
}

func (c *Container) checkAdd(op string, w Widget) error {
	switch {
	case w == nil:
		return structureError(op, c.self, ErrNilWidget)
	case c.destroyed || w.Destroyed():
		return structureError(op, c.self, ErrDestroyed)
	case w.Parent() != nil:
		return structureError(op, c.self, ErrHasParent)
	case isAncestor(w, c.self):
		return structureError(op, c.self, ErrCycle)
	case c.single && len(c.children) > 0:
		return structureError(op, c.self, ErrSingleChild)
	}
	return nil
}

// adopt records w as an application child without any native call.
func (c *Container) adopt(w Widget) {
	c.children = append(c.children, w)
	w.base().parent = c.self.(HasChildren)
}

// Remove detaches w from the container. Removing a widget that is not a
// child is reported and has no effect.
func (c *Container) Remove(w Widget) error {
	if w == nil {
		return structureError("widgets.Remove", c.self, ErrNilWidget)
	}
	if c.destroyed {
		return structureError("widgets.Remove", c.self, ErrDestroyed)
	}
	if c.indexOf(w.Handle()) < 0 {
		return structureError("widgets.Remove", c.self, ErrNotChild)
	}
	if err := c.r.tk.Remove(c.handle, w.Handle()); err != nil {
		return nativeError("widgets.Remove", c.self, err)
	}
	c.forget(w)
	return nil
}

// forget drops w from the bookkeeping without any native call.
func (c *Container) forget(w Widget) {
	h := w.Handle()
	c.children = slices.DeleteFunc(c.children, func(x Widget) bool { return x.Handle() == h })
	c.internal = slices.DeleteFunc(c.internal, func(x Widget) bool { return x.Handle() == h })
	if b := w.base(); b.parent != nil && b.parent.Handle() == c.handle {
		b.parent = nil
	}
}

func (c *Container) indexOf(h native.Handle) int {
	return slices.IndexFunc(c.children, func(x Widget) bool { return x.Handle() == h })
}

// tracked returns the wrapper already recorded for h, application or
// internal.
func (c *Container) tracked(h native.Handle) Widget {
	if i := c.indexOf(h); i >= 0 {
		return c.children[i]
	}
	if i := slices.IndexFunc(c.internal, func(x Widget) bool { return x.Handle() == h }); i >= 0 {
		return c.internal[i]
	}
	return nil
}

// Contains reports whether w is an application child of the container.
func (c *Container) Contains(w Widget) bool {
	return w != nil && c.indexOf(w.Handle()) >= 0
}

// childFor resolves h to a wrapper, preferring the container's own
// bookkeeping. Widgets the toolkit handed back that were never tracked are
// adopted as application children.
func (c *Container) childFor(h native.Handle) Widget {
	if h.IsNull() {
		return nil
	}
	if w := c.tracked(h); w != nil {
		return w
	}
	w := c.r.Resolve(h)
	if w == nil {
		return nil
	}
	if w.Parent() == nil && c.r.tk.Parent(h) == c.handle {
		c.adopt(w)
	}
	return w
}

// Bin is the wrapper for GtkBin, a container with at most one child.
type Bin struct {
	*Container
}

func newBin(b *Base) *Bin {
	c := newContainer(b)
	c.single = true
	bin := &Bin{Container: c}
	b.self = bin
	return bin
}

func wrapBin(b *Base) Widget { return newBin(b) }

// Child returns the single application child, or nil.
func (b *Bin) Child() Widget {
	if len(b.children) == 0 {
		return nil
	}
	return b.children[0]
}
