package widgets

import (
	"github.com/go-drift/gbind/pkg/native"
)

// Orientation is the direction a box lays out its children.
type Orientation int

const (
	OrientationHorizontal Orientation = iota
	OrientationVertical
)

// PackType says which end of a box a child is packed against.
type PackType int

const (
	PackStart PackType = iota
	PackEnd
)

func (p PackType) String() string {
	if p == PackEnd {
		return "end"
	}
	return "start"
}

// Packing holds the child properties a box applies to one child.
type Packing struct {
	Expand  bool
	Fill    bool
	Padding int
	Pack    PackType
}

// Box is the wrapper for GtkBox.
type Box struct {
	*Container
}

func newBox(b *Base) *Box {
	c := newContainer(b)
	box := &Box{Container: c}
	b.self = box
	return box
}

func wrapBox(b *Base) Widget { return newBox(b) }

// NewBox creates a native box.
func NewBox(r *Resolver, orientation Orientation, spacing int) (*Box, error) {
	box, err := create[*Box](r, "GtkBox")
	if err != nil {
		return nil, err
	}
	box.setProp("orientation", int(orientation))
	box.SetSpacing(spacing)
	return box, nil
}

// Spacing returns the pixels placed between children.
func (b *Box) Spacing() int { return b.intProp("spacing") }

// SetSpacing sets the pixels placed between children.
func (b *Box) SetSpacing(spacing int) { b.setProp("spacing", spacing) }

// PackStart adds child packed against the start of the box. A child that
// already has a parent is rejected.
func (b *Box) PackStart(child Widget, expand, fill bool, padding int) error {
	return b.pack(child, Packing{Expand: expand, Fill: fill, Padding: padding, Pack: PackStart})
}

// PackEnd adds child packed against the end of the box.
func (b *Box) PackEnd(child Widget, expand, fill bool, padding int) error {
	return b.pack(child, Packing{Expand: expand, Fill: fill, Padding: padding, Pack: PackEnd})
}

func (b *Box) pack(child Widget, p Packing) error {
	if err := b.Add(child); err != nil {
		return err
	}
	b.SetChildPacking(child, p)
	return nil
}

// SetChildPacking sets the packing of an existing child.
func (b *Box) SetChildPacking(child Widget, p Packing) {
	if !b.Contains(child) {
		structureError("widgets.SetChildPacking", b, ErrNotChild)
		return
	}
	cb := child.base()
	cb.setProp("expand", p.Expand)
	cb.setProp("fill", p.Fill)
	cb.setProp("padding", p.Padding)
	cb.setProp("pack-type", p.Pack.String())
}

// ChildPacking returns the packing of child. Properties the toolkit does not
// report keep their zero value.
func (b *Box) ChildPacking(child Widget) Packing {
	if !b.Contains(child) {
		structureError("widgets.ChildPacking", b, ErrNotChild)
		return Packing{}
	}
	cb := child.base()
	p := Packing{}
	if v, err := b.r.tk.Property(cb.handle, "expand"); err == nil {
		p.Expand, _ = native.Args{v}.Bool(0)
	}
	if v, err := b.r.tk.Property(cb.handle, "fill"); err == nil {
		p.Fill, _ = native.Args{v}.Bool(0)
	}
	if v, err := b.r.tk.Property(cb.handle, "padding"); err == nil {
		p.Padding, _ = native.Args{v}.Int(0)
	}
	if v, err := b.r.tk.Property(cb.handle, "pack-type"); err == nil && v == "end" {
		p.Pack = PackEnd
	}
	return p
}

// SetCenter sets the widget centered in the box, or clears it with nil.
func (b *Box) SetCenter(w Widget) {
	if w == nil {
		b.setProp("center-widget", native.NullHandle)
		return
	}
	if err := b.Add(w); err != nil {
		return
	}
	b.setProp("center-widget", w.Handle())
}

// Center returns the centered widget, or nil. A center widget the toolkit
// reports that was never wrapped is resolved and adopted.
func (b *Box) Center() Widget {
	return b.childFor(b.handleProp("center-widget"))
}

// ButtonBox is the wrapper for GtkButtonBox, used for dialog action areas.
type ButtonBox struct {
	*Box
}

func wrapButtonBox(b *Base) Widget {
	box := newBox(b)
	bb := &ButtonBox{Box: box}
	b.self = bb
	return bb
}
