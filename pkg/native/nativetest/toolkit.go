// Package nativetest provides an in-memory native.Toolkit for tests and demos.
//
// The toolkit models a GTK-like type hierarchy, ordered child lists with
// internal children, single-child bins, composite widgets that build their own
// subwidgets (dialog content areas, message areas, scrollbars) and synchronous
// signal emission.
package nativetest

import (
	"fmt"
	"slices"

	"github.com/go-drift/gbind/pkg/native"
)

const (
	firstHandle native.Handle = 0x1000
	handleStep                = 0x10
)

// Call records a native call made through the Toolkit interface.
type Call struct {
	Method string
	Handle native.Handle
	Arg    any
}

type child struct {
	h        native.Handle
	internal bool
}

type object struct {
	tag      string
	parent   native.Handle
	children []child
	props    map[string]any
	handlers map[string][]native.Trampoline
}

var _ native.Toolkit = (*Toolkit)(nil)

// Toolkit is an in-memory native.Toolkit.
//
// It is not safe for concurrent use, matching the single UI thread contract
// of real toolkits.
type Toolkit struct {
	types      map[string]string
	composites map[string]func(tk *Toolkit, h native.Handle)
	objects    map[native.Handle]*object
	next       native.Handle
	calls      []Call
}

// New returns a toolkit with the default type hierarchy.
func New() *Toolkit {
	tk := &Toolkit{
		types:      make(map[string]string),
		composites: make(map[string]func(*Toolkit, native.Handle)),
		objects:    make(map[native.Handle]*object),
		next:       firstHandle,
	}
	for _, t := range defaultTypes {
		tk.types[t.tag] = t.parent
	}
	tk.composites["GtkDialog"] = buildDialog
	tk.composites["GtkMessageDialog"] = buildMessageDialog
	tk.composites["GtkScrolledWindow"] = buildScrolledWindow
	return tk
}

// DefineType adds tag to the hierarchy below parent. An empty parent makes
// tag a root type.
func (tk *Toolkit) DefineType(tag, parent string) {
	tk.types[tag] = parent
}

// DefineComposite registers a builder run after New creates an object of tag
// (or of a subtype that has no builder of its own).
func (tk *Toolkit) DefineComposite(tag string, build func(tk *Toolkit, h native.Handle)) {
	tk.composites[tag] = build
}

// New implements native.Toolkit.
func (tk *Toolkit) New(tag string) (native.Handle, error) {
	if _, ok := tk.types[tag]; !ok {
		return native.NullHandle, fmt.Errorf("%w: %s", native.ErrUnknownType, tag)
	}
	h := tk.alloc(tag)
	tk.record("New", h, tag)
	if build := tk.compositeFor(tag); build != nil {
		build(tk, h)
	}
	return h, nil
}

func (tk *Toolkit) alloc(tag string) native.Handle {
	h := tk.next
	tk.next += handleStep
	tk.objects[h] = &object{
		tag:      tag,
		props:    defaultProps(tk, tag),
		handlers: make(map[string][]native.Trampoline),
	}
	return h
}

func (tk *Toolkit) compositeFor(tag string) func(*Toolkit, native.Handle) {
	for t := tag; t != ""; t = tk.types[t] {
		if build, ok := tk.composites[t]; ok {
			return build
		}
	}
	return nil
}

// TypeTag implements native.Toolkit.
func (tk *Toolkit) TypeTag(h native.Handle) string {
	if o := tk.objects[h]; o != nil {
		return o.tag
	}
	return ""
}

// IsA implements native.Toolkit.
func (tk *Toolkit) IsA(h native.Handle, tag string) bool {
	o := tk.objects[h]
	if o == nil {
		return false
	}
	return tk.isSubtype(o.tag, tag)
}

func (tk *Toolkit) isSubtype(tag, ancestor string) bool {
	for t := tag; t != ""; t = tk.types[t] {
		if t == ancestor {
			return true
		}
	}
	return false
}

// Parent implements native.Toolkit.
func (tk *Toolkit) Parent(h native.Handle) native.Handle {
	if o := tk.objects[h]; o != nil {
		return o.parent
	}
	return native.NullHandle
}

// Children implements native.Toolkit.
func (tk *Toolkit) Children(h native.Handle) []native.Handle {
	o := tk.objects[h]
	if o == nil {
		return nil
	}
	var out []native.Handle
	for _, c := range o.children {
		if !c.internal {
			out = append(out, c.h)
		}
	}
	return out
}

// AllChildren implements native.Toolkit.
func (tk *Toolkit) AllChildren(h native.Handle) []native.Handle {
	o := tk.objects[h]
	if o == nil {
		return nil
	}
	out := make([]native.Handle, len(o.children))
	for i, c := range o.children {
		out[i] = c.h
	}
	return out
}

// Add implements native.Toolkit.
func (tk *Toolkit) Add(container, ch native.Handle) error {
	tk.record("Add", container, ch)
	p, c, err := tk.pair(container, ch)
	if err != nil {
		return err
	}
	if tk.isSubtype(p.tag, "GApplication") {
		if !tk.isSubtype(c.tag, "GtkWindow") {
			return fmt.Errorf("nativetest: %s is not a window", c.tag)
		}
		if !slices.ContainsFunc(p.children, func(x child) bool { return x.h == ch }) {
			p.children = append(p.children, child{h: ch})
		}
		return nil
	}
	if !tk.isSubtype(p.tag, "GtkContainer") {
		return native.ErrNotContainer
	}
	if c.parent != native.NullHandle {
		return fmt.Errorf("nativetest: %s already has a parent %s", ch, c.parent)
	}
	if tk.isSubtype(p.tag, "GtkBin") && len(tk.Children(container)) > 0 {
		return fmt.Errorf("nativetest: %s %s already contains a child", p.tag, container)
	}
	tk.attach(container, ch, false)
	return nil
}

// Remove implements native.Toolkit.
func (tk *Toolkit) Remove(container, ch native.Handle) error {
	tk.record("Remove", container, ch)
	p, c, err := tk.pair(container, ch)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(p.children, func(x child) bool { return x.h == ch })
	if i < 0 {
		return fmt.Errorf("nativetest: %s is not a child of %s", ch, container)
	}
	p.children = slices.Delete(p.children, i, i+1)
	if c.parent == container {
		c.parent = native.NullHandle
	}
	return nil
}

func (tk *Toolkit) pair(container, ch native.Handle) (*object, *object, error) {
	if container == native.NullHandle || ch == native.NullHandle {
		return nil, nil, native.ErrNullHandle
	}
	p, c := tk.objects[container], tk.objects[ch]
	if p == nil || c == nil {
		return nil, nil, native.ErrUnknownHandle
	}
	return p, c, nil
}

// Destroy implements native.Toolkit. "destroy" is emitted on h before its
// children are destroyed and before h is freed.
func (tk *Toolkit) Destroy(h native.Handle) error {
	tk.record("Destroy", h, nil)
	return tk.destroy(h)
}

func (tk *Toolkit) destroy(h native.Handle) error {
	o := tk.objects[h]
	if o == nil {
		return native.ErrUnknownHandle
	}
	tk.emit(h, "destroy", nil)
	for _, c := range slices.Clone(o.children) {
		if tk.isSubtype(o.tag, "GApplication") {
			continue
		}
		tk.destroy(c.h)
	}
	if p := tk.objects[o.parent]; p != nil {
		p.children = slices.DeleteFunc(p.children, func(x child) bool { return x.h == h })
	}
	for _, other := range tk.objects {
		if tk.isSubtype(other.tag, "GApplication") {
			other.children = slices.DeleteFunc(other.children, func(x child) bool { return x.h == h })
		}
	}
	delete(tk.objects, h)
	return nil
}

// Connect implements native.Toolkit.
func (tk *Toolkit) Connect(h native.Handle, signal string, t native.Trampoline) error {
	tk.record("Connect", h, signal)
	o := tk.objects[h]
	if o == nil {
		return native.ErrUnknownHandle
	}
	o.handlers[signal] = append(o.handlers[signal], t)
	return nil
}

// Emit implements native.Toolkit.
func (tk *Toolkit) Emit(h native.Handle, signal string, args ...any) error {
	if tk.objects[h] == nil {
		return native.ErrUnknownHandle
	}
	tk.emit(h, signal, args)
	return nil
}

func (tk *Toolkit) emit(h native.Handle, signal string, args []any) {
	o := tk.objects[h]
	if o == nil {
		return
	}
	for _, t := range slices.Clone(o.handlers[signal]) {
		t(h, signal, native.Args(args))
	}
}

// Property implements native.Toolkit.
func (tk *Toolkit) Property(h native.Handle, name string) (any, error) {
	o := tk.objects[h]
	if o == nil {
		return nil, native.ErrUnknownHandle
	}
	if name == "active-window" && tk.isSubtype(o.tag, "GApplication") {
		if v, ok := o.props[name]; ok {
			return v, nil
		}
		if n := len(o.children); n > 0 {
			return o.children[n-1].h, nil
		}
		return native.NullHandle, nil
	}
	v, ok := o.props[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", native.ErrUnknownProperty, o.tag, name)
	}
	return v, nil
}

// SetProperty implements native.Toolkit.
func (tk *Toolkit) SetProperty(h native.Handle, name string, value any) error {
	tk.record("SetProperty", h, name)
	o := tk.objects[h]
	if o == nil {
		return native.ErrUnknownHandle
	}
	o.props[name] = value
	return nil
}

func (tk *Toolkit) record(method string, h native.Handle, arg any) {
	tk.calls = append(tk.calls, Call{Method: method, Handle: h, Arg: arg})
}
