package widgets

import "github.com/go-drift/gbind/pkg/signals"

// Button is the wrapper for GtkButton.
type Button struct {
	*Bin
}

func newButton(b *Base) *Button {
	bin := newBin(b)
	btn := &Button{Bin: bin}
	b.self = btn
	return btn
}

func wrapButton(b *Base) Widget { return newButton(b) }

// NewButton creates a native button. A non-empty label is shown as the
// button's child.
func NewButton(r *Resolver, label string) (*Button, error) {
	btn, err := create[*Button](r, "GtkButton")
	if err != nil {
		return nil, err
	}
	if label != "" {
		btn.SetLabel(label)
	}
	return btn, nil
}

// Label returns the button label.
func (b *Button) Label() string { return b.stringProp("label") }

// SetLabel sets the button label.
func (b *Button) SetLabel(label string) { b.setProp("label", label) }

// OnClicked registers fn for the "clicked" signal. Closures run in
// registration order.
func (b *Button) OnClicked(fn func(*Button)) {
	b.r.bridge.Connect(b, "clicked", signals.Void, func(ev signals.Event) {
		fn(ev.Source.(*Button))
	})
}

// Clicked emits "clicked" on the button.
func (b *Button) Clicked() {
	if err := b.r.bridge.Emit(b, "clicked"); err != nil {
		nativeError("widgets.Clicked", b, err)
	}
}

// Revealer is the wrapper for GtkRevealer.
type Revealer struct {
	*Bin
}

func wrapRevealer(b *Base) Widget {
	bin := newBin(b)
	rv := &Revealer{Bin: bin}
	b.self = rv
	return rv
}

// NewRevealer creates a native revealer.
func NewRevealer(r *Resolver) (*Revealer, error) {
	return create[*Revealer](r, "GtkRevealer")
}

// RevealChild reports whether the child is revealed.
func (rv *Revealer) RevealChild() bool { return rv.boolProp("reveal-child") }

// SetRevealChild reveals or conceals the child.
func (rv *Revealer) SetRevealChild(reveal bool) { rv.setProp("reveal-child", reveal) }
