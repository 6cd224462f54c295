package widgets

import "github.com/go-drift/gbind/pkg/signals"

// Label is the wrapper for GtkLabel.
type Label struct {
	*Base
}

func wrapLabel(b *Base) Widget {
	l := &Label{Base: b}
	b.self = l
	return l
}

// NewLabel creates a native label showing text.
func NewLabel(r *Resolver, text string) (*Label, error) {
	l, err := create[*Label](r, "GtkLabel")
	if err != nil {
		return nil, err
	}
	if text != "" {
		l.SetText(text)
	}
	return l, nil
}

// Text returns the label text.
func (l *Label) Text() string { return l.stringProp("label") }

// SetText sets the label text.
func (l *Label) SetText(text string) { l.setProp("label", text) }

// Entry is the wrapper for GtkEntry.
type Entry struct {
	*Base
}

func wrapEntry(b *Base) Widget {
	e := &Entry{Base: b}
	b.self = e
	return e
}

// NewEntry creates a native single-line text entry.
func NewEntry(r *Resolver) (*Entry, error) {
	return create[*Entry](r, "GtkEntry")
}

// Text returns the entry contents.
func (e *Entry) Text() string { return e.stringProp("text") }

// SetText replaces the entry contents.
func (e *Entry) SetText(text string) { e.setProp("text", text) }

// OnChanged registers fn for the "changed" signal.
func (e *Entry) OnChanged(fn func(*Entry)) {
	e.r.bridge.Connect(e, "changed", signals.Void, func(ev signals.Event) {
		fn(ev.Source.(*Entry))
	})
}

// OnActivate registers fn for the "activate" signal (Enter pressed).
func (e *Entry) OnActivate(fn func(*Entry)) {
	e.r.bridge.Connect(e, "activate", signals.Void, func(ev signals.Event) {
		fn(ev.Source.(*Entry))
	})
}
