package widgets

// Window is the wrapper for GtkWindow, a top-level single-child container.
type Window struct {
	*Bin
}

func newWindow(b *Base) *Window {
	bin := newBin(b)
	w := &Window{Bin: bin}
	b.self = w
	return w
}

func wrapWindow(b *Base) Widget { return newWindow(b) }

// NewWindow creates a native top-level window.
func NewWindow(r *Resolver, title string) (*Window, error) {
	w, err := create[*Window](r, "GtkWindow")
	if err != nil {
		return nil, err
	}
	if title != "" {
		w.SetTitle(title)
	}
	return w, nil
}

// Title returns the window title.
func (w *Window) Title() string { return w.stringProp("title") }

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) { w.setProp("title", title) }

// Modal reports whether the window is modal.
func (w *Window) Modal() bool { return w.boolProp("modal") }

// SetModal makes the window modal or non-modal.
func (w *Window) SetModal(modal bool) { w.setProp("modal", modal) }

// TransientFor returns the window this one is transient for, or nil.
func (w *Window) TransientFor() IsTopLevel {
	tl, _ := w.r.Resolve(w.handleProp("transient-for")).(IsTopLevel)
	return tl
}

// SetTransientFor keeps the window above parent.
func (w *Window) SetTransientFor(parent IsTopLevel) {
	if parent == nil {
		w.setProp("transient-for", nil)
		return
	}
	w.setProp("transient-for", parent.Handle())
}

// Present shows the window and raises it.
func (w *Window) Present() {
	w.Show()
	w.setProp("is-active", true)
}

// ApplicationWindow is the wrapper for GtkApplicationWindow.
type ApplicationWindow struct {
	*Window
}

func wrapApplicationWindow(b *Base) Widget {
	win := newWindow(b)
	aw := &ApplicationWindow{Window: win}
	b.self = aw
	return aw
}

// NewApplicationWindow creates a native application window. Use
// app.Application.AddWindow to associate it with an application.
func NewApplicationWindow(r *Resolver, title string) (*ApplicationWindow, error) {
	w, err := create[*ApplicationWindow](r, "GtkApplicationWindow")
	if err != nil {
		return nil, err
	}
	if title != "" {
		w.SetTitle(title)
	}
	return w, nil
}
