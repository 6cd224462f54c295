package nativetest

import (
	"github.com/go-drift/gbind/pkg/native"
)

var defaultTypes = []struct{ tag, parent string }{
	{"GObject", ""},
	{"GApplication", "GObject"},
	{"GtkApplication", "GApplication"},
	{"GtkWidget", "GObject"},
	{"GtkMisc", "GtkWidget"},
	{"GtkLabel", "GtkMisc"},
	{"GtkImage", "GtkMisc"},
	{"GtkEntry", "GtkWidget"},
	{"GtkSpinButton", "GtkEntry"},
	{"GtkScrollbar", "GtkWidget"},
	{"GtkSpinner", "GtkWidget"},
	{"GtkSeparator", "GtkWidget"},
	{"GtkContainer", "GtkWidget"},
	{"GtkBox", "GtkContainer"},
	{"GtkVBox", "GtkBox"},
	{"GtkHBox", "GtkBox"},
	{"GtkButtonBox", "GtkBox"},
	{"GtkGrid", "GtkContainer"},
	{"GtkListBox", "GtkContainer"},
	{"GtkBin", "GtkContainer"},
	{"GtkButton", "GtkBin"},
	{"GtkToggleButton", "GtkButton"},
	{"GtkCheckButton", "GtkToggleButton"},
	{"GtkRevealer", "GtkBin"},
	{"GtkFrame", "GtkBin"},
	{"GtkScrolledWindow", "GtkBin"},
	{"GtkWindow", "GtkBin"},
	{"GtkApplicationWindow", "GtkWindow"},
	{"GtkDialog", "GtkWindow"},
	{"GtkMessageDialog", "GtkDialog"},
	{"GtkAboutDialog", "GtkDialog"},
}

func defaultProps(tk *Toolkit, tag string) map[string]any {
	props := make(map[string]any)
	if tk.isSubtype(tag, "GtkWidget") {
		props["name"] = ""
		props["visible"] = false
	}
	switch {
	case tk.isSubtype(tag, "GtkLabel"):
		props["label"] = ""
	case tk.isSubtype(tag, "GtkEntry"):
		props["text"] = ""
	case tk.isSubtype(tag, "GtkButton"):
		props["label"] = ""
	case tk.isSubtype(tag, "GtkRevealer"):
		props["reveal-child"] = false
	case tk.isSubtype(tag, "GtkWindow"):
		props["title"] = ""
		props["modal"] = false
		props["is-active"] = false
		props["transient-for"] = native.NullHandle
	case tk.isSubtype(tag, "GApplication"):
		props["application-id"] = ""
	}
	if tk.isSubtype(tag, "GtkBox") {
		props["spacing"] = 0
		props["orientation"] = 0
		props["center-widget"] = native.NullHandle
	}
	return props
}

// buildDialog gives a dialog its content area (a box holding the action area).
// The content area is the dialog's visible bin child; the action area is an
// internal child of the content area.
func buildDialog(tk *Toolkit, h native.Handle) {
	content := tk.alloc("GtkBox")
	tk.attach(h, content, false)
	action := tk.alloc("GtkButtonBox")
	tk.attach(content, action, true)
	tk.objects[h].props["content-area"] = content
	tk.objects[h].props["action-area"] = action
}

// buildMessageDialog adds a message area with primary and secondary labels to
// the dialog content area.
func buildMessageDialog(tk *Toolkit, h native.Handle) {
	buildDialog(tk, h)
	content := tk.Children(h)[0]
	area := tk.alloc("GtkBox")
	tk.attach(content, area, false)
	tk.attach(area, tk.alloc("GtkLabel"), false)
	tk.attach(area, tk.alloc("GtkLabel"), false)
	tk.objects[h].props["message-area"] = area
}

// buildScrolledWindow adds internal horizontal and vertical scrollbars.
func buildScrolledWindow(tk *Toolkit, h native.Handle) {
	tk.attach(h, tk.alloc("GtkScrollbar"), true)
	tk.attach(h, tk.alloc("GtkScrollbar"), true)
}

func (tk *Toolkit) attach(parent, ch native.Handle, internal bool) {
	tk.objects[parent].children = append(tk.objects[parent].children, child{h: ch, internal: internal})
	tk.objects[ch].parent = parent
}

// CreateChild creates an object of tag and attaches it to parent on the
// native side only, the way toolkit code builds children the binding never
// asked for. No Add call is recorded.
func (tk *Toolkit) CreateChild(parent native.Handle, tag string, internal bool) native.Handle {
	if tk.objects[parent] == nil {
		panic("nativetest: CreateChild on unknown parent " + parent.String())
	}
	h := tk.alloc(tag)
	tk.attach(parent, h, internal)
	if build := tk.compositeFor(tag); build != nil {
		build(tk, h)
	}
	return h
}

// MustNew is New for known tags; it panics on failure.
func (tk *Toolkit) MustNew(tag string) native.Handle {
	h, err := tk.New(tag)
	if err != nil {
		panic(err)
	}
	return h
}

// Exists reports whether h is a live object.
func (tk *Toolkit) Exists(h native.Handle) bool {
	return tk.objects[h] != nil
}

// Len returns the number of live objects.
func (tk *Toolkit) Len() int {
	return len(tk.objects)
}

// Calls returns the recorded calls.
func (tk *Toolkit) Calls() []Call {
	return append([]Call(nil), tk.calls...)
}

// CallCount returns how many calls of method were recorded.
func (tk *Toolkit) CallCount(method string) int {
	n := 0
	for _, c := range tk.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// ResetCalls clears the call log.
func (tk *Toolkit) ResetCalls() {
	tk.calls = tk.calls[:0]
}

// HandlerCount returns the number of trampolines connected to signal on h.
func (tk *Toolkit) HandlerCount(h native.Handle, signal string) int {
	if o := tk.objects[h]; o != nil {
		return len(o.handlers[signal])
	}
	return 0
}
