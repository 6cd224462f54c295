package widgets

import (
	"fmt"

	"github.com/go-drift/gbind/pkg/signals"
)

// ResponseType identifies the button a dialog was answered with. Negative
// values are predefined; applications may use any non-negative value.
type ResponseType int

const (
	ResponseNone        ResponseType = -1
	ResponseReject      ResponseType = -2
	ResponseAccept      ResponseType = -3
	ResponseDeleteEvent ResponseType = -4
	ResponseOK          ResponseType = -5
	ResponseCancel      ResponseType = -6
	ResponseClose       ResponseType = -7
	ResponseYes         ResponseType = -8
	ResponseNo          ResponseType = -9
	ResponseApply       ResponseType = -10
	ResponseHelp        ResponseType = -11
)

func (r ResponseType) String() string {
	switch r {
	case ResponseNone:
		return "none"
	case ResponseReject:
		return "reject"
	case ResponseAccept:
		return "accept"
	case ResponseDeleteEvent:
		return "delete-event"
	case ResponseOK:
		return "ok"
	case ResponseCancel:
		return "cancel"
	case ResponseClose:
		return "close"
	case ResponseYes:
		return "yes"
	case ResponseNo:
		return "no"
	case ResponseApply:
		return "apply"
	case ResponseHelp:
		return "help"
	default:
		return fmt.Sprintf("response(%d)", int(r))
	}
}

// Dialog is the wrapper for GtkDialog.
//
// The toolkit builds a dialog's content area and action area itself; they
// are reached through ContentArea and ActionArea and resolved on demand.
type Dialog struct {
	*Window
}

func newDialog(b *Base) *Dialog {
	win := newWindow(b)
	d := &Dialog{Window: win}
	b.self = d
	return d
}

func wrapDialog(b *Base) Widget { return newDialog(b) }

// NewDialog creates a native dialog.
func NewDialog(r *Resolver, title string) (*Dialog, error) {
	d, err := create[*Dialog](r, "GtkDialog")
	if err != nil {
		return nil, err
	}
	if title != "" {
		d.SetTitle(title)
	}
	return d, nil
}

// ContentArea returns the box application widgets are packed into.
func (d *Dialog) ContentArea() *Box {
	box, _ := d.r.Resolve(d.handleProp("content-area")).(*Box)
	return box
}

// ActionArea returns the box holding the response buttons.
func (d *Dialog) ActionArea() *ButtonBox {
	bb, _ := d.r.Resolve(d.handleProp("action-area")).(*ButtonBox)
	return bb
}

// AddButton adds a button labeled text to the action area. Clicking it emits
// "response" with id.
func (d *Dialog) AddButton(text string, id ResponseType) (*Button, error) {
	area := d.ActionArea()
	if area == nil {
		return nil, structureError("widgets.AddButton", d, fmt.Errorf("dialog has no action area"))
	}
	btn, err := NewButton(d.r, text)
	if err != nil {
		return nil, err
	}
	if err := area.PackEnd(btn, false, true, 0); err != nil {
		btn.Destroy()
		return nil, err
	}
	btn.setProp("response-id", int(id))
	btn.OnClicked(func(*Button) { d.Respond(id) })
	return btn, nil
}

// Respond emits "response" with id.
func (d *Dialog) Respond(id ResponseType) {
	if d.destroyed {
		structureError("widgets.Respond", d, ErrDestroyed)
		return
	}
	if err := d.r.bridge.Emit(d, "response", int(id)); err != nil {
		nativeError("widgets.Respond", d, err)
	}
}

// OnResponse registers fn for the "response" signal.
func (d *Dialog) OnResponse(fn func(*Dialog, ResponseType)) {
	d.r.bridge.Connect(d, "response", signals.Response, func(ev signals.Event) {
		id, _ := ev.Args.Int(0)
		fn(dialogOf(ev.Source), ResponseType(id))
	})
}

func dialogOf(src any) *Dialog {
	switch v := src.(type) {
	case *Dialog:
		return v
	case *MessageDialog:
		return v.Dialog
	}
	return nil
}

// MessageType is the kind of message a MessageDialog shows.
type MessageType int

const (
	MessageInfo MessageType = iota
	MessageWarning
	MessageQuestion
	MessageError
	MessageOther
)

// ButtonsType selects the predefined buttons of a MessageDialog.
type ButtonsType int

const (
	ButtonsNone ButtonsType = iota
	ButtonsOK
	ButtonsClose
	ButtonsCancel
	ButtonsYesNo
	ButtonsOKCancel
)

// MessageDialog is the wrapper for GtkMessageDialog.
type MessageDialog struct {
	*Dialog
}

func wrapMessageDialog(b *Base) Widget {
	d := newDialog(b)
	md := &MessageDialog{Dialog: d}
	b.self = md
	return md
}

// NewMessageDialog creates a message dialog transient for parent showing
// message, with the predefined buttons.
func NewMessageDialog(r *Resolver, parent IsTopLevel, kind MessageType, buttons ButtonsType, message string) (*MessageDialog, error) {
	md, err := create[*MessageDialog](r, "GtkMessageDialog")
	if err != nil {
		return nil, err
	}
	md.setProp("message-type", int(kind))
	if parent != nil {
		md.SetTransientFor(parent)
	}
	for _, b := range predefinedButtons(buttons) {
		if _, err := md.AddButton(b.text, b.id); err != nil {
			return nil, err
		}
	}
	if message != "" {
		md.SetText(message)
	}
	return md, nil
}

func predefinedButtons(bt ButtonsType) []struct {
	text string
	id   ResponseType
} {
	type button = struct {
		text string
		id   ResponseType
	}
	switch bt {
	case ButtonsOK:
		return []button{{"OK", ResponseOK}}
	case ButtonsClose:
		return []button{{"Close", ResponseClose}}
	case ButtonsCancel:
		return []button{{"Cancel", ResponseCancel}}
	case ButtonsYesNo:
		return []button{{"No", ResponseNo}, {"Yes", ResponseYes}}
	case ButtonsOKCancel:
		return []button{{"Cancel", ResponseCancel}, {"OK", ResponseOK}}
	}
	return nil
}

// MessageArea returns the box holding the primary and secondary labels.
func (md *MessageDialog) MessageArea() *Box {
	box, _ := md.r.Resolve(md.handleProp("message-area")).(*Box)
	return box
}

// SetText sets the primary message, shown by the first label of the message
// area.
func (md *MessageDialog) SetText(text string) {
	if l := md.messageLabel(0); l != nil {
		l.SetText(text)
	}
}

// Text returns the primary message.
func (md *MessageDialog) Text() string {
	if l := md.messageLabel(0); l != nil {
		return l.Text()
	}
	return ""
}

// SetSecondaryText sets the secondary message.
func (md *MessageDialog) SetSecondaryText(text string) {
	if l := md.messageLabel(1); l != nil {
		l.SetText(text)
		l.Show()
	}
}

func (md *MessageDialog) messageLabel(n int) *Label {
	area := md.MessageArea()
	if area == nil {
		return nil
	}
	for _, w := range area.Children() {
		if l, ok := w.(*Label); ok {
			if n == 0 {
				return l
			}
			n--
		}
	}
	return nil
}
