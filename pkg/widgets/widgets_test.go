package widgets

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	binderrors "github.com/go-drift/gbind/pkg/errors"
	"github.com/go-drift/gbind/pkg/native"
)

func TestButtonClickedRunsClosuresInOrder(t *testing.T) {
	tk, r, _ := newTestResolver(t)
	btn, err := NewButton(r, "Go")
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	btn.OnClicked(func(b *Button) {
		if b != btn {
			t.Errorf("closure got %p, want %p", b, btn)
		}
		got = append(got, "first")
	})
	btn.OnClicked(func(*Button) { got = append(got, "second") })

	if err := tk.Emit(btn.Handle(), "clicked"); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"first", "second"}, got); diff != "" {
		t.Errorf("closures mismatch (-want +got):\n%s", diff)
	}
	if n := tk.HandlerCount(btn.Handle(), "clicked"); n != 1 {
		t.Errorf("native handlers = %d, want 1", n)
	}
	if btn.Label() != "Go" {
		t.Errorf("Label = %q", btn.Label())
	}
}

func TestEntrySignals(t *testing.T) {
	tk, r, _ := newTestResolver(t)
	e, _ := NewEntry(r)
	changed, activated := 0, 0
	e.OnChanged(func(*Entry) { changed++ })
	e.OnActivate(func(*Entry) { activated++ })

	e.SetText("typed")
	tk.Emit(e.Handle(), "changed")
	tk.Emit(e.Handle(), "activate")

	if changed != 1 || activated != 1 {
		t.Errorf("changed=%d activated=%d, want 1 and 1", changed, activated)
	}
	if e.Text() != "typed" {
		t.Errorf("Text = %q", e.Text())
	}
}

func TestBoxPacking(t *testing.T) {
	_, r, rec := newTestResolver(t)
	box, _ := NewBox(r, OrientationHorizontal, 6)
	a, _ := NewLabel(r, "a")
	b, _ := NewLabel(r, "b")

	if err := box.PackStart(a, true, true, 2); err != nil {
		t.Fatal(err)
	}
	if err := box.PackEnd(b, false, true, 0); err != nil {
		t.Fatal(err)
	}

	if got, want := box.ChildPacking(a), (Packing{Expand: true, Fill: true, Padding: 2}); got != want {
		t.Errorf("packing(a) = %+v, want %+v", got, want)
	}
	if got, want := box.ChildPacking(b), (Packing{Fill: true, Pack: PackEnd}); got != want {
		t.Errorf("packing(b) = %+v, want %+v", got, want)
	}
	if box.Spacing() != 6 {
		t.Errorf("Spacing = %d, want 6", box.Spacing())
	}

	stranger, _ := NewLabel(r, "c")
	box.SetChildPacking(stranger, Packing{})
	if kinds := rec.Kinds(); len(kinds) != 1 || kinds[0] != binderrors.KindStructure {
		t.Errorf("kinds = %v, want [structure]", kinds)
	}
}

func TestBoxCenter(t *testing.T) {
	tk, r, _ := newTestResolver(t)
	box, _ := NewBox(r, OrientationHorizontal, 0)
	l, _ := NewLabel(r, "mid")

	box.SetCenter(l)
	if box.Center() != Widget(l) {
		t.Errorf("Center = %v, want the label", box.Center())
	}
	if l.Parent() != HasChildren(box) {
		t.Error("center widget not parented to the box")
	}

	// A center widget set on the native side is resolved and adopted.
	other := tk.CreateChild(box.Handle(), "GtkSpinner", false)
	tk.SetProperty(box.Handle(), "center-widget", other)
	c := box.Center()
	if c == nil || c.Handle() != other {
		t.Fatalf("Center = %v, want %v", c, other)
	}
	if c.Parent() != HasChildren(box) {
		t.Error("native center widget not adopted")
	}
}

func TestGridAttach(t *testing.T) {
	tk, r, _ := newTestResolver(t)
	g, _ := NewGrid(r)
	a, _ := NewLabel(r, "a")
	b, _ := NewLabel(r, "b")
	g.Attach(a, Cell{Left: 0, Top: 0})
	g.Attach(b, Cell{Left: 1, Top: 0, Width: 2, Height: 2})

	if cell, ok := g.CellOf(b); !ok || cell != (Cell{Left: 1, Width: 2, Height: 2}) {
		t.Errorf("CellOf(b) = %+v, %v", cell, ok)
	}
	if g.ChildAt(0, 0) != Widget(a) {
		t.Errorf("ChildAt(0,0) = %v, want a", g.ChildAt(0, 0))
	}
	if g.ChildAt(2, 1) != Widget(b) {
		t.Errorf("ChildAt(2,1) = %v, want b", g.ChildAt(2, 1))
	}
	if g.ChildAt(3, 0) != nil {
		t.Error("ChildAt outside every cell returned a widget")
	}

	h := tk.CreateChild(g.Handle(), "GtkLabel", false)
	for name, v := range map[string]int{"left-attach": 0, "top-attach": 5, "width": 1, "height": 1} {
		tk.SetProperty(h, name, v)
	}
	w := g.ChildAt(0, 5)
	if w == nil || w.Handle() != h {
		t.Fatalf("ChildAt(0,5) = %v, want %v", w, h)
	}
	if !g.Contains(w) {
		t.Error("natively attached grid child not adopted")
	}
}

func TestRevealer(t *testing.T) {
	_, r, _ := newTestResolver(t)
	rv, _ := NewRevealer(r)
	if rv.RevealChild() {
		t.Error("revealer starts revealed")
	}
	rv.SetRevealChild(true)
	if !rv.RevealChild() {
		t.Error("SetRevealChild(true) had no effect")
	}
}

func TestWindowProperties(t *testing.T) {
	_, r, _ := newTestResolver(t)
	main, _ := NewApplicationWindow(r, "Main")
	tool, _ := NewWindow(r, "Tools")

	tool.SetTransientFor(main)
	tool.SetModal(true)
	tool.Present()

	if tool.TransientFor() != IsTopLevel(main) {
		t.Errorf("TransientFor = %v, want main", tool.TransientFor())
	}
	if !tool.Modal() || !tool.Visible() {
		t.Error("modal or visible not set")
	}
	if main.Title() != "Main" {
		t.Errorf("Title = %q", main.Title())
	}
	tool.SetTransientFor(nil)
	if tool.TransientFor() != nil {
		t.Error("TransientFor not cleared")
	}
}

func TestDialogResponses(t *testing.T) {
	tk, r, _ := newTestResolver(t)
	d, err := NewDialog(r, "Confirm")
	if err != nil {
		t.Fatal(err)
	}

	content := d.ContentArea()
	if content == nil {
		t.Fatal("no content area")
	}
	if d.Child() != Widget(content) {
		t.Error("content area is not the dialog child")
	}
	action := d.ActionArea()
	if action == nil {
		t.Fatal("no action area")
	}
	if diff := cmp.Diff([]native.Handle{action.Handle()}, handles(content.InternalChildren())); diff != "" {
		t.Errorf("content internal children mismatch (-want +got):\n%s", diff)
	}

	cancel, _ := d.AddButton("Cancel", ResponseCancel)
	ok, _ := d.AddButton("OK", ResponseOK)
	if len(action.Children()) != 2 {
		t.Errorf("action area holds %d buttons, want 2", len(action.Children()))
	}

	var got []ResponseType
	d.OnResponse(func(src *Dialog, id ResponseType) {
		if src != d {
			t.Errorf("response source = %p, want %p", src, d)
		}
		got = append(got, id)
	})
	tk.Emit(ok.Handle(), "clicked")
	cancel.Clicked()
	d.Respond(ResponseType(42))

	if diff := cmp.Diff([]ResponseType{ResponseOK, ResponseCancel, 42}, got); diff != "" {
		t.Errorf("responses mismatch (-want +got):\n%s", diff)
	}
}

func TestMessageDialog(t *testing.T) {
	_, r, rec := newTestResolver(t)
	parent, _ := NewWindow(r, "Main")
	md, err := NewMessageDialog(r, parent, MessageQuestion, ButtonsYesNo, "Save changes?")
	if err != nil {
		t.Fatal(err)
	}
	md.SetSecondaryText("Unsaved work will be lost.")

	if md.Text() != "Save changes?" {
		t.Errorf("Text = %q", md.Text())
	}
	area := md.MessageArea()
	if area == nil || len(area.Children()) != 2 {
		t.Fatalf("message area = %v", area)
	}
	if got := area.Children()[1].(*Label).Text(); got != "Unsaved work will be lost." {
		t.Errorf("secondary text = %q", got)
	}
	if md.TransientFor() != IsTopLevel(parent) {
		t.Error("message dialog not transient for parent")
	}

	var labels []string
	for _, w := range md.ActionArea().Children() {
		labels = append(labels, w.(*Button).Label())
	}
	if diff := cmp.Diff([]string{"No", "Yes"}, labels); diff != "" {
		t.Errorf("buttons mismatch (-want +got):\n%s", diff)
	}

	var answer ResponseType
	md.OnResponse(func(_ *Dialog, id ResponseType) { answer = id })
	md.ActionArea().Children()[1].(*Button).Clicked()
	if answer != ResponseYes {
		t.Errorf("answer = %v, want yes", answer)
	}
	if len(rec.Errors()) != 0 {
		t.Errorf("unexpected reports: %v", rec.Errors())
	}
}

func TestResponseTypeString(t *testing.T) {
	for id, want := range map[ResponseType]string{
		ResponseOK:          "ok",
		ResponseDeleteEvent: "delete-event",
		ResponseType(7):     "response(7)",
	} {
		if got := id.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(id), got, want)
		}
	}
}
