package registry

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	binderrors "github.com/go-drift/gbind/pkg/errors"
	"github.com/go-drift/gbind/pkg/native"
)

type wrapper struct {
	h    native.Handle
	name string
}

func (w *wrapper) Handle() native.Handle { return w.h }

type otherWrapper struct{ h native.Handle }

func (w *otherWrapper) Handle() native.Handle { return w.h }

func TestRegisterAndLookup(t *testing.T) {
	r := New()
	w := &wrapper{h: 0x10}
	if got := r.Register(w); got != Object(w) {
		t.Fatalf("Register returned %v, want %v", got, w)
	}
	got, ok := r.Lookup(0x10)
	if !ok || got != Object(w) {
		t.Errorf("Lookup = %v, %v", got, ok)
	}
	if _, ok := r.Lookup(0x20); ok {
		t.Error("Lookup of unregistered handle should miss")
	}
}

func TestRegisterDuplicateKeepsFirst(t *testing.T) {
	rec := binderrors.CaptureForTest(t)
	r := New()
	first := &wrapper{h: 0x10, name: "first"}
	second := &wrapper{h: 0x10, name: "second"}

	r.Register(first)
	got := r.Register(second)

	if got != Object(first) {
		t.Errorf("Register(second) = %v, want first", got)
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
	if kinds := rec.Kinds(); len(kinds) != 1 || kinds[0] != binderrors.KindDuplicate {
		t.Errorf("reported kinds = %v, want [duplicate]", kinds)
	}
	if errs := rec.Errors(); len(errs) == 1 && !errors.Is(errs[0], ErrDuplicate) {
		t.Errorf("reported error %v should wrap ErrDuplicate", errs[0])
	}
}

func TestRegisterSameObjectIsSilent(t *testing.T) {
	rec := binderrors.CaptureForTest(t)
	r := New()
	w := &wrapper{h: 0x10}
	r.Register(w)
	r.Register(w)
	if len(rec.Errors()) != 0 {
		t.Errorf("re-registering the same wrapper reported %v", rec.Kinds())
	}
}

func TestRegisterNullHandle(t *testing.T) {
	rec := binderrors.CaptureForTest(t)
	r := New()
	w := &wrapper{}
	if got := r.Register(w); got != Object(w) {
		t.Errorf("Register(null) = %v, want the argument back", got)
	}
	if r.Len() != 0 {
		t.Error("null handle should not be registered")
	}
	if kinds := rec.Kinds(); len(kinds) != 1 || kinds[0] != binderrors.KindNullHandle {
		t.Errorf("reported kinds = %v, want [null-handle]", kinds)
	}
}

func TestUnregister(t *testing.T) {
	r := New()
	r.Register(&wrapper{h: 0x10})
	r.Unregister(0x10)
	r.Unregister(0x99)
	if _, ok := r.Lookup(0x10); ok {
		t.Error("handle should be gone after Unregister")
	}

	// A fresh wrapper may claim the handle again once it is released.
	w := &wrapper{h: 0x10, name: "again"}
	if got := r.Register(w); got != Object(w) {
		t.Error("re-registration after Unregister should succeed")
	}
}

func TestHandlesSorted(t *testing.T) {
	r := New()
	for _, h := range []native.Handle{0x30, 0x10, 0x20} {
		r.Register(&wrapper{h: h})
	}
	want := []native.Handle{0x10, 0x20, 0x30}
	if diff := cmp.Diff(want, r.Handles()); diff != "" {
		t.Errorf("Handles() mismatch (-want +got):\n%s", diff)
	}
}

func TestLookupAs(t *testing.T) {
	r := New()
	r.Register(&wrapper{h: 0x10})
	if _, ok := LookupAs[*wrapper](r, 0x10); !ok {
		t.Error("LookupAs[*wrapper] should hit")
	}
	if _, ok := LookupAs[*otherWrapper](r, 0x10); ok {
		t.Error("LookupAs with the wrong type should miss")
	}
}

func TestDefaultIsShared(t *testing.T) {
	if Default() != Default() {
		t.Error("Default should return the same registry")
	}
}
