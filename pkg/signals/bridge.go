// Package signals bridges native signal emissions to Go closures.
//
// Each wrapper carries a Set of bindings, one per signal name, created the
// first time a closure is connected. The Bridge hands the toolkit one fixed
// trampoline per signature. When the toolkit invokes it, the trampoline finds
// the wrapper by looking up the origin handle in the registry, then calls the
// binding's closures in registration order. No user data travels through the
// native layer.
package signals

import (
	"fmt"
	"slices"

	"github.com/go-drift/gbind/pkg/errors"
	"github.com/go-drift/gbind/pkg/native"
	"github.com/go-drift/gbind/pkg/registry"
)

// Event is a single signal emission delivered to closures.
type Event struct {
	// Source is the wrapper the signal was emitted on.
	Source registry.Object
	// Signal is the signal name.
	Signal string
	// Args are the emission's arguments, already checked against the signature.
	Args native.Args
}

// Closure receives signal emissions.
type Closure func(Event)

// Holder is a wrapper that stores signal bindings.
type Holder interface {
	registry.Object
	Signals() *Set
}

// Binding associates a wrapper's signal with its closures.
type Binding struct {
	handle    native.Handle
	name      string
	sig       Signature
	closures  []Closure
	after     []Closure
	connected bool
}

// Handle returns the native handle the binding is attached to.
func (b *Binding) Handle() native.Handle { return b.handle }

// Name returns the signal name.
func (b *Binding) Name() string { return b.name }

// Signature returns the signal's signature.
func (b *Binding) Signature() Signature { return b.sig }

// Len returns the number of connected closures.
func (b *Binding) Len() int { return len(b.closures) + len(b.after) }

// Connected reports whether the native trampoline was attached.
func (b *Binding) Connected() bool { return b.connected }

// Set holds the bindings of one wrapper. The zero value is ready to use.
type Set struct {
	bindings map[string]*Binding
}

// Lookup returns the binding for signal, or nil.
func (s *Set) Lookup(signal string) *Binding {
	if s == nil {
		return nil
	}
	return s.bindings[signal]
}

// Names returns the bound signal names, sorted.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.bindings))
	for n := range s.bindings {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Release drops every binding. Trampolines already attached natively stay
// attached and become no-ops.
func (s *Set) Release() {
	s.bindings = nil
}

func (s *Set) binding(h native.Handle, signal string, sig Signature) (*Binding, bool) {
	if b, ok := s.bindings[signal]; ok {
		return b, false
	}
	if s.bindings == nil {
		s.bindings = make(map[string]*Binding)
	}
	b := &Binding{handle: h, name: signal, sig: sig}
	s.bindings[signal] = b
	return b, true
}

// Bridge connects bindings to the toolkit and dispatches emissions.
type Bridge struct {
	tk          native.Toolkit
	reg         *registry.Registry
	trampolines map[string]native.Trampoline
}

// NewBridge returns a bridge resolving origins through reg.
func NewBridge(tk native.Toolkit, reg *registry.Registry) *Bridge {
	return &Bridge{
		tk:          tk,
		reg:         reg,
		trampolines: make(map[string]native.Trampoline),
	}
}

// Connect appends c to the closures run when signal is emitted on h.
// The binding and its native connection are created on first use.
func (b *Bridge) Connect(h Holder, signal string, sig Signature, c Closure) *Binding {
	return b.connect(h, signal, sig, c, false)
}

// ConnectAfter is like Connect, but c runs after every closure added with
// Connect, regardless of registration order.
func (b *Bridge) ConnectAfter(h Holder, signal string, sig Signature, c Closure) *Binding {
	return b.connect(h, signal, sig, c, true)
}

func (b *Bridge) connect(h Holder, signal string, sig Signature, c Closure, after bool) *Binding {
	binding, created := h.Signals().binding(h.Handle(), signal, sig)
	if created {
		if err := b.tk.Connect(h.Handle(), signal, b.trampoline(sig)); err != nil {
			errors.Report(&errors.BindError{
				Op:     "signals.Connect",
				Kind:   errors.KindNative,
				Handle: uintptr(h.Handle()),
				Err:    fmt.Errorf("connect %q: %w", signal, err),
			})
		} else {
			binding.connected = true
		}
	} else if binding.sig.Key() != sig.Key() {
		errors.Report(&errors.BindError{
			Op:     "signals.Connect",
			Kind:   errors.KindSignal,
			Handle: uintptr(h.Handle()),
			Err:    fmt.Errorf("signal %q bound as %s, closure expects %s", signal, binding.sig, sig),
		})
		return binding
	}
	if c == nil {
		return binding
	}
	if after {
		binding.after = append(binding.after, c)
	} else {
		binding.closures = append(binding.closures, c)
	}
	return binding
}

// Emit asks the toolkit to emit signal on h.
func (b *Bridge) Emit(h registry.Object, signal string, args ...any) error {
	return b.tk.Emit(h.Handle(), signal, args...)
}

// Release drops every binding of h.
func (b *Bridge) Release(h Holder) {
	h.Signals().Release()
}

// trampoline returns the shared trampoline for sig.
func (b *Bridge) trampoline(sig Signature) native.Trampoline {
	key := sig.Key()
	if t, ok := b.trampolines[key]; ok {
		return t
	}
	t := func(origin native.Handle, signal string, args native.Args) {
		b.dispatch(origin, signal, sig, args)
	}
	b.trampolines[key] = t
	return t
}

func (b *Bridge) dispatch(origin native.Handle, signal string, sig Signature, args native.Args) {
	obj, ok := b.reg.Lookup(origin)
	if !ok {
		return
	}
	holder, ok := obj.(Holder)
	if !ok {
		return
	}
	binding := holder.Signals().Lookup(signal)
	if binding == nil {
		return
	}
	if err := sig.Check(args); err != nil {
		errors.Report(&errors.BindError{
			Op:     "signals.dispatch",
			Kind:   errors.KindSignal,
			Handle: uintptr(origin),
			Err:    fmt.Errorf("%s: %w", signal, err),
		})
		return
	}
	ev := Event{Source: obj, Signal: signal, Args: args}
	closures := slices.Concat(binding.closures, binding.after)
	for _, c := range closures {
		invoke(c, ev)
	}
}

// invoke runs one closure; a panic is reported and does not stop dispatch
// to the remaining closures.
func invoke(c Closure, ev Event) {
	defer errors.Recover("signals.dispatch " + ev.Signal)
	c(ev)
}
