// Package app provides the application root of a binding session.
//
// An Application owns the native application object together with the
// registry scope, signal bridge and resolver every wrapper created for it
// shares. Nothing here is global; two applications never see each other's
// wrappers.
package app

import (
	"slices"

	"github.com/go-drift/gbind/pkg/errors"
	"github.com/go-drift/gbind/pkg/native"
	"github.com/go-drift/gbind/pkg/registry"
	"github.com/go-drift/gbind/pkg/signals"
	"github.com/go-drift/gbind/pkg/widgets"
)

// Option configures an Application.
type Option func(*options)

type options struct {
	reg   *registry.Registry
	table *widgets.DispatchTable
}

// WithRegistry makes the application use reg instead of a fresh registry.
func WithRegistry(reg *registry.Registry) Option {
	return func(o *options) { o.reg = reg }
}

// WithTable makes the application resolve wrappers through table instead of
// widgets.DefaultTable.
func WithTable(table *widgets.DispatchTable) Option {
	return func(o *options) { o.table = table }
}

// Application wraps the native application object.
type Application struct {
	handle   native.Handle
	id       string
	tk       native.Toolkit
	reg      *registry.Registry
	bridge   *signals.Bridge
	resolver *widgets.Resolver
	windows  []widgets.IsTopLevel
	signals  signals.Set
	closed   bool
}

// New creates the native application object identified by id.
func New(tk native.Toolkit, id string, opts ...Option) (*Application, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.reg == nil {
		o.reg = registry.New()
	}

	h, err := tk.New("GtkApplication")
	if err != nil {
		errors.Report(&errors.BindError{
			Op:   "app.New",
			Kind: errors.KindNative,
			Tag:  "GtkApplication",
			Err:  err,
		})
		return nil, err
	}
	bridge := signals.NewBridge(tk, o.reg)
	a := &Application{
		handle:   h,
		id:       id,
		tk:       tk,
		reg:      o.reg,
		bridge:   bridge,
		resolver: widgets.NewResolver(tk, o.reg, bridge, o.table),
	}
	if id != "" {
		if err := tk.SetProperty(h, "application-id", id); err != nil {
			a.nativeError("app.New", err)
		}
	}
	a.reg.Register(a)
	return a, nil
}

// Handle returns the native application handle.
func (a *Application) Handle() native.Handle { return a.handle }

// Signals returns the application's signal bindings.
func (a *Application) Signals() *signals.Set { return &a.signals }

// ID returns the application identifier.
func (a *Application) ID() string { return a.id }

// Resolver returns the resolver shared by the application's wrappers.
func (a *Application) Resolver() *widgets.Resolver { return a.resolver }

// Registry returns the application's registry scope.
func (a *Application) Registry() *registry.Registry { return a.reg }

// Resolve returns the wrapper for h, building it on first sight.
func (a *Application) Resolve(h native.Handle) widgets.Widget {
	return a.resolver.Resolve(h)
}

// Sync reconciles c with its native children.
func (a *Application) Sync(c widgets.HasChildren) {
	a.resolver.Sync(c)
}

// OnActivate registers fn for the "activate" signal.
func (a *Application) OnActivate(fn func(*Application)) {
	a.bridge.Connect(a, "activate", signals.Void, func(ev signals.Event) {
		fn(ev.Source.(*Application))
	})
}

// Activate emits "activate" on the application.
func (a *Application) Activate() {
	if a.closed {
		return
	}
	if err := a.bridge.Emit(a, "activate"); err != nil {
		a.nativeError("app.Activate", err)
	}
}

// AddWindow associates w with the application. Adding a window twice has no
// effect.
func (a *Application) AddWindow(w widgets.IsTopLevel) error {
	if w == nil {
		return a.structureError("app.AddWindow", widgets.ErrNilWidget)
	}
	if w.Destroyed() {
		return a.structureError("app.AddWindow", widgets.ErrDestroyed)
	}
	if a.tracks(w) {
		return nil
	}
	if err := a.tk.Add(a.handle, w.Handle()); err != nil {
		return a.nativeError("app.AddWindow", err)
	}
	a.windows = append(a.windows, w)
	return nil
}

// RemoveWindow dissociates w from the application.
func (a *Application) RemoveWindow(w widgets.IsTopLevel) error {
	if w == nil || !a.tracks(w) {
		return a.structureError("app.RemoveWindow", widgets.ErrNotChild)
	}
	if err := a.tk.Remove(a.handle, w.Handle()); err != nil {
		return a.nativeError("app.RemoveWindow", err)
	}
	a.forget(w)
	return nil
}

// Windows returns the live windows associated with the application, in the
// order they were added.
func (a *Application) Windows() []widgets.IsTopLevel {
	a.windows = slices.DeleteFunc(a.windows, func(w widgets.IsTopLevel) bool { return w.Destroyed() })
	return slices.Clone(a.windows)
}

// ActiveWindow returns the window the toolkit reports as active, or nil.
func (a *Application) ActiveWindow() widgets.IsTopLevel {
	v, err := a.tk.Property(a.handle, "active-window")
	if err != nil {
		a.nativeError("app.ActiveWindow", err)
		return nil
	}
	h, err := native.Args{v}.Handle(0)
	if err != nil || h.IsNull() {
		return nil
	}
	tl, _ := a.resolver.Resolve(h).(widgets.IsTopLevel)
	return tl
}

// Close destroys every window of the application, then the application
// object itself. The application is unusable afterwards.
func (a *Application) Close() {
	if a.closed {
		return
	}
	for _, w := range a.Windows() {
		w.Destroy()
	}
	a.windows = nil
	a.closed = true
	a.bridge.Release(a)
	if obj, ok := a.reg.Lookup(a.handle); ok && obj == registry.Object(a) {
		a.reg.Unregister(a.handle)
	}
	if err := a.tk.Destroy(a.handle); err != nil {
		a.nativeError("app.Close", err)
	}
}

func (a *Application) tracks(w widgets.IsTopLevel) bool {
	return slices.ContainsFunc(a.windows, func(x widgets.IsTopLevel) bool { return x.Handle() == w.Handle() })
}

func (a *Application) forget(w widgets.IsTopLevel) {
	a.windows = slices.DeleteFunc(a.windows, func(x widgets.IsTopLevel) bool { return x.Handle() == w.Handle() })
}

func (a *Application) nativeError(op string, err error) error {
	e := &errors.BindError{
		Op:     op,
		Kind:   errors.KindNative,
		Handle: uintptr(a.handle),
		Tag:    "GtkApplication",
		Err:    err,
	}
	errors.Report(e)
	return e
}

func (a *Application) structureError(op string, err error) error {
	e := &errors.BindError{
		Op:     op,
		Kind:   errors.KindStructure,
		Handle: uintptr(a.handle),
		Tag:    "GtkApplication",
		Err:    err,
	}
	errors.Report(e)
	return e
}
