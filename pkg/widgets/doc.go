// Package widgets provides typed wrappers over native toolkit widgets.
//
// # Identity
//
// Every wrapper holds exactly one native handle and is registered in the
// Resolver's registry, so a handle maps to at most one wrapper. Resolve turns
// any handle the toolkit hands back (children built by native code, dialog
// content areas, "get child" calls) into the registered wrapper, building it
// on first sight:
//
//	w := r.Resolve(h)
//	w == r.Resolve(h) // always
//
// # Type dispatch
//
// The DispatchTable maps native type tags to wrapper constructors. Entries
// form a hierarchy (GtkMessageDialog below GtkDialog below GtkWindow ...);
// a handle whose own tag is not modeled resolves to its most specific
// modeled ancestor, and ultimately to the base Widget wrapper.
//
// # Capabilities
//
// Wrappers compose small capabilities instead of a deep class ladder:
//
//	HasChildren          Children, InternalChildren, Add, Remove
//	SupportsSingleChild  Child (Bin, Button, Window, Dialog)
//	IsTopLevel           Title, SetTitle, Present (Window, Dialog)
//
// # Structure
//
// A widget has at most one parent. Adding a parented widget, adding a second
// child to a single-child container or removing a non-child is reported and
// leaves both sides unchanged. Resolver.Sync reconciles a container's
// bookkeeping with the native child list, adopting children the toolkit
// created without re-adding them natively, and keeps internal children
// (scrollbars, action areas) apart from application children.
//
// # Lifecycle
//
// Destroy destroys the native object. Each native "destroy" emission, whether
// caused by Destroy or by the toolkit, runs the widget's destroy closures and
// then tears that one wrapper down: it is detached, unregistered and loses
// its signal bindings. Descendants are torn down by their own emissions.
package widgets
