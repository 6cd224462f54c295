package widgets

import (
	"slices"

	"github.com/go-drift/gbind/pkg/native"
)

// Sync reconciles c's child bookkeeping with the native child list, then
// recurses into container children.
//
// Children already tracked by c (matched by handle) are kept as they are.
// Other native children are resolved and attached wrapper-side only; no
// native add is issued because the child already exists natively. Children
// the toolkit reports only through AllChildren are tracked as internal
// children. The resulting lists follow native order; tracked children the
// toolkit no longer reports are dropped.
func (r *Resolver) Sync(c HasChildren) {
	if c == nil {
		return
	}
	r.sync(c, make(map[native.Handle]bool))
}

func (r *Resolver) sync(c HasChildren, visited map[native.Handle]bool) {
	cont := c.container()
	if cont.destroyed || visited[cont.handle] {
		return
	}
	visited[cont.handle] = true

	visible := make(map[native.Handle]bool)
	for _, h := range r.tk.Children(cont.handle) {
		visible[h] = true
	}

	var children, internal []Widget
	for _, h := range r.tk.AllChildren(cont.handle) {
		w := cont.tracked(h)
		if w == nil {
			w = r.resolve(h, false)
			if w == nil {
				continue
			}
			if p := w.Parent(); p != nil && p.Handle() != cont.handle {
				// Reparented natively behind our back.
				p.container().forget(w)
			}
			w.base().parent = c
		}
		if visible[h] {
			children = append(children, w)
		} else {
			internal = append(internal, w)
		}
	}

	kept := make(map[native.Handle]bool, len(children)+len(internal))
	for _, w := range children {
		kept[w.Handle()] = true
	}
	for _, w := range internal {
		kept[w.Handle()] = true
	}
	for _, w := range slices.Concat(cont.children, cont.internal) {
		if !kept[w.Handle()] {
			if b := w.base(); b.parent != nil && b.parent.Handle() == cont.handle {
				b.parent = nil
			}
		}
	}
	cont.children = children
	cont.internal = internal

	for _, w := range children {
		if hc, ok := w.(HasChildren); ok {
			r.sync(hc, visited)
		}
	}
	for _, w := range internal {
		if hc, ok := w.(HasChildren); ok {
			r.sync(hc, visited)
		}
	}
}
