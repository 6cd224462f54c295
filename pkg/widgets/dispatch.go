package widgets

import (
	"fmt"
	"slices"

	"golang.org/x/mod/semver"

	"github.com/go-drift/gbind/pkg/native"
)

// TableVersion is the version of the default dispatch table. It changes
// whenever an entry is added, removed or moved in the hierarchy.
const TableVersion = "v1.2.0"

// Constructor builds a wrapper around a prepared Base.
type Constructor func(b *Base) Widget

// TableEntry is one dispatch table row.
type TableEntry struct {
	Tag    string
	Parent string
	New    Constructor
	depth  int
	seq    int
}

// Depth returns the entry's distance from its root type.
func (e *TableEntry) Depth() int { return e.depth }

// DispatchTable maps native type tags to wrapper constructors.
//
// Entries form a tree through their Parent tags. Matching walks entries from
// most derived to least derived (by depth, then by registration order), so
// registration order cannot put a base type in front of its subtypes.
type DispatchTable struct {
	version string
	entries map[string]*TableEntry
	order   []*TableEntry
	aliases map[string]string
	seq     int
}

// NewDispatchTable returns an empty table. version must be a valid semantic
// version ("v1.2.0").
func NewDispatchTable(version string) (*DispatchTable, error) {
	if !semver.IsValid(version) {
		return nil, fmt.Errorf("dispatch table version %q is not a valid semantic version", version)
	}
	return &DispatchTable{
		version: version,
		entries: make(map[string]*TableEntry),
		aliases: make(map[string]string),
	}, nil
}

// Version returns the table version.
func (t *DispatchTable) Version() string { return t.version }

// Register adds an entry for tag below parent. An empty parent makes tag a
// root. Duplicate tags and unknown parents are rejected.
func (t *DispatchTable) Register(tag, parent string, ctor Constructor) error {
	if tag == "" || ctor == nil {
		return fmt.Errorf("dispatch entry needs a tag and a constructor")
	}
	if _, ok := t.entries[tag]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTag, tag)
	}
	if _, ok := t.aliases[tag]; ok {
		return fmt.Errorf("%w: %s is an alias", ErrDuplicateTag, tag)
	}
	depth := 0
	if parent != "" {
		p, ok := t.entries[parent]
		if !ok {
			return fmt.Errorf("%w: %s (for %s)", ErrUnknownParentTag, parent, tag)
		}
		depth = p.depth + 1
	}
	e := &TableEntry{Tag: tag, Parent: parent, New: ctor, depth: depth, seq: t.seq}
	t.seq++
	t.entries[tag] = e
	t.order = append(t.order, e)
	slices.SortStableFunc(t.order, func(a, b *TableEntry) int {
		if a.depth != b.depth {
			return b.depth - a.depth
		}
		return a.seq - b.seq
	})
	return nil
}

// Alias makes alias resolve like tag. Native types the binding treats as
// another type (deprecated GtkVBox as GtkBox) are declared this way.
func (t *DispatchTable) Alias(alias, tag string) error {
	if _, ok := t.entries[alias]; ok {
		return fmt.Errorf("%w: alias %s shadows an entry", ErrDuplicateTag, alias)
	}
	if _, ok := t.entries[tag]; !ok {
		return fmt.Errorf("%w: %s (alias %s)", ErrUnknownParentTag, tag, alias)
	}
	t.aliases[alias] = tag
	return nil
}

// Aliases returns a copy of the alias map.
func (t *DispatchTable) Aliases() map[string]string {
	out := make(map[string]string, len(t.aliases))
	for k, v := range t.aliases {
		out[k] = v
	}
	return out
}

// Lookup returns the entry for tag, following aliases.
func (t *DispatchTable) Lookup(tag string) (*TableEntry, bool) {
	if target, ok := t.aliases[tag]; ok {
		tag = target
	}
	e, ok := t.entries[tag]
	return e, ok
}

// Entries returns the entries in matching order.
func (t *DispatchTable) Entries() []*TableEntry {
	return slices.Clone(t.order)
}

// Root returns the first registered root entry, used as the fallback for
// objects no entry matches.
func (t *DispatchTable) Root() *TableEntry {
	var root *TableEntry
	for _, e := range t.entries {
		if e.depth == 0 && (root == nil || e.seq < root.seq) {
			root = e
		}
	}
	return root
}

// Match returns the entry for handle h with type tag. The boolean is true when
// tag itself (or an alias of it) is in the table; otherwise the most specific
// entry h is an instance of is returned. A nil entry means nothing matched.
func (t *DispatchTable) Match(tk native.Toolkit, h native.Handle, tag string) (*TableEntry, bool) {
	if e, ok := t.Lookup(tag); ok {
		return e, true
	}
	for _, e := range t.order {
		if tk.IsA(h, e.Tag) {
			return e, false
		}
	}
	return nil, false
}

// DefaultTable returns a fresh table with every wrapper this package models.
func DefaultTable() *DispatchTable {
	t, err := NewDispatchTable(TableVersion)
	if err != nil {
		panic(err)
	}
	rows := []struct {
		tag, parent string
		ctor        Constructor
	}{
		{"GtkWidget", "", wrapBase},
		{"GtkMisc", "GtkWidget", wrapBase},
		{"GtkLabel", "GtkMisc", wrapLabel},
		{"GtkEntry", "GtkWidget", wrapEntry},
		{"GtkContainer", "GtkWidget", wrapContainer},
		{"GtkBox", "GtkContainer", wrapBox},
		{"GtkButtonBox", "GtkBox", wrapButtonBox},
		{"GtkGrid", "GtkContainer", wrapGrid},
		{"GtkBin", "GtkContainer", wrapBin},
		{"GtkButton", "GtkBin", wrapButton},
		{"GtkRevealer", "GtkBin", wrapRevealer},
		{"GtkWindow", "GtkBin", wrapWindow},
		{"GtkApplicationWindow", "GtkWindow", wrapApplicationWindow},
		{"GtkDialog", "GtkWindow", wrapDialog},
		{"GtkMessageDialog", "GtkDialog", wrapMessageDialog},
	}
	for _, row := range rows {
		if err := t.Register(row.tag, row.parent, row.ctor); err != nil {
			panic(err)
		}
	}
	for alias, tag := range map[string]string{"GtkVBox": "GtkBox", "GtkHBox": "GtkBox"} {
		if err := t.Alias(alias, tag); err != nil {
			panic(err)
		}
	}
	return t
}
