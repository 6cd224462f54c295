package widgets

import (
	"github.com/go-drift/gbind/pkg/native"
)

// Grid is the wrapper for GtkGrid.
type Grid struct {
	*Container
}

func wrapGrid(b *Base) Widget {
	c := newContainer(b)
	g := &Grid{Container: c}
	b.self = g
	return g
}

// NewGrid creates a native grid.
func NewGrid(r *Resolver) (*Grid, error) {
	return create[*Grid](r, "GtkGrid")
}

// Cell is the area a grid child occupies.
type Cell struct {
	Left, Top     int
	Width, Height int
}

// Attach adds child to the grid covering cell.
func (g *Grid) Attach(child Widget, cell Cell) error {
	if cell.Width < 1 {
		cell.Width = 1
	}
	if cell.Height < 1 {
		cell.Height = 1
	}
	if err := g.Add(child); err != nil {
		return err
	}
	cb := child.base()
	cb.setProp("left-attach", cell.Left)
	cb.setProp("top-attach", cell.Top)
	cb.setProp("width", cell.Width)
	cb.setProp("height", cell.Height)
	return nil
}

// CellOf returns the cell child occupies.
func (g *Grid) CellOf(child Widget) (Cell, bool) {
	if !g.Contains(child) {
		return Cell{}, false
	}
	return g.cell(child.Handle())
}

func (g *Grid) cell(h native.Handle) (Cell, bool) {
	var c Cell
	for _, f := range []struct {
		name string
		dst  *int
	}{
		{"left-attach", &c.Left},
		{"top-attach", &c.Top},
		{"width", &c.Width},
		{"height", &c.Height},
	} {
		v, err := g.r.tk.Property(h, f.name)
		if err != nil {
			return Cell{}, false
		}
		n, err := native.Args{v}.Int(0)
		if err != nil {
			return Cell{}, false
		}
		*f.dst = n
	}
	return c, true
}

// ChildAt returns the child whose cell covers (left, top), or nil.
// Children the toolkit attached on its own are resolved and adopted.
func (g *Grid) ChildAt(left, top int) Widget {
	for _, h := range g.r.tk.Children(g.handle) {
		c, ok := g.cell(h)
		if !ok {
			continue
		}
		if left >= c.Left && left < c.Left+c.Width && top >= c.Top && top < c.Top+c.Height {
			return g.childFor(h)
		}
	}
	return nil
}
