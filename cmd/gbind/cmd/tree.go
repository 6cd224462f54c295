package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// row is one line of an indented two-column listing.
type row struct {
	depth int
	name  string
	note  string
}

// writeRows prints rows with names indented by depth and notes aligned in a
// second column. Widths are measured in terminal cells so labels holding
// wide characters keep the column straight.
func writeRows(w io.Writer, rows []row) {
	width := 0
	for _, r := range rows {
		if n := runewidth.StringWidth(indent(r)); n > width {
			width = n
		}
	}
	for _, r := range rows {
		if r.note == "" {
			fmt.Fprintln(w, indent(r))
			continue
		}
		fmt.Fprintf(w, "%s  %s\n", runewidth.FillRight(indent(r), width), r.note)
	}
}

func indent(r row) string {
	return strings.Repeat("  ", r.depth) + r.name
}
