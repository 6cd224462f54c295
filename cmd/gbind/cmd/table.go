package cmd

import (
	"fmt"
	"slices"

	"github.com/go-drift/gbind/pkg/widgets"
)

func init() {
	RegisterCommand(&Command{
		Name:  "table",
		Short: "Print the widget dispatch table",
		Long: `Print the dispatch table used to pick a wrapper for a native type.

Entries are shown as a tree below their root type, followed by the
aliases. Settings from gbind.yaml (dispatch.version, dispatch.aliases)
are applied first.`,
		Usage: "gbind table [--raw]",
		Run:   runTable,
	})
}

func runTable(args []string) error {
	raw := false
	for _, arg := range args {
		switch arg {
		case "--raw":
			raw = true
		default:
			return fmt.Errorf("unknown flag %q", arg)
		}
	}

	cfg, flush, err := loadConfig()
	if err != nil {
		return err
	}
	defer flush()

	table := widgets.DefaultTable()
	if err := cfg.Apply(table); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Dispatch table %s\n\n", table.Version())
	if raw {
		// Match order: most derived first.
		for _, e := range table.Entries() {
			fmt.Fprintf(stdout, "%d %s\n", e.Depth(), e.Tag)
		}
		return nil
	}
	writeRows(stdout, tableRows(table))

	aliases := table.Aliases()
	if len(aliases) == 0 {
		return nil
	}
	names := make([]string, 0, len(aliases))
	for alias := range aliases {
		names = append(names, alias)
	}
	slices.Sort(names)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Aliases:")
	rows := make([]row, 0, len(names))
	for _, alias := range names {
		rows = append(rows, row{depth: 1, name: alias, note: "-> " + aliases[alias]})
	}
	writeRows(stdout, rows)
	return nil
}

// tableRows lays the table out as a tree in registration order.
func tableRows(table *widgets.DispatchTable) []row {
	entries := table.Entries()
	byParent := make(map[string][]*widgets.TableEntry)
	for _, e := range entries {
		byParent[e.Parent] = append(byParent[e.Parent], e)
	}
	// Siblings share a depth, so match order keeps them in registration order.

	var rows []row
	var visit func(parent string, depth int)
	visit = func(parent string, depth int) {
		for _, e := range byParent[parent] {
			rows = append(rows, row{depth: depth, name: e.Tag, note: fmt.Sprintf("depth %d", e.Depth())})
			visit(e.Tag, depth+1)
		}
	}
	visit("", 0)
	return rows
}
