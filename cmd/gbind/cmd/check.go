package cmd

import (
	"fmt"

	"github.com/go-drift/gbind/pkg/widgets"
)

func init() {
	RegisterCommand(&Command{
		Name:  "check",
		Short: "Validate gbind.yaml against the dispatch table",
		Long: `Validate the project configuration.

Loads gbind.yaml (if present) and go.mod from the project root, checks the
application ID, the dispatch.version constraint, each configured alias and
the log settings.`,
		Usage: "gbind check",
		Run:   runCheck,
	})
}

func runCheck(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument %q", args[0])
	}

	cfg, flush, err := loadConfig()
	if err != nil {
		return err
	}
	defer flush()

	table := widgets.DefaultTable()
	applyErr := cfg.Apply(table)

	module := cfg.ModulePath
	if module == "" {
		module = "(none)"
	}
	rows := []row{
		{name: "Root", note: cfg.Root},
		{name: "Module", note: module},
		{name: "App ID", note: cfg.AppID},
		{name: "Table version", note: table.Version()},
		{name: "Aliases", note: fmt.Sprintf("%d", len(table.Aliases()))},
		{name: "Log handler", note: fmt.Sprintf("%s (level %s)", cfg.Log.Handler, cfg.Log.Level)},
	}
	if cfg.Dispatch.Version != "" {
		rows = append(rows, row{name: "Constraint", note: cfg.Dispatch.Version})
	}
	writeRows(stdout, rows)

	if applyErr != nil {
		fmt.Fprintln(stdout)
		return fmt.Errorf("configuration does not match the dispatch table: %w", applyErr)
	}
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Configuration OK")
	return nil
}
