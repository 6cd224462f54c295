// Package cmd implements the gbind CLI commands.
//
// A root command dispatches to subcommands (table, check, demo, serve).
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-drift/gbind/pkg/config"
	"github.com/go-drift/gbind/pkg/errors"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Command represents a CLI command.
type Command struct {
	Name        string
	Short       string
	Long        string
	Usage       string
	Run         func(args []string) error
	SubCommands []*Command
}

var rootCmd = &Command{
	Name:  "gbind",
	Short: "gbind - toolkit widget bindings for Go",
	Long: `gbind wraps native toolkit widgets in Go objects with a stable
identity, a type-dispatched wrapper hierarchy and ordered signal closures.

Use "gbind <command> --help" for more information about a command.`,
	Usage: "gbind <command> [flags]",
}

// Commands registered with the CLI.
var commands = make(map[string]*Command)

// stdout is where commands print; tests replace it.
var stdout io.Writer = os.Stdout

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	rootCmd.SubCommands = append(rootCmd.SubCommands, cmd)
}

// Execute runs the CLI with the given arguments.
func Execute(args []string) error {
	// Handle global flags and extract --config-dir
	var filteredArgs []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-h", "--help", "help":
			if len(filteredArgs) == 0 {
				printHelp(rootCmd)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "-v", "--version", "version":
			if len(filteredArgs) == 0 {
				fmt.Fprintf(stdout, "gbind version %s (built %s)\n", Version, BuildTime)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "--config-dir":
			if i+1 < len(args) {
				configDir = args[i+1]
				i++
			} else {
				return fmt.Errorf("--config-dir requires a directory path")
			}
		default:
			if strings.HasPrefix(arg, "--config-dir=") {
				configDir = strings.TrimPrefix(arg, "--config-dir=")
				continue
			}
			filteredArgs = append(filteredArgs, arg)
		}
	}
	args = filteredArgs

	if len(args) == 0 {
		printHelp(rootCmd)
		return nil
	}

	cmdName := args[0]
	cmd, ok := commands[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", cmdName)
		printHelp(rootCmd)
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	cmdArgs := args[1:]
	for _, arg := range cmdArgs {
		if arg == "-h" || arg == "--help" || arg == "help" {
			printCommandHelp(cmd)
			return nil
		}
	}

	return cmd.Run(cmdArgs)
}

// configDir overrides the project root lookup.
var configDir string

// loadConfig resolves gbind.yaml and installs the configured diagnostic
// handler. The returned func flushes the handler's logger.
func loadConfig() (*config.Resolved, func(), error) {
	root := configDir
	if root == "" {
		var err error
		root, err = config.FindProjectRoot()
		if err != nil {
			root = "."
		}
	}
	cfg, err := config.Resolve(root)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	h, logger, err := cfg.Handler()
	if err != nil {
		return nil, nil, err
	}
	errors.SetHandler(h)
	flush := func() {
		if logger != nil {
			_ = logger.Sync()
		}
	}
	return cfg, flush, nil
}

func printHelp(cmd *Command) {
	out := stdout
	fmt.Fprintln(out, cmd.Long)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintf(out, "  %s\n", cmd.Usage)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	for _, sub := range cmd.SubCommands {
		fmt.Fprintf(out, "  %-14s %s\n", sub.Name, sub.Short)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Flags:")
	fmt.Fprintln(out, "  -h, --help           Show help for a command")
	fmt.Fprintln(out, "  -v, --version        Show version information")
	fmt.Fprintln(out, "  --config-dir DIR     Directory holding gbind.yaml (default: project root)")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Examples:")
	fmt.Fprintln(out, "  gbind table              Print the dispatch table")
	fmt.Fprintln(out, "  gbind demo               Build a sample widget tree and print it")
	fmt.Fprintln(out, "  gbind serve --addr :8765 Serve an in-memory toolkit over websocket")
}

func printCommandHelp(cmd *Command) {
	fmt.Fprintln(stdout, cmd.Long)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Usage:")
	fmt.Fprintf(stdout, "  %s\n", cmd.Usage)
}
