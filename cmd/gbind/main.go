// Command gbind inspects and exercises the widget binding layer.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/gbind/cmd/gbind/cmd"
)

func main() {
	if err := cmd.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
