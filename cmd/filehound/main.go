package main

import (
	"fmt"
	"os"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

func main() {
	cmd := newRootCommand()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
