// Package main provides the entry point for the phantom-scope CLI.
package main

import (
	"fmt"
	"os"

	"github.com/ZanzyTHEbar/phantom-scope/cmd/phantom-scope/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
