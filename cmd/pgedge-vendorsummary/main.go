// Package main is the entry point for pgedge-vendorsummary.
package main

import (
	"fmt"
	"os"

	"github.com/pgEdge/pgedge-vendorsummary/internal/cli"
	"github.com/pgEdge/pgedge-vendorsummary/pkg/vendorsummary"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(vendorsummary.ExitCodeForError(err))
	}
}
