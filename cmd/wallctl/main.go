// Package main is the entry point for the wallctl CLI.
package main

import (
	"fmt"
	"os"

	"github.com/wallctl/wallctl/internal/cmd"
)

func main() {
	if err := cmd.Execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cmd.ExitCode(err))
	}
}
