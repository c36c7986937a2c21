package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/bisegni/soagen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
