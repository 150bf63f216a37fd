// Package main provides the entry point for guardctl, the command-line
// client for the SDN traffic guard backend.
package main

import (
	"fmt"
	"os"

	"github.com/GFG374/sdn-traffic-guard-web/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
