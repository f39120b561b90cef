// Package main provides the entry point for the cpscan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/cpscan/cpscan/internal/app"
)

// Build information (set by ldflags during build)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	app.SetBuildInfo(version, buildTime, gitCommit)
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	deps, err := app.NewDependencies(app.DefaultConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	application, err := app.New(deps)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = application.Shutdown() }()

	if err := application.Run(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
