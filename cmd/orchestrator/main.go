package main

import (
	"os"

	"github.com/keboola/go-orchestrator/internal/pkg/cli"
)

func main() {
	// Run command
	cmd := cli.NewRootCommand(os.Stdout, os.Stderr)
	os.Exit(cmd.Execute())
}
