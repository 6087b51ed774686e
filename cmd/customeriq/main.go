package main

import (
	"os"

	"github.com/lumehq/customeriq/backend/cmd/customeriq/commands"
)

// main is the entry point for the CustomerIQ CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
