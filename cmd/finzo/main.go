package main

import (
	"os"

	"github.com/finzo/backend/cmd/finzo/commands"
)

// main is the entry point for the Finzo CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
