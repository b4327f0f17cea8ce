// Package main is the entry point for the companion CLI.
//
// Usage:
//
//	companion [flags] <command> [subcommand] [args]
//
// Commands:
//
//	config   - Configuration management (backend contexts)
//	login    - Authenticate against the backend
//	scan     - Identify a person or object from an image
//	ask      - Ask the memory companion a question
//	enroll   - Enroll a new person or object
//	talk     - Interactive conversation session
//	quiz     - Daily memory quiz
//	tasks    - Caregiver task list
//	notify   - Push reminder subscription
//	version  - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/mementolabs/companion/cmd/companion/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
