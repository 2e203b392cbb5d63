// Package main is the entry point for the shipctl CLI.
package main

import (
	"os"

	"shipdesk/cmd/shipctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
