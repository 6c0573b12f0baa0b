// Package main is the entry point for the warden CLI tool.
package main

import (
	"os"

	"github.com/agentwarden/warden/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
