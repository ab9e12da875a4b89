// Package main provides the dbinspector CLI.
package main

import (
	"os"

	"github.com/mesh-intelligence/dbinspector/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
