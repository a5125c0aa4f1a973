// Package main provides the CLI for snapdiff, the snapshot store
// differencing tool.
package main

import (
	"os"

	"github.com/leapstack-labs/snapdiff/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
