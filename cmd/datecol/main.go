// Package main is the datecol command.
package main

import (
	"os"
	// Embedded zone database for --timezone on hosts without one.
	_ "time/tzdata"

	"github.com/leapstack-labs/datecol/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
