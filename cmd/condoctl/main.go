// Command condoctl inspects and maintains the community state from a shell.
package main

import (
	"fmt"
	"os"

	"condo/internal/cli"
)

func main() {
	cli.LoadEnvFile()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
