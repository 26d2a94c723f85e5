// Command brewin runs Brewin scripts from the command line.
package main

import (
	"os"

	"github.com/brewlang/brewin/cmd/brewin/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
