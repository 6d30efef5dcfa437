// Command privvy runs Privvy scripts from a file, an inline expression, or
// an interactive prompt.
package main

import (
	"fmt"
	"os"

	"github.com/Victra-Studio/privvy/cmd/privvy/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
