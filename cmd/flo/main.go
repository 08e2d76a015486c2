// Command flo runs the personal finance assistant: an interactive chat REPL
// over the multi-agent router, plus maintenance subcommands.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
