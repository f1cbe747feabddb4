// Command deepresearch runs the research agent as an HTTP server, a one-shot
// CLI run, or a direct model call.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
