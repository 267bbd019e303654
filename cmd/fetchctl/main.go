// Command fetchctl is a small CLI front end for the fetchtripper engine:
// it parses jobs from the command line, runs them through FromStream, and
// renders the resulting event stream as progress bars or plain log lines.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "fetchctl:", err)
		os.Exit(1)
	}
}
