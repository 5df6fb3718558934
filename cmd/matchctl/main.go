// Command matchctl runs candidate matching and maintenance tasks against the
// TalentBridge database without going through the HTTP API.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(defaultCLI()).Execute(); err != nil {
		os.Exit(1)
	}
}
