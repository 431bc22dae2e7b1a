// Command reverse2seaf converts reverse-engineered cloud inventories found in
// a directory into architecture-model YAML files.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
