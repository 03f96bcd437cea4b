package main

import (
	"fmt"
	"os"
)

// Version information, set at build time with -ldflags.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
