// Package main provides the entry point for the rankfuse CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/rankfuse/cmd/rankfuse/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
