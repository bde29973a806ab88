// Package main provides the impactctl command-line tool.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	rootCmd := newRootCmd()

	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
