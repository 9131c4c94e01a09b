// Package main provides the chesslm CLI tool for building and inspecting
// chess language-model training corpora.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
