// Package main provides the entry point for the bookrec CLI.
package main

import (
	"os"

	"github.com/hari2309s/recommend-a-book-sub000/cmd/bookrec/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
