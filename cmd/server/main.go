// Package main implements the entry point for the AI CMS API server, which
// signs users in with Google and generates, stores and edits marketing
// content through a language model.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
