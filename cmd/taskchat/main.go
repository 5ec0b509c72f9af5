package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	root := newRootCommand(newApp(os.Stdout, os.Stderr, os.Getenv))
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errExitFailure) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
