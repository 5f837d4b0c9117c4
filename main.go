package main

import (
	"os"

	"github.com/conneroisu/tagforge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
