package main

import (
	"os"

	"github.com/salespipe-dev/salespipe/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
