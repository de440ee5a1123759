package main

import (
	"os"

	"github.com/cicil-dev/cicil/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
