package main

import (
	"os"

	"github.com/headsrooms/PlaywrightING/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
