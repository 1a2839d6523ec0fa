package main

import (
	"os"

	"github.com/tkc/vibe-schedule/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
