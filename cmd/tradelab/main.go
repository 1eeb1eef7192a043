package main

import (
	"os"

	"github.com/joonho-lim/tradelab/cmd/tradelab/commands"
)

// main is the entry point for the tradelab CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
