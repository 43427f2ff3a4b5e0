package main

import (
	"os"

	"github.com/Makepad-fr/pokedex/internal/cli"
)

// Lets `go install github.com/Makepad-fr/pokedex@latest` produce the binary.
func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
