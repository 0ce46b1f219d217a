package main

import (
	"os"

	"github.com/linh30121998/proteus/cmd/proteus/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
