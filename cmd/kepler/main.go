package main

import (
	"os"

	"github.com/terraincognita07/kepler/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
