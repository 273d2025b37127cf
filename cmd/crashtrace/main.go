package main

import (
	"os"

	"github.com/moffa90/go-crashtrace/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
