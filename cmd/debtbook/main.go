package main

import (
	"os"

	"github.com/rustyeddy/debtbook/cmd/debtbook/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
