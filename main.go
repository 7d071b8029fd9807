package main

import (
	"os"

	"go-mutwo/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
