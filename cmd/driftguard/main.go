package main

import (
	"os"

	"driftguard/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
