package main

import (
	"os"

	"github.com/awnumar/memguard"

	"github.com/jmcleod/keyagree/cmd/keyagree/cmd"
)

func main() {
	// Wipe enclaves and locked buffers on SIGINT/SIGTERM.
	memguard.CatchInterrupt()

	code := cmd.Execute()
	memguard.Purge()
	os.Exit(code)
}
