// Command kiwi encodes, decodes and inspects kiwi schemas and messages.
package main

import (
	"os"

	"github.com/reoring/kiwi/cmd/kiwi/cmd"
)

func main() { os.Exit(cmd.Main()) }
