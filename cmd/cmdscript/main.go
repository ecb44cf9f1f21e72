package main

import (
	"os"

	"github.com/msto63/cmdscript/cmd/cmdscript/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
