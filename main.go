package main

import (
	"os"

	"github.com/stephenmfriend/taskpane/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
