package main

import (
	"os"

	"github.com/conneroisu/herobook/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
