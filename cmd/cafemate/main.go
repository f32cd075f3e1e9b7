package main

import (
	"os"

	"github.com/hansollab/cafemate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
