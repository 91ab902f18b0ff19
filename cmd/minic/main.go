package main

import (
	"os"

	"github.com/arnavsurve/minic/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
