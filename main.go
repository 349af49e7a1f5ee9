package main

import (
	"os"

	"github.com/rtplus/rtplus/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
