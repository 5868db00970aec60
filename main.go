package main

import (
	"os"

	"github.com/hostlink/hostlink/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
