package main

import (
	"os"

	"github.com/rosai-assist/rosai/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
