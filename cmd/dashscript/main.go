package main

import (
	"os"

	"github.com/msto63/dashscript/cmd/dashscript/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
