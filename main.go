package main

import (
	"os"

	"github.com/firefly-engineering/stampwall/cmd"
	"github.com/firefly-engineering/stampwall/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
