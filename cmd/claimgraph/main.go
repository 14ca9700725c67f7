package main

import (
	"fmt"
	"os"

	"github.com/anicholas99/claimgraph/internal/cli"
	"github.com/anicholas99/claimgraph/internal/logging"
)

func main() {
	err := cli.Execute()
	logging.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
