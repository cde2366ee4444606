package main

import (
	"fmt"
	"os"

	"taskdash/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}
}
