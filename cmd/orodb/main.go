package main

import (
	"os"

	"github.com/orolab/orodb/cli"
	"github.com/orolab/orodb/genericclioptions"
)

func main() {
	iostreams := genericclioptions.NewDefaultIOStreams()

	if err := cli.NewDefaultOroDBCommand(iostreams, os.Args[1:]).Execute(); err != nil {
		os.Exit(1)
	}
}
