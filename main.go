package main

import (
	"os"

	"github.com/lrseq/pipecheck/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
