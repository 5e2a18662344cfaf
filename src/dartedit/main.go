package main

import (
	"fmt"
	"os"

	"github.com/uber/dartedit/src/dartedit/cmd"
)

func main() {
	err := cmd.NewRootCommand().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "dartedit:", err)
	}
	os.Exit(cmd.ExitCode(err))
}
