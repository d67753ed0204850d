package main

import (
	"fmt"
	"os"

	"github.com/haferml/hafer/internal/cli"
	"github.com/haferml/hafer/pkg/style"
)

func main() {
	rootCmd := cli.NewRootCmd(nil)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, style.RenderError(err))
		os.Exit(1)
	}
}
