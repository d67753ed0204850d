// Command hafer-docs prints shell completions or the man page of hafer.
//
//	hafer-docs man > hafer.1
//	hafer-docs completion zsh > _hafer
package main

import (
	"fmt"
	"os"

	"github.com/haferml/hafer/internal/cli"
	"github.com/haferml/hafer/pkg/style"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s man | completion <bash|zsh|fish|powershell>\n", os.Args[0])
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "man":
		err = cli.GenerateManPage(os.Stdout)
	case "completion":
		if len(os.Args) < 3 {
			fmt.Fprintf(os.Stderr, "Usage: %s completion <bash|zsh|fish|powershell>\n", os.Args[0])
			os.Exit(1)
		}
		err = cli.GenerateCompletion(os.Stdout, os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, style.RenderError(err))
		os.Exit(1)
	}
}
