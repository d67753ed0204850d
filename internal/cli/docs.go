package cli

import (
	"io"

	"github.com/spf13/cobra/doc"

	"github.com/haferml/hafer/internal/version"
	"github.com/haferml/hafer/pkg/errors"
)

// Shells lists the shells GenerateCompletion supports.
var Shells = []string{"bash", "zsh", "fish", "powershell"}

// GenerateCompletion writes the completion script for shell.
func GenerateCompletion(w io.Writer, shell string) error {
	rootCmd := NewRootCmd(yesPrompter{})

	var err error
	switch shell {
	case "bash":
		err = rootCmd.GenBashCompletionV2(w, true)
	case "zsh":
		err = rootCmd.GenZshCompletion(w)
	case "fish":
		err = rootCmd.GenFishCompletion(w, true)
	case "powershell":
		err = rootCmd.GenPowerShellCompletionWithDesc(w)
	default:
		return errors.Newf(errors.ErrInvalidInput, "unknown shell %q", shell).WithDetail("supported", Shells)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to generate %s completion", shell)
	}
	return nil
}

// GenerateManPage writes the man page of the root command.
func GenerateManPage(w io.Writer) error {
	header := &doc.GenManHeader{
		Title:   "HAFER",
		Section: "1",
		Source:  "hafer " + version.Version,
		Manual:  "hafer manual",
	}
	if err := doc.GenMan(NewRootCmd(yesPrompter{}), header, w); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to generate man page")
	}
	return nil
}
