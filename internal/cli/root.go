package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/haferml/hafer/internal/version"
	"github.com/haferml/hafer/pkg/config"
	"github.com/haferml/hafer/pkg/logging"
	"github.com/haferml/hafer/pkg/style"
)

// app is the state shared by the commands of one invocation.
type app struct {
	prompter  Prompter
	verbosity int
	root      string
	settings  *config.Settings
	logOutput io.Writer
}

// NewRootCmd creates and returns the root command. A nil prompter asks on
// the terminal.
func NewRootCmd(prompter Prompter) *cobra.Command {
	return newRootCmd(prompter, nil)
}

func newRootCmd(prompter Prompter, logOutput io.Writer) *cobra.Command {
	if prompter == nil {
		prompter = NewTerminalPrompter()
	}
	a := &app{prompter: prompter, logOutput: logOutput}

	rootCmd := &cobra.Command{
		Use:     "hafer",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")
	rootCmd.PersistentFlags().StringVar(&a.root, "root", ".", "Project root holding hafer.toml")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newGetCmd(a))
	rootCmd.AddCommand(newPathsCmd(a))
	rootCmd.AddCommand(newDescribeCmd(a))
	rootCmd.AddCommand(newPreviewCmd(a))

	return rootCmd
}

// setup loads the tool settings and configures logging. The -v flag wins
// over the configured verbosity.
func (a *app) setup(cmd *cobra.Command) error {
	settings, err := config.LoadSettings(a.root)
	if err != nil {
		return err
	}
	a.settings = settings

	verbosity := settings.Logging.Verbosity
	if cmd.Flags().Changed("verbose") {
		verbosity = a.verbosity
	}
	logging.Configure(logging.Options{
		Verbosity:  verbosity,
		MaxSizeMB:  settings.Logging.MaxSizeMB,
		MaxBackups: settings.Logging.MaxBackups,
		Console:    a.logOutput,
	})
	log.Debug().
		Str("command", cmd.Name()).
		Str("settings", settings.File).
		Msg("Command started")
	return nil
}

// outputFormat decides whether w can take styled output.
func outputFormat(w io.Writer) style.Format {
	if f, ok := w.(*os.File); ok {
		return style.DetectFormat(f)
	}
	return style.FormatText
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Long:  MsgVersionLong,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, MsgVersionFormat, version.Version)
			if version.Commit != "" {
				_, _ = fmt.Fprintf(out, MsgCommitFormat, version.Commit)
			}
			if version.Date != "" {
				_, _ = fmt.Fprintf(out, MsgBuiltFormat, version.Date)
			}
		},
	}
}
