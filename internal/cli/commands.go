package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/haferml/hafer/pkg/config"
	"github.com/haferml/hafer/pkg/errors"
	"github.com/haferml/hafer/pkg/style"
	"github.com/haferml/hafer/pkg/table"
)

func newConfigCmd(a *app) *cobra.Command {
	var (
		yes    bool
		grace  time.Duration
		format string
	)
	cmd := &cobra.Command{
		Use:     "config [<path>]",
		Short:   MsgConfigShort,
		Long:    MsgConfigLong,
		Example: MsgConfigExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.settings.ConfigPath()
			if len(args) == 1 {
				path = args[0]
			}
			if !cmd.Flags().Changed("grace") {
				grace = a.settings.Scaffold.GracePeriod
			}
			if format == "" {
				format = a.settings.Scaffold.Format
			}
			var f config.Format
			if format != "" {
				parsed, err := config.ParseFormat(format)
				if err != nil {
					return err
				}
				f = parsed
			}

			prompter := a.prompter
			if yes {
				prompter = yesPrompter{}
			}
			res, err := config.Scaffold(path, config.ScaffoldOptions{
				Confirm: prompter.Confirm,
				Format:  f,
				Grace:   grace,
				Wait:    func(d time.Duration) { prompter.Wait(d, path) },
			})
			if err != nil {
				return err
			}

			msg := MsgCreatedConfig
			if res.Overwritten {
				msg = MsgOverwroteConfig
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), style.RenderSuccess(fmt.Sprintf(msg, res.Format, res.Path)))
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Answer yes to every question")
	cmd.Flags().DurationVar(&grace, "grace", 5*time.Second, "Pause before overwriting an existing file")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Document format: json, yaml or toml (default from the extension)")
	return cmd
}

// loadTree opens a project document with the base folder from the flag or
// the settings.
func (a *app) loadTree(cmd *cobra.Command, path, baseFolder string) (*config.Tree, error) {
	if !cmd.Flags().Changed("base-folder") {
		baseFolder = a.settings.BaseFolder
	}
	if path == "" {
		path = a.settings.ConfigPath()
	}
	return config.New(path, config.WithBaseFolder(baseFolder))
}

func newGetCmd(a *app) *cobra.Command {
	var (
		baseFolder string
		output     string
	)
	cmd := &cobra.Command{
		Use:     "get <config> <path>",
		Short:   MsgGetShort,
		Long:    MsgGetLong,
		Example: MsgGetExample,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := config.ParseFormat(output)
			if err != nil {
				return err
			}
			conf, err := a.loadTree(cmd, args[0], baseFolder)
			if err != nil {
				return err
			}
			v, err := conf.Lookup(args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if v.IsScalar() {
				_, err = fmt.Fprintln(out, table.FormatCell(v.Raw()))
				return err
			}
			data, err := config.Encode(v, format)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&baseFolder, "base-folder", "", "Folder that local paths are relative to")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format for subtrees: json, yaml or toml")
	return cmd
}

func newPathsCmd(a *app) *cobra.Command {
	var (
		baseFolder string
		values     bool
	)
	cmd := &cobra.Command{
		Use:   "paths [<config>]",
		Short: MsgPathsShort,
		Long:  MsgPathsLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			conf, err := a.loadTree(cmd, path, baseFolder)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), style.RenderPaths(conf.Root(), conf.Paths(), values))
			return err
		},
	}
	cmd.Flags().StringVar(&baseFolder, "base-folder", "", "Folder that local paths are relative to")
	cmd.Flags().BoolVar(&values, "values", false, "Print the value of every leaf")
	return cmd
}

func newDescribeCmd(a *app) *cobra.Command {
	var baseFolder string
	cmd := &cobra.Command{
		Use:   "describe [<config>]",
		Short: MsgDescribeShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			conf, err := a.loadTree(cmd, path, baseFolder)
			if err != nil {
				return err
			}

			var artifacts []style.Artifact
			for _, p := range conf.ArtifactPaths() {
				art, err := conf.Artifact(p)
				if err != nil {
					return err
				}
				artifacts = append(artifacts, style.Artifact{Path: p, Local: art.Path(), Remote: art.RemotePath()})
			}

			title := filepath.Base(conf.Source())
			if title == "." || title == "" {
				title = "configuration"
			}
			md := style.DescribeMarkdown(title, conf.Root(), artifacts)
			_, err = fmt.Fprint(cmd.OutOrStdout(), style.NewMarkdownRenderer(outputFormat(cmd.OutOrStdout())).Render(md))
			return err
		},
	}
	cmd.Flags().StringVar(&baseFolder, "base-folder", "", "Folder that local paths are relative to")
	return cmd
}

func newPreviewCmd(a *app) *cobra.Command {
	var (
		limit int
		sheet string
	)
	cmd := &cobra.Command{
		Use:   "preview <table-file>",
		Short: MsgPreviewShort,
		Long:  MsgPreviewLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return errors.Newf(errors.ErrInvalidInput, "limit must not be negative, got %d", limit)
			}
			var (
				t   *table.Table
				err error
			)
			if sheet != "" {
				t, err = table.ReadXLSX(args[0], sheet)
			} else {
				t, err = table.ReadFile(args[0])
			}
			if err != nil {
				return err
			}
			return t.Render(cmd.OutOrStdout(), limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of rows to show, 0 for all")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet to read from an .xlsx file")
	return cmd
}
