package main

import (
	"fmt"
	"os"

	"mdinline/internal/builder"
	"mdinline/internal/config"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const version = "0.4.0"

const longHelp = `Include other files in markdown.

Anything between an opening and a closing directive is replaced with the
contents of the referenced file:

  <!-- <inline src="path" verbatim lang="python" start="2" end="12"> -->
  CONTENT
  <!-- </inline> -->

Attributes:

  src       the path of the file to include (required)
  verbatim  wrap the included content in ` + "```" + ` (takes no value)
  lang      the language of the fenced block (implies verbatim)
  start     the first line of the file to include (1 by default)
  end       the last line of the file to include (last line by default)

<!-- <python src="path"> --> ... <!-- </python> --> is short for an inline
directive with lang="python".`

type loadFunc func(projectDir string) (config.Config, error)

func main() {
	if err := newRootCmd(config.LoadConfigFromFile).Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(load loadFunc) *cobra.Command {
	var flags config.Config

	cmd := &cobra.Command{
		Use:           "mdinline [input]",
		Short:         "Keep markdown in sync with the files it quotes",
		Long:          longHelp,
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, flags, load)
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&flags.InPlace, "in-place", "i", false, "modify the input file in place")
	f.StringVarP(&flags.BackupExt, "backup-ext", "b", "", "extension for the backup file (with --in-place)")
	f.BoolVarP(&flags.Clean, "clean", "c", false, "remove all inlined contents")
	f.BoolVar(&flags.Check, "check", false, "only validate directives, write nothing")
	f.BoolVarP(&flags.Verbose, "verbose", "v", false, "log every directive")
	f.BoolVar(&flags.Clipboard, "clipboard", false, "also copy the result to the clipboard")
	f.BoolVar(&flags.Open, "open", false, "open the file with its default application after editing in place")
	f.BoolVar(&flags.RelativeToInput, "relative", false, "resolve src paths relative to the input file")

	return cmd
}

func run(cmd *cobra.Command, args []string, flags config.Config, load loadFunc) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("cannot get current working directory: %w", err)
	}
	cfg, err := load(wd)
	if err != nil {
		return err
	}

	// Command line flags override config file values
	cfg.Input = config.Stdin
	if len(args) > 0 {
		cfg.Input = args[0]
	}
	cfg.InPlace = flags.InPlace
	cfg.Check = flags.Check
	set := cmd.Flags().Changed
	if set("backup-ext") {
		if !flags.InPlace {
			return fmt.Errorf("--backup-ext or -b only make sense when --in-place or -i is used")
		}
		cfg.BackupExt = flags.BackupExt
	}
	if set("clean") {
		cfg.Clean = flags.Clean
	}
	if set("verbose") {
		cfg.Verbose = flags.Verbose
	}
	if set("clipboard") {
		cfg.Clipboard = flags.Clipboard
	}
	if set("open") {
		cfg.Open = flags.Open
	}
	if set("relative") {
		cfg.RelativeToInput = flags.RelativeToInput
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{Prefix: config.AppName})
	if cfg.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	b, err := builder.New(cfg, builder.Streams{
		In:  cmd.InOrStdin(),
		Out: cmd.OutOrStdout(),
		Err: cmd.ErrOrStderr(),
	}, logger)
	if err != nil {
		return err
	}
	return b.Build()
}
