package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nadzzz/newsvox/internal/command"
	"github.com/nadzzz/newsvox/internal/dispatch"
)

// flags holds the values of persistent and per-command flags.
type flags struct {
	configFile string
	stdin      bool
	format     string
	logFile    string
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "newsvox",
		Short: "Voice-command dispatcher for a news reader",
		Long: `newsvox turns spoken or typed phrases into news reader commands.

It fetches headlines from GNews or RSS feeds, translates them into the
reading language and reads them aloud through a Piper voice.

Examples:
  newsvox serve                          # run the daemon with HTTP and gRPC transports
  newsvox serve --stdin                  # also read transcripts from standard input
  newsvox parse "open article number 3"  # show how a phrase is understood
  newsvox commands --format yaml         # list every supported phrase
  newsvox prefs reset                    # forget saved languages`,
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&f.configFile, "config", "", "path to config file (e.g. configs/newsvox.yaml)")

	root.AddCommand(
		newServeCmd(f),
		newConsoleCmd(f),
		newParseCmd(),
		newCommandsCmd(f),
		newPrefsCmd(f),
		newVersionCmd(),
	)
	return root
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <transcript>",
		Short: "Show the command a transcript maps to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			transcript := strings.Join(args, " ")
			c, ok := command.Parse(transcript)
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintf(out, "%s\t(no match)\n", c.Action)
				return nil
			}
			if c.HasParam() {
				fmt.Fprintf(out, "%s\t%s\n", c.Action, c.Param)
				return nil
			}
			fmt.Fprintln(out, c.Action)
			return nil
		},
	}
}

func newCommandsCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commands",
		Short: "List every supported phrase in priority order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries := dispatch.Help()
			out := cmd.OutOrStdout()
			switch f.format {
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(entries); err != nil {
					return fmt.Errorf("encoding commands: %w", err)
				}
				return enc.Close()
			case "text", "":
				for _, e := range entries {
					fmt.Fprintf(out, "%-34s %s\n", e.Example, e.Description)
				}
				return nil
			default:
				return fmt.Errorf("unknown format %q (want text or yaml)", f.format)
			}
		},
	}
	cmd.Flags().StringVarP(&f.format, "format", "f", "text", "output format: text or yaml")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "newsvox %s\n", version)
		},
	}
}
