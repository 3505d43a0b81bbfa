package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

type options struct {
	configPath  string
	catalogPath string
	dbPath      string
	logLevel    string
	noHistory   bool
	jsonOutput  bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "vocalis [utterance...]",
		Short:         "Offline voice command understanding",
		Long:          "Vocalis classifies spoken commands into intents and extracts their parameters.\nRun without arguments to start the interactive prompt.",
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if len(args) == 0 {
				return a.repl(cmd).Start()
			}
			utterance := strings.Join(args, " ")
			if opts.jsonOutput {
				return a.processJSON(cmd.OutOrStdout(), utterance)
			}
			return a.repl(cmd).Execute(utterance)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to configuration file (default ~/.vocalis/config.yaml)")
	flags.StringVar(&opts.catalogPath, "catalog", "", "Path to an intent catalog YAML file")
	flags.StringVar(&opts.dbPath, "db", "", "Path to SQLite history database")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.BoolVar(&opts.noHistory, "no-history", false, "Do not record interactions")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the raw result as JSON")

	cmd.AddCommand(newREPLCommand(opts))
	cmd.AddCommand(newIntentsCommand(opts))
	cmd.AddCommand(newHistoryCommand(opts))
	return cmd
}

func newREPLCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.repl(cmd).Start()
		},
	}
}

func newIntentsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "intents",
		Short: "List supported intents and their example phrases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.repl(cmd).Execute(":intents")
		},
	}
}

func newHistoryCommand(opts *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent interactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.repl(cmd).Execute(fmt.Sprintf(":history %d", limit))
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of interactions to show")
	return cmd
}
