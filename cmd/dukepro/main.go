// Package main is the entry point for the dukepro CLI.
package main

import (
	"fmt"
	"os"

	"github.com/jacksmith/dukepro/internal/cli"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// A missing .env is normal.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dukepro",
	Short: "dukepro - a chat-style task and expense tracker",
	Long: `dukepro keeps a list of tasks (todos, deadlines and events) and a list
of expenses in plain text files, and lets you manage them by typing
commands one line at a time.

Run without arguments for an interactive session; type "bye" to leave.

Commands inside a session:
  todo <description>
  deadline <description> /by <YYYY-MM-DD>
  event <description> /at <YYYY-MM-DD>
  list | done <n> | delete <n>
  date <YYYY-MM-DD> | find <text>
  expense <name> /amount <n> /on <YYYY-MM-DD>
  showExpense | delExpense <n>
  bye`,
	Version:       Version,
	Args:          cobra.NoArgs,
	RunE:          runRepl,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	configPath string
	dataDir    string
	noColor    bool
	verbose    bool
)

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("dukepro version {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default dukepro.yaml)")
	flags.StringVar(&dataDir, "data-dir", "", "directory holding the task and expense files")
	flags.BoolVar(&noColor, "no-color", false, "disable colored output")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
}
