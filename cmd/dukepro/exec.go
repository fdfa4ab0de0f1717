package main

import (
	"fmt"

	"github.com/jacksmith/dukepro/internal/cli"
	"github.com/spf13/cobra"
)

var execCmd = &cobra.Command{
	Use:   "exec <command>...",
	Short: "Run commands without an interactive session",
	Long: `Run one or more session commands, each given as a single argument,
then save and exit.

Every command runs even if an earlier one fails; errors are reported
after the replies and the exit status is non-zero if any command failed.

Examples:
  dukepro exec "todo read book"
  dukepro exec "deadline submit report /by 2024-03-01" list
  dukepro exec "expense coffee /amount 5 /on 2024-01-10" showExpense`,
	Args:              cobra.MinimumNArgs(1),
	RunE:              runExec,
	ValidArgsFunction: completeKeywords,
}

func init() {
	rootCmd.AddCommand(execCmd)
}

func runExec(cmd *cobra.Command, args []string) error {
	sess, _, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	out := cmd.OutOrStdout()
	var errors []string

	for _, line := range args {
		reply, err := sess.Handle(line)
		if reply.Text != "" {
			fmt.Fprintln(out, reply.Text)
		}
		if reply.Ended {
			if err != nil {
				return err
			}
			break
		}
		if err != nil {
			errors = append(errors, fmt.Sprintf("%q: %v", line, err))
		}
	}

	if len(errors) > 0 {
		fmt.Fprintln(out)
		for _, e := range errors {
			fmt.Fprintln(out, cli.Red("error: "+e))
		}
	}

	if err := sess.Close(); err != nil {
		return err
	}
	if len(errors) > 0 {
		return fmt.Errorf("%d of %d commands failed", len(errors), len(args))
	}
	return nil
}
