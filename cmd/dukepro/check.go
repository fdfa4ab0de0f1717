package main

import (
	"fmt"
	"io"

	"github.com/jacksmith/dukepro/internal/cli"
	"github.com/jacksmith/dukepro/internal/ops"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the data files for bad records",
	Long: `Check the task and expense files for records dukepro cannot use.

Checks for:
- Unreadable records (skipped by sessions and lost at the next save)
- Records not written in dukepro's own form (e.g. "T,1,read book")

Use --fix to drop unreadable records and rewrite the rest.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

var checkFix bool

func init() {
	checkCmd.Flags().BoolVar(&checkFix, "fix", false, "repair the data files")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setupColor(cmd)
	out := cmd.OutOrStdout()

	problems, err := ops.Validate(cfg)
	if err != nil {
		return err
	}
	if len(problems) == 0 {
		fmt.Fprintln(out, cli.Green("No issues found."))
		return nil
	}

	if !checkFix {
		fmt.Fprintf(out, "Found %d issue(s):\n\n", len(problems))
		printProblems(out, problems)
		return fmt.Errorf("%d issue(s) found; run with --fix to repair them", len(problems))
	}

	fmt.Fprintf(out, "Found %d issue(s). Attempting to fix...\n\n", len(problems))
	fixes, err := ops.ValidateAndFix(cfg)
	if err != nil {
		return err
	}
	if len(fixes) > 0 {
		fmt.Fprintln(out, "Fixes applied:")
		for _, f := range fixes {
			fmt.Fprintf(out, "  %s:%d: %s\n", f.Path, f.Line, f.Description)
		}
		fmt.Fprintln(out)
	}

	remaining, err := ops.Validate(cfg)
	if err != nil {
		return err
	}
	if len(remaining) > 0 {
		printProblems(out, remaining)
		return fmt.Errorf("%d issue(s) could not be fixed", len(remaining))
	}
	fmt.Fprintln(out, cli.Green("All issues resolved."))
	return nil
}

func printProblems(w io.Writer, problems []ops.ValidationError) {
	for _, p := range problems {
		fmt.Fprintf(w, "%s:%d %s %s\n", p.Path, p.Line, formatValidationErrorType(p.Type), p.Message)
	}
}

func formatValidationErrorType(t ops.ValidationErrorType) string {
	switch t {
	case ops.ValidationErrorUnreadable:
		return cli.Red("[unreadable]")
	case ops.ValidationErrorNonCanonical:
		return cli.Yellow("[non-canonical]")
	default:
		return fmt.Sprintf("[%s]", t)
	}
}
