package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jacksmith/dukepro/internal/cli"
	"github.com/jacksmith/dukepro/internal/decode"
	"github.com/jacksmith/dukepro/internal/ops"
	"github.com/jacksmith/dukepro/internal/storage"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <tasks|expenses>",
	Short: "Edit a data file in $EDITOR",
	Long: `Open the task or expense file in $VISUAL or $EDITOR.

The edited file is saved only if every record can be read back;
otherwise the problems are listed and the file is left as it was.
Records are saved in dukepro's own form, so "T,1,read book" is
stored as "T,true,read book".

Examples:
  dukepro edit tasks
  EDITOR="code --wait" dukepro edit expenses`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"tasks", "expenses"},
	RunE:      runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setupColor(cmd)

	editor := cli.EditorFromEnv(os.Getenv)
	editor.Stdin = cmd.InOrStdin()
	editor.Stdout = cmd.OutOrStdout()
	editor.Stderr = cmd.ErrOrStderr()

	switch args[0] {
	case "tasks":
		return editFile(cmd, editor, cfg.TaskPath(), decode.PersistedTask)
	case "expenses":
		return editFile(cmd, editor, cfg.ExpensePath(), decode.PersistedExpense)
	default:
		return fmt.Errorf("unknown data file %q (want tasks or expenses)", args[0])
	}
}

func editFile[T ops.Record](cmd *cobra.Command, editor *cli.Editor, path string, decodeLine func(string) (T, error)) error {
	f, err := storage.OpenFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	lines, err := f.ReadLines()
	if err != nil {
		return err
	}
	var original string
	if len(lines) > 0 {
		original = strings.Join(lines, "\n") + "\n"
	}

	edited, err := editor.Edit([]byte(original), "dukepro-*-"+filepath.Base(path))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if string(edited) == original {
		fmt.Fprintln(out, "No changes.")
		return nil
	}

	records, problems := ops.ValidateLines(path, strings.Split(string(edited), "\n"), decodeLine)
	var unreadable []ops.ValidationError
	for _, p := range problems {
		if p.Type == ops.ValidationErrorUnreadable {
			unreadable = append(unreadable, p)
		}
	}
	if len(unreadable) > 0 {
		fmt.Fprintf(out, "Found %d unreadable record(s):\n\n", len(unreadable))
		printProblems(out, unreadable)
		return fmt.Errorf("%s was not changed", path)
	}

	encoded := make([]string, len(records))
	for i, r := range records {
		encoded[i] = r.Encode()
	}
	if err := f.RewriteLines(encoded); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s %d record(s) to %s.\n", cli.Green("Saved"), len(records), path)
	return nil
}
