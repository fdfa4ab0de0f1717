package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jacksmith/dukepro/internal/cli"
	"github.com/jacksmith/dukepro/internal/ops"
	"github.com/spf13/cobra"
)

const prompt = "> "

func runRepl(cmd *cobra.Command, args []string) error {
	sess, greeting, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, greeting)

	if err := repl(sess, cmd.InOrStdin(), out, isInteractive(cmd.InOrStdin())); err != nil {
		return err
	}
	return sess.Close()
}

// repl feeds lines from in to sess until bye or end of input.
// Command errors are printed and the session carries on.
func repl(sess *ops.Session, in io.Reader, out io.Writer, showPrompt bool) error {
	scanner := bufio.NewScanner(in)
	for {
		if showPrompt {
			fmt.Fprint(out, prompt)
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		reply, err := sess.Handle(line)
		if reply.Text != "" {
			fmt.Fprintln(out, reply.Text)
		}
		if reply.Ended {
			// Only a failure to close the stores can surface here.
			return err
		}
		if err != nil {
			fmt.Fprintln(out, cli.Red(cli.FormatError(err)))
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}
