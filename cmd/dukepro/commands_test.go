package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jacksmith/dukepro/internal/cli"
	"github.com/jacksmith/dukepro/internal/storage"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv points a run at a fresh data directory and an absent config file.
type testEnv struct {
	dir     string
	dataDir string
	config  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv(storage.EnvDataDir, "")
	t.Setenv(storage.EnvLogLevel, "")

	dir := t.TempDir()
	return &testEnv{
		dir:     dir,
		dataDir: filepath.Join(dir, "data"),
		config:  filepath.Join(dir, "dukepro.yaml"),
	}
}

// run executes the root command with args, feeding it stdin.
// It returns what was written to stdout and stderr.
func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	// Flag variables outlive a single Execute.
	configPath, dataDir, noColor, verbose = "", "", false, false
	checkFix = false
	if f := rootCmd.Flags().Lookup("version"); f != nil {
		require.NoError(t, f.Value.Set("false"))
	}

	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--config", e.config, "--data-dir", e.dataDir}, args...))

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (e *testEnv) taskFile(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.dataDir, storage.DefaultTaskFile))
	require.NoError(t, err)
	return string(data)
}

func (e *testEnv) writeTaskFile(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(e.dataDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(e.dataDir, storage.DefaultTaskFile), []byte(content), 0644))
}

// useEditor points VISUAL at a script that runs body with the file as $1.
func useEditor(t *testing.T, body string) {
	t.Helper()
	script := filepath.Join(t.TempDir(), "editor.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	t.Setenv("VISUAL", script)
	t.Setenv("EDITOR", "")
}

func (e *testEnv) writeConfig(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(e.config, []byte(content), 0644))
}

func TestRunRepl(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "todo read book\nlist\nbye\n")
	require.NoError(t, err)

	assert.Contains(t, out, "Hello from")
	assert.Contains(t, out, "How can I help you?")
	assert.Contains(t, out, "Got it. I've added this task:\n  [T][✗] read book")
	assert.Contains(t, out, "1.  [T][✗]  read book")
	assert.True(t, strings.HasSuffix(out, "Bye. Hope to see you again soon!\n"))

	// Input is not a terminal, so no prompt is shown.
	assert.NotContains(t, out, prompt)

	assert.Equal(t, "T,false,read book\n", env.taskFile(t))
}

func TestRunReplReportsErrorsAndContinues(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "blah\ntodo\n\ndone 3\nlist\n")
	require.NoError(t, err)

	assert.Contains(t, out, `error: I don't know what "blah" means`)
	assert.Contains(t, out, "error: todo: the description cannot be empty")
	assert.Contains(t, out, "error: done:")
	assert.Contains(t, out, "Your task list is empty.")
}

func TestRunReplStopsAtBye(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "bye\ntodo never added\n")
	require.NoError(t, err)

	assert.NotContains(t, out, "never added")
	assert.Empty(t, env.taskFile(t))
}

func TestRunReplRestoresState(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run(t, "deadline submit report /by 2024-03-01\ndone 1\nbye\n")
	require.NoError(t, err)

	out, _, err := env.run(t, "list\nbye\n")
	require.NoError(t, err)
	assert.Contains(t, out, "1.  [D][✓]  submit report (by: Mar 1 2024)")
}

func TestRunExec(t *testing.T) {
	t.Run("runs each argument as a command", func(t *testing.T) {
		env := newTestEnv(t)

		out, _, err := env.run(t, "", "exec",
			"todo read book",
			"event party /at 2024-03-01",
			"date 2024-03-01")
		require.NoError(t, err)

		assert.NotContains(t, out, "Hello from")
		assert.Contains(t, out, "Here are the tasks on Mar 1 2024:\n2.  [E][✗]  party (at: Mar 1 2024)")
		assert.Equal(t, "T,false,read book\nE,false,party,2024-03-01\n", env.taskFile(t))
	})

	t.Run("failed commands are reported after the rest run", func(t *testing.T) {
		env := newTestEnv(t)

		out, _, err := env.run(t, "", "exec", "delete 1", "todo read book")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 2 commands failed")

		assert.Contains(t, out, `error: "delete 1": delete: the list is empty`)
		assert.Equal(t, "T,false,read book\n", env.taskFile(t))
	})

	t.Run("a command spanning lines adds nothing", func(t *testing.T) {
		env := newTestEnv(t)

		out, _, err := env.run(t, "", "exec", "todo a\nT,true,injected", "list")
		require.Error(t, err)
		assert.Contains(t, out, "cannot contain line breaks")
		assert.Contains(t, out, "Your task list is empty.")
		assert.Empty(t, env.taskFile(t))
	})

	t.Run("bye stops the remaining commands", func(t *testing.T) {
		env := newTestEnv(t)

		out, _, err := env.run(t, "", "exec", "todo one", "bye", "todo two")
		require.NoError(t, err)
		assert.Contains(t, out, "Bye. Hope to see you again soon!")
		assert.Equal(t, "T,false,one\n", env.taskFile(t))
	})

	t.Run("requires at least one command", func(t *testing.T) {
		env := newTestEnv(t)
		_, _, err := env.run(t, "", "exec")
		require.Error(t, err)
	})
}

func TestConfigPrecedence(t *testing.T) {
	t.Run("config file sets file names", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeConfig(t, "task_file: tasks.csv\n")

		_, _, err := env.run(t, "", "exec", "todo read book")
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(env.dataDir, "tasks.csv"))
		require.NoError(t, err)
		assert.Equal(t, "T,false,read book\n", string(data))
	})

	t.Run("flag beats environment", func(t *testing.T) {
		env := newTestEnv(t)
		elsewhere := filepath.Join(env.dir, "elsewhere")
		t.Setenv(storage.EnvDataDir, elsewhere)

		_, _, err := env.run(t, "", "exec", "todo read book")
		require.NoError(t, err)

		assert.Equal(t, "T,false,read book\n", env.taskFile(t))
		assert.NoDirExists(t, elsewhere)
	})

	t.Run("invalid config is rejected before any file is touched", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeConfig(t, "log_level: loud\nmax_description_width: -1\n")

		_, _, err := env.run(t, "", "exec", "list")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Contains(t, err.Error(), "max_description_width")
		assert.NoDirExists(t, env.dataDir)
	})

	t.Run("verbose logs to stderr", func(t *testing.T) {
		env := newTestEnv(t)

		out, logs, err := env.run(t, "", "--verbose", "exec", "list")
		require.NoError(t, err)
		assert.Contains(t, logs, "session started")
		assert.NotContains(t, out, "session started")
	})
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run(t, "", "--version")
	require.NoError(t, err)
	assert.Equal(t, "dukepro version dev\n", out)
}

func TestCompletion(t *testing.T) {
	t.Run("generates a bash script", func(t *testing.T) {
		env := newTestEnv(t)
		out, _, err := env.run(t, "", "completion", "bash")
		require.NoError(t, err)
		assert.Contains(t, out, "dukepro")
	})

	t.Run("exec arguments complete to command verbs", func(t *testing.T) {
		got, directive := completeKeywords(execCmd, nil, "d")
		assert.Equal(t, []string{"done", "delete", "deadline", "date", "delExpense"}, got)
		assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
	})
}

func TestCheck(t *testing.T) {
	t.Run("clean files", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeTaskFile(t, "T,false,read book\n")

		out, _, err := env.run(t, "", "check")
		require.NoError(t, err)
		assert.Contains(t, out, "No issues found.")
	})

	t.Run("problems are reported and nothing changes", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeTaskFile(t, "T,false,read book\nQ,false,mystery\nT,1,write essay\n")

		out, _, err := env.run(t, "", "check")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2 issue(s) found")
		assert.Contains(t, out, "tasklist.txt:2 [unreadable]")
		assert.Contains(t, out, "tasklist.txt:3 [non-canonical]")
		assert.Equal(t, "T,false,read book\nQ,false,mystery\nT,1,write essay\n", env.taskFile(t))
	})

	t.Run("fix repairs the file", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeTaskFile(t, "T,false,read book\nQ,false,mystery\nT,1,write essay\n")

		out, _, err := env.run(t, "", "check", "--fix")
		require.NoError(t, err)
		assert.Contains(t, out, "removed unreadable record")
		assert.Contains(t, out, "All issues resolved.")
		assert.Equal(t, "T,false,read book\nT,true,write essay\n", env.taskFile(t))
	})
}

func TestEdit(t *testing.T) {
	t.Run("saves edited records in canonical form", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeTaskFile(t, "T,false,read book\n")
		useEditor(t, `echo 'E,1,party,2024-03-01' >> "$1"`)

		out, _, err := env.run(t, "", "edit", "tasks")
		require.NoError(t, err)
		assert.Contains(t, out, "Saved 2 record(s)")
		assert.Equal(t, "T,false,read book\nE,true,party,2024-03-01\n", env.taskFile(t))
	})

	t.Run("unreadable records leave the file unchanged", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeTaskFile(t, "T,false,read book\n")
		useEditor(t, `echo 'D,false,no date' >> "$1"`)

		out, _, err := env.run(t, "", "edit", "tasks")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "was not changed")
		assert.Contains(t, out, ":2 [unreadable]")
		assert.Equal(t, "T,false,read book\n", env.taskFile(t))
	})

	t.Run("no changes", func(t *testing.T) {
		env := newTestEnv(t)
		useEditor(t, "true")

		out, _, err := env.run(t, "", "edit", "expenses")
		require.NoError(t, err)
		assert.Contains(t, out, "No changes.")
	})

	t.Run("unknown data file", func(t *testing.T) {
		env := newTestEnv(t)
		useEditor(t, "true")

		_, _, err := env.run(t, "", "edit", "notes")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "want tasks or expenses")
	})

	t.Run("no editor configured", func(t *testing.T) {
		env := newTestEnv(t)
		t.Setenv("VISUAL", "")
		t.Setenv("EDITOR", "")

		_, _, err := env.run(t, "", "edit", "tasks")
		assert.ErrorIs(t, err, cli.ErrNoEditor)
	})
}
