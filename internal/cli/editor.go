package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ErrNoEditor is returned when neither VISUAL nor EDITOR names an editor.
var ErrNoEditor = errors.New("no editor configured: set VISUAL or EDITOR")

// Editor runs a text editor on a temporary copy of some content.
type Editor struct {
	// Command is the editor invocation, e.g. "vim" or "code --wait".
	Command string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// EditorFromEnv returns an Editor for the command in VISUAL, falling back to
// EDITOR. getenv is usually os.Getenv.
func EditorFromEnv(getenv func(string) string) *Editor {
	command := getenv("VISUAL")
	if command == "" {
		command = getenv("EDITOR")
	}
	return &Editor{Command: command, Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Edit writes content to a temporary file named after pattern (see
// os.CreateTemp), waits for the editor to exit and returns the file's new
// content. The temporary file is always removed.
func (e *Editor) Edit(content []byte, pattern string) ([]byte, error) {
	if strings.TrimSpace(e.Command) == "" {
		return nil, ErrNoEditor
	}

	tmp, err := os.CreateTemp("", pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := e.run(path); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read edited file: %w", err)
	}
	return edited, nil
}

func (e *Editor) run(path string) error {
	// "code --wait" is a command plus arguments.
	parts := strings.Fields(e.Command)
	if len(parts) == 0 {
		return ErrNoEditor
	}

	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("editor exited with status %d", exitErr.ExitCode())
		}
		return fmt.Errorf("failed to run editor: %w", err)
	}
	return nil
}
