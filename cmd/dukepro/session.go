package main

import (
	"io"
	"os"

	"github.com/jacksmith/dukepro/internal/cli"
	"github.com/jacksmith/dukepro/internal/log"
	"github.com/jacksmith/dukepro/internal/ops"
	"github.com/jacksmith/dukepro/internal/storage"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// loadConfig reads the config file, then applies environment and flag overrides.
// Precedence is flag, environment, file, default.
func loadConfig() (*storage.Config, error) {
	cfg, err := storage.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)

	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openSession starts a session configured for cmd and returns it with its greeting.
func openSession(cmd *cobra.Command) (*ops.Session, string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, "", err
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, "", err
	}
	logger := log.New(log.Config{
		Level:     level,
		Component: log.ComponentApp,
		Output:    cmd.ErrOrStderr(),
	})

	setupColor(cmd)

	sess := ops.NewSession(cfg, logger)
	greeting, err := sess.Start()
	if err != nil {
		return nil, "", err
	}
	return sess, greeting, nil
}

// setupColor enables color only when writing to a terminal and --no-color is unset.
func setupColor(cmd *cobra.Command) {
	cli.SetColorEnabled(!noColor && cli.IsTerminal(cmd.OutOrStdout()))
}

// isInteractive reports whether r is a terminal a person is typing into.
func isInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
