package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dukepro.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("full file loads all values", func(t *testing.T) {
		path := writeConfig(t, `data_dir: /tmp/duke
task_file: tasks.txt
expense_file: spend.txt
log_level: debug
max_description_width: 40
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "/tmp/duke", cfg.DataDir)
		assert.Equal(t, "tasks.txt", cfg.TaskFile)
		assert.Equal(t, "spend.txt", cfg.ExpenseFile)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, 40, cfg.MaxDescriptionWidth)
	})

	t.Run("partial file merges with defaults", func(t *testing.T) {
		path := writeConfig(t, "data_dir: elsewhere\n")
		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "elsewhere", cfg.DataDir)
		assert.Equal(t, DefaultTaskFile, cfg.TaskFile)       // default
		assert.Equal(t, DefaultExpenseFile, cfg.ExpenseFile) // default
		assert.Equal(t, DefaultLogLevel, cfg.LogLevel)       // default
	})

	t.Run("empty file returns defaults", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t, ""))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("invalid YAML returns error with filename", func(t *testing.T) {
		path := writeConfig(t, "data_dir: [invalid yaml\nthis is not valid\n")
		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dukepro.yaml")
	})
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvDataDir:  "/var/lib/duke",
		EnvLogLevel: "info",
	}
	cfg := DefaultConfig()
	cfg.ApplyEnv(func(key string) string { return env[key] })

	assert.Equal(t, "/var/lib/duke", cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)

	// Unset variables leave values alone.
	cfg = DefaultConfig()
	cfg.ApplyEnv(func(string) string { return "" })
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, DefaultConfig().Validate())
	})

	t.Run("all problems are reported together", func(t *testing.T) {
		cfg := &Config{
			DataDir:             "",
			TaskFile:            "same.txt",
			ExpenseFile:         "same.txt",
			LogLevel:            "loud",
			MaxDescriptionWidth: -1,
		}
		err := cfg.Validate()
		require.Error(t, err)
		msg := err.Error()
		assert.Contains(t, msg, "data_dir")
		assert.Contains(t, msg, "must differ")
		assert.Contains(t, msg, "loud")
		assert.Contains(t, msg, "max_description_width")
	})
}

func TestConfigPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "store"
	assert.Equal(t, filepath.Join("store", "tasklist.txt"), cfg.TaskPath())
	assert.Equal(t, filepath.Join("store", "expenselist.txt"), cfg.ExpensePath())
}
