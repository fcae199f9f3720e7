package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 3, cfg.Download.Threads)
	assert.Equal(t, 100, cfg.Download.Retries)
	assert.False(t, cfg.Download.Overwrite)
	assert.Equal(t, "http://www.imdb.com", cfg.Session.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.Session.Timeout)
	assert.Equal(t, "output.log", cfg.Logging.File)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("IMDBRATINGS_COOKIES_FILE", "/tmp/cookies.txt")
	t.Setenv("IMDBRATINGS_THREADS", "8")
	t.Setenv("IMDBRATINGS_RETRIES", "2")
	t.Setenv("IMDBRATINGS_OVERWRITE", "TRUE")
	t.Setenv("IMDBRATINGS_TIMEOUT", "15s")
	t.Setenv("IMDBRATINGS_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "/tmp/cookies.txt", cfg.Session.CookiesFile)
	assert.Equal(t, 8, cfg.Download.Threads)
	assert.Equal(t, 2, cfg.Download.Retries)
	assert.True(t, cfg.Download.Overwrite)
	assert.Equal(t, 15*time.Second, cfg.Session.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvInvalidNumbers(t *testing.T) {
	t.Setenv("IMDBRATINGS_THREADS", "many")
	t.Setenv("IMDBRATINGS_TIMEOUT", "soon")

	cfg := DefaultConfig()
	err := cfg.LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IMDBRATINGS_THREADS")
	assert.Contains(t, err.Error(), "IMDBRATINGS_TIMEOUT")
	assert.Equal(t, 3, cfg.Download.Threads)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
session:
  cookies_file: cookies.txt
  timeout: 10s
download:
  threads: 5
  retries: 7
  overwrite: true
output:
  directory: ./ratings
logging:
  level: warn
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "cookies.txt", cfg.Session.CookiesFile)
	assert.Equal(t, 10*time.Second, cfg.Session.Timeout)
	assert.Equal(t, 5, cfg.Download.Threads)
	assert.Equal(t, 7, cfg.Download.Retries)
	assert.True(t, cfg.Download.Overwrite)
	assert.Equal(t, "./ratings", cfg.Output.Directory)
	assert.Equal(t, "warn", cfg.Logging.Level)
	// untouched keys keep their defaults
	assert.Equal(t, "http://www.imdb.com", cfg.Session.BaseURL)
}

func TestLoadFromFileErrors(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("download: [oops"), 0644))
	assert.Error(t, cfg.LoadFromFile(bad))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"zero threads", func(c *Config) { c.Download.Threads = 0 }, "threads must be at least 1"},
		{"negative retries", func(c *Config) { c.Download.Retries = -1 }, "retries cannot be negative"},
		{"no output", func(c *Config) { c.Output.Directory = "" }, "output directory is required"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "invalid log level"},
		{"zero timeout", func(c *Config) { c.Session.Timeout = 0 }, "timeout must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Output.Directory = "out"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRetriesZeroIsValid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.Directory = "out"
	cfg.MergeCommandLineFlags(map[string]interface{}{"retries": 0})

	assert.Equal(t, 0, cfg.Download.Retries)
	assert.NoError(t, cfg.Validate())
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"cookies":   "c.txt",
		"threads":   9,
		"overwrite": true,
		"output":    "/data",
		"log-file":  "",
		"timeout":   5 * time.Second,
	})

	assert.Equal(t, "c.txt", cfg.Session.CookiesFile)
	assert.Equal(t, 9, cfg.Download.Threads)
	assert.True(t, cfg.Download.Overwrite)
	assert.Equal(t, "/data", cfg.Output.Directory)
	assert.Equal(t, "", cfg.Logging.File)
	assert.Equal(t, 5*time.Second, cfg.Session.Timeout)
	assert.Equal(t, 100, cfg.Download.Retries)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("download:\n  threads: 4\n  retries: 9\n"), 0644))

	t.Setenv("HOME", dir)
	t.Setenv("IMDBRATINGS_RETRIES", "6")

	cfg, err := Load(path, map[string]interface{}{
		"output":  "out",
		"threads": 2,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Download.Threads, "flags win over file")
	assert.Equal(t, 6, cfg.Download.Retries, "env wins over file")
}

func TestLoadValidationFailure(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), "none.yaml"), nil)
	assert.Error(t, err)

	_, err = Load("", map[string]interface{}{"threads": 0, "output": "out"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Output.Directory = "saved"
	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded Config
	require.NoError(t, yaml.Unmarshal(data, &loaded))
	assert.Equal(t, "saved", loaded.Output.Directory)
	assert.Equal(t, cfg.Download, loaded.Download)
}
