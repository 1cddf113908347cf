package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	require.Equal(t, &Config{
		Encoding: "ISO-8859-1",
		LogLevel: "warn",
		Output:   "table",
		Workers:  4,
	}, cfg)

	level, err := cfg.Level()
	require.NoError(t, err)
	require.Equal(t, slog.LevelWarn, level)
	require.Len(t, cfg.Options(slog.Default()), 3)
}

func TestLoad_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adtdump.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
encoding: windows-1252
strict_offsets: true
output: json
workers: 2
`), 0o644))
	t.Setenv("ADT_WORKERS", "6")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", "table", "")
	flags.String("log-level", "warn", "")
	require.NoError(t, flags.Parse([]string{"--output", "yaml"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	require.Equal(t, "windows-1252", cfg.Encoding)
	require.True(t, cfg.StrictOffsets)
	require.Equal(t, "yaml", cfg.Output) // flag beats file
	require.Equal(t, 6, cfg.Workers)     // env beats file
	require.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
		require.Error(t, err)
	})

	t.Run("bad output", func(t *testing.T) {
		t.Setenv("ADT_OUTPUT", "xml")
		_, err := Load("", nil)
		require.ErrorContains(t, err, "unsupported output format")
	})

	t.Run("bad level", func(t *testing.T) {
		t.Setenv("ADT_LOG_LEVEL", "loud")
		_, err := Load("", nil)
		require.ErrorContains(t, err, "log level")
	})

	t.Run("bad workers", func(t *testing.T) {
		t.Setenv("ADT_WORKERS", "0")
		_, err := Load("", nil)
		require.ErrorContains(t, err, "workers")
	})
}
