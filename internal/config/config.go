// Package config loads adtdump settings from a YAML file, ADT_* environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	goadt "github.com/Ulysses-Xu/go-adt"
)

type Config struct {
	Encoding      string `mapstructure:"encoding"`
	StrictOffsets bool   `mapstructure:"strict_offsets"`
	LogLevel      string `mapstructure:"log_level"`
	Output        string `mapstructure:"output"`
	Workers       int    `mapstructure:"workers"`
}

// flag name for each key that can be set on the command line
var flagKeys = map[string]string{
	"encoding":       "encoding",
	"strict_offsets": "strict-offsets",
	"log_level":      "log-level",
	"output":         "output",
	"workers":        "workers",
}

// Load reads the config file at path (optional), the environment and the
// flags that were set in flags (may be nil).
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("encoding", goadt.DefaultEncoding)
	v.SetDefault("strict_offsets", false)
	v.SetDefault("log_level", "warn")
	v.SetDefault("output", "table")
	v.SetDefault("workers", 4)

	v.SetEnvPrefix("ADT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		for key, name := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Output {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("unsupported output format %q: use table, json or yaml", c.Output)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

// Options translates the config into reader options.
func (c *Config) Options(logger *slog.Logger) []goadt.Option {
	return []goadt.Option{
		goadt.WithEncoding(c.Encoding),
		goadt.WithStrictOffsets(c.StrictOffsets),
		goadt.WithLogger(logger),
	}
}
