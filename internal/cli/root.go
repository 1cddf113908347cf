// Package cli implements the adtdump command line.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	goadt "github.com/Ulysses-Xu/go-adt"
	"github.com/Ulysses-Xu/go-adt/internal/config"
)

var (
	version = "dev"
	commit  = "none"
)

// app carries the resolved configuration to the sub-commands.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func (a *app) options() []goadt.Option {
	return a.cfg.Options(a.logger)
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var configPath string
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "adtdump",
		Short:         "Inspect Advantage .adt table files",
		Long:          "Read-only inspection of Advantage .adt tables: schema, records and directory listings.",
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			level, err := cfg.Level()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "path to a YAML config file")
	pf.String("encoding", goadt.DefaultEncoding, "charset of field names and non-unicode strings")
	pf.Bool("strict-offsets", false, "fail when descriptor start offsets disagree with the computed layout")
	pf.String("log-level", "warn", "log level: debug, info, warn or error")
	pf.StringP("output", "o", "table", "output format: table, json or yaml")
	pf.Int("workers", 4, "number of concurrent readers")

	rootCmd.AddCommand(
		newSchemaCmd(a),
		newDumpCmd(a),
		newLsCmd(a),
	)
	return rootCmd
}
