package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	goadt "github.com/Ulysses-Xu/go-adt"
)

type tableSummary struct {
	Name    string `json:"name" yaml:"name"`
	Records int    `json:"records" yaml:"records"`
	Fields  int    `json:"fields" yaml:"fields"`
}

func newLsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ls <dir>",
		Short: "List the .adt tables of a directory with their record counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries, err := a.listTables(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.cfg.Output != "table" {
				return printStructured(out, a.cfg.Output, summaries)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, s := range summaries {
				fmt.Fprintf(tw, "%s\t%d records\t%d fields\n", s.Name, s.Records, s.Fields)
			}
			return tw.Flush()
		},
	}
}

// listTables reads the header of every .adt file in dir, sorted by name.
func (a *app) listTables(dir string) ([]tableSummary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".adt") {
			names = append(names, e.Name())
		}
	}

	summaries := make([]tableSummary, len(names))
	var g errgroup.Group
	g.SetLimit(a.cfg.Workers)
	for i, name := range names {
		g.Go(func() error {
			schema, err := goadt.ReadSchemaFile(filepath.Join(dir, name), a.options()...)
			if err != nil {
				return err
			}
			summaries[i] = tableSummary{Name: name, Records: schema.NumRecords(), Fields: schema.NumFields()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	a.logger.Debug("tables listed", "dir", dir, "count", len(summaries))
	return summaries, nil
}
