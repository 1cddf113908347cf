package cli

import (
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	goadt "github.com/Ulysses-Xu/go-adt"
)

func newDumpCmd(a *app) *cobra.Command {
	var (
		limit      int
		start, end int
	)
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the records of a table",
		Long: "Print the records of a table in file order. With --start/--end the\n" +
			"range is fetched by index using --workers concurrent readers.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				records []goadt.Record
				err     error
			)
			if cmd.Flags().Changed("start") || cmd.Flags().Changed("end") {
				records, err = a.readRange(args[0], start, end)
			} else {
				records, err = a.readSequential(args[0], limit)
			}
			if err != nil {
				return err
			}
			return a.printRecords(cmd.OutOrStdout(), records)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "stop after n records (0 reads all)")
	cmd.Flags().IntVar(&start, "start", 0, "first record index (0-based)")
	cmd.Flags().IntVar(&end, "end", -1, "end of the record range, exclusive (-1 for the last record)")
	return cmd
}

func (a *app) readSequential(file string, limit int) ([]goadt.Record, error) {
	table, err := goadt.OpenFile(file, a.options()...)
	if err != nil {
		return nil, err
	}
	defer table.Close()

	var records []goadt.Record
	for rec, err := range table.Records() {
		if err != nil {
			return records, err
		}
		records = append(records, rec)
		if limit > 0 && len(records) == limit {
			break
		}
	}
	a.logger.Debug("records read", "file", file, "count", len(records))
	return records, nil
}

func (a *app) readRange(file string, start, end int) ([]goadt.Record, error) {
	h, err := goadt.NewTableFromFile(file, a.options()...)
	if err != nil {
		return nil, err
	}
	defer h.Close()
	if end < 0 {
		end = h.NumRecords()
	}
	return h.GetRecords(start, end, a.cfg.Workers)
}

func (a *app) printRecords(w io.Writer, records []goadt.Record) error {
	switch a.cfg.Output {
	case "json":
		docs := make([]map[string]any, len(records))
		for i, rec := range records {
			docs[i] = recordMap(rec)
		}
		return printStructured(w, "json", docs)
	case "yaml":
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, rec := range records {
			node, err := recordNode(rec)
			if err != nil {
				return err
			}
			seq.Content = append(seq.Content, node)
		}
		return printStructured(w, "yaml", seq)
	}
	for _, rec := range records {
		if err := printRecord(w, rec); err != nil {
			return err
		}
	}
	return nil
}
