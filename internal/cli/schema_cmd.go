package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	goadt "github.com/Ulysses-Xu/go-adt"
)

type schemaDoc struct {
	File        string     `json:"file" yaml:"file"`
	RecordCount int        `json:"record_count" yaml:"record_count"`
	RecordSize  int        `json:"record_size" yaml:"record_size"`
	Fields      []fieldDoc `json:"fields" yaml:"fields"`
}

type fieldDoc struct {
	Name   string `json:"name" yaml:"name"`
	Type   string `json:"type" yaml:"type"`
	Length int    `json:"length" yaml:"length"`
	Offset int    `json:"offset" yaml:"offset"`
}

func newSchemaDoc(file string, s *goadt.Schema) schemaDoc {
	doc := schemaDoc{
		File:        file,
		RecordCount: s.NumRecords(),
		RecordSize:  s.RecordSize(),
	}
	for _, f := range s.Fields() {
		doc.Fields = append(doc.Fields, fieldDoc{
			Name:   f.Name,
			Type:   f.Type.String(),
			Length: f.Length,
			Offset: f.StartOffset,
		})
	}
	return doc
}

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <file>",
		Short: "Print the fields and record count of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := goadt.ReadSchemaFile(args[0], a.options()...)
			if err != nil {
				return err
			}
			doc := newSchemaDoc(args[0], schema)
			out := cmd.OutOrStdout()
			if a.cfg.Output != "table" {
				return printStructured(out, a.cfg.Output, doc)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tTYPE\tLENGTH\tOFFSET")
			for _, f := range doc.Fields {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", f.Name, f.Type, f.Length, f.Offset)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "records: %d\n", doc.RecordCount)
			return err
		},
	}
}
