package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"

	goadt "github.com/Ulysses-Xu/go-adt"
)

const separator = "---------------------------------------------------------------------------"

func printStructured(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported output format %q", format)
}

// printRecord writes one "name: (TYPE, length): value" line per field.
func printRecord(w io.Writer, rec goadt.Record) error {
	for _, v := range rec.Values() {
		if _, err := fmt.Fprintf(w, "%s: (%s, %d): %s\n", v.Field.Name, v.Field.Type, v.Field.Length, v); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, separator)
	return err
}

// recordNode keeps the schema order of the fields in YAML output.
func recordNode(rec goadt.Record) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, v := range rec.Values() {
		var value yaml.Node
		if err := value.Encode(jsonValue(v)); err != nil {
			return nil, fmt.Errorf("field %s: %w", v.Field.Name, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: v.Field.Name},
			&value,
		)
	}
	return node, nil
}

// jsonValue is the structured-output form of a field value: times, byte
// slices and non-finite floats are rendered as strings.
func jsonValue(v goadt.FieldValue) any {
	switch x := v.Value.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return v.String()
		}
		return x
	case bool, int16, int32, int64, string:
		return v.Value
	}
	return v.String()
}

func recordMap(rec goadt.Record) map[string]any {
	out := make(map[string]any, rec.Len())
	for _, v := range rec.Values() {
		out[v.Field.Name] = jsonValue(v)
	}
	return out
}
