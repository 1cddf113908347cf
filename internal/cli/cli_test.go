package cli

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Ulysses-Xu/go-adt/internal/adtfixture"
)

func writeTable(t *testing.T, dir, name string, n int) string {
	t.Helper()
	fields := []adtfixture.Field{
		{Name: "ID", Type: adtfixture.Integer, Length: 4},
		{Name: "NAME", Type: adtfixture.String, Length: 6},
		{Name: "PAID", Type: adtfixture.Logical, Length: 1},
	}
	names := []string{"ada", "bob", "cy", "dee", "eve"}
	records := make([][]byte, n)
	for i := range records {
		records[i] = adtfixture.Record(
			adtfixture.Int32(int32(i+1)),
			adtfixture.Text(names[i%len(names)], 6),
			adtfixture.Bool(i%2 == 1),
		)
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, adtfixture.Table(uint32(n+1), fields, records...), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSchemaCmd(t *testing.T) {
	path := writeTable(t, t.TempDir(), "people.adt", 3)

	out, _, err := run(t, "schema", path)
	require.NoError(t, err)
	require.Contains(t, out, "NAME")
	require.Contains(t, out, "INTEGER")
	require.Contains(t, out, "records: 3")

	out, _, err = run(t, "schema", "-o", "json", path)
	require.NoError(t, err)
	var doc schemaDoc
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Equal(t, 3, doc.RecordCount)
	require.Equal(t, 16, doc.RecordSize)
	require.Equal(t, []fieldDoc{
		{Name: "ID", Type: "INTEGER", Length: 4, Offset: 5},
		{Name: "NAME", Type: "STRING", Length: 6, Offset: 9},
		{Name: "PAID", Type: "LOGICAL", Length: 1, Offset: 15},
	}, doc.Fields)
}

func TestDumpCmd(t *testing.T) {
	path := writeTable(t, t.TempDir(), "people.adt", 5)

	out, _, err := run(t, "dump", path)
	require.NoError(t, err)
	require.Equal(t, 5, strings.Count(out, separator))
	require.Contains(t, out, "ID: (INTEGER, 4): 1\n")
	require.Contains(t, out, "NAME: (STRING, 6): bob\n")

	out, _, err = run(t, "dump", "-n", "2", "-o", "json", path)
	require.NoError(t, err)
	var docs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Equal(t, []map[string]any{
		{"ID": float64(1), "NAME": "ada", "PAID": false},
		{"ID": float64(2), "NAME": "bob", "PAID": true},
	}, docs)
}

func TestDumpCmd_Range(t *testing.T) {
	path := writeTable(t, t.TempDir(), "people.adt", 5)

	out, _, err := run(t, "dump", "--start", "3", "--workers", "2", "-o", "yaml", path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "- ID: 4\n"), out)

	var docs []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &docs))
	require.Equal(t, []map[string]any{
		{"ID": 4, "NAME": "dee", "PAID": true},
		{"ID": 5, "NAME": "eve", "PAID": false},
	}, docs)

	_, _, err = run(t, "dump", "--start", "4", "--end", "9", path)
	require.Error(t, err)
}

func TestLsCmd(t *testing.T) {
	dir := t.TempDir()
	writeTable(t, dir, "b.adt", 4)
	writeTable(t, dir, "a.ADT", 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	out, _, err := run(t, "ls", dir)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], "a.ADT"), lines[0])
	require.Contains(t, lines[1], "4 records")

	out, _, err = run(t, "ls", "-o", "json", dir)
	require.NoError(t, err)
	var summaries []tableSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summaries))
	require.Equal(t, []tableSummary{
		{Name: "a.ADT", Records: 1, Fields: 3},
		{Name: "b.adt", Records: 4, Fields: 3},
	}, summaries)
}

func TestConfigFileAndFlags(t *testing.T) {
	dir := t.TempDir()
	path := writeTable(t, dir, "people.adt", 2)
	cfg := filepath.Join(dir, "adt.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("output: yaml\nlog_level: debug\n"), 0o644))

	out, stderr, err := run(t, "--config", cfg, "schema", path)
	require.NoError(t, err)
	require.Contains(t, out, "record_count: 2")
	require.Contains(t, stderr, "adt schema parsed")

	out, _, err = run(t, "--config", cfg, "-o", "table", "schema", path)
	require.NoError(t, err)
	require.Contains(t, out, "records: 2")

	_, _, err = run(t, "-o", "xml", "schema", path)
	require.ErrorContains(t, err, "unsupported output format")
}

func TestDumpCmd_NonFiniteDoubles(t *testing.T) {
	fields := []adtfixture.Field{
		{Name: "AMT", Type: adtfixture.Double, Length: 8},
	}
	path := filepath.Join(t.TempDir(), "amounts.adt")
	require.NoError(t, os.WriteFile(path, adtfixture.Table(4, fields,
		adtfixture.Record(adtfixture.Float64(math.NaN())),
		adtfixture.Record(adtfixture.Float64(math.Inf(-1))),
		adtfixture.Record(adtfixture.Float64(1.5)),
	), 0o644))

	out, _, err := run(t, "dump", "-o", "json", path)
	require.NoError(t, err)
	var docs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &docs))
	require.Equal(t, []map[string]any{
		{"AMT": "NaN"},
		{"AMT": "-Inf"},
		{"AMT": 1.5},
	}, docs)
}

func TestDumpCmd_MissingFile(t *testing.T) {
	_, _, err := run(t, "dump", filepath.Join(t.TempDir(), "nope.adt"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
