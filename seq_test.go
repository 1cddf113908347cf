package goadt

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Ulysses-Xu/go-adt/internal/adtfixture"
)

// trackingSource counts reads and closes.
type trackingSource struct {
	r          *bytes.Reader
	closes     int
	readsAfter int
	closeErr   error
}

func newTrackingSource(data []byte) *trackingSource {
	return &trackingSource{r: bytes.NewReader(data)}
}

func (s *trackingSource) Read(p []byte) (int, error) {
	if s.closes > 0 {
		s.readsAfter++
	}
	return s.r.Read(p)
}

func (s *trackingSource) Close() error {
	s.closes++
	return s.closeErr
}

func scenarioTable() []byte {
	fields := []adtfixture.Field{
		{Name: "F1", Type: adtfixture.Logical, Length: 1},
		{Name: "F2", Type: adtfixture.String, Length: 4},
	}
	return adtfixture.Table(3, fields,
		adtfixture.Record([]byte("T"), []byte("abcd")),
		adtfixture.Record([]byte("F"), []byte("xy\x00\x00")),
	)
}

func TestTable_Scenario(t *testing.T) {
	src := newTrackingSource(scenarioTable())
	table, err := Open(src)
	require.NoError(t, err)
	require.Equal(t, 2, table.Schema().NumRecords())

	var got []map[string]any
	for rec, err := range table.Records() {
		require.NoError(t, err)
		require.Equal(t, []string{"F1", "F2"}, rec.Names())
		got = append(got, rec.Map())
	}
	require.Equal(t, []map[string]any{
		{"F1": true, "F2": "abcd"},
		{"F1": false, "F2": "xy"},
	}, got)

	require.Equal(t, 1, src.closes)
	require.Zero(t, src.r.Len())
	require.Zero(t, src.readsAfter)
}

func TestTable_Next(t *testing.T) {
	src := newTrackingSource(scenarioTable())
	table, err := Open(src)
	require.NoError(t, err)

	rec, err := table.Next()
	require.NoError(t, err)
	require.Equal(t, true, rec.At(0).Value)
	require.Zero(t, src.closes)

	_, err = table.Next()
	require.NoError(t, err)
	require.Equal(t, 2, table.Read())
	// exhausted: released right after the last record
	require.Equal(t, 1, src.closes)

	_, err = table.Next()
	require.ErrorIs(t, err, io.EOF)
	_, err = table.Next()
	require.ErrorIs(t, err, io.EOF)
	require.NoError(t, table.Close())
	require.Equal(t, 1, src.closes)
}

func TestTable_EarlyTermination(t *testing.T) {
	fields := []adtfixture.Field{{Name: "N", Type: adtfixture.Integer, Length: 4}}
	var records [][]byte
	for i := 0; i < 10; i++ {
		records = append(records, adtfixture.Record(adtfixture.Int32(int32(i))))
	}
	src := newTrackingSource(adtfixture.Table(11, fields, records...))
	table, err := Open(src)
	require.NoError(t, err)

	count := 0
	for rec, err := range table.Records() {
		require.NoError(t, err)
		require.Equal(t, int32(0), rec.At(0).Value)
		count++
		break
	}
	require.Equal(t, 1, count)
	require.Equal(t, 1, src.closes)

	_, err = table.Next()
	require.ErrorIs(t, err, io.EOF)
	require.NoError(t, table.Close())
	require.Equal(t, 1, src.closes)
	require.Zero(t, src.readsAfter)
}

func TestTable_ExplicitClose(t *testing.T) {
	src := newTrackingSource(scenarioTable())
	table, err := Open(src)
	require.NoError(t, err)

	_, err = table.Next()
	require.NoError(t, err)
	require.NoError(t, table.Close())
	require.NoError(t, table.Close())
	require.Equal(t, 1, src.closes)

	_, err = table.Next()
	require.ErrorIs(t, err, io.EOF)
	require.Zero(t, src.readsAfter)
}

func TestTable_DecodeErrorStops(t *testing.T) {
	data := scenarioTable()
	src := newTrackingSource(data[:len(data)-2])
	table, err := Open(src)
	require.NoError(t, err)

	var errs []error
	n := 0
	for _, err := range table.Records() {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		n++
	}
	require.Equal(t, 1, n)
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], ErrTruncated)
	require.Contains(t, errs[0].Error(), "decode record 2")
	require.Equal(t, 1, src.closes)

	_, err = table.Next()
	require.ErrorIs(t, err, ErrTruncated)
}

func TestTable_CloseError(t *testing.T) {
	boom := errors.New("close failed")
	src := newTrackingSource(scenarioTable())
	src.closeErr = boom
	table, err := Open(src)
	require.NoError(t, err)

	_, err = table.ReadAll()
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, src.closes)
}

func TestOpen_FailureClosesSource(t *testing.T) {
	fields := []adtfixture.Field{{Name: "BAD", Type: 19, Length: 1}}
	src := newTrackingSource(adtfixture.Table(2, fields, adtfixture.Record([]byte{0})))

	_, err := Open(src)
	require.ErrorIs(t, err, ErrUnknownFieldType)
	require.Equal(t, 1, src.closes)
	// schema parsing stopped before any record byte was read
	require.Equal(t, 6, src.r.Len())
}

func TestTable_NoRecords(t *testing.T) {
	fields := []adtfixture.Field{{Name: "F", Type: adtfixture.Logical, Length: 1}}
	for _, count := range []uint32{0, 1} {
		src := newTrackingSource(adtfixture.Header(count, fields))
		table, err := Open(src)
		require.NoError(t, err)

		records, err := table.ReadAll()
		require.NoError(t, err)
		require.Empty(t, records)
		require.Equal(t, 1, src.closes)
	}
}

func TestDecoder_ExactConsumption(t *testing.T) {
	fields := []adtfixture.Field{
		{Name: "S", Type: adtfixture.String, Length: 5},
		{Name: "W", Type: adtfixture.NVarChar, Length: 3, Width: 8},
		{Name: "TS", Type: adtfixture.Timestamp, Length: 8},
	}
	body := func(s string) []byte {
		return adtfixture.Record(adtfixture.Text(s, 5), adtfixture.VarWide(s, 3), adtfixture.TimestampValue(2451545, 0))
	}
	data := adtfixture.Table(4, fields, body("a"), body("bb"), body("ccc"))
	r := bytes.NewReader(data)

	schema, err := ReadSchema(r, WithStrictOffsets(true))
	require.NoError(t, err)
	dec, err := NewDecoder(r, schema)
	require.NoError(t, err)

	for i := 0; i < schema.NumRecords(); i++ {
		_, err := dec.Decode()
		require.NoError(t, err)
	}
	want := schema.DataOffset() + int64(schema.NumRecords()*schema.RecordSize())
	require.Equal(t, int64(len(data)), want)
	require.Equal(t, int64(schema.NumRecords()*schema.RecordSize()), dec.Offset())
	require.Zero(t, r.Len())
}

func TestTable_RoundTrip(t *testing.T) {
	fields := []adtfixture.Field{
		{Name: "ACTIVE", Type: adtfixture.Logical, Length: 1},
		{Name: "QTY", Type: adtfixture.ShortInt, Length: 2},
		{Name: "ID", Type: adtfixture.Integer, Length: 4},
		{Name: "BIG", Type: adtfixture.Money, Length: 8},
		{Name: "PRICE", Type: adtfixture.Double, Length: 8},
		{Name: "NAME", Type: adtfixture.CIString, Length: 10},
		{Name: "NOTE", Type: adtfixture.VarChar, Length: 12},
		{Name: "LABEL", Type: adtfixture.NChar, Length: 4, Width: 8},
		{Name: "DAY", Type: adtfixture.Date, Length: 4},
		{Name: "AT", Type: adtfixture.Time, Length: 4},
		{Name: "STAMP", Type: adtfixture.Timestamp, Length: 8},
		{Name: "BLOB", Type: adtfixture.Raw, Length: 3},
	}
	day := date(2024, time.February, 29)
	at := TimeOfDay(23*time.Hour + 59*time.Minute + 59*time.Second + 999*time.Millisecond)
	data := adtfixture.Table(2, fields, adtfixture.Record(
		adtfixture.Bool(true),
		adtfixture.Int16(-300),
		adtfixture.Int32(123456),
		adtfixture.Int64(math.MaxInt64),
		adtfixture.Float64(1234.5678),
		adtfixture.Text("Widget", 10),
		adtfixture.VarText("free text", 12, ' '),
		adtfixture.Wide("Ωmega", 4),
		adtfixture.Int32(JulianDay(day)),
		adtfixture.Int32(at.Millis()),
		adtfixture.TimestampValue(JulianDay(day), at.Millis()),
		[]byte{9, 8, 7},
	))

	table, err := Open(io.NopCloser(bytes.NewReader(data)), WithStrictOffsets(true))
	require.NoError(t, err)
	records, err := table.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	require.Equal(t, map[string]any{
		"ACTIVE": true,
		"QTY":    int16(-300),
		"ID":     int32(123456),
		"BIG":    int64(math.MaxInt64),
		"PRICE":  1234.5678,
		"NAME":   "Widget",
		"NOTE":   "free text",
		"LABEL":  "Ωmeg",
		"DAY":    day,
		"AT":     at,
		"STAMP":  at.On(day),
		"BLOB":   []byte{9, 8, 7},
	}, rec.Map())
}

func TestRecord_Access(t *testing.T) {
	table, err := Open(io.NopCloser(bytes.NewReader(scenarioTable())))
	require.NoError(t, err)
	rec, err := table.Next()
	require.NoError(t, err)
	require.NoError(t, table.Close())

	v, ok := rec.Get("F2")
	require.True(t, ok)
	require.True(t, v.Present())
	require.Equal(t, FieldString, v.Field.Type)
	require.Equal(t, "abcd", v.String())

	_, ok = rec.Get("F3")
	require.False(t, ok)

	value, err := rec.Value("F1")
	require.NoError(t, err)
	require.Equal(t, true, value)

	_, err = rec.Value("F3")
	require.ErrorIs(t, err, ErrNoSuchField)

	values := rec.Values()
	values[0] = FieldValue{}
	require.Equal(t, "F1", rec.At(0).Field.Name)
}
