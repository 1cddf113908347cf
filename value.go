package goadt

import (
	"fmt"
	"time"
)

// FieldDescriptor describes one column of a table. Fields are identified
// by position: declared order is on-disk order is decode order.
type FieldDescriptor struct {
	Name   string
	Type   FieldType
	Length int
	// StartOffset is the in-record offset stored in the descriptor. It is
	// not used for decoding.
	StartOffset int
}

// Width is the number of bytes the field occupies in a record. External
// types have no inline width and report 0.
func (f FieldDescriptor) Width() int {
	c, ok := codecs[f.Type]
	if !ok || c.width == nil {
		return 0
	}
	return c.width(f.Length)
}

// Schema is the parsed table header. It is immutable once returned by
// ReadSchema.
type Schema struct {
	RecordCount uint32

	fields []FieldDescriptor
	index  map[string]int
}

func newSchema(recordCount uint32, fields []FieldDescriptor) *Schema {
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		// first declaration wins on duplicate names
		if _, ok := index[f.Name]; !ok {
			index[f.Name] = i
		}
	}
	return &Schema{RecordCount: recordCount, fields: fields, index: index}
}

func (s *Schema) NumFields() int { return len(s.fields) }

func (s *Schema) Field(i int) FieldDescriptor { return s.fields[i] }

// Fields returns a copy of the field descriptors in declared order.
func (s *Schema) Fields() []FieldDescriptor {
	out := make([]FieldDescriptor, len(s.fields))
	copy(out, s.fields)
	return out
}

// FieldIndex returns the position of the named field, or -1.
func (s *Schema) FieldIndex(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// NumRecords is the number of records a reader will decode. The header
// count includes an unused slot 0, so it is one less than RecordCount.
func (s *Schema) NumRecords() int {
	if s.RecordCount == 0 {
		return 0
	}
	return int(s.RecordCount - 1)
}

// RecordSize is the on-disk size of one record including its prologue.
func (s *Schema) RecordSize() int {
	size := recordPrologueSize
	for _, f := range s.fields {
		size += f.Width()
	}
	return size
}

// DataOffset is the file offset of the first record.
func (s *Schema) DataOffset() int64 {
	return int64(headerSize + fieldBlockSize*len(s.fields))
}

// FieldValue pairs a field with its decoded value. Value is nil when the
// stored bytes hold the type's "no value" sentinel.
type FieldValue struct {
	Field FieldDescriptor
	Value any
}

func (v FieldValue) Present() bool { return v.Value != nil }

func (v FieldValue) String() string {
	if v.Value == nil {
		return "[-]"
	}
	switch x := v.Value.(type) {
	case time.Time:
		if v.Field.Type == FieldDate {
			return x.Format(time.DateOnly)
		}
		return x.Format("2006-01-02T15:04:05.000")
	case []byte:
		return fmt.Sprintf("%x", x)
	}
	return fmt.Sprint(v.Value)
}

// Record is one decoded row: a value for every schema field, in schema
// order.
type Record struct {
	values []FieldValue
	index  map[string]int
}

func (r Record) Len() int { return len(r.values) }

func (r Record) At(i int) FieldValue { return r.values[i] }

// Values returns a copy of the field values in schema order.
func (r Record) Values() []FieldValue {
	out := make([]FieldValue, len(r.values))
	copy(out, r.values)
	return out
}

func (r Record) Names() []string {
	out := make([]string, len(r.values))
	for i, v := range r.values {
		out[i] = v.Field.Name
	}
	return out
}

func (r Record) Get(name string) (FieldValue, bool) {
	i, ok := r.index[name]
	if !ok {
		return FieldValue{}, false
	}
	return r.values[i], true
}

// Value returns the decoded value of the named field, nil when it is
// empty.
func (r Record) Value(name string) (any, error) {
	v, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoSuchField, name)
	}
	return v.Value, nil
}

// Map returns the record as a name to value map. Empty fields map to nil.
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r.values))
	for _, v := range r.values {
		if _, ok := out[v.Field.Name]; !ok {
			out[v.Field.Name] = v.Value
		}
	}
	return out
}

// TimeOfDay is a wall-clock time expressed as the duration since midnight.
type TimeOfDay time.Duration

const day = 24 * time.Hour

func (t TimeOfDay) Hour() int       { return int(time.Duration(t) / time.Hour) }
func (t TimeOfDay) Minute() int     { return int(time.Duration(t) % time.Hour / time.Minute) }
func (t TimeOfDay) Second() int     { return int(time.Duration(t) % time.Minute / time.Second) }
func (t TimeOfDay) Nanosecond() int { return int(time.Duration(t) % time.Second) }

// Millis returns the number of milliseconds since midnight, as stored on
// disk.
func (t TimeOfDay) Millis() int32 { return int32(time.Duration(t) / time.Millisecond) }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d.%03d", t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/int(time.Millisecond))
}

// On combines t with the calendar date of d, in UTC.
func (t TimeOfDay) On(d time.Time) time.Time {
	y, m, dd := d.Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC).Add(time.Duration(t))
}

// julian day number of 1970-01-01
const unixEpochJulianDay = 2440588

// DateFromJulianDay converts a Julian day number to a UTC calendar date in
// the proleptic Gregorian calendar.
func DateFromJulianDay(jdn int32) time.Time {
	return time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, int(jdn)-unixEpochJulianDay)
}

// JulianDay is the inverse of DateFromJulianDay; the time of day is ignored.
func JulianDay(t time.Time) int32 {
	y, m, d := t.Date()
	days := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / int64(day/time.Second)
	return int32(days + unixEpochJulianDay)
}
