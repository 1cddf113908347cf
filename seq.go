package goadt

import (
	"errors"
	"fmt"
	"io"
	"iter"
)

// Table is a lazily decoded, forward-only sequence of the records of one
// table. It owns the source it was opened on and closes it exactly once:
// after the last record, on the first decode error, or on Close.
//
// A Table is not safe for concurrent use and cannot be restarted.
type Table struct {
	schema    *Schema
	dec       *Decoder
	closer    io.Closer
	read      int
	remaining int
	err       error
	closed    bool
	closeErr  error
}

// Open parses the schema from src and returns the record sequence. Open
// takes ownership of src: it is closed if parsing fails, and otherwise by
// the returned Table.
func Open(src io.ReadCloser, opts ...Option) (*Table, error) {
	o := buildOptions(opts)
	text, err := newTextCodec(o.encoding)
	if err != nil {
		return nil, errors.Join(err, src.Close())
	}
	s := newSource(src)
	schema, err := readSchema(s, text, o)
	if err != nil {
		return nil, errors.Join(err, src.Close())
	}
	return &Table{
		schema:    schema,
		dec:       newDecoder(s, schema, text),
		closer:    src,
		remaining: schema.NumRecords(),
	}, nil
}

func (t *Table) Schema() *Schema { return t.schema }

// Read is the number of records decoded so far.
func (t *Table) Read() int { return t.read }

// Next decodes the next record. It returns io.EOF once every record has
// been read. A decode error is returned again by every later call.
func (t *Table) Next() (Record, error) {
	if t.err != nil {
		return Record{}, t.err
	}
	if t.remaining == 0 {
		t.err = io.EOF
		if err := t.Close(); err != nil {
			t.err = err
		}
		return Record{}, t.err
	}

	rec, err := t.dec.Decode()
	if err != nil {
		t.err = fmt.Errorf("decode record %d: %w", t.read+1, err)
		_ = t.Close()
		return Record{}, t.err
	}
	t.read++
	t.remaining--
	if t.remaining == 0 {
		if err := t.Close(); err != nil {
			t.err = err
		}
	}
	return rec, nil
}

// Records returns an iterator over the remaining records. Breaking out of
// the loop closes the table. A decode error is yielded once, as the last
// element.
func (t *Table) Records() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		defer t.Close()
		for {
			rec, err := t.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(Record{}, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// ReadAll decodes every remaining record.
func (t *Table) ReadAll() ([]Record, error) {
	records := make([]Record, 0, t.remaining)
	for rec, err := range t.Records() {
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Close releases the underlying source. Later calls return the result of
// the first one.
func (t *Table) Close() error {
	if t.closed {
		return t.closeErr
	}
	t.closed = true
	t.closeErr = t.closer.Close()
	if t.err == nil && t.remaining > 0 {
		t.err = io.EOF
	}
	return t.closeErr
}
