package goadt

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// source is a forward-only reader that counts consumed bytes and turns
// short reads into ErrTruncated.
type source struct {
	r       io.Reader
	off     int64
	scratch []byte
}

func newSource(r io.Reader) *source {
	return &source{r: r}
}

func (s *source) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	s.off += int64(n)
	return n, err
}

func (s *source) fail(n int, err error, at int64) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: need %d bytes at offset %d, got %d", ErrTruncated, n, at, s.off-at)
	}
	return fmt.Errorf("read %d bytes at offset %d: %w", n, at, err)
}

// next returns the next n bytes. The slice is only valid until the
// following call.
func (s *source) next(n int) ([]byte, error) {
	if cap(s.scratch) < n {
		s.scratch = make([]byte, n)
	}
	b := s.scratch[:n]
	start := s.off
	if _, err := io.ReadFull(s, b); err != nil {
		return nil, s.fail(n, err, start)
	}
	return b, nil
}

func (s *source) skip(n int) error {
	_, err := s.next(n)
	return err
}

func (s *source) readStruct(v any) error {
	n := binary.Size(v)
	start := s.off
	if err := binary.Read(s, binary.LittleEndian, v); err != nil {
		return s.fail(n, err, start)
	}
	return nil
}

// Decoder reads records one at a time from a source positioned right
// after the schema region.
type Decoder struct {
	src    *source
	schema *Schema
	text   *textCodec
}

// NewDecoder returns a decoder of the records of schema read from r.
// Only WithEncoding is relevant here.
func NewDecoder(r io.Reader, schema *Schema, opts ...Option) (*Decoder, error) {
	o := buildOptions(opts)
	text, err := newTextCodec(o.encoding)
	if err != nil {
		return nil, err
	}
	return newDecoder(newSource(r), schema, text), nil
}

func newDecoder(src *source, schema *Schema, text *textCodec) *Decoder {
	return &Decoder{src: src, schema: schema, text: text}
}

// Offset is the number of bytes consumed from the underlying reader.
func (d *Decoder) Offset() int64 { return d.src.off }

// Decode reads the next record. Any error leaves the decoder at an
// unknown position; it must not be used afterwards.
func (d *Decoder) Decode() (Record, error) {
	if err := d.src.skip(recordPrologueSize); err != nil {
		return Record{}, fmt.Errorf("read record prologue: %w", err)
	}
	values := make([]FieldValue, len(d.schema.fields))
	for i, f := range d.schema.fields {
		v, err := d.decodeField(f)
		if err != nil {
			return Record{}, &FieldError{Index: i, Name: f.Name, Type: f.Type, Err: err}
		}
		values[i] = FieldValue{Field: f, Value: v}
	}
	return Record{values: values, index: d.schema.index}, nil
}

func (d *Decoder) decodeField(f FieldDescriptor) (any, error) {
	c, width, err := codecFor(f)
	if err != nil {
		return nil, err
	}
	b, err := d.src.next(width)
	if err != nil {
		return nil, err
	}
	return c.decode(d.text, b)
}
