package goadt

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"os"

	"golang.org/x/sync/errgroup"
)

// ADT is a table file opened for reading.
type ADT interface {
	Reload() error
	Schema() *Schema
	NumRecords() int
	GetRecord(index int) (Record, error)
	GetRecords(start, end, workers int) ([]Record, error)
	Records() iter.Seq2[Record, error]
	Close() error
}

// TableHandler reads a table file. Every record has the same on-disk
// size, so records can be fetched by index as well as streamed. The
// handler is safe for concurrent reads; Reload and Close must not run
// concurrently with them.
type TableHandler struct {
	fileName string
	f        *os.File
	fileSize int64
	opts     options
	schema   *Schema
}

var _ ADT = (*TableHandler)(nil)

// NewTableFromFile opens fileName and parses its header.
func NewTableFromFile(fileName string, opts ...Option) (*TableHandler, error) {
	h := &TableHandler{
		fileName: fileName,
		opts:     buildOptions(opts),
	}
	if err := h.open(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *TableHandler) open() error {
	f, err := os.Open(h.fileName)
	if err != nil {
		return err
	}
	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return err
	}
	text, err := newTextCodec(h.opts.encoding)
	if err != nil {
		_ = f.Close()
		return err
	}
	schema, err := readSchema(newSource(bufio.NewReader(f)), text, h.opts)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("%s: %w", h.fileName, err)
	}

	expected := schema.DataOffset() + int64(schema.NumRecords())*int64(schema.RecordSize())
	if stat.Size() < expected {
		h.opts.logger.Warn("adt file shorter than its declared records",
			"file", h.fileName,
			"size", stat.Size(),
			"expected", expected,
		)
	}

	h.f = f
	h.fileSize = stat.Size()
	h.schema = schema
	return nil
}

// Reload closes and reopens the file, picking up a changed header. If
// reopening fails the handler stays closed.
func (h *TableHandler) Reload() error {
	f := h.f
	h.f = nil
	if f != nil {
		if err := f.Close(); err != nil {
			return err
		}
	}
	return h.open()
}

func (h *TableHandler) Schema() *Schema { return h.schema }

func (h *TableHandler) NumRecords() int { return h.schema.NumRecords() }

// FileSize is the size of the file when it was last (re)opened.
func (h *TableHandler) FileSize() int64 { return h.fileSize }

func (h *TableHandler) Close() error {
	if h.f == nil {
		return nil
	}
	f := h.f
	h.f = nil
	return f.Close()
}

// section returns a reader over records [start, end).
func (h *TableHandler) section(start, end int) io.Reader {
	size := int64(h.schema.RecordSize())
	off := h.schema.DataOffset() + int64(start)*size
	return io.NewSectionReader(h.f, off, int64(end-start)*size)
}

func (h *TableHandler) decoder(start, end int) (*Decoder, error) {
	if h.f == nil {
		return nil, fmt.Errorf("%s: %w", h.fileName, os.ErrClosed)
	}
	text, err := newTextCodec(h.opts.encoding)
	if err != nil {
		return nil, err
	}
	r := bufio.NewReader(h.section(start, end))
	return newDecoder(newSource(r), h.schema, text), nil
}

// GetRecord decodes the record at index, counting from 0.
func (h *TableHandler) GetRecord(index int) (Record, error) {
	if index < 0 || index >= h.NumRecords() {
		return Record{}, fmt.Errorf("%w: record %d of %d", ErrIndexOutOfRange, index, h.NumRecords())
	}
	dec, err := h.decoder(index, index+1)
	if err != nil {
		return Record{}, err
	}
	rec, err := dec.Decode()
	if err != nil {
		return Record{}, fmt.Errorf("decode record %d: %w", index, err)
	}
	return rec, nil
}

// GetRecords decodes records [start, end), splitting the range into
// contiguous chunks decoded by up to workers goroutines.
func (h *TableHandler) GetRecords(start, end, workers int) ([]Record, error) {
	if start < 0 || end > h.NumRecords() || start > end {
		return nil, fmt.Errorf("%w: records [%d, %d) of %d", ErrIndexOutOfRange, start, end, h.NumRecords())
	}
	if workers < 1 {
		workers = 1
	}
	out := make([]Record, end-start)
	chunk := (len(out) + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)
	for lo := start; lo < end; lo += chunk {
		hi := min(lo+chunk, end)
		g.Go(func() error {
			dec, err := h.decoder(lo, hi)
			if err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				rec, err := dec.Decode()
				if err != nil {
					return fmt.Errorf("decode record %d: %w", i, err)
				}
				out[i-start] = rec
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Records streams every record in order. The file stays open.
func (h *TableHandler) Records() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		n := h.NumRecords()
		dec, err := h.decoder(0, n)
		if err != nil {
			yield(Record{}, err)
			return
		}
		for i := 0; i < n; i++ {
			rec, err := dec.Decode()
			if err != nil {
				yield(Record{}, fmt.Errorf("decode record %d: %w", i, err))
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}

// ReadSchemaFile reads only the header of fileName.
func ReadSchemaFile(fileName string, opts ...Option) (*Schema, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	schema, err := ReadSchema(bufio.NewReader(f), opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	return schema, nil
}

// OpenFile opens fileName as a record sequence. The file is closed by the
// returned Table.
func OpenFile(fileName string, opts ...Option) (*Table, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	return Open(bufferedFile{bufio.NewReader(f), f}, opts...)
}

type bufferedFile struct {
	*bufio.Reader
	io.Closer
}
