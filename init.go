package goadt

import (
	"fmt"
	"io"
)

// ReadSchema parses the table header and field descriptors from r, which
// must be positioned at the start of the file. On success r is positioned
// at the first record.
func ReadSchema(r io.Reader, opts ...Option) (*Schema, error) {
	o := buildOptions(opts)
	text, err := newTextCodec(o.encoding)
	if err != nil {
		return nil, err
	}
	return readSchema(newSource(r), text, o)
}

func readSchema(src *source, text *textCodec, o options) (*Schema, error) {
	header, err := initHeader(src)
	if err != nil {
		return nil, err
	}
	fields, err := initFields(src, text, int(header.FieldCount))
	if err != nil {
		return nil, err
	}
	schema := newSchema(header.RecordCount, fields)
	if err := checkOffsets(schema, o); err != nil {
		return nil, err
	}
	o.logger.Debug("adt schema parsed",
		"records", schema.NumRecords(),
		"fields", schema.NumFields(),
		"record_size", schema.RecordSize(),
	)
	return schema, nil
}

func initHeader(src *source) (TableHeader, error) {
	var header TableHeader
	if err := src.readStruct(&header); err != nil {
		return header, fmt.Errorf("read table header: %w", err)
	}
	return header, nil
}

func initFields(src *source, text *textCodec, fieldNum int) ([]FieldDescriptor, error) {
	fields := make([]FieldDescriptor, fieldNum)
	for i := 0; i < fieldNum; i++ {
		var block FieldBlock
		if err := src.readStruct(&block); err != nil {
			return nil, fmt.Errorf("read descriptor of field %d: %w", i, err)
		}
		name := clean(text.narrow(block.Name[:]))
		fieldType, err := ParseFieldType(block.Type)
		if err != nil {
			return nil, &FieldError{Index: i, Name: name, Type: FieldType(block.Type), Err: err}
		}
		fields[i] = FieldDescriptor{
			Name:        name,
			Type:        fieldType,
			Length:      int(block.Length),
			StartOffset: int(block.StartOffset),
		}
	}
	return fields, nil
}

// checkOffsets compares each descriptor's start offset with the position
// the decoder will actually read the field from.
func checkOffsets(s *Schema, o options) error {
	var (
		mismatches int
		first      *FieldError
	)
	offset := recordPrologueSize
	for i, f := range s.fields {
		if f.StartOffset != offset {
			mismatches++
			if first == nil {
				first = &FieldError{
					Index: i,
					Name:  f.Name,
					Type:  f.Type,
					Err:   fmt.Errorf("%w: descriptor says %d, computed %d", ErrOffsetMismatch, f.StartOffset, offset),
				}
			}
		}
		offset += f.Width()
	}
	if first == nil {
		return nil
	}
	if o.strictOffsets {
		return first
	}
	o.logger.Warn("adt field offsets disagree with computed layout",
		"mismatches", mismatches,
		"first", first.Error(),
	)
	return nil
}
