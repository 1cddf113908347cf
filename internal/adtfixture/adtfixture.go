// Package adtfixture builds synthetic .adt table images for tests.
package adtfixture

import (
	"bytes"
	"unicode/utf16"

	"github.com/Ulysses-Xu/go-adt/internal/bx"
)

// Type codes, mirrored here so fixtures do not depend on the decoder.
const (
	Logical    uint16 = 1
	Numeric    uint16 = 2
	Date       uint16 = 3
	String     uint16 = 4
	Memo       uint16 = 5
	Binary     uint16 = 6
	Image      uint16 = 7
	Double     uint16 = 10
	Integer    uint16 = 11
	ShortInt   uint16 = 12
	Time       uint16 = 13
	Timestamp  uint16 = 14
	AutoInc    uint16 = 15
	Raw        uint16 = 16
	Currency   uint16 = 17
	Money      uint16 = 18
	CIString   uint16 = 20
	RowVersion uint16 = 21
	ModTime    uint16 = 22
	VarChar    uint16 = 23
	VarBinary  uint16 = 24
	NChar      uint16 = 26
	NVarChar   uint16 = 27
	NMemo      uint16 = 28
)

const (
	HeaderSize     = 0x190
	FieldBlockSize = 0xC8
	PrologueSize   = 5
)

// Field is a descriptor to write. Width is the number of bytes the field
// takes in a record when it differs from Length (wide strings). The
// descriptor start offset is computed from the preceding widths, plus
// OffsetSkew.
type Field struct {
	Name       string
	Type       uint16
	Length     uint16
	Width      int
	OffsetSkew int
}

func (f Field) width() int {
	if f.Width > 0 {
		return f.Width
	}
	return int(f.Length)
}

// Header encodes the table header and field descriptors.
func Header(recordCount uint32, fields []Field) []byte {
	buf := bytes.Repeat([]byte{0xEE}, 0x18)
	buf = bx.AppendU32(buf, recordCount)
	buf = append(buf, make([]byte, 0x14A)...)
	buf = bx.AppendU16(buf, uint16(len(fields)))
	buf = append(buf, make([]byte, 0x28)...)

	offset := PrologueSize
	for _, f := range fields {
		name := make([]byte, 0x80)
		copy(name, f.Name)
		buf = append(buf, name...)
		buf = append(buf, 0)
		buf = bx.AppendU16(buf, f.Type)
		buf = bx.AppendU16(buf, uint16(offset+f.OffsetSkew))
		buf = bx.AppendU16(buf, 0)
		buf = bx.AppendU16(buf, f.Length)
		buf = append(buf, make([]byte, 0x3F)...)
		offset += f.width()
	}
	return buf
}

// Record joins encoded field values behind the 5-byte record prologue.
func Record(values ...[]byte) []byte {
	buf := []byte{' ', 0, 0, 0, 0}
	for _, v := range values {
		buf = append(buf, v...)
	}
	return buf
}

// Table is a header followed by records.
func Table(recordCount uint32, fields []Field, records ...[]byte) []byte {
	buf := Header(recordCount, fields)
	for _, r := range records {
		buf = append(buf, r...)
	}
	return buf
}

func Bool(v bool) []byte {
	if v {
		return []byte{'T'}
	}
	return []byte{'F'}
}

func Int16(v int16) []byte {
	b := make([]byte, 2)
	bx.PutI16(b, v)
	return b
}

func Int32(v int32) []byte {
	b := make([]byte, 4)
	bx.PutI32(b, v)
	return b
}

func Int64(v int64) []byte {
	b := make([]byte, 8)
	bx.PutI64(b, v)
	return b
}

func Float64(v float64) []byte {
	b := make([]byte, 8)
	bx.PutF64(b, v)
	return b
}

func Bits(v uint64) []byte {
	return bx.AppendU64(nil, v)
}

// TimestampValue is a Julian day number followed by milliseconds since
// midnight.
func TimestampValue(jdn, millis int32) []byte {
	return append(Int32(jdn), Int32(millis)...)
}

// Text pads s with NUL bytes to n bytes.
func Text(s string, n int) []byte {
	b := make([]byte, n)
	copy(b, s)
	return b
}

// VarText writes s into an n-2 byte payload padded with pad, followed by
// the 16-bit length.
func VarText(s string, n int, pad byte) []byte {
	b := bytes.Repeat([]byte{pad}, n-2)
	copy(b, s)
	return bx.AppendU16(b, uint16(len(s)))
}

// Wide encodes s as UTF-16LE, cut or padded with NUL to n code units.
func Wide(s string, n int) []byte {
	b := make([]byte, 2*n)
	for i, u := range utf16.Encode([]rune(s)) {
		if i == n {
			break
		}
		bx.PutU16(b[2*i:], u)
	}
	return b
}

// VarWide is Wide followed by the length of s in code units.
func VarWide(s string, n int) []byte {
	return bx.AppendU16(Wide(s, n), uint16(len(utf16.Encode([]rune(s)))))
}
