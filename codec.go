package goadt

import (
	"fmt"
	"math"
	"time"

	"github.com/Ulysses-Xu/go-adt/internal/bx"
)

// codec is the decode rule of one field type. width maps the declared
// length to the number of bytes consumed in a record; decode receives
// exactly that many bytes.
type codec struct {
	fixed     int // intrinsic width, 0 when the declared length decides
	minLength int
	width     func(length int) int
	decode    func(c *textCodec, b []byte) (any, error)
}

// external types have no width and no decode function
var codecs = map[FieldType]codec{
	FieldLogical:    fixed(1, decodeLogical),
	FieldNumeric:    fixed(2, decodeInt16),
	FieldShortInt:   fixed(2, decodeInt16),
	FieldInteger:    fixed(4, decodeInt32),
	FieldAutoInc:    fixed(4, decodeInt32),
	FieldRowVersion: fixed(4, decodeInt32),
	FieldDate:       fixed(4, decodeDate),
	FieldTime:       fixed(4, decodeTime),
	FieldTimestamp:  fixed(8, decodeTimestamp),
	FieldModTime:    fixed(8, decodeTimestamp),
	FieldDouble:     fixed(8, decodeDouble),
	FieldCurrency:   fixed(8, decodeDouble),
	FieldMoney:      fixed(8, decodeInt64),
	FieldString:     sized(decodeString),
	FieldCIString:   sized(decodeString),
	FieldBinary:     sized(decodeBytes),
	FieldImage:      sized(decodeBytes),
	FieldRaw:        sized(decodeBytes),
	FieldVarBinary:  sized(decodeBytes),
	FieldVarChar: {
		minLength: 2,
		width:     func(n int) int { return n },
		decode:    decodeVarChar,
	},
	FieldNChar: {
		width:  func(n int) int { return 2 * n },
		decode: decodeNChar,
	},
	FieldNVarChar: {
		width:  func(n int) int { return 2*n + 2 },
		decode: decodeNVarChar,
	},
	FieldMemo:  {},
	FieldNMemo: {},
}

func fixed(n int, decode func(*textCodec, []byte) (any, error)) codec {
	return codec{fixed: n, width: func(int) int { return n }, decode: decode}
}

func sized(decode func(*textCodec, []byte) (any, error)) codec {
	return codec{width: func(n int) int { return n }, decode: decode}
}

// codecFor validates f against its type's rule and returns the codec and
// the number of bytes to consume.
func codecFor(f FieldDescriptor) (codec, int, error) {
	c, ok := codecs[f.Type]
	if !ok {
		return codec{}, 0, ErrUnhandledFieldType
	}
	if c.decode == nil {
		return codec{}, 0, fmt.Errorf("%w: %s is stored in a memo file", ErrUnsupportedFieldType, f.Type)
	}
	if c.fixed > 0 && f.Length != c.fixed {
		return codec{}, 0, fmt.Errorf("%w: declared %d bytes, %s is %d bytes", ErrLengthMismatch, f.Length, f.Type, c.fixed)
	}
	if f.Length < c.minLength {
		return codec{}, 0, fmt.Errorf("%w: declared %d bytes, %s needs at least %d", ErrLengthMismatch, f.Length, f.Type, c.minLength)
	}
	return c, c.width(f.Length), nil
}

func decodeLogical(_ *textCodec, b []byte) (any, error) {
	switch b[0] {
	case 'T':
		return true, nil
	case 'F':
		return false, nil
	}
	return nil, nil
}

func decodeInt16(_ *textCodec, b []byte) (any, error) {
	return bx.I16(b), nil
}

// int32Value applies the 32-bit sentinel rule: MinInt32 and MaxInt32 mean
// "no value".
func int32Value(b []byte) (int32, bool) {
	v := bx.I32(b)
	if v == math.MinInt32 || v == math.MaxInt32 {
		return 0, false
	}
	return v, true
}

func decodeInt32(_ *textCodec, b []byte) (any, error) {
	if v, ok := int32Value(b); ok {
		return v, nil
	}
	return nil, nil
}

func decodeInt64(_ *textCodec, b []byte) (any, error) {
	return bx.I64(b), nil
}

func dateValue(b []byte) (time.Time, bool) {
	jdn, ok := int32Value(b)
	if !ok || jdn == 0 {
		return time.Time{}, false
	}
	return DateFromJulianDay(jdn), true
}

func decodeDate(_ *textCodec, b []byte) (any, error) {
	if d, ok := dateValue(b); ok {
		return d, nil
	}
	return nil, nil
}

func timeValue(b []byte) (TimeOfDay, bool, error) {
	ms, ok := int32Value(b)
	if !ok {
		return 0, false, nil
	}
	if ms < 0 {
		return 0, true, nil
	}
	d := time.Duration(ms) * time.Millisecond
	if d >= day {
		return 0, false, fmt.Errorf("%w: %d ms is past midnight", ErrMalformedValue, ms)
	}
	return TimeOfDay(d), true, nil
}

func decodeTime(_ *textCodec, b []byte) (any, error) {
	t, ok, err := timeValue(b)
	if err != nil || !ok {
		return nil, err
	}
	return t, nil
}

// decodeTimestamp reads a date followed by a time; the value is present
// only when both halves are.
func decodeTimestamp(_ *textCodec, b []byte) (any, error) {
	d, dateOK := dateValue(b[:4])
	t, timeOK, err := timeValue(b[4:8])
	if err != nil {
		return nil, err
	}
	if !dateOK || !timeOK {
		return nil, nil
	}
	return t.On(d), nil
}

// float64 bit patterns meaning "no value"
var doubleSentinels = [...]uint64{
	0x8000000000000020, // -1.58e-322
	math.Float64bits(math.SmallestNonzeroFloat64),
	math.Float64bits(math.MaxFloat64),
}

func decodeDouble(_ *textCodec, b []byte) (any, error) {
	bits := bx.U64(b)
	for _, s := range doubleSentinels {
		if bits == s {
			return nil, nil
		}
	}
	return bx.F64(b), nil
}

func decodeString(c *textCodec, b []byte) (any, error) {
	return clean(c.narrow(b)), nil
}

// decodeVarChar reads the payload followed by its 16-bit length suffix.
func decodeVarChar(c *textCodec, b []byte) (any, error) {
	payload := b[:len(b)-2]
	n := int(bx.U16(b[len(b)-2:]))
	if n > len(payload) {
		return nil, fmt.Errorf("%w: length %d exceeds %d byte payload", ErrMalformedValue, n, len(payload))
	}
	return trim(c.narrow(payload[:n])), nil
}

func decodeNChar(c *textCodec, b []byte) (any, error) {
	s, err := c.utf16(b)
	if err != nil {
		return nil, err
	}
	return clean(s), nil
}

// decodeNVarChar is decodeVarChar for UTF-16LE; the suffix counts code
// units.
func decodeNVarChar(c *textCodec, b []byte) (any, error) {
	payload := b[:len(b)-2]
	n := int(bx.U16(b[len(b)-2:]))
	if 2*n > len(payload) {
		return nil, fmt.Errorf("%w: length %d exceeds %d code units", ErrMalformedValue, n, len(payload)/2)
	}
	s, err := c.utf16(payload[:2*n])
	if err != nil {
		return nil, err
	}
	return trim(s), nil
}

func decodeBytes(_ *textCodec, b []byte) (any, error) {
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}
