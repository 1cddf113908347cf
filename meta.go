package goadt

// TableHeader is the fixed part of an .adt file header, up to and
// including the field count. Only the record count and field count are
// understood; the rest is skipped as-is.
type TableHeader struct {
	Prelude     [0x18]byte
	RecordCount uint32
	Reserved    [0x14A]byte
	FieldCount  uint16
	Reserved2   [0x28]byte
}

// FieldBlock is the on-disk descriptor of a single field.
type FieldBlock struct {
	Name        [0x80]byte
	Reserved1   byte
	Type        uint16
	StartOffset uint16
	Reserved2   uint16
	Length      uint16
	Reserved3   [0x3F]byte
}

const (
	headerSize     = 0x18 + 4 + 0x14A + 2 + 0x28
	fieldBlockSize = 0x80 + 1 + 2 + 2 + 2 + 2 + 0x3F

	// every record starts with one status byte and a 32-bit value
	recordPrologueSize = 1 + 4
)
