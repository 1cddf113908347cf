package goadt

import "fmt"

// FieldType is the on-disk type code of a field.
type FieldType uint16

const (
	FieldLogical    FieldType = 1
	FieldNumeric    FieldType = 2
	FieldDate       FieldType = 3
	FieldString     FieldType = 4
	FieldMemo       FieldType = 5
	FieldBinary     FieldType = 6
	FieldImage      FieldType = 7
	FieldDouble     FieldType = 10
	FieldInteger    FieldType = 11
	FieldShortInt   FieldType = 12
	FieldTime       FieldType = 13
	FieldTimestamp  FieldType = 14
	FieldAutoInc    FieldType = 15
	FieldRaw        FieldType = 16
	FieldCurrency   FieldType = 17
	FieldMoney      FieldType = 18
	FieldCIString   FieldType = 20 // case insensitive fixed string
	FieldRowVersion FieldType = 21
	FieldModTime    FieldType = 22
	FieldVarChar    FieldType = 23 // payload followed by a 16-bit length
	FieldVarBinary  FieldType = 24
	FieldNChar      FieldType = 26 // UTF-16LE, length counted in code units
	FieldNVarChar   FieldType = 27
	FieldNMemo      FieldType = 28
)

var fieldTypeNames = map[FieldType]string{
	FieldLogical:    "LOGICAL",
	FieldNumeric:    "NUMERIC",
	FieldDate:       "DATE",
	FieldString:     "STRING",
	FieldMemo:       "MEMO",
	FieldBinary:     "BINARY",
	FieldImage:      "IMAGE",
	FieldDouble:     "DOUBLE",
	FieldInteger:    "INTEGER",
	FieldShortInt:   "SHORTINT",
	FieldTime:       "TIME",
	FieldTimestamp:  "TIMESTAMP",
	FieldAutoInc:    "AUTOINC",
	FieldRaw:        "RAW",
	FieldCurrency:   "CURRENCY",
	FieldMoney:      "MONEY",
	FieldCIString:   "CISTRING",
	FieldRowVersion: "ROWVERSION",
	FieldModTime:    "MODTIME",
	FieldVarChar:    "VARCHAR",
	FieldVarBinary:  "VARBINARY",
	FieldNChar:      "NCHAR",
	FieldNVarChar:   "NVARCHAR",
	FieldNMemo:      "NMEMO",
}

// FieldTypes returns every known field type in code order.
func FieldTypes() []FieldType {
	out := make([]FieldType, 0, len(fieldTypeNames))
	for code := FieldType(1); code <= FieldNMemo; code++ {
		if _, ok := fieldTypeNames[code]; ok {
			out = append(out, code)
		}
	}
	return out
}

// ParseFieldType maps an on-disk code to a FieldType.
func ParseFieldType(code uint16) (FieldType, error) {
	t := FieldType(code)
	if _, ok := fieldTypeNames[t]; !ok {
		return 0, fmt.Errorf("%w: code %d", ErrUnknownFieldType, code)
	}
	return t, nil
}

func (t FieldType) String() string {
	if name, ok := fieldTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("FieldType(%d)", uint16(t))
}

// External reports whether values of this type live in a companion memo
// file rather than in the record itself.
func (t FieldType) External() bool {
	return t == FieldMemo || t == FieldNMemo
}
