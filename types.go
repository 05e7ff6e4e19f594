package netcdf

import "github.com/netcdf-go/netcdf/capi"

// Type identifies an external data type. The names follow CDL.
type Type capi.TypeCode

const (
	Byte   = Type(capi.NC_BYTE)   // int8
	Char   = Type(capi.NC_CHAR)   // text, stored bytewise
	Short  = Type(capi.NC_SHORT)  // int16
	Int    = Type(capi.NC_INT)    // int32
	Float  = Type(capi.NC_FLOAT)  // float32
	Double = Type(capi.NC_DOUBLE) // float64
	UByte  = Type(capi.NC_UBYTE)  // uint8
	UShort = Type(capi.NC_USHORT) // uint16
	UInt   = Type(capi.NC_UINT)   // uint32
	Int64  = Type(capi.NC_INT64)  // int64
	UInt64 = Type(capi.NC_UINT64) // uint64
	String = Type(capi.NC_STRING) // variable-length strings
)

// String returns the CDL name of the type.
func (t Type) String() string {
	return capi.TypeCode(t).CDLName()
}

// FileMode says how a file was opened. Files in ModeAppend and ModeCreate
// accept writes; ModeReadOnly files do not.
type FileMode int

const (
	ModeReadOnly FileMode = iota
	ModeAppend
	ModeCreate
)

func (m FileMode) String() string {
	switch m {
	case ModeAppend:
		return "append"
	case ModeCreate:
		return "create"
	}
	return "read-only"
}
