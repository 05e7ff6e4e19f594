// Package capi defines the narrow call surface of a netCDF-C compatible
// library: integer handles, the C constants (type codes, status codes, open
// flags) with their real netcdf.h values, and the Dispatch interface every
// engine implements.
//
// Nothing in this package is safe for concurrent use. The netcdf package
// serializes all Dispatch calls behind one process-wide lock; anyone calling
// a Dispatch directly takes on that obligation.
package capi

// NcID identifies an open dataset or a group within one. The root group of a
// dataset shares the dataset's id, as in netCDF-C.
type NcID int32

// VarID identifies a variable within a group. Variable ids count from zero
// per group.
type VarID int32

// DimID identifies a dimension. Dimension ids are unique within a dataset
// and visible from child groups.
type DimID int32

// Global is the pseudo variable id addressing a group's own attributes
// (NC_GLOBAL).
const Global VarID = -1

// Unlimited is the dimension length that declares an unlimited dimension
// (NC_UNLIMITED).
const Unlimited uint64 = 0

// MaxName is the longest permitted name, in bytes (NC_MAX_NAME).
const MaxName = 256

// TypeCode is a netCDF external type (nc_type). The values are the ones
// netcdf.h assigns.
type TypeCode int32

const (
	NC_NAT    TypeCode = 0 // not a type; never stored
	NC_BYTE   TypeCode = 1
	NC_CHAR   TypeCode = 2
	NC_SHORT  TypeCode = 3
	NC_INT    TypeCode = 4
	NC_FLOAT  TypeCode = 5
	NC_DOUBLE TypeCode = 6
	NC_UBYTE  TypeCode = 7
	NC_USHORT TypeCode = 8
	NC_UINT   TypeCode = 9
	NC_INT64  TypeCode = 10
	NC_UINT64 TypeCode = 11
	NC_STRING TypeCode = 12
)

// Size returns the width of one element in bytes, or 0 for NC_STRING and
// unknown codes.
func (t TypeCode) Size() int {
	switch t {
	case NC_BYTE, NC_CHAR, NC_UBYTE:
		return 1
	case NC_SHORT, NC_USHORT:
		return 2
	case NC_INT, NC_UINT, NC_FLOAT:
		return 4
	case NC_DOUBLE, NC_INT64, NC_UINT64:
		return 8
	}
	return 0
}

// CDLName returns the type's name in CDL notation ("byte", "double", ...),
// or "" for unknown codes.
func (t TypeCode) CDLName() string {
	switch t {
	case NC_BYTE:
		return "byte"
	case NC_CHAR:
		return "char"
	case NC_SHORT:
		return "short"
	case NC_INT:
		return "int"
	case NC_FLOAT:
		return "float"
	case NC_DOUBLE:
		return "double"
	case NC_UBYTE:
		return "ubyte"
	case NC_USHORT:
		return "ushort"
	case NC_UINT:
		return "uint"
	case NC_INT64:
		return "int64"
	case NC_UINT64:
		return "uint64"
	case NC_STRING:
		return "string"
	}
	return ""
}

// GoName returns the Go element type a buffer of this type uses.
func (t TypeCode) GoName() string {
	switch t {
	case NC_BYTE:
		return "int8"
	case NC_CHAR:
		return "byte"
	case NC_SHORT:
		return "int16"
	case NC_INT:
		return "int32"
	case NC_FLOAT:
		return "float32"
	case NC_DOUBLE:
		return "float64"
	case NC_UBYTE:
		return "uint8"
	case NC_USHORT:
		return "uint16"
	case NC_UINT:
		return "uint32"
	case NC_INT64:
		return "int64"
	case NC_UINT64:
		return "uint64"
	case NC_STRING:
		return "string"
	}
	return ""
}

// OpenMode carries the flag bits handed to Open and Create. Values are the
// netcdf.h cmode/omode bits.
type OpenMode int32

const (
	NC_NOWRITE       OpenMode = 0x0000
	NC_WRITE         OpenMode = 0x0001
	NC_CLOBBER       OpenMode = 0x0000
	NC_NOCLOBBER     OpenMode = 0x0004
	NC_DISKLESS      OpenMode = 0x0008
	NC_64BIT_DATA    OpenMode = 0x0020
	NC_CLASSIC_MODEL OpenMode = 0x0100
	NC_64BIT_OFFSET  OpenMode = 0x0200
	NC_SHARE         OpenMode = 0x0800
	NC_NETCDF4       OpenMode = 0x1000
	NC_INMEMORY      OpenMode = 0x8000
)
