package capi

import (
	"fmt"
	"syscall"
)

// Status is a netCDF-C return code. Zero is success, negative values are the
// NC_E* codes from netcdf.h, and positive values are system errnos, exactly
// as the C library reports them.
type Status int32

const (
	NC_NOERR Status = 0

	NC_EBADID       Status = -33
	NC_ENFILE       Status = -34
	NC_EEXIST       Status = -35
	NC_EINVAL       Status = -36
	NC_EPERM        Status = -37
	NC_ENOTINDEFINE Status = -38
	NC_EINDEFINE    Status = -39
	NC_EINVALCOORDS Status = -40
	NC_EMAXDIMS     Status = -41
	NC_ENAMEINUSE   Status = -42
	NC_ENOTATT      Status = -43
	NC_EMAXATTS     Status = -44
	NC_EBADTYPE     Status = -45
	NC_EBADDIM      Status = -46
	NC_EUNLIMPOS    Status = -47
	NC_EMAXVARS     Status = -48
	NC_ENOTVAR      Status = -49
	NC_EGLOBAL      Status = -50
	NC_ENOTNC       Status = -51
	NC_ESTS         Status = -52
	NC_EMAXNAME     Status = -53
	NC_EUNLIMIT     Status = -54
	NC_ENORECVARS   Status = -55
	NC_ECHAR        Status = -56
	NC_EEDGE        Status = -57
	NC_ESTRIDE      Status = -58
	NC_EBADNAME     Status = -59
	NC_ERANGE       Status = -60
	NC_ENOMEM       Status = -61
	NC_EVARSIZE     Status = -62
	NC_EDIMSIZE     Status = -63
	NC_ETRUNC       Status = -64

	NC_EHDFERR     Status = -101
	NC_ECANTREAD   Status = -102
	NC_ECANTWRITE  Status = -103
	NC_ECANTCREATE Status = -104
	NC_ENOTNC4     Status = -111
	NC_ESTRICTNC3  Status = -112
	NC_EBADGRPID   Status = -116
	NC_EBADTYPID   Status = -117
	NC_ELATEFILL   Status = -122
	NC_ENOGRP      Status = -125
	NC_ENOTBUILT   Status = -128
	NC_EDISKLESS   Status = -129
)

var statusText = map[Status]string{
	NC_NOERR:        "No error",
	NC_EBADID:       "NetCDF: Not a valid ID",
	NC_ENFILE:       "NetCDF: Too many files open",
	NC_EEXIST:       "NetCDF: File exists && NC_NOCLOBBER",
	NC_EINVAL:       "NetCDF: Invalid argument",
	NC_EPERM:        "NetCDF: Write to read only",
	NC_ENOTINDEFINE: "NetCDF: Operation not allowed in data mode",
	NC_EINDEFINE:    "NetCDF: Operation not allowed in define mode",
	NC_EINVALCOORDS: "NetCDF: Index exceeds dimension bound",
	NC_EMAXDIMS:     "NetCDF: NC_MAX_DIMS exceeded",
	NC_ENAMEINUSE:   "NetCDF: String match to name in use",
	NC_ENOTATT:      "NetCDF: Attribute not found",
	NC_EMAXATTS:     "NetCDF: NC_MAX_ATTRS exceeded",
	NC_EBADTYPE:     "NetCDF: Not a valid data type or _FillValue type mismatch",
	NC_EBADDIM:      "NetCDF: Invalid dimension ID or name",
	NC_EUNLIMPOS:    "NetCDF: NC_UNLIMITED in the wrong index",
	NC_EMAXVARS:     "NetCDF: NC_MAX_VARS exceeded",
	NC_ENOTVAR:      "NetCDF: Variable not found",
	NC_EGLOBAL:      "NetCDF: Action prohibited on NC_GLOBAL varid",
	NC_ENOTNC:       "NetCDF: Unknown file format",
	NC_ESTS:         "NetCDF: In Fortran, string too short",
	NC_EMAXNAME:     "NetCDF: NC_MAX_NAME exceeded",
	NC_EUNLIMIT:     "NetCDF: NC_UNLIMITED size already in use",
	NC_ENORECVARS:   "NetCDF: nc_rec op when there are no record vars",
	NC_ECHAR:        "NetCDF: Attempt to convert between text & numbers",
	NC_EEDGE:        "NetCDF: Start+count exceeds dimension bound",
	NC_ESTRIDE:      "NetCDF: Illegal stride",
	NC_EBADNAME:     "NetCDF: Name contains illegal characters",
	NC_ERANGE:       "NetCDF: Numeric conversion not representable",
	NC_ENOMEM:       "NetCDF: Memory allocation (malloc) failure",
	NC_EVARSIZE:     "NetCDF: One or more variable sizes violate format constraints",
	NC_EDIMSIZE:     "NetCDF: Invalid dimension size",
	NC_ETRUNC:       "NetCDF: File likely truncated or possibly corrupted",
	NC_EHDFERR:      "NetCDF: HDF error",
	NC_ECANTREAD:    "NetCDF: Can't read file",
	NC_ECANTWRITE:   "NetCDF: Can't write file",
	NC_ECANTCREATE:  "NetCDF: Can't create file",
	NC_ENOTNC4:      "NetCDF: Attempting netcdf-4 operation on netcdf-3 file",
	NC_ESTRICTNC3:   "NetCDF: Attempting netcdf-4 operation on strict nc3 netcdf-4 file",
	NC_EBADGRPID:    "NetCDF: Bad group ID",
	NC_EBADTYPID:    "NetCDF: Bad type ID",
	NC_ELATEFILL:    "NetCDF: Attempt to define fill value when data already exists",
	NC_ENOGRP:       "NetCDF: No group found",
	NC_ENOTBUILT:    "NetCDF: Attempt to use feature that was not turned on when netCDF was built",
	NC_EDISKLESS:    "NetCDF: Error in using diskless access",
}

// Strerror renders a status the way nc_strerror does. Positive codes are
// system errnos and take their text from the platform.
func Strerror(st Status) string {
	if st > 0 {
		return syscall.Errno(st).Error()
	}
	if s, ok := statusText[st]; ok {
		return s
	}
	return fmt.Sprintf("Unknown Error (%d)", int32(st))
}

// OK reports whether the status is NC_NOERR.
func (st Status) OK() bool {
	return st == NC_NOERR
}

func (st Status) String() string {
	return Strerror(st)
}
