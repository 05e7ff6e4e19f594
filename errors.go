package netcdf

import (
	"errors"
	"fmt"

	"github.com/batchatco/go-thrower"

	"github.com/netcdf-go/netcdf/capi"
)

var (
	// ErrStaleHandle means the file behind a handle has been closed.
	ErrStaleHandle = errors.New("handle is closed")
	// ErrModeViolation means the operation is not allowed in the file's
	// current mode: defining after EndDef, transferring data before it,
	// or writing to a read-only file.
	ErrModeViolation = errors.New("operation not allowed in this mode")
	// ErrNameExists means a definition collides with an existing name.
	ErrNameExists = errors.New("name already in use")
	// ErrNameNotFound means a lookup found no object with that name.
	ErrNameNotFound = errors.New("name not found")
	// ErrOutOfBounds means a selection leaves the variable's extents or
	// does not match the buffer it travels with.
	ErrOutOfBounds = errors.New("selection out of bounds")
	// ErrTypeMismatch means a conversion would lose information.
	ErrTypeMismatch = errors.New("type mismatch")
)

// NativeError carries the raw library status. Classified errors wrap one of
// these alongside their sentinel, so errors.As always recovers the code.
type NativeError struct {
	Code capi.Status
}

func (e *NativeError) Error() string {
	return capi.Strerror(e.Code)
}

// statusError maps a native status onto the error taxonomy.
func statusError(st capi.Status) error {
	if st.OK() {
		return nil
	}
	native := &NativeError{Code: st}
	sentinel := sentinelFor(st)
	if sentinel == nil {
		return native
	}
	return fmt.Errorf("%w: %w", sentinel, native)
}

func sentinelFor(st capi.Status) error {
	switch st {
	case capi.NC_EBADID, capi.NC_EBADGRPID:
		return ErrStaleHandle
	case capi.NC_EPERM, capi.NC_EINDEFINE, capi.NC_ENOTINDEFINE, capi.NC_ELATEFILL:
		return ErrModeViolation
	case capi.NC_ENAMEINUSE, capi.NC_EEXIST:
		return ErrNameExists
	case capi.NC_EBADDIM, capi.NC_ENOTVAR, capi.NC_ENOTATT, capi.NC_ENOGRP:
		return ErrNameNotFound
	case capi.NC_EINVALCOORDS, capi.NC_EEDGE, capi.NC_ESTRIDE:
		return ErrOutOfBounds
	case capi.NC_ERANGE, capi.NC_EBADTYPE, capi.NC_ECHAR:
		return ErrTypeMismatch
	}
	return nil
}

// check throws the mapped error for a failing status. Public entry points
// recover it into their error return.
func check(st capi.Status) {
	if st != capi.NC_NOERR {
		thrower.Throw(statusError(st))
	}
}
