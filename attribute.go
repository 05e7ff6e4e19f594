package netcdf

import (
	"fmt"
	"iter"
	"math"

	"github.com/batchatco/go-thrower"

	"github.com/netcdf-go/netcdf/capi"
)

// Attribute is a handle to one attribute of a variable or group. The name
// is fixed at lookup; the value is read lazily.
type Attribute struct {
	ds    *dataset
	ncid  capi.NcID
	varid capi.VarID
	name  string
}

func (a *Attribute) Name() string {
	return a.name
}

func (a *Attribute) Type() (t Type, err error) {
	err = a.ds.exec(func(lib capi.Dispatch) capi.Status {
		_, tc, st := lib.GetAtt(a.ncid, a.varid, a.name)
		t = Type(tc)
		return st
	})
	return t, err
}

// Value reads the attribute. Text comes back as string, other types as a
// slice of the storage type, except that a single element collapses to a
// scalar.
func (a *Attribute) Value() (value any, err error) {
	err = a.ds.exec(func(lib capi.Dispatch) capi.Status {
		v, _, st := lib.GetAtt(a.ncid, a.varid, a.name)
		value = v
		return st
	})
	if err != nil {
		return nil, err
	}
	return collapse(value), nil
}

func attrByName(ds *dataset, ncid capi.NcID, varid capi.VarID, name string) (*Attribute, error) {
	// Probe so a missing name fails here, not at first Value call.
	err := ds.exec(func(lib capi.Dispatch) capi.Status {
		_, _, st := lib.GetAtt(ncid, varid, name)
		return st
	})
	if err != nil {
		return nil, err
	}
	return &Attribute{ds: ds, ncid: ncid, varid: varid, name: name}, nil
}

func attrSeq(ds *dataset, ncid capi.NcID, varid capi.VarID) iter.Seq2[*Attribute, error] {
	return func(yield func(*Attribute, error) bool) {
		names, err := attrNames(ds, ncid, varid)
		if err != nil {
			yield(nil, err)
			return
		}
		for _, name := range names {
			a := &Attribute{ds: ds, ncid: ncid, varid: varid, name: name}
			if !yield(a, nil) {
				return
			}
		}
	}
}

func attrNames(ds *dataset, ncid capi.NcID, varid capi.VarID) (names []string, err error) {
	defer thrower.RecoverError(&err)
	err = ds.exec(func(lib capi.Dispatch) capi.Status {
		n, st := lib.InqNAtts(ncid, varid)
		check(st)
		names = make([]string, n)
		for i := range names {
			name, st := lib.InqAttName(ncid, varid, i)
			check(st)
			names[i] = name
		}
		return capi.NC_NOERR
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

func putAttr(ds *dataset, ncid capi.NcID, varid capi.VarID, name string, value any) error {
	t, val, err := inferAttr(value)
	if err != nil {
		return err
	}
	return ds.exec(func(lib capi.Dispatch) capi.Status {
		return lib.PutAtt(ncid, varid, name, t, val)
	})
}

// inferAttr maps a Go value onto an external type and the wire shape the
// engine expects: string for text, a slice for everything else. Scalars
// wrap into one-element slices; plain int travels as NC_INT when it fits.
func inferAttr(value any) (capi.TypeCode, any, error) {
	switch x := value.(type) {
	case string:
		return capi.NC_CHAR, x, nil
	case int8:
		return capi.NC_BYTE, []int8{x}, nil
	case []int8:
		return capi.NC_BYTE, x, nil
	case uint8:
		return capi.NC_UBYTE, []uint8{x}, nil
	case []uint8:
		return capi.NC_UBYTE, x, nil
	case int16:
		return capi.NC_SHORT, []int16{x}, nil
	case []int16:
		return capi.NC_SHORT, x, nil
	case uint16:
		return capi.NC_USHORT, []uint16{x}, nil
	case []uint16:
		return capi.NC_USHORT, x, nil
	case int32:
		return capi.NC_INT, []int32{x}, nil
	case []int32:
		return capi.NC_INT, x, nil
	case uint32:
		return capi.NC_UINT, []uint32{x}, nil
	case []uint32:
		return capi.NC_UINT, x, nil
	case int64:
		return capi.NC_INT64, []int64{x}, nil
	case []int64:
		return capi.NC_INT64, x, nil
	case uint64:
		return capi.NC_UINT64, []uint64{x}, nil
	case []uint64:
		return capi.NC_UINT64, x, nil
	case float32:
		return capi.NC_FLOAT, []float32{x}, nil
	case []float32:
		return capi.NC_FLOAT, x, nil
	case float64:
		return capi.NC_DOUBLE, []float64{x}, nil
	case []float64:
		return capi.NC_DOUBLE, x, nil
	case []string:
		return capi.NC_STRING, x, nil
	case int:
		if x > math.MaxInt32 || x < math.MinInt32 {
			return capi.NC_NAT, nil, fmt.Errorf("%w: int value %d does not fit int32", ErrTypeMismatch, x)
		}
		return capi.NC_INT, []int32{int32(x)}, nil
	}
	return capi.NC_NAT, nil, fmt.Errorf("%w: unsupported attribute value type %T", ErrTypeMismatch, value)
}

// collapse unwraps one-element slices so scalar attributes read back as
// scalars.
func collapse(v any) any {
	switch s := v.(type) {
	case []int8:
		if len(s) == 1 {
			return s[0]
		}
	case []uint8:
		if len(s) == 1 {
			return s[0]
		}
	case []int16:
		if len(s) == 1 {
			return s[0]
		}
	case []uint16:
		if len(s) == 1 {
			return s[0]
		}
	case []int32:
		if len(s) == 1 {
			return s[0]
		}
	case []uint32:
		if len(s) == 1 {
			return s[0]
		}
	case []int64:
		if len(s) == 1 {
			return s[0]
		}
	case []uint64:
		if len(s) == 1 {
			return s[0]
		}
	case []float32:
		if len(s) == 1 {
			return s[0]
		}
	case []float64:
		if len(s) == 1 {
			return s[0]
		}
	case []string:
		if len(s) == 1 {
			return s[0]
		}
	}
	return v
}
