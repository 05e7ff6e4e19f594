package netcdf

import (
	"fmt"

	"github.com/batchatco/go-thrower"

	"github.com/netcdf-go/netcdf/capi"
)

// Element constrains the Go types bulk transfer understands. They pair with
// the external types one to one; Char data travels as uint8.
type Element interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 |
		int64 | uint64 | float32 | float64 | string
}

// number is Element without string, for the widening conversions.
type number interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 |
		int64 | uint64 | float32 | float64
}

// Slab selects part of one dimension. Start counts from zero. A Count of
// zero selects through the end of the dimension and a Stride of zero means
// one, so the zero Slab selects the whole dimension.
type Slab struct {
	Start  int64
	Count  int64
	Stride int64
}

// slabPlan is a selection resolved against the variable's current shape.
type slabPlan struct {
	t      capi.TypeCode
	start  []uint64
	count  []uint64
	stride []int64
	n      uint64
}

// plan resolves sel against the variable. Missing trailing slabs select
// whole dimensions. Runs under the guard; throws on any failure.
func (v *Variable) plan(lib capi.Dispatch, sel []Slab) slabPlan {
	_, t, dimids, _, st := lib.InqVar(v.ncid, v.id)
	check(st)
	if len(sel) > len(dimids) {
		thrower.Throw(fmt.Errorf("%w: selection names %d dimensions, variable has %d",
			ErrOutOfBounds, len(sel), len(dimids)))
	}
	p := slabPlan{
		t:      t,
		start:  make([]uint64, len(dimids)),
		count:  make([]uint64, len(dimids)),
		stride: make([]int64, len(dimids)),
		n:      1,
	}
	for i, id := range dimids {
		_, extent, st := lib.InqDim(v.ncid, id)
		check(st)
		var s Slab
		if i < len(sel) {
			s = sel[i]
		}
		if s.Start < 0 || s.Count < 0 || s.Stride < 0 {
			thrower.Throw(fmt.Errorf("%w: negative slab %+v", ErrOutOfBounds, s))
		}
		if s.Stride == 0 {
			s.Stride = 1
		}
		start := uint64(s.Start)
		count := uint64(s.Count)
		if s.Count == 0 {
			if start < extent {
				step := uint64(s.Stride)
				count = (extent - start + step - 1) / step
			} else {
				count = 0
			}
		}
		p.start[i] = start
		p.count[i] = count
		p.stride[i] = s.Stride
		p.n *= count
	}
	return p
}

// GetValues reads a hyperslab as a flat []T, row-major with the last
// dimension fastest. The variable's type must widen losslessly to T, or
// ErrTypeMismatch comes back before anything is read. With no selection the
// whole variable transfers.
func GetValues[T Element](v *Variable, sel ...Slab) ([]T, error) {
	data, _, err := getSlab[T](v, sel)
	return data, err
}

// GetArray reads like GetValues but keeps the selection's shape with the
// data.
func GetArray[T Element](v *Variable, sel ...Slab) (*Array[T], error) {
	data, shape, err := getSlab[T](v, sel)
	if err != nil {
		return nil, err
	}
	return newArray(shape, data), nil
}

func getSlab[T Element](v *Variable, sel []Slab) (data []T, shape []uint64, err error) {
	defer thrower.RecoverError(&err)
	want := codeOf[T]()
	var raw any
	err = v.ds.exec(func(lib capi.Dispatch) capi.Status {
		p := v.plan(lib, sel)
		if !widens(p.t, want) {
			thrower.Throw(conversionError(p.t, want))
		}
		r, st := lib.GetVars(v.ncid, v.id, p.start, p.count, p.stride)
		check(st)
		raw = r
		shape = p.count
		return capi.NC_NOERR
	})
	if err != nil {
		return nil, nil, err
	}
	out, ok := coerce[T](raw)
	if !ok {
		return nil, nil, conversionError(valueCode(raw), want)
	}
	return out, shape, nil
}

// PutValues writes a flat []T over a hyperslab. T must widen losslessly to
// the variable's type. The buffer length must equal the number of elements
// the selection names; writes that extend the record dimension must say
// their Count explicitly.
func PutValues[T Element](v *Variable, data []T, sel ...Slab) (err error) {
	defer thrower.RecoverError(&err)
	have := codeOf[T]()
	return v.ds.exec(func(lib capi.Dispatch) capi.Status {
		p := v.plan(lib, sel)
		if !widens(have, p.t) {
			thrower.Throw(conversionError(have, p.t))
		}
		if uint64(len(data)) != p.n {
			thrower.Throw(fmt.Errorf("%w: selection holds %d elements, buffer has %d",
				ErrOutOfBounds, p.n, len(data)))
		}
		buf, ok := coerceStorage(data, p.t)
		if !ok {
			thrower.Throw(conversionError(have, p.t))
		}
		return lib.PutVars(v.ncid, v.id, p.start, p.count, p.stride, buf)
	})
}

// Values reads a hyperslab without choosing a Go type: the result is a flat
// slice of the variable's own storage type.
func (v *Variable) Values(sel ...Slab) (data any, err error) {
	defer thrower.RecoverError(&err)
	err = v.ds.exec(func(lib capi.Dispatch) capi.Status {
		p := v.plan(lib, sel)
		r, st := lib.GetVars(v.ncid, v.id, p.start, p.count, p.stride)
		check(st)
		data = r
		return capi.NC_NOERR
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Put writes a flat slice over a hyperslab, deducing the element type from
// the slice. The same widening rule as PutValues applies.
func (v *Variable) Put(data any, sel ...Slab) (err error) {
	defer thrower.RecoverError(&err)
	have := valueCode(data)
	if have == capi.NC_NAT {
		return fmt.Errorf("%w: unsupported buffer type %T", ErrTypeMismatch, data)
	}
	return v.ds.exec(func(lib capi.Dispatch) capi.Status {
		p := v.plan(lib, sel)
		if !widens(have, p.t) {
			thrower.Throw(conversionError(have, p.t))
		}
		if valueLen(data) != p.n {
			thrower.Throw(fmt.Errorf("%w: selection holds %d elements, buffer has %d",
				ErrOutOfBounds, p.n, valueLen(data)))
		}
		buf, ok := coerceStorage(data, p.t)
		if !ok {
			thrower.Throw(conversionError(have, p.t))
		}
		return lib.PutVars(v.ncid, v.id, p.start, p.count, p.stride, buf)
	})
}

func conversionError(from, to capi.TypeCode) error {
	return fmt.Errorf("%w: cannot convert %s to %s losslessly",
		ErrTypeMismatch, from.CDLName(), to.CDLName())
}

// widens reports whether every value of type from is representable in type
// to. Char and ubyte share a representation, int64 and uint64 do not fit
// any float, and int32 does not fit float32.
func widens(from, to capi.TypeCode) bool {
	if from == to {
		return true
	}
	switch from {
	case capi.NC_BYTE:
		switch to {
		case capi.NC_SHORT, capi.NC_INT, capi.NC_INT64, capi.NC_FLOAT, capi.NC_DOUBLE:
			return true
		}
	case capi.NC_UBYTE, capi.NC_CHAR:
		switch to {
		case capi.NC_UBYTE, capi.NC_CHAR, capi.NC_SHORT, capi.NC_USHORT, capi.NC_INT,
			capi.NC_UINT, capi.NC_INT64, capi.NC_UINT64, capi.NC_FLOAT, capi.NC_DOUBLE:
			return true
		}
	case capi.NC_SHORT:
		switch to {
		case capi.NC_INT, capi.NC_INT64, capi.NC_FLOAT, capi.NC_DOUBLE:
			return true
		}
	case capi.NC_USHORT:
		switch to {
		case capi.NC_INT, capi.NC_UINT, capi.NC_INT64, capi.NC_UINT64, capi.NC_FLOAT, capi.NC_DOUBLE:
			return true
		}
	case capi.NC_INT:
		switch to {
		case capi.NC_INT64, capi.NC_DOUBLE:
			return true
		}
	case capi.NC_UINT:
		switch to {
		case capi.NC_INT64, capi.NC_UINT64, capi.NC_DOUBLE:
			return true
		}
	case capi.NC_FLOAT:
		return to == capi.NC_DOUBLE
	}
	return false
}

// codeOf maps an element type to its external type code.
func codeOf[T Element]() capi.TypeCode {
	var z T
	switch any(z).(type) {
	case int8:
		return capi.NC_BYTE
	case uint8:
		return capi.NC_UBYTE
	case int16:
		return capi.NC_SHORT
	case uint16:
		return capi.NC_USHORT
	case int32:
		return capi.NC_INT
	case uint32:
		return capi.NC_UINT
	case int64:
		return capi.NC_INT64
	case uint64:
		return capi.NC_UINT64
	case float32:
		return capi.NC_FLOAT
	case float64:
		return capi.NC_DOUBLE
	}
	return capi.NC_STRING
}

// valueCode maps a buffer's dynamic type to its external type code, NC_NAT
// if it is not a transfer type.
func valueCode(v any) capi.TypeCode {
	switch v.(type) {
	case []int8:
		return capi.NC_BYTE
	case []uint8:
		return capi.NC_UBYTE
	case []int16:
		return capi.NC_SHORT
	case []uint16:
		return capi.NC_USHORT
	case []int32:
		return capi.NC_INT
	case []uint32:
		return capi.NC_UINT
	case []int64:
		return capi.NC_INT64
	case []uint64:
		return capi.NC_UINT64
	case []float32:
		return capi.NC_FLOAT
	case []float64:
		return capi.NC_DOUBLE
	case []string:
		return capi.NC_STRING
	}
	return capi.NC_NAT
}

func valueLen(v any) uint64 {
	switch s := v.(type) {
	case []int8:
		return uint64(len(s))
	case []uint8:
		return uint64(len(s))
	case []int16:
		return uint64(len(s))
	case []uint16:
		return uint64(len(s))
	case []int32:
		return uint64(len(s))
	case []uint32:
		return uint64(len(s))
	case []int64:
		return uint64(len(s))
	case []uint64:
		return uint64(len(s))
	case []float32:
		return uint64(len(s))
	case []float64:
		return uint64(len(s))
	case []string:
		return uint64(len(s))
	}
	return 0
}

// coerce converts a storage buffer to []T, widening when the types differ.
// The widening matrix has already vetted the pair.
func coerce[T Element](raw any) ([]T, bool) {
	if s, ok := raw.([]T); ok {
		return s, true
	}
	var z T
	switch any(z).(type) {
	case int16:
		return castAny[T](toInt16s(raw))
	case uint16:
		return castAny[T](toUint16s(raw))
	case int32:
		return castAny[T](toInt32s(raw))
	case uint32:
		return castAny[T](toUint32s(raw))
	case int64:
		return castAny[T](toInt64s(raw))
	case uint64:
		return castAny[T](toUint64s(raw))
	case float32:
		return castAny[T](toFloat32s(raw))
	case float64:
		return castAny[T](toFloat64s(raw))
	}
	return nil, false
}

// castAny moves a known-concrete slice through any back into []T. The
// dynamic type always matches; the indirection exists because Go cannot
// name a type parameter in a conversion across switch arms.
func castAny[T Element](s any, ok bool) ([]T, bool) {
	if !ok {
		return nil, false
	}
	return s.([]T), true
}

// coerceStorage converts a user buffer to the variable's storage type for a
// write.
func coerceStorage(data any, t capi.TypeCode) (any, bool) {
	switch t {
	case capi.NC_BYTE:
		s, ok := data.([]int8)
		return s, ok
	case capi.NC_CHAR, capi.NC_UBYTE:
		s, ok := data.([]uint8)
		return s, ok
	case capi.NC_SHORT:
		return toInt16s(data)
	case capi.NC_USHORT:
		return toUint16s(data)
	case capi.NC_INT:
		return toInt32s(data)
	case capi.NC_UINT:
		return toUint32s(data)
	case capi.NC_INT64:
		return toInt64s(data)
	case capi.NC_UINT64:
		return toUint64s(data)
	case capi.NC_FLOAT:
		return toFloat32s(data)
	case capi.NC_DOUBLE:
		return toFloat64s(data)
	case capi.NC_STRING:
		s, ok := data.([]string)
		return s, ok
	}
	return nil, false
}

func widen[S, T number](src []S) []T {
	out := make([]T, len(src))
	for i, x := range src {
		out[i] = T(x)
	}
	return out
}

// The to* family enumerates the lossless sources for each target, identity
// included. They mirror the widens matrix exactly.

func toInt16s(v any) (any, bool) {
	switch s := v.(type) {
	case []int16:
		return s, true
	case []int8:
		return widen[int8, int16](s), true
	case []uint8:
		return widen[uint8, int16](s), true
	}
	return nil, false
}

func toUint16s(v any) (any, bool) {
	switch s := v.(type) {
	case []uint16:
		return s, true
	case []uint8:
		return widen[uint8, uint16](s), true
	}
	return nil, false
}

func toInt32s(v any) (any, bool) {
	switch s := v.(type) {
	case []int32:
		return s, true
	case []int8:
		return widen[int8, int32](s), true
	case []uint8:
		return widen[uint8, int32](s), true
	case []int16:
		return widen[int16, int32](s), true
	case []uint16:
		return widen[uint16, int32](s), true
	}
	return nil, false
}

func toUint32s(v any) (any, bool) {
	switch s := v.(type) {
	case []uint32:
		return s, true
	case []uint8:
		return widen[uint8, uint32](s), true
	case []uint16:
		return widen[uint16, uint32](s), true
	}
	return nil, false
}

func toInt64s(v any) (any, bool) {
	switch s := v.(type) {
	case []int64:
		return s, true
	case []int8:
		return widen[int8, int64](s), true
	case []uint8:
		return widen[uint8, int64](s), true
	case []int16:
		return widen[int16, int64](s), true
	case []uint16:
		return widen[uint16, int64](s), true
	case []int32:
		return widen[int32, int64](s), true
	case []uint32:
		return widen[uint32, int64](s), true
	}
	return nil, false
}

func toUint64s(v any) (any, bool) {
	switch s := v.(type) {
	case []uint64:
		return s, true
	case []uint8:
		return widen[uint8, uint64](s), true
	case []uint16:
		return widen[uint16, uint64](s), true
	case []uint32:
		return widen[uint32, uint64](s), true
	}
	return nil, false
}

func toFloat32s(v any) (any, bool) {
	switch s := v.(type) {
	case []float32:
		return s, true
	case []int8:
		return widen[int8, float32](s), true
	case []uint8:
		return widen[uint8, float32](s), true
	case []int16:
		return widen[int16, float32](s), true
	case []uint16:
		return widen[uint16, float32](s), true
	}
	return nil, false
}

func toFloat64s(v any) (any, bool) {
	switch s := v.(type) {
	case []float64:
		return s, true
	case []int8:
		return widen[int8, float64](s), true
	case []uint8:
		return widen[uint8, float64](s), true
	case []int16:
		return widen[int16, float64](s), true
	case []uint16:
		return widen[uint16, float64](s), true
	case []int32:
		return widen[int32, float64](s), true
	case []uint32:
		return widen[uint32, float64](s), true
	case []float32:
		return widen[float32, float64](s), true
	}
	return nil, false
}
