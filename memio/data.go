package memio

import (
	"github.com/netcdf-go/netcdf/capi"
	"github.com/netcdf-go/netcdf/internal"
)

// bufOps is the per-type toolkit for the flat storage slices. One table
// entry per external type keeps the rest of the engine free of type
// switches.
type bufOps struct {
	fill    any // default fill element
	grow    func(cur any, need uint64, fill any) any
	gather  func(src any, o *internal.Odometer, n uint64) any
	scatter func(dst, src any, o *internal.Odometer)
	length  func(v any) uint64
	is      func(v any) bool
}

func bufOpsFor[T any](fill T) bufOps {
	return bufOps{
		fill: fill,
		grow: func(cur any, need uint64, fill any) any {
			var s []T
			if cur != nil {
				s = cur.([]T)
			}
			if uint64(len(s)) >= need {
				return s
			}
			f := fill.(T)
			grown := make([]T, need)
			copy(grown, s)
			for i := len(s); i < len(grown); i++ {
				grown[i] = f
			}
			return grown
		},
		gather: func(src any, o *internal.Odometer, n uint64) any {
			s := src.([]T)
			out := make([]T, 0, n)
			for {
				off, run, ok := o.Next()
				if !ok {
					return out
				}
				out = append(out, s[off:off+run]...)
			}
		},
		scatter: func(dst, src any, o *internal.Odometer) {
			d := dst.([]T)
			s := src.([]T)
			next := uint64(0)
			for {
				off, run, ok := o.Next()
				if !ok {
					return
				}
				copy(d[off:off+run], s[next:next+run])
				next += run
			}
		},
		length: func(v any) uint64 {
			if v == nil {
				return 0
			}
			return uint64(len(v.([]T)))
		},
		is: func(v any) bool {
			_, ok := v.([]T)
			return ok
		},
	}
}

// Defaults are the NC_FILL_* values from netcdf.h.
var bufOpsByType = map[capi.TypeCode]bufOps{
	capi.NC_BYTE:   bufOpsFor[int8](-127),
	capi.NC_CHAR:   bufOpsFor[uint8](0),
	capi.NC_SHORT:  bufOpsFor[int16](-32767),
	capi.NC_INT:    bufOpsFor[int32](-2147483647),
	capi.NC_FLOAT:  bufOpsFor[float32](9.9692099683868690e+36),
	capi.NC_DOUBLE: bufOpsFor[float64](9.9692099683868690e+36),
	capi.NC_UBYTE:  bufOpsFor[uint8](255),
	capi.NC_USHORT: bufOpsFor[uint16](65535),
	capi.NC_UINT:   bufOpsFor[uint32](4294967295),
	capi.NC_INT64:  bufOpsFor[int64](-9223372036854775806),
	capi.NC_UINT64: bufOpsFor[uint64](18446744073709551614),
	capi.NC_STRING: bufOpsFor[string](""),
}

// extents returns the current shape of a variable. The leading extent of a
// record variable is the dataset's record count.
func (ref *groupRef) extents(v *variable) []uint64 {
	shape := make([]uint64, len(v.dims))
	for i, id := range v.dims {
		shape[i] = ref.of.img.dims[id].length
	}
	return shape
}

// fillFor picks the variable's fill element: its _FillValue attribute when
// set, the type default otherwise.
func fillFor(v *variable) any {
	if a, has := v.atts.Get("_FillValue"); has {
		if f := firstElem(a.val); f != nil {
			return f
		}
	}
	return bufOpsByType[v.t].fill
}

// reconcile grows the variable's storage to its current shape, filling new
// room. Record variables that lagged behind the record count catch up here.
func (ref *groupRef) reconcile(v *variable) {
	need := internal.SlabLen(ref.extents(v))
	v.data = bufOpsByType[v.t].grow(v.data, need, fillFor(v))
}

// checkSlab validates a hyperslab against the shape. growFirst lifts the
// leading bound for writes to a record variable.
func checkSlab(start, count []uint64, stride []int64, shape []uint64, growFirst bool) capi.Status {
	if len(start) != len(shape) || len(count) != len(shape) || len(stride) != len(shape) {
		return capi.NC_EINVAL
	}
	for i := range shape {
		if stride[i] < 1 {
			return capi.NC_ESTRIDE
		}
		if growFirst && i == 0 {
			continue
		}
		if count[i] == 0 {
			// An empty selection still needs a start inside the
			// dimension, except at the edge of an empty one.
			if start[i] > 0 && start[i] >= shape[i] {
				return capi.NC_EINVALCOORDS
			}
			continue
		}
		if start[i] >= shape[i] {
			return capi.NC_EINVALCOORDS
		}
		if start[i]+(count[i]-1)*uint64(stride[i]) >= shape[i] {
			return capi.NC_EEDGE
		}
	}
	return capi.NC_NOERR
}

func (l *Library) GetVars(ncid capi.NcID, varid capi.VarID, start, count []uint64, stride []int64) (any, capi.Status) {
	ref, st := l.ref(ncid)
	if !st.OK() {
		return nil, st
	}
	if ref.of.defining {
		return nil, capi.NC_EINDEFINE
	}
	v, st := ref.variable(varid)
	if !st.OK() {
		return nil, st
	}
	shape := ref.extents(v)
	if st := checkSlab(start, count, stride, shape, false); !st.OK() {
		return nil, st
	}
	ref.reconcile(v)
	ops := bufOpsByType[v.t]
	o := internal.NewOdometer(start, count, stride, shape)
	return ops.gather(v.data, o, internal.SlabLen(count)), capi.NC_NOERR
}

func (l *Library) PutVars(ncid capi.NcID, varid capi.VarID, start, count []uint64, stride []int64, data any) capi.Status {
	ref, st := l.ref(ncid)
	if !st.OK() {
		return st
	}
	if ref.of.defining {
		return capi.NC_EINDEFINE
	}
	if !ref.of.writable {
		return capi.NC_EPERM
	}
	v, st := ref.variable(varid)
	if !st.OK() {
		return st
	}
	ops := bufOpsByType[v.t]
	if !ops.is(data) {
		return capi.NC_EBADTYPE
	}
	img := ref.of.img
	grows := len(v.dims) > 0 && img.dims[v.dims[0]].unlimited
	shape := ref.extents(v)
	if st := checkSlab(start, count, stride, shape, grows); !st.OK() {
		return st
	}
	if ops.length(data) != internal.SlabLen(count) {
		return capi.NC_EINVAL
	}
	if grows && count[0] > 0 {
		d := img.dims[v.dims[0]]
		end := start[0] + (count[0]-1)*uint64(stride[0]) + 1
		if end > d.length {
			logger.Infof("dimension %s grows to %d records", d.name, end)
			d.length = end
			shape[0] = end
		}
	}
	ref.reconcile(v)
	o := internal.NewOdometer(start, count, stride, shape)
	ops.scatter(v.data, data, o)
	v.written = true
	return capi.NC_NOERR
}

// cloneValue copies an attribute value. It returns nil for representations
// no external type uses.
func cloneValue(v any) any {
	switch s := v.(type) {
	case string:
		return s
	case []int8:
		return append([]int8(nil), s...)
	case []uint8:
		return append([]uint8(nil), s...)
	case []int16:
		return append([]int16(nil), s...)
	case []uint16:
		return append([]uint16(nil), s...)
	case []int32:
		return append([]int32(nil), s...)
	case []uint32:
		return append([]uint32(nil), s...)
	case []int64:
		return append([]int64(nil), s...)
	case []uint64:
		return append([]uint64(nil), s...)
	case []float32:
		return append([]float32(nil), s...)
	case []float64:
		return append([]float64(nil), s...)
	case []string:
		return append([]string(nil), s...)
	}
	return nil
}

// valueMatches checks an attribute value against its declared type. Text
// attributes travel as string, everything else as a slice of the storage
// type.
func valueMatches(t capi.TypeCode, v any) bool {
	switch t {
	case capi.NC_CHAR:
		_, ok := v.(string)
		return ok
	case capi.NC_BYTE:
		_, ok := v.([]int8)
		return ok
	case capi.NC_UBYTE:
		_, ok := v.([]uint8)
		return ok
	case capi.NC_SHORT:
		_, ok := v.([]int16)
		return ok
	case capi.NC_USHORT:
		_, ok := v.([]uint16)
		return ok
	case capi.NC_INT:
		_, ok := v.([]int32)
		return ok
	case capi.NC_UINT:
		_, ok := v.([]uint32)
		return ok
	case capi.NC_INT64:
		_, ok := v.([]int64)
		return ok
	case capi.NC_UINT64:
		_, ok := v.([]uint64)
		return ok
	case capi.NC_FLOAT:
		_, ok := v.([]float32)
		return ok
	case capi.NC_DOUBLE:
		_, ok := v.([]float64)
		return ok
	case capi.NC_STRING:
		_, ok := v.([]string)
		return ok
	}
	return false
}

// valueLen counts attribute elements; text counts characters.
func valueLen(v any) int {
	switch s := v.(type) {
	case string:
		return len(s)
	case []int8:
		return len(s)
	case []uint8:
		return len(s)
	case []int16:
		return len(s)
	case []uint16:
		return len(s)
	case []int32:
		return len(s)
	case []uint32:
		return len(s)
	case []int64:
		return len(s)
	case []uint64:
		return len(s)
	case []float32:
		return len(s)
	case []float64:
		return len(s)
	case []string:
		return len(s)
	}
	return 0
}

// firstElem unwraps the first element of an attribute value, for fill
// overrides.
func firstElem(v any) any {
	switch s := v.(type) {
	case string:
		if len(s) > 0 {
			return s[0]
		}
		return uint8(0)
	case []int8:
		if len(s) > 0 {
			return s[0]
		}
	case []uint8:
		if len(s) > 0 {
			return s[0]
		}
	case []int16:
		if len(s) > 0 {
			return s[0]
		}
	case []uint16:
		if len(s) > 0 {
			return s[0]
		}
	case []int32:
		if len(s) > 0 {
			return s[0]
		}
	case []uint32:
		if len(s) > 0 {
			return s[0]
		}
	case []int64:
		if len(s) > 0 {
			return s[0]
		}
	case []uint64:
		if len(s) > 0 {
			return s[0]
		}
	case []float32:
		if len(s) > 0 {
			return s[0]
		}
	case []float64:
		if len(s) > 0 {
			return s[0]
		}
	case []string:
		if len(s) > 0 {
			return s[0]
		}
	}
	return nil
}
