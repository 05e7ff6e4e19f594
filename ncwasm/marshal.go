package ncwasm

import (
	"encoding/binary"
	"math"

	"github.com/netcdf-go/netcdf/capi"
)

// packValues lays a flat slice out as the module's little-endian element
// bytes. Strings never come through here; they go through pointer arrays.
func packValues(t capi.TypeCode, data any) ([]byte, bool) {
	switch t {
	case capi.NC_BYTE:
		s, ok := data.([]int8)
		if !ok {
			return nil, false
		}
		out := make([]byte, len(s))
		for i, v := range s {
			out[i] = byte(v)
		}
		return out, true
	case capi.NC_CHAR, capi.NC_UBYTE:
		s, ok := data.([]uint8)
		if !ok {
			return nil, false
		}
		out := make([]byte, len(s))
		copy(out, s)
		return out, true
	case capi.NC_SHORT:
		s, ok := data.([]int16)
		if !ok {
			return nil, false
		}
		out := make([]byte, 2*len(s))
		for i, v := range s {
			binary.LittleEndian.PutUint16(out[2*i:], uint16(v))
		}
		return out, true
	case capi.NC_USHORT:
		s, ok := data.([]uint16)
		if !ok {
			return nil, false
		}
		out := make([]byte, 2*len(s))
		for i, v := range s {
			binary.LittleEndian.PutUint16(out[2*i:], v)
		}
		return out, true
	case capi.NC_INT:
		s, ok := data.([]int32)
		if !ok {
			return nil, false
		}
		out := make([]byte, 4*len(s))
		for i, v := range s {
			binary.LittleEndian.PutUint32(out[4*i:], uint32(v))
		}
		return out, true
	case capi.NC_UINT:
		s, ok := data.([]uint32)
		if !ok {
			return nil, false
		}
		out := make([]byte, 4*len(s))
		for i, v := range s {
			binary.LittleEndian.PutUint32(out[4*i:], v)
		}
		return out, true
	case capi.NC_INT64:
		s, ok := data.([]int64)
		if !ok {
			return nil, false
		}
		out := make([]byte, 8*len(s))
		for i, v := range s {
			binary.LittleEndian.PutUint64(out[8*i:], uint64(v))
		}
		return out, true
	case capi.NC_UINT64:
		s, ok := data.([]uint64)
		if !ok {
			return nil, false
		}
		out := make([]byte, 8*len(s))
		for i, v := range s {
			binary.LittleEndian.PutUint64(out[8*i:], v)
		}
		return out, true
	case capi.NC_FLOAT:
		s, ok := data.([]float32)
		if !ok {
			return nil, false
		}
		out := make([]byte, 4*len(s))
		for i, v := range s {
			binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(v))
		}
		return out, true
	case capi.NC_DOUBLE:
		s, ok := data.([]float64)
		if !ok {
			return nil, false
		}
		out := make([]byte, 8*len(s))
		for i, v := range s {
			binary.LittleEndian.PutUint64(out[8*i:], math.Float64bits(v))
		}
		return out, true
	}
	return nil, false
}

// unpackValues is the inverse of packValues for n elements.
func unpackValues(t capi.TypeCode, raw []byte, n uint64) (any, bool) {
	size := t.Size()
	if size == 0 || uint64(len(raw)) < n*uint64(size) {
		return nil, false
	}
	switch t {
	case capi.NC_BYTE:
		out := make([]int8, n)
		for i := range out {
			out[i] = int8(raw[i])
		}
		return out, true
	case capi.NC_CHAR, capi.NC_UBYTE:
		out := make([]uint8, n)
		copy(out, raw)
		return out, true
	case capi.NC_SHORT:
		out := make([]int16, n)
		for i := range out {
			out[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
		}
		return out, true
	case capi.NC_USHORT:
		out := make([]uint16, n)
		for i := range out {
			out[i] = binary.LittleEndian.Uint16(raw[2*i:])
		}
		return out, true
	case capi.NC_INT:
		out := make([]int32, n)
		for i := range out {
			out[i] = int32(binary.LittleEndian.Uint32(raw[4*i:]))
		}
		return out, true
	case capi.NC_UINT:
		out := make([]uint32, n)
		for i := range out {
			out[i] = binary.LittleEndian.Uint32(raw[4*i:])
		}
		return out, true
	case capi.NC_INT64:
		out := make([]int64, n)
		for i := range out {
			out[i] = int64(binary.LittleEndian.Uint64(raw[8*i:]))
		}
		return out, true
	case capi.NC_UINT64:
		out := make([]uint64, n)
		for i := range out {
			out[i] = binary.LittleEndian.Uint64(raw[8*i:])
		}
		return out, true
	case capi.NC_FLOAT:
		out := make([]float32, n)
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
		}
		return out, true
	case capi.NC_DOUBLE:
		out := make([]float64, n)
		for i := range out {
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[8*i:]))
		}
		return out, true
	}
	return nil, false
}

// stringArrayIn builds a char* array in module memory from ss, returning
// the array pointer and the string blocks for later freeing.
func (l *Library) stringArrayIn(ss []string) (arr uint32, blocks []uint32, ok bool) {
	blocks = make([]uint32, 0, len(ss))
	release := func() {
		for _, p := range blocks {
			l.free(p)
		}
	}
	ptrs := make([]uint32, len(ss))
	for i, s := range ss {
		p, ok := l.cstring(s)
		if !ok {
			release()
			return 0, nil, false
		}
		blocks = append(blocks, p)
		ptrs[i] = p
	}
	arr, allocOK := l.alloc(uint64(len(ptrs)) * ptrSize)
	if !allocOK {
		release()
		return 0, nil, false
	}
	if !l.writeU32s(arr, ptrs) {
		l.free(arr)
		release()
		return 0, nil, false
	}
	return arr, blocks, true
}

// stringArrayOut reads n char* entries the library filled in, copies the
// strings out, and releases them with nc_free_string.
func (l *Library) stringArrayOut(arr uint32, n uint64) ([]string, bool) {
	ptrs, ok := l.readU32s(arr, int(n))
	if !ok {
		return nil, false
	}
	out := make([]string, n)
	for i, p := range ptrs {
		if p == 0 {
			continue
		}
		s, ok := l.readCString(p, maxWasmString)
		if !ok {
			return nil, false
		}
		out[i] = s
	}
	_, _ = l.fns["nc_free_string"].Call(l.ctx, n, uint64(arr))
	return out, true
}

// maxWasmString bounds how far readCString scans for a terminator.
const maxWasmString = 1 << 20
