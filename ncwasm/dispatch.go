package ncwasm

import (
	"github.com/netcdf-go/netcdf/capi"
	"github.com/netcdf-go/netcdf/internal"
)

// The methods below each marshal one dispatch call onto the wasm ABI:
// int and nc_type arguments pass as plain values, everything else moves
// through malloc'd blocks in module memory. A failed allocation or memory
// access reports errTrap rather than a netCDF status.

func (l *Library) Open(path string, mode capi.OpenMode) (capi.NcID, capi.Status) {
	p, ok := l.cstring(path)
	if !ok {
		return 0, errTrap
	}
	defer l.free(p)
	id, st := l.idOut("nc_open", uint64(p), arg32(int32(mode)))
	return capi.NcID(id), st
}

func (l *Library) Create(path string, mode capi.OpenMode) (capi.NcID, capi.Status) {
	p, ok := l.cstring(path)
	if !ok {
		return 0, errTrap
	}
	defer l.free(p)
	id, st := l.idOut("nc_create", uint64(p), arg32(int32(mode)))
	return capi.NcID(id), st
}

func (l *Library) Close(ncid capi.NcID) capi.Status {
	return l.status("nc_close", arg32(int32(ncid)))
}

func (l *Library) Redef(ncid capi.NcID) capi.Status {
	return l.status("nc_redef", arg32(int32(ncid)))
}

func (l *Library) EndDef(ncid capi.NcID) capi.Status {
	return l.status("nc_enddef", arg32(int32(ncid)))
}

func (l *Library) Sync(ncid capi.NcID) capi.Status {
	return l.status("nc_sync", arg32(int32(ncid)))
}

func (l *Library) DefGrp(parent capi.NcID, name string) (capi.NcID, capi.Status) {
	p, ok := l.cstring(name)
	if !ok {
		return 0, errTrap
	}
	defer l.free(p)
	id, st := l.idOut("nc_def_grp", arg32(int32(parent)), uint64(p))
	return capi.NcID(id), st
}

func (l *Library) InqGrps(ncid capi.NcID) ([]capi.NcID, capi.Status) {
	ids, st := l.idList("nc_inq_grps", arg32(int32(ncid)), nil)
	if !st.OK() {
		return nil, st
	}
	out := make([]capi.NcID, len(ids))
	for i, id := range ids {
		out[i] = capi.NcID(id)
	}
	return out, capi.NC_NOERR
}

func (l *Library) InqGrpName(ncid capi.NcID) (string, capi.Status) {
	return l.nameOut("nc_inq_grpname", arg32(int32(ncid)))
}

func (l *Library) InqGrpNcid(ncid capi.NcID, name string) (capi.NcID, capi.Status) {
	p, ok := l.cstring(name)
	if !ok {
		return 0, errTrap
	}
	defer l.free(p)
	id, st := l.idOut("nc_inq_grp_ncid", arg32(int32(ncid)), uint64(p))
	return capi.NcID(id), st
}

func (l *Library) DefDim(ncid capi.NcID, name string, length uint64) (capi.DimID, capi.Status) {
	p, ok := l.cstring(name)
	if !ok {
		return 0, errTrap
	}
	defer l.free(p)
	id, st := l.idOut("nc_def_dim", arg32(int32(ncid)), uint64(p), uint64(uint32(length)))
	return capi.DimID(id), st
}

func (l *Library) InqDimIDs(ncid capi.NcID, includeParents bool) ([]capi.DimID, capi.Status) {
	include := uint64(0)
	if includeParents {
		include = 1
	}
	ids, st := l.idList("nc_inq_dimids", arg32(int32(ncid)), []uint64{include})
	if !st.OK() {
		return nil, st
	}
	out := make([]capi.DimID, len(ids))
	for i, id := range ids {
		out[i] = capi.DimID(id)
	}
	return out, capi.NC_NOERR
}

func (l *Library) InqDim(ncid capi.NcID, dimid capi.DimID) (string, uint64, capi.Status) {
	nameBuf, ok := l.alloc(capi.MaxName + 1)
	if !ok {
		return "", 0, errTrap
	}
	defer l.free(nameBuf)
	lenOut, ok := l.alloc(ptrSize)
	if !ok {
		return "", 0, errTrap
	}
	defer l.free(lenOut)
	st := l.status("nc_inq_dim", arg32(int32(ncid)), arg32(int32(dimid)),
		uint64(nameBuf), uint64(lenOut))
	if !st.OK() {
		return "", 0, st
	}
	name, ok := l.readCString(nameBuf, capi.MaxName+1)
	if !ok {
		return "", 0, errTrap
	}
	length, ok := l.readU32(lenOut)
	if !ok {
		return "", 0, errTrap
	}
	return name, uint64(length), capi.NC_NOERR
}

func (l *Library) InqDimID(ncid capi.NcID, name string) (capi.DimID, capi.Status) {
	p, ok := l.cstring(name)
	if !ok {
		return 0, errTrap
	}
	defer l.free(p)
	id, st := l.idOut("nc_inq_dimid", arg32(int32(ncid)), uint64(p))
	return capi.DimID(id), st
}

func (l *Library) InqUnlimDims(ncid capi.NcID) ([]capi.DimID, capi.Status) {
	ids, st := l.idList("nc_inq_unlimdims", arg32(int32(ncid)), nil)
	if !st.OK() {
		return nil, st
	}
	out := make([]capi.DimID, len(ids))
	for i, id := range ids {
		out[i] = capi.DimID(id)
	}
	return out, capi.NC_NOERR
}

func (l *Library) DefVar(ncid capi.NcID, name string, t capi.TypeCode, dims []capi.DimID) (capi.VarID, capi.Status) {
	p, ok := l.cstring(name)
	if !ok {
		return 0, errTrap
	}
	defer l.free(p)
	dimArr, ok := l.alloc(uint64(len(dims)+1) * ptrSize)
	if !ok {
		return 0, errTrap
	}
	defer l.free(dimArr)
	u := make([]uint32, len(dims))
	for i, d := range dims {
		u[i] = uint32(int32(d))
	}
	if !l.writeU32s(dimArr, u) {
		return 0, errTrap
	}
	id, st := l.idOut("nc_def_var", arg32(int32(ncid)), uint64(p), arg32(int32(t)),
		arg32(int32(len(dims))), uint64(dimArr))
	return capi.VarID(id), st
}

func (l *Library) InqVarIDs(ncid capi.NcID) ([]capi.VarID, capi.Status) {
	ids, st := l.idList("nc_inq_varids", arg32(int32(ncid)), nil)
	if !st.OK() {
		return nil, st
	}
	out := make([]capi.VarID, len(ids))
	for i, id := range ids {
		out[i] = capi.VarID(id)
	}
	return out, capi.NC_NOERR
}

func (l *Library) InqVar(ncid capi.NcID, varid capi.VarID) (string, capi.TypeCode, []capi.DimID, int, capi.Status) {
	nameBuf, ok := l.alloc(capi.MaxName + 1)
	if !ok {
		return "", 0, nil, 0, errTrap
	}
	defer l.free(nameBuf)
	// xtype, ndims and natts pack into one block; dimids get their own.
	outs, ok := l.alloc(3 * ptrSize)
	if !ok {
		return "", 0, nil, 0, errTrap
	}
	defer l.free(outs)
	dimArr, ok := l.alloc(maxVarDims * ptrSize)
	if !ok {
		return "", 0, nil, 0, errTrap
	}
	defer l.free(dimArr)

	st := l.status("nc_inq_var", arg32(int32(ncid)), arg32(int32(varid)),
		uint64(nameBuf), uint64(outs), uint64(outs+4), uint64(dimArr), uint64(outs+8))
	if !st.OK() {
		return "", 0, nil, 0, st
	}
	name, ok1 := l.readCString(nameBuf, capi.MaxName+1)
	head, ok2 := l.readU32s(outs, 3)
	if !ok1 || !ok2 {
		return "", 0, nil, 0, errTrap
	}
	xtype := capi.TypeCode(int32(head[0]))
	ndims := int(int32(head[1]))
	natts := int(int32(head[2]))
	if ndims < 0 || ndims > maxVarDims {
		return "", 0, nil, 0, errTrap
	}
	rawDims, ok := l.readU32s(dimArr, ndims)
	if !ok {
		return "", 0, nil, 0, errTrap
	}
	dims := make([]capi.DimID, ndims)
	for i, d := range rawDims {
		dims[i] = capi.DimID(int32(d))
	}
	return name, xtype, dims, natts, capi.NC_NOERR
}

func (l *Library) InqVarID(ncid capi.NcID, name string) (capi.VarID, capi.Status) {
	p, ok := l.cstring(name)
	if !ok {
		return 0, errTrap
	}
	defer l.free(p)
	id, st := l.idOut("nc_inq_varid", arg32(int32(ncid)), uint64(p))
	return capi.VarID(id), st
}

func (l *Library) PutAtt(ncid capi.NcID, varid capi.VarID, name string, t capi.TypeCode, value any) capi.Status {
	p, ok := l.cstring(name)
	if !ok {
		return errTrap
	}
	defer l.free(p)

	var valPtr uint32
	var n uint64
	switch t {
	case capi.NC_CHAR:
		s, isStr := value.(string)
		if !isStr {
			return capi.NC_EBADTYPE
		}
		valPtr, ok = l.bytesIn([]byte(s))
		if !ok {
			return errTrap
		}
		defer l.free(valPtr)
		n = uint64(len(s))
	case capi.NC_STRING:
		ss, isSlice := value.([]string)
		if !isSlice {
			return capi.NC_EBADTYPE
		}
		arr, blocks, aok := l.stringArrayIn(ss)
		if !aok {
			return errTrap
		}
		defer func() {
			l.free(arr)
			for _, b := range blocks {
				l.free(b)
			}
		}()
		valPtr = arr
		n = uint64(len(ss))
	default:
		raw, pok := packValues(t, value)
		if !pok {
			return capi.NC_EBADTYPE
		}
		valPtr, ok = l.bytesIn(raw)
		if !ok {
			return errTrap
		}
		defer l.free(valPtr)
		n = uint64(len(raw) / t.Size())
	}
	return l.status("nc_put_att", arg32(int32(ncid)), arg32(int32(varid)),
		uint64(p), arg32(int32(t)), n, uint64(valPtr))
}

func (l *Library) GetAtt(ncid capi.NcID, varid capi.VarID, name string) (any, capi.TypeCode, capi.Status) {
	p, ok := l.cstring(name)
	if !ok {
		return nil, 0, errTrap
	}
	defer l.free(p)

	outs, ok := l.alloc(2 * ptrSize)
	if !ok {
		return nil, 0, errTrap
	}
	defer l.free(outs)
	st := l.status("nc_inq_att", arg32(int32(ncid)), arg32(int32(varid)),
		uint64(p), uint64(outs), uint64(outs+4))
	if !st.OK() {
		return nil, 0, st
	}
	head, hok := l.readU32s(outs, 2)
	if !hok {
		return nil, 0, errTrap
	}
	t := capi.TypeCode(int32(head[0]))
	n := uint64(head[1])

	var width uint64
	if t == capi.NC_STRING {
		width = ptrSize
	} else {
		width = uint64(t.Size())
		if width == 0 {
			return nil, 0, capi.NC_EBADTYPE
		}
	}
	buf, ok := l.alloc(n * width)
	if !ok {
		return nil, 0, errTrap
	}
	defer l.free(buf)
	if st := l.status("nc_get_att", arg32(int32(ncid)), arg32(int32(varid)),
		uint64(p), uint64(buf)); !st.OK() {
		return nil, 0, st
	}

	switch t {
	case capi.NC_CHAR:
		raw, rok := l.module.Memory().Read(buf, uint32(n))
		if !rok {
			return nil, 0, errTrap
		}
		return string(raw), t, capi.NC_NOERR
	case capi.NC_STRING:
		ss, sok := l.stringArrayOut(buf, n)
		if !sok {
			return nil, 0, errTrap
		}
		return ss, t, capi.NC_NOERR
	default:
		raw, rok := l.module.Memory().Read(buf, uint32(n*width))
		if !rok {
			return nil, 0, errTrap
		}
		val, uok := unpackValues(t, raw, n)
		if !uok {
			return nil, 0, errTrap
		}
		return val, t, capi.NC_NOERR
	}
}

func (l *Library) InqNAtts(ncid capi.NcID, varid capi.VarID) (int, capi.Status) {
	var n uint32
	var st capi.Status
	if varid == capi.Global {
		n, st = l.idOut("nc_inq_natts", arg32(int32(ncid)))
	} else {
		n, st = l.idOut("nc_inq_varnatts", arg32(int32(ncid)), arg32(int32(varid)))
	}
	return int(int32(n)), st
}

func (l *Library) InqAttName(ncid capi.NcID, varid capi.VarID, n int) (string, capi.Status) {
	return l.nameOut("nc_inq_attname", arg32(int32(ncid)), arg32(int32(varid)), arg32(int32(n)))
}

func (l *Library) GetVars(ncid capi.NcID, varid capi.VarID, start, count []uint64, stride []int64) (any, capi.Status) {
	_, t, _, _, st := l.InqVar(ncid, varid)
	if !st.OK() {
		return nil, st
	}
	slab, release, ok := l.slabArrays(start, count, stride)
	if !ok {
		return nil, errTrap
	}
	defer release()
	n := internal.SlabLen(count)

	if t == capi.NC_STRING {
		arr, aok := l.alloc(n * ptrSize)
		if !aok {
			return nil, errTrap
		}
		defer l.free(arr)
		if !l.writeU32s(arr, make([]uint32, n)) {
			return nil, errTrap
		}
		if st := l.status("nc_get_vars_string", arg32(int32(ncid)), arg32(int32(varid)),
			slab[0], slab[1], slab[2], uint64(arr)); !st.OK() {
			return nil, st
		}
		ss, sok := l.stringArrayOut(arr, n)
		if !sok {
			return nil, errTrap
		}
		return ss, capi.NC_NOERR
	}

	width := uint64(t.Size())
	if width == 0 {
		return nil, capi.NC_EBADTYPE
	}
	buf, ok := l.alloc(n * width)
	if !ok {
		return nil, errTrap
	}
	defer l.free(buf)
	if st := l.status("nc_get_vars", arg32(int32(ncid)), arg32(int32(varid)),
		slab[0], slab[1], slab[2], uint64(buf)); !st.OK() {
		return nil, st
	}
	raw, rok := l.module.Memory().Read(buf, uint32(n*width))
	if !rok {
		return nil, errTrap
	}
	val, uok := unpackValues(t, raw, n)
	if !uok {
		return nil, errTrap
	}
	return val, capi.NC_NOERR
}

func (l *Library) PutVars(ncid capi.NcID, varid capi.VarID, start, count []uint64, stride []int64, data any) capi.Status {
	_, t, _, _, st := l.InqVar(ncid, varid)
	if !st.OK() {
		return st
	}
	slab, release, ok := l.slabArrays(start, count, stride)
	if !ok {
		return errTrap
	}
	defer release()

	if t == capi.NC_STRING {
		ss, isSlice := data.([]string)
		if !isSlice {
			return capi.NC_EBADTYPE
		}
		arr, blocks, aok := l.stringArrayIn(ss)
		if !aok {
			return errTrap
		}
		defer func() {
			l.free(arr)
			for _, b := range blocks {
				l.free(b)
			}
		}()
		return l.status("nc_put_vars_string", arg32(int32(ncid)), arg32(int32(varid)),
			slab[0], slab[1], slab[2], uint64(arr))
	}

	raw, pok := packValues(t, data)
	if !pok {
		return capi.NC_EBADTYPE
	}
	buf, ok := l.bytesIn(raw)
	if !ok {
		return errTrap
	}
	defer l.free(buf)
	return l.status("nc_put_vars", arg32(int32(ncid)), arg32(int32(varid)),
		slab[0], slab[1], slab[2], uint64(buf))
}

// arg32 sign-extends an int argument into the uint64 slot wazero expects
// for a wasm i32.
func arg32(v int32) uint64 {
	return uint64(uint32(v))
}

// idOut runs a call whose last parameter is a single int or size_t out
// pointer and returns the value written there.
func (l *Library) idOut(name string, args ...uint64) (uint32, capi.Status) {
	out, ok := l.alloc(ptrSize)
	if !ok {
		return 0, errTrap
	}
	defer l.free(out)
	st := l.status(name, append(args, uint64(out))...)
	if !st.OK() {
		return 0, st
	}
	v, ok := l.readU32(out)
	if !ok {
		return 0, errTrap
	}
	return v, capi.NC_NOERR
}

// nameOut runs a call whose last parameter is a name buffer of NC_MAX_NAME
// bytes.
func (l *Library) nameOut(name string, args ...uint64) (string, capi.Status) {
	buf, ok := l.alloc(capi.MaxName + 1)
	if !ok {
		return "", errTrap
	}
	defer l.free(buf)
	st := l.status(name, append(args, uint64(buf))...)
	if !st.OK() {
		return "", st
	}
	s, ok := l.readCString(buf, capi.MaxName+1)
	if !ok {
		return "", errTrap
	}
	return s, capi.NC_NOERR
}

// idList runs the count-then-fetch dance shared by the nc_inq_*ids family:
// the same call first reports how many ids there are, then fills a caller
// buffer. trailing holds arguments that follow the id buffer, as in
// nc_inq_dimids' include_parents flag.
func (l *Library) idList(name string, ncidArg uint64, trailing []uint64) ([]int32, capi.Status) {
	countOut, ok := l.alloc(ptrSize)
	if !ok {
		return nil, errTrap
	}
	defer l.free(countOut)

	args := append([]uint64{ncidArg, uint64(countOut), 0}, trailing...)
	if st := l.status(name, args...); !st.OK() {
		return nil, st
	}
	n, ok := l.readU32(countOut)
	if !ok {
		return nil, errTrap
	}
	if n == 0 {
		return nil, capi.NC_NOERR
	}

	arr, ok := l.alloc(uint64(n) * ptrSize)
	if !ok {
		return nil, errTrap
	}
	defer l.free(arr)
	args = append([]uint64{ncidArg, uint64(countOut), uint64(arr)}, trailing...)
	if st := l.status(name, args...); !st.OK() {
		return nil, st
	}
	raw, ok := l.readU32s(arr, int(n))
	if !ok {
		return nil, errTrap
	}
	out := make([]int32, n)
	for i, v := range raw {
		out[i] = int32(v)
	}
	return out, capi.NC_NOERR
}

// slabArrays marshals start, count and stride and returns their pointers
// as call arguments plus a release function.
func (l *Library) slabArrays(start, count []uint64, stride []int64) ([3]uint64, func(), bool) {
	var ptrs [3]uint64
	var blocks []uint32
	release := func() {
		for _, b := range blocks {
			l.free(b)
		}
	}
	s, ok := l.sizeArray(start)
	if !ok {
		release()
		return ptrs, nil, false
	}
	blocks = append(blocks, s)
	c, ok := l.sizeArray(count)
	if !ok {
		release()
		return ptrs, nil, false
	}
	blocks = append(blocks, c)
	st, ok := l.strideArray(stride)
	if !ok {
		release()
		return ptrs, nil, false
	}
	blocks = append(blocks, st)
	ptrs = [3]uint64{uint64(s), uint64(c), uint64(st)}
	return ptrs, release, true
}
