package memio

import (
	"github.com/netcdf-go/netcdf/capi"
)

func (l *Library) DefVar(ncid capi.NcID, name string, t capi.TypeCode, dims []capi.DimID) (capi.VarID, capi.Status) {
	ref, st := l.ref(ncid)
	if !st.OK() {
		return 0, st
	}
	of, g := ref.of, ref.g
	if !of.writable {
		return 0, capi.NC_EPERM
	}
	if !of.defining {
		return 0, capi.NC_ENOTINDEFINE
	}
	if st := checkName(name); !st.OK() {
		return 0, st
	}
	if t < capi.NC_BYTE || t > capi.NC_STRING {
		return 0, capi.NC_EBADTYPE
	}
	for _, v := range g.vars {
		if v.name == name {
			return 0, capi.NC_ENAMEINUSE
		}
	}
	for i, id := range dims {
		if id < 0 || int(id) >= len(of.img.dims) {
			return 0, capi.NC_EBADDIM
		}
		d := of.img.dims[id]
		if !ref.visible(d) {
			return 0, capi.NC_EBADDIM
		}
		if d.unlimited && i != 0 {
			return 0, capi.NC_EUNLIMPOS
		}
	}
	v := &variable{
		name: name,
		t:    t,
		dims: append([]capi.DimID(nil), dims...),
		atts: newAttrMap(),
	}
	g.vars = append(g.vars, v)
	return capi.VarID(len(g.vars) - 1), capi.NC_NOERR
}

func (l *Library) InqVarIDs(ncid capi.NcID) ([]capi.VarID, capi.Status) {
	ref, st := l.ref(ncid)
	if !st.OK() {
		return nil, st
	}
	ids := make([]capi.VarID, len(ref.g.vars))
	for i := range ids {
		ids[i] = capi.VarID(i)
	}
	return ids, capi.NC_NOERR
}

func (l *Library) InqVar(ncid capi.NcID, varid capi.VarID) (string, capi.TypeCode, []capi.DimID, int, capi.Status) {
	ref, st := l.ref(ncid)
	if !st.OK() {
		return "", capi.NC_NAT, nil, 0, st
	}
	v, st := ref.variable(varid)
	if !st.OK() {
		return "", capi.NC_NAT, nil, 0, st
	}
	return v.name, v.t, append([]capi.DimID(nil), v.dims...), v.atts.Len(), capi.NC_NOERR
}

func (l *Library) InqVarID(ncid capi.NcID, name string) (capi.VarID, capi.Status) {
	ref, st := l.ref(ncid)
	if !st.OK() {
		return 0, st
	}
	for i, v := range ref.g.vars {
		if v.name == name {
			return capi.VarID(i), capi.NC_NOERR
		}
	}
	return 0, capi.NC_ENOTVAR
}

func (ref *groupRef) variable(varid capi.VarID) (*variable, capi.Status) {
	if varid < 0 || int(varid) >= len(ref.g.vars) {
		return nil, capi.NC_ENOTVAR
	}
	return ref.g.vars[varid], capi.NC_NOERR
}

// attTarget picks the attribute set a varid addresses: the group's own for
// Global, otherwise the variable's. The variable comes back nil for Global.
func (ref *groupRef) attTarget(varid capi.VarID) (*attrMap, *variable, capi.Status) {
	if varid == capi.Global {
		return ref.g.atts, nil, capi.NC_NOERR
	}
	v, st := ref.variable(varid)
	if !st.OK() {
		return nil, nil, st
	}
	return v.atts, v, capi.NC_NOERR
}

func (l *Library) PutAtt(ncid capi.NcID, varid capi.VarID, name string, t capi.TypeCode, value any) capi.Status {
	ref, st := l.ref(ncid)
	if !st.OK() {
		return st
	}
	if !ref.of.writable {
		return capi.NC_EPERM
	}
	if st := checkName(name); !st.OK() {
		return st
	}
	if t < capi.NC_BYTE || t > capi.NC_STRING {
		return capi.NC_EBADTYPE
	}
	val := cloneValue(value)
	if val == nil || !valueMatches(t, val) {
		return capi.NC_EBADTYPE
	}
	atts, v, st := ref.attTarget(varid)
	if !st.OK() {
		return st
	}
	if v != nil && name == "_FillValue" {
		if t != v.t {
			return capi.NC_EBADTYPE
		}
		if valueLen(val) != 1 {
			return capi.NC_EINVAL
		}
		if v.written {
			return capi.NC_ELATEFILL
		}
	}
	if !ref.of.defining {
		// In data mode an attribute may only shrink in place.
		old, has := atts.Get(name)
		if !has || old.t != t || valueLen(val) > valueLen(old.val) {
			return capi.NC_ENOTINDEFINE
		}
	}
	atts.Set(name, &attr{t: t, val: val})
	return capi.NC_NOERR
}

func (l *Library) GetAtt(ncid capi.NcID, varid capi.VarID, name string) (any, capi.TypeCode, capi.Status) {
	ref, st := l.ref(ncid)
	if !st.OK() {
		return nil, capi.NC_NAT, st
	}
	atts, _, st := ref.attTarget(varid)
	if !st.OK() {
		return nil, capi.NC_NAT, st
	}
	a, has := atts.Get(name)
	if !has {
		return nil, capi.NC_NAT, capi.NC_ENOTATT
	}
	return cloneValue(a.val), a.t, capi.NC_NOERR
}

func (l *Library) InqNAtts(ncid capi.NcID, varid capi.VarID) (int, capi.Status) {
	ref, st := l.ref(ncid)
	if !st.OK() {
		return 0, st
	}
	atts, _, st := ref.attTarget(varid)
	if !st.OK() {
		return 0, st
	}
	return atts.Len(), capi.NC_NOERR
}

func (l *Library) InqAttName(ncid capi.NcID, varid capi.VarID, n int) (string, capi.Status) {
	ref, st := l.ref(ncid)
	if !st.OK() {
		return "", st
	}
	atts, _, st := ref.attTarget(varid)
	if !st.OK() {
		return "", st
	}
	keys := atts.Keys()
	if n < 0 || n >= len(keys) {
		return "", capi.NC_ENOTATT
	}
	return keys[n], capi.NC_NOERR
}
