package memio

import (
	"reflect"
	"testing"

	"github.com/netcdf-go/netcdf/capi"
)

func ok(t *testing.T, st capi.Status, what string) {
	t.Helper()
	if st != capi.NC_NOERR {
		t.Fatalf("%s: %v", what, st)
	}
}

func TestCreateOpenRoundtrip(t *testing.T) {
	lib := New()
	ncid, st := lib.Create("round.nc", capi.NC_CLOBBER)
	ok(t, st, "create")
	dimid, st := lib.DefDim(ncid, "lat", 3)
	ok(t, st, "def dim")
	varid, st := lib.DefVar(ncid, "temp", capi.NC_DOUBLE, []capi.DimID{dimid})
	ok(t, st, "def var")
	ok(t, lib.EndDef(ncid), "enddef")

	want := []float64{21.5, 22.1, 19.8}
	ok(t, lib.PutVars(ncid, varid, []uint64{0}, []uint64{3}, []int64{1}, want), "put")
	got, st := lib.GetVars(ncid, varid, []uint64{0}, []uint64{3}, []int64{1})
	ok(t, st, "get")
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	ok(t, lib.Close(ncid), "close")

	// The dataset persists in the namespace under its path.
	ncid, st = lib.Open("round.nc", capi.NC_NOWRITE)
	ok(t, st, "reopen")
	varid, st = lib.InqVarID(ncid, "temp")
	ok(t, st, "inq varid")
	got, st = lib.GetVars(ncid, varid, []uint64{0}, []uint64{3}, []int64{1})
	ok(t, st, "get after reopen")
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if st := lib.PutVars(ncid, varid, []uint64{0}, []uint64{3}, []int64{1}, want); st != capi.NC_EPERM {
		t.Errorf("put on read-only: %v, want NC_EPERM", st)
	}
	ok(t, lib.Close(ncid), "close")
	if st := lib.Close(ncid); st != capi.NC_EBADID {
		t.Errorf("double close: %v, want NC_EBADID", st)
	}
}

func TestOpenMissing(t *testing.T) {
	lib := New()
	if _, st := lib.Open("missing.nc", capi.NC_NOWRITE); st <= 0 {
		t.Errorf("open of a missing path: %v, want a system errno", st)
	}
}

func TestNoClobber(t *testing.T) {
	lib := New()
	ncid, st := lib.Create("exists.nc", capi.NC_CLOBBER)
	ok(t, st, "create")
	ok(t, lib.EndDef(ncid), "enddef")
	ok(t, lib.Close(ncid), "close")
	if _, st := lib.Create("exists.nc", capi.NC_NOCLOBBER); st != capi.NC_EEXIST {
		t.Errorf("noclobber create: %v, want NC_EEXIST", st)
	}
	ncid, st = lib.Create("exists.nc", capi.NC_CLOBBER)
	ok(t, st, "clobbering create")
	ok(t, lib.EndDef(ncid), "enddef")
	ok(t, lib.Close(ncid), "close")
}

func TestModeRules(t *testing.T) {
	lib := New()
	ncid, st := lib.Create("mode.nc", capi.NC_CLOBBER)
	ok(t, st, "create")
	varid, st := lib.DefVar(ncid, "x", capi.NC_INT, nil)
	ok(t, st, "def var")

	if _, st := lib.GetVars(ncid, varid, nil, nil, nil); st != capi.NC_EINDEFINE {
		t.Errorf("get in define mode: %v, want NC_EINDEFINE", st)
	}
	if st := lib.Sync(ncid); st != capi.NC_EINDEFINE {
		t.Errorf("sync in define mode: %v, want NC_EINDEFINE", st)
	}
	ok(t, lib.EndDef(ncid), "enddef")
	if st := lib.EndDef(ncid); st != capi.NC_ENOTINDEFINE {
		t.Errorf("enddef twice: %v, want NC_ENOTINDEFINE", st)
	}
	if _, st := lib.DefDim(ncid, "late", 2); st != capi.NC_ENOTINDEFINE {
		t.Errorf("def dim in data mode: %v, want NC_ENOTINDEFINE", st)
	}
	ok(t, lib.Sync(ncid), "sync")
	ok(t, lib.Redef(ncid), "redef")
	if st := lib.Redef(ncid); st != capi.NC_EINDEFINE {
		t.Errorf("redef twice: %v, want NC_EINDEFINE", st)
	}
	ok(t, lib.EndDef(ncid), "enddef")
	ok(t, lib.Close(ncid), "close")

	ncid, st = lib.Open("mode.nc", capi.NC_NOWRITE)
	ok(t, st, "reopen read-only")
	if st := lib.Redef(ncid); st != capi.NC_EPERM {
		t.Errorf("redef on read-only: %v, want NC_EPERM", st)
	}
	ok(t, lib.Close(ncid), "close")
}

func TestNameChecks(t *testing.T) {
	lib := New()
	ncid, st := lib.Create("names.nc", capi.NC_CLOBBER)
	ok(t, st, "create")
	if _, st := lib.DefDim(ncid, "°C", 1); st != capi.NC_EBADNAME {
		t.Errorf("bad name: %v, want NC_EBADNAME", st)
	}
	long := make([]byte, capi.MaxName+1)
	for i := range long {
		long[i] = 'a'
	}
	if _, st := lib.DefDim(ncid, string(long), 1); st != capi.NC_EMAXNAME {
		t.Errorf("long name: %v, want NC_EMAXNAME", st)
	}
	_, st = lib.DefDim(ncid, "lat", 2)
	ok(t, st, "def dim")
	if _, st := lib.DefDim(ncid, "lat", 4); st != capi.NC_ENAMEINUSE {
		t.Errorf("duplicate dim: %v, want NC_ENAMEINUSE", st)
	}
	if _, st := lib.DefVar(ncid, "v", capi.NC_NAT, nil); st != capi.NC_EBADTYPE {
		t.Errorf("NAT var: %v, want NC_EBADTYPE", st)
	}
	_, st = lib.DefVar(ncid, "v", capi.NC_INT, nil)
	ok(t, st, "def var")
	if _, st := lib.DefVar(ncid, "v", capi.NC_INT, nil); st != capi.NC_ENAMEINUSE {
		t.Errorf("duplicate var: %v, want NC_ENAMEINUSE", st)
	}
	ok(t, lib.Close(ncid), "close")
}

func TestUnlimited(t *testing.T) {
	lib := New()
	ncid, st := lib.Create("records.nc", capi.NC_CLOBBER)
	ok(t, st, "create")
	timeid, st := lib.DefDim(ncid, "time", capi.Unlimited)
	ok(t, st, "def time")
	if _, st := lib.DefDim(ncid, "more", capi.Unlimited); st != capi.NC_EUNLIMIT {
		t.Errorf("second unlimited: %v, want NC_EUNLIMIT", st)
	}
	xid, st := lib.DefDim(ncid, "x", 2)
	ok(t, st, "def x")
	if _, st := lib.DefVar(ncid, "bad", capi.NC_INT, []capi.DimID{xid, timeid}); st != capi.NC_EUNLIMPOS {
		t.Errorf("trailing unlimited: %v, want NC_EUNLIMPOS", st)
	}
	grid, st := lib.DefVar(ncid, "grid", capi.NC_INT, []capi.DimID{timeid, xid})
	ok(t, st, "def grid")
	lone, st := lib.DefVar(ncid, "lone", capi.NC_INT, []capi.DimID{timeid})
	ok(t, st, "def lone")
	ok(t, lib.EndDef(ncid), "enddef")

	unl, st := lib.InqUnlimDims(ncid)
	ok(t, st, "inq unlimdims")
	if !reflect.DeepEqual(unl, []capi.DimID{timeid}) {
		t.Errorf("unlimdims %v", unl)
	}

	// Reading before any record exists is out of bounds.
	if _, st := lib.GetVars(ncid, grid, []uint64{0, 0}, []uint64{1, 2}, []int64{1, 1}); st != capi.NC_EINVALCOORDS {
		t.Errorf("get of record 0 before writes: %v, want NC_EINVALCOORDS", st)
	}

	ok(t, lib.PutVars(ncid, grid, []uint64{0, 0}, []uint64{2, 2}, []int64{1, 1},
		[]int32{1, 2, 3, 4}), "put two records")
	_, length, st := lib.InqDim(ncid, timeid)
	ok(t, st, "inq dim")
	if length != 2 {
		t.Errorf("record count %d, want 2", length)
	}

	// A record variable that was never written reads back fill values.
	got, st := lib.GetVars(ncid, lone, []uint64{0}, []uint64{2}, []int64{1})
	ok(t, st, "get lagging record var")
	if !reflect.DeepEqual(got, []int32{-2147483647, -2147483647}) {
		t.Errorf("lagging records %v", got)
	}

	// Writing past the end extends; the gap fills.
	ok(t, lib.PutVars(ncid, grid, []uint64{3, 0}, []uint64{1, 2}, []int64{1, 1},
		[]int32{7, 8}), "put record 3")
	_, length, st = lib.InqDim(ncid, timeid)
	ok(t, st, "inq dim")
	if length != 4 {
		t.Errorf("record count %d, want 4", length)
	}
	got, st = lib.GetVars(ncid, grid, []uint64{2, 0}, []uint64{2, 2}, []int64{1, 1})
	ok(t, st, "get tail")
	if !reflect.DeepEqual(got, []int32{-2147483647, -2147483647, 7, 8}) {
		t.Errorf("tail %v", got)
	}
	ok(t, lib.Close(ncid), "close")
}

func TestBounds(t *testing.T) {
	lib := New()
	ncid, st := lib.Create("bounds.nc", capi.NC_CLOBBER)
	ok(t, st, "create")
	dimid, st := lib.DefDim(ncid, "x", 4)
	ok(t, st, "def dim")
	varid, st := lib.DefVar(ncid, "v", capi.NC_SHORT, []capi.DimID{dimid})
	ok(t, st, "def var")
	ok(t, lib.EndDef(ncid), "enddef")
	ok(t, lib.PutVars(ncid, varid, []uint64{0}, []uint64{4}, []int64{1},
		[]int16{10, 11, 12, 13}), "put")

	if _, st := lib.GetVars(ncid, varid, []uint64{5}, []uint64{1}, []int64{1}); st != capi.NC_EINVALCOORDS {
		t.Errorf("start out of range: %v, want NC_EINVALCOORDS", st)
	}
	if _, st := lib.GetVars(ncid, varid, []uint64{2}, []uint64{3}, []int64{1}); st != capi.NC_EEDGE {
		t.Errorf("start+count out of range: %v, want NC_EEDGE", st)
	}
	if _, st := lib.GetVars(ncid, varid, []uint64{0}, []uint64{2}, []int64{0}); st != capi.NC_ESTRIDE {
		t.Errorf("zero stride: %v, want NC_ESTRIDE", st)
	}
	got, st := lib.GetVars(ncid, varid, []uint64{1}, []uint64{2}, []int64{2})
	ok(t, st, "strided get")
	if !reflect.DeepEqual(got, []int16{11, 13}) {
		t.Errorf("strided %v", got)
	}
	if st := lib.PutVars(ncid, varid, []uint64{0}, []uint64{2}, []int64{1},
		[]int16{1}); st != capi.NC_EINVAL {
		t.Errorf("short buffer: %v, want NC_EINVAL", st)
	}
	if st := lib.PutVars(ncid, varid, []uint64{0}, []uint64{2}, []int64{1},
		[]float64{1, 2}); st != capi.NC_EBADTYPE {
		t.Errorf("wrong buffer type: %v, want NC_EBADTYPE", st)
	}
	ok(t, lib.Close(ncid), "close")
}

func TestAttributes(t *testing.T) {
	lib := New()
	ncid, st := lib.Create("atts.nc", capi.NC_CLOBBER)
	ok(t, st, "create")
	varid, st := lib.DefVar(ncid, "v", capi.NC_FLOAT, nil)
	ok(t, st, "def var")

	ok(t, lib.PutAtt(ncid, capi.Global, "title", capi.NC_CHAR, "surface analysis"), "put title")
	ok(t, lib.PutAtt(ncid, capi.Global, "version", capi.NC_INT, []int32{3}), "put version")
	ok(t, lib.PutAtt(ncid, varid, "units", capi.NC_CHAR, "kelvin"), "put units")
	ok(t, lib.PutAtt(ncid, varid, "valid_range", capi.NC_FLOAT, []float32{0, 400}), "put range")

	// Overwriting keeps the original position.
	ok(t, lib.PutAtt(ncid, capi.Global, "title", capi.NC_CHAR, "reanalysis"), "overwrite title")
	n, st := lib.InqNAtts(ncid, capi.Global)
	ok(t, st, "inq natts")
	if n != 2 {
		t.Errorf("natts %d, want 2", n)
	}
	name, st := lib.InqAttName(ncid, capi.Global, 0)
	ok(t, st, "inq att name")
	if name != "title" {
		t.Errorf("first attribute %q, want title", name)
	}
	val, tc, st := lib.GetAtt(ncid, capi.Global, "title")
	ok(t, st, "get title")
	if tc != capi.NC_CHAR || val != "reanalysis" {
		t.Errorf("title = %v (%v)", val, tc)
	}
	if _, _, st := lib.GetAtt(ncid, varid, "missing"); st != capi.NC_ENOTATT {
		t.Errorf("missing attribute: %v, want NC_ENOTATT", st)
	}
	if _, st := lib.InqAttName(ncid, varid, 5); st != capi.NC_ENOTATT {
		t.Errorf("attribute index out of range: %v, want NC_ENOTATT", st)
	}
	if st := lib.PutAtt(ncid, varid, "bad", capi.NC_INT, []float64{1}); st != capi.NC_EBADTYPE {
		t.Errorf("mismatched value: %v, want NC_EBADTYPE", st)
	}

	ok(t, lib.EndDef(ncid), "enddef")
	// In data mode an attribute may shrink in place but not grow, and no
	// new attribute may appear.
	ok(t, lib.PutAtt(ncid, varid, "units", capi.NC_CHAR, "K"), "shrink in data mode")
	if st := lib.PutAtt(ncid, varid, "units", capi.NC_CHAR, "degrees kelvin"); st != capi.NC_ENOTINDEFINE {
		t.Errorf("grow in data mode: %v, want NC_ENOTINDEFINE", st)
	}
	if st := lib.PutAtt(ncid, varid, "standard_name", capi.NC_CHAR, "t"); st != capi.NC_ENOTINDEFINE {
		t.Errorf("new attribute in data mode: %v, want NC_ENOTINDEFINE", st)
	}
	ok(t, lib.Close(ncid), "close")
}

func TestFillValueOverride(t *testing.T) {
	lib := New()
	ncid, st := lib.Create("fill.nc", capi.NC_CLOBBER)
	ok(t, st, "create")
	dimid, st := lib.DefDim(ncid, "x", 4)
	ok(t, st, "def dim")
	varid, st := lib.DefVar(ncid, "v", capi.NC_INT, []capi.DimID{dimid})
	ok(t, st, "def var")
	if st := lib.PutAtt(ncid, varid, "_FillValue", capi.NC_DOUBLE, []float64{-99}); st != capi.NC_EBADTYPE {
		t.Errorf("fill of the wrong type: %v, want NC_EBADTYPE", st)
	}
	if st := lib.PutAtt(ncid, varid, "_FillValue", capi.NC_INT, []int32{-99, -98}); st != capi.NC_EINVAL {
		t.Errorf("two-element fill: %v, want NC_EINVAL", st)
	}
	ok(t, lib.PutAtt(ncid, varid, "_FillValue", capi.NC_INT, []int32{-99}), "put fill")
	ok(t, lib.EndDef(ncid), "enddef")

	ok(t, lib.PutVars(ncid, varid, []uint64{2}, []uint64{2}, []int64{1}, []int32{7, 8}), "put tail")
	got, st := lib.GetVars(ncid, varid, []uint64{0}, []uint64{4}, []int64{1})
	ok(t, st, "get")
	if !reflect.DeepEqual(got, []int32{-99, -99, 7, 8}) {
		t.Errorf("got %v", got)
	}

	ok(t, lib.Redef(ncid), "redef")
	if st := lib.PutAtt(ncid, varid, "_FillValue", capi.NC_INT, []int32{-1}); st != capi.NC_ELATEFILL {
		t.Errorf("fill after data: %v, want NC_ELATEFILL", st)
	}
	ok(t, lib.EndDef(ncid), "enddef")
	ok(t, lib.Close(ncid), "close")
}

func TestGroups(t *testing.T) {
	lib := New()
	ncid, st := lib.Create("groups.nc", capi.NC_CLOBBER)
	ok(t, st, "create")
	latid, st := lib.DefDim(ncid, "lat", 3)
	ok(t, st, "def root dim")
	subid, st := lib.DefGrp(ncid, "forecast")
	ok(t, st, "def grp")
	if _, st := lib.DefGrp(ncid, "forecast"); st != capi.NC_ENAMEINUSE {
		t.Errorf("duplicate group: %v, want NC_ENAMEINUSE", st)
	}

	name, st := lib.InqGrpName(subid)
	ok(t, st, "grp name")
	if name != "forecast" {
		t.Errorf("group name %q", name)
	}
	rootName, st := lib.InqGrpName(ncid)
	ok(t, st, "root name")
	if rootName != "/" {
		t.Errorf("root name %q", rootName)
	}

	// Root dimensions are visible from the subgroup.
	found, st := lib.InqDimID(subid, "lat")
	ok(t, st, "upward dim lookup")
	if found != latid {
		t.Errorf("dim id %d, want %d", found, latid)
	}
	_, st = lib.DefVar(subid, "temp", capi.NC_FLOAT, []capi.DimID{latid})
	ok(t, st, "var over parent dim")

	kids, st := lib.InqGrps(ncid)
	ok(t, st, "inq grps")
	if !reflect.DeepEqual(kids, []capi.NcID{subid}) {
		t.Errorf("children %v", kids)
	}
	byName, st := lib.InqGrpNcid(ncid, "forecast")
	ok(t, st, "grp by name")
	if byName != subid {
		t.Errorf("ncid %d, want %d", byName, subid)
	}
	if _, st := lib.InqGrpNcid(ncid, "hindcast"); st != capi.NC_ENOGRP {
		t.Errorf("missing group: %v, want NC_ENOGRP", st)
	}

	if st := lib.Close(subid); st != capi.NC_EBADGRPID {
		t.Errorf("close of a group id: %v, want NC_EBADGRPID", st)
	}
	ok(t, lib.EndDef(ncid), "enddef")
	ok(t, lib.Close(ncid), "close")
	if _, st := lib.InqGrpName(subid); st != capi.NC_EBADID {
		t.Errorf("group id after close: %v, want NC_EBADID", st)
	}

	// Reopening registers the saved subtree under fresh ids.
	ncid, st = lib.Open("groups.nc", capi.NC_NOWRITE)
	ok(t, st, "reopen")
	kids, st = lib.InqGrps(ncid)
	ok(t, st, "inq grps after reopen")
	if len(kids) != 1 {
		t.Fatalf("children %v", kids)
	}
	name, st = lib.InqGrpName(kids[0])
	ok(t, st, "reopened grp name")
	if name != "forecast" {
		t.Errorf("group name %q", name)
	}
	ok(t, lib.Close(ncid), "close")
}

func TestStringsAndScalars(t *testing.T) {
	lib := New()
	ncid, st := lib.Create("strings.nc", capi.NC_CLOBBER)
	ok(t, st, "create")
	dimid, st := lib.DefDim(ncid, "n", 3)
	ok(t, st, "def dim")
	names, st := lib.DefVar(ncid, "names", capi.NC_STRING, []capi.DimID{dimid})
	ok(t, st, "def string var")
	scalar, st := lib.DefVar(ncid, "origin", capi.NC_DOUBLE, nil)
	ok(t, st, "def scalar")
	ok(t, lib.EndDef(ncid), "enddef")

	ok(t, lib.PutVars(ncid, names, []uint64{0}, []uint64{2}, []int64{1},
		[]string{"alpha", "beta"}), "put strings")
	got, st := lib.GetVars(ncid, names, []uint64{0}, []uint64{3}, []int64{1})
	ok(t, st, "get strings")
	if !reflect.DeepEqual(got, []string{"alpha", "beta", ""}) {
		t.Errorf("strings %v", got)
	}

	ok(t, lib.PutVars(ncid, scalar, nil, nil, nil, []float64{42}), "put scalar")
	sv, st := lib.GetVars(ncid, scalar, nil, nil, nil)
	ok(t, st, "get scalar")
	if !reflect.DeepEqual(sv, []float64{42}) {
		t.Errorf("scalar %v", sv)
	}
	ok(t, lib.Close(ncid), "close")
}
