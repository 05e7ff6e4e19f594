package netcdf

import (
	"fmt"
	"iter"

	"github.com/batchatco/go-thrower"

	"github.com/netcdf-go/netcdf/capi"
)

// Group is a handle to one group of an open dataset. Groups nest; the root
// group comes embedded in the File. A Group stays usable until its File
// closes.
type Group struct {
	ds   *dataset
	ncid capi.NcID
}

// Name returns the group's simple name. The root group is "/".
func (g *Group) Name() (name string, err error) {
	err = g.ds.exec(func(lib capi.Dispatch) capi.Status {
		var st capi.Status
		name, st = lib.InqGrpName(g.ncid)
		return st
	})
	return name, err
}

// Group looks up an immediate child group by name.
func (g *Group) Group(name string) (sub *Group, err error) {
	err = g.ds.exec(func(lib capi.Dispatch) capi.Status {
		id, st := lib.InqGrpNcid(g.ncid, name)
		if !st.OK() {
			return st
		}
		sub = &Group{ds: g.ds, ncid: id}
		return capi.NC_NOERR
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// AddGroup creates a child group. The file must be in define mode.
func (g *Group) AddGroup(name string) (sub *Group, err error) {
	err = g.ds.exec(func(lib capi.Dispatch) capi.Status {
		id, st := lib.DefGrp(g.ncid, name)
		if !st.OK() {
			return st
		}
		sub = &Group{ds: g.ds, ncid: id}
		return capi.NC_NOERR
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// Groups iterates over the immediate child groups. The set is fixed when
// iteration begins; a failure arrives as the single pair (nil, err).
func (g *Group) Groups() iter.Seq2[*Group, error] {
	return func(yield func(*Group, error) bool) {
		var ids []capi.NcID
		err := g.ds.exec(func(lib capi.Dispatch) capi.Status {
			var st capi.Status
			ids, st = lib.InqGrps(g.ncid)
			return st
		})
		if err != nil {
			yield(nil, err)
			return
		}
		for _, id := range ids {
			if !yield(&Group{ds: g.ds, ncid: id}, nil) {
				return
			}
		}
	}
}

// Dimension looks up a dimension by name, searching this group and then its
// ancestors, the way variable definitions resolve dimension names.
func (g *Group) Dimension(name string) (dim *Dimension, err error) {
	err = g.ds.exec(func(lib capi.Dispatch) capi.Status {
		id, st := lib.InqDimID(g.ncid, name)
		if !st.OK() {
			return st
		}
		dim = &Dimension{ds: g.ds, ncid: g.ncid, id: id}
		return capi.NC_NOERR
	})
	if err != nil {
		return nil, err
	}
	return dim, nil
}

// Dimensions iterates over the dimensions defined in this group itself.
func (g *Group) Dimensions() iter.Seq2[*Dimension, error] {
	return func(yield func(*Dimension, error) bool) {
		var ids []capi.DimID
		err := g.ds.exec(func(lib capi.Dispatch) capi.Status {
			var st capi.Status
			ids, st = lib.InqDimIDs(g.ncid, false)
			return st
		})
		if err != nil {
			yield(nil, err)
			return
		}
		for _, id := range ids {
			if !yield(&Dimension{ds: g.ds, ncid: g.ncid, id: id}, nil) {
				return
			}
		}
	}
}

// AddDimension defines a fixed-size dimension in this group.
func (g *Group) AddDimension(name string, length uint64) (*Dimension, error) {
	return g.addDim(name, length)
}

// AddUnlimitedDimension defines the record dimension. Its length grows as
// records are written. A variable may use it only as its first dimension.
func (g *Group) AddUnlimitedDimension(name string) (*Dimension, error) {
	return g.addDim(name, capi.Unlimited)
}

func (g *Group) addDim(name string, length uint64) (dim *Dimension, err error) {
	err = g.ds.exec(func(lib capi.Dispatch) capi.Status {
		id, st := lib.DefDim(g.ncid, name, length)
		if !st.OK() {
			return st
		}
		dim = &Dimension{ds: g.ds, ncid: g.ncid, id: id}
		return capi.NC_NOERR
	})
	if err != nil {
		return nil, err
	}
	return dim, nil
}

// Variable looks up a variable in this group by name.
func (g *Group) Variable(name string) (v *Variable, err error) {
	err = g.ds.exec(func(lib capi.Dispatch) capi.Status {
		id, st := lib.InqVarID(g.ncid, name)
		if !st.OK() {
			return st
		}
		v = &Variable{ds: g.ds, ncid: g.ncid, id: id}
		return capi.NC_NOERR
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Variables iterates over the variables in this group.
func (g *Group) Variables() iter.Seq2[*Variable, error] {
	return func(yield func(*Variable, error) bool) {
		var ids []capi.VarID
		err := g.ds.exec(func(lib capi.Dispatch) capi.Status {
			var st capi.Status
			ids, st = lib.InqVarIDs(g.ncid)
			return st
		})
		if err != nil {
			yield(nil, err)
			return
		}
		for _, id := range ids {
			if !yield(&Variable{ds: g.ds, ncid: g.ncid, id: id}, nil) {
				return
			}
		}
	}
}

// AddVariable defines a variable over named dimensions. Each name resolves
// in this group or the nearest ancestor that defines it.
func (g *Group) AddVariable(name string, t Type, dims []string) (v *Variable, err error) {
	defer thrower.RecoverError(&err)
	err = g.ds.exec(func(lib capi.Dispatch) capi.Status {
		ids := make([]capi.DimID, len(dims))
		for i, dimName := range dims {
			id, st := lib.InqDimID(g.ncid, dimName)
			check(st)
			ids[i] = id
		}
		vid, st := lib.DefVar(g.ncid, name, capi.TypeCode(t), ids)
		check(st)
		v = &Variable{ds: g.ds, ncid: g.ncid, id: vid}
		return capi.NC_NOERR
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// AddVariableDims defines a variable over dimension handles, usually ones
// AddDimension just returned. No dimensions makes a scalar.
func (g *Group) AddVariableDims(name string, t Type, dims ...*Dimension) (v *Variable, err error) {
	ids := make([]capi.DimID, len(dims))
	for i, d := range dims {
		if d.ds != g.ds {
			return nil, fmt.Errorf("%w: dimension %d belongs to another file", ErrNameNotFound, i)
		}
		ids[i] = d.id
	}
	err = g.ds.exec(func(lib capi.Dispatch) capi.Status {
		vid, st := lib.DefVar(g.ncid, name, capi.TypeCode(t), ids)
		if !st.OK() {
			return st
		}
		v = &Variable{ds: g.ds, ncid: g.ncid, id: vid}
		return capi.NC_NOERR
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Attribute looks up one of the group's own attributes.
func (g *Group) Attribute(name string) (*Attribute, error) {
	return attrByName(g.ds, g.ncid, capi.Global, name)
}

// Attributes iterates over the group's attributes in definition order.
func (g *Group) Attributes() iter.Seq2[*Attribute, error] {
	return attrSeq(g.ds, g.ncid, capi.Global)
}

// AddAttribute attaches an attribute to the group itself. The type comes
// from the value: string becomes text, sized numerics and their slices map
// to the matching external type.
func (g *Group) AddAttribute(name string, value any) error {
	return putAttr(g.ds, g.ncid, capi.Global, name, value)
}
