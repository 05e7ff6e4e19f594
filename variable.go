package netcdf

import (
	"iter"

	"github.com/batchatco/go-thrower"

	"github.com/netcdf-go/netcdf/capi"
)

// Variable is a handle to one variable. Data moves through Values and Put,
// or through the typed GetValues, PutValues and GetArray functions.
type Variable struct {
	ds   *dataset
	ncid capi.NcID
	id   capi.VarID
}

func (v *Variable) Name() (name string, err error) {
	err = v.ds.exec(func(lib capi.Dispatch) capi.Status {
		var st capi.Status
		name, _, _, _, st = lib.InqVar(v.ncid, v.id)
		return st
	})
	return name, err
}

func (v *Variable) Type() (t Type, err error) {
	err = v.ds.exec(func(lib capi.Dispatch) capi.Status {
		_, tc, _, _, st := lib.InqVar(v.ncid, v.id)
		t = Type(tc)
		return st
	})
	return t, err
}

// Rank returns the number of dimensions. Scalars have rank zero.
func (v *Variable) Rank() (rank int, err error) {
	err = v.ds.exec(func(lib capi.Dispatch) capi.Status {
		_, _, dims, _, st := lib.InqVar(v.ncid, v.id)
		rank = len(dims)
		return st
	})
	return rank, err
}

// Shape returns the current extent of each dimension. The leading extent of
// a record variable is the record count at the time of the call.
func (v *Variable) Shape() (shape []uint64, err error) {
	defer thrower.RecoverError(&err)
	err = v.ds.exec(func(lib capi.Dispatch) capi.Status {
		_, _, dims, _, st := lib.InqVar(v.ncid, v.id)
		check(st)
		shape = make([]uint64, len(dims))
		for i, id := range dims {
			_, length, st := lib.InqDim(v.ncid, id)
			check(st)
			shape[i] = length
		}
		return capi.NC_NOERR
	})
	if err != nil {
		return nil, err
	}
	return shape, nil
}

// Len returns the total number of elements at the variable's current shape.
func (v *Variable) Len() (uint64, error) {
	shape, err := v.Shape()
	if err != nil {
		return 0, err
	}
	n := uint64(1)
	for _, e := range shape {
		n *= e
	}
	return n, nil
}

// Dimensions returns handles to the variable's dimensions, in order.
func (v *Variable) Dimensions() (dims []*Dimension, err error) {
	err = v.ds.exec(func(lib capi.Dispatch) capi.Status {
		_, _, ids, _, st := lib.InqVar(v.ncid, v.id)
		if !st.OK() {
			return st
		}
		dims = make([]*Dimension, len(ids))
		for i, id := range ids {
			dims[i] = &Dimension{ds: v.ds, ncid: v.ncid, id: id}
		}
		return capi.NC_NOERR
	})
	if err != nil {
		return nil, err
	}
	return dims, nil
}

// Attribute looks up one of the variable's attributes by name.
func (v *Variable) Attribute(name string) (*Attribute, error) {
	return attrByName(v.ds, v.ncid, v.id, name)
}

// Attributes iterates over the variable's attributes in definition order.
func (v *Variable) Attributes() iter.Seq2[*Attribute, error] {
	return attrSeq(v.ds, v.ncid, v.id)
}

// AddAttribute attaches an attribute, inferring the external type from the
// value the way Group.AddAttribute does.
func (v *Variable) AddAttribute(name string, value any) error {
	return putAttr(v.ds, v.ncid, v.id, name, value)
}
