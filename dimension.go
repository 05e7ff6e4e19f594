package netcdf

import "github.com/netcdf-go/netcdf/capi"

// Dimension is a handle to one dimension. Like every handle it holds no
// state of its own; each query goes back to the library.
type Dimension struct {
	ds   *dataset
	ncid capi.NcID
	id   capi.DimID
}

func (d *Dimension) Name() (name string, err error) {
	err = d.ds.exec(func(lib capi.Dispatch) capi.Status {
		var st capi.Status
		name, _, st = lib.InqDim(d.ncid, d.id)
		return st
	})
	return name, err
}

// Len returns the dimension's current length. For the record dimension that
// is the number of records written so far, re-read on every call.
func (d *Dimension) Len() (length uint64, err error) {
	err = d.ds.exec(func(lib capi.Dispatch) capi.Status {
		var st capi.Status
		_, length, st = lib.InqDim(d.ncid, d.id)
		return st
	})
	return length, err
}

func (d *Dimension) IsUnlimited() (unlimited bool, err error) {
	err = d.ds.exec(func(lib capi.Dispatch) capi.Status {
		ids, st := lib.InqUnlimDims(d.ncid)
		if !st.OK() {
			return st
		}
		for _, id := range ids {
			if id == d.id {
				unlimited = true
			}
		}
		return capi.NC_NOERR
	})
	return unlimited, err
}
