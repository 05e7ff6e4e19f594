package internal

// Hyperslab arithmetic shared by the binding and the in-memory engine. A
// hyperslab is the (start, count, stride) selection the nc_get_vars family
// takes, applied to a row-major array whose last dimension varies fastest.

// SlabLen returns the number of elements a hyperslab selects.
func SlabLen(count []uint64) uint64 {
	n := uint64(1)
	for _, c := range count {
		n *= c
	}
	return n
}

// RowMajorMults returns the flat-offset multiplier of each dimension of a
// row-major array with the given extents.
func RowMajorMults(shape []uint64) []uint64 {
	mults := make([]uint64, len(shape))
	m := uint64(1)
	for i := len(shape) - 1; i >= 0; i-- {
		mults[i] = m
		m *= shape[i]
	}
	return mults
}

// Odometer enumerates the flat offsets a hyperslab selects, in slab order.
// Offsets come out as contiguous runs so a unit-stride inner dimension moves
// with one copy. A rank-0 slab yields a single run of one element.
type Odometer struct {
	start  []uint64
	count  []uint64
	stride []int64
	mults  []uint64
	pos    []uint64 // slab coordinates of the next run
	run    uint64   // elements per run
	done   bool
}

// NewOdometer prepares a traversal of the slab over an array with the given
// extents. Strides must be positive and the slab must lie within the extents;
// callers validate both.
func NewOdometer(start, count []uint64, stride []int64, shape []uint64) *Odometer {
	o := &Odometer{
		start:  start,
		count:  count,
		stride: stride,
		mults:  RowMajorMults(shape),
		pos:    make([]uint64, len(shape)),
		run:    1,
	}
	last := len(shape) - 1
	if last >= 0 && stride[last] == 1 {
		o.run = count[last]
	}
	for _, c := range count {
		if c == 0 {
			o.done = true
		}
	}
	return o
}

// Next returns the flat offset and length of the next contiguous run. It
// returns ok=false once the slab is exhausted.
func (o *Odometer) Next() (offset, n uint64, ok bool) {
	if o.done {
		return 0, 0, false
	}
	for i := range o.pos {
		offset += (o.start[i] + o.pos[i]*uint64(o.stride[i])) * o.mults[i]
	}
	n = o.run
	i := len(o.pos) - 1
	if o.run > 1 {
		i-- // the run consumed the whole inner dimension
	}
	for ; i >= 0; i-- {
		o.pos[i]++
		if o.pos[i] < o.count[i] {
			break
		}
		o.pos[i] = 0
	}
	if i < 0 {
		o.done = true
	}
	return offset, n, true
}
