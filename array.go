package netcdf

import (
	"github.com/netcdf-go/netcdf/internal"
)

// Array couples a flat row-major buffer with the shape it was read as.
type Array[T Element] struct {
	shape []uint64
	mults []uint64
	data  []T
}

func newArray[T Element](shape []uint64, data []T) *Array[T] {
	return &Array[T]{
		shape: shape,
		mults: internal.RowMajorMults(shape),
		data:  data,
	}
}

// Shape returns a copy of the array's extents, one per dimension.
func (a *Array[T]) Shape() []uint64 {
	out := make([]uint64, len(a.shape))
	copy(out, a.shape)
	return out
}

// Rank returns the number of dimensions.
func (a *Array[T]) Rank() int {
	return len(a.shape)
}

// Len returns the total number of elements.
func (a *Array[T]) Len() int {
	return len(a.data)
}

// Data returns the backing slice, row-major with the last dimension
// fastest. It is not a copy.
func (a *Array[T]) Data() []T {
	return a.data
}

// At returns the element at the given index, one coordinate per dimension.
// Like a slice access, it panics when the coordinates do not fit the shape.
func (a *Array[T]) At(index ...int) T {
	return a.data[a.offset(index)]
}

// SetAt stores v at the given index. The change stays local until the
// backing slice is written out with PutValues.
func (a *Array[T]) SetAt(v T, index ...int) {
	a.data[a.offset(index)] = v
}

func (a *Array[T]) offset(index []int) uint64 {
	if len(index) != len(a.shape) {
		panic("netcdf: index rank does not match array rank")
	}
	var off uint64
	for i, x := range index {
		if x < 0 || uint64(x) >= a.shape[i] {
			panic("netcdf: index out of range")
		}
		off += uint64(x) * a.mults[i]
	}
	return off
}
