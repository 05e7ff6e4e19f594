// Package netcdf reads and writes netCDF datasets through a native-style
// library while making the whole surface safe for concurrent use from any
// number of goroutines.
//
// The native call surface (see the capi subpackage) keeps global state and
// is not thread safe, so every call the binding makes runs under one
// process-wide lock. Callers never see the lock; they see ordinary
// methods on File, Group, Dimension, Variable and Attribute handles. The
// handles themselves hold only integer ids plus a liveness flag, never
// pointers into the library, so a handle used after its file closes fails
// cleanly with ErrStaleHandle instead of corrupting anything.
//
// Data moves through typed bulk transfers:
//
//	f, err := netcdf.Create("ocean.nc")
//	...
//	dim, err := f.AddDimension("depth", 50)
//	v, err := f.AddVariable("salinity", netcdf.Double, []string{"depth"})
//	err = f.EndDef()
//	err = netcdf.PutValues(v, salinities)
//	vals, err := netcdf.GetValues[float64](v, netcdf.Slab{Start: 10, Count: 5})
//
// Element types convert only when the conversion is lossless for every
// possible value; anything else fails with ErrTypeMismatch before the
// library is called.
//
// Engines plug in behind the capi.Dispatch interface. The default engine
// (the memio subpackage) keeps datasets in process memory; the ncwasm
// subpackage runs a real libnetcdf compiled to WebAssembly. SetLibrary and
// WithLibrary choose between them.
package netcdf
