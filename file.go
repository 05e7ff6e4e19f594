package netcdf

import "github.com/netcdf-go/netcdf/capi"

// File is an open dataset. It embeds the root group, so dimensions,
// variables and attributes at the top level are reached directly on the
// File.
type File struct {
	*Group
}

// Path returns the path the file was opened under.
func (f *File) Path() string {
	return f.ds.path
}

// Mode says how the file was opened.
func (f *File) Mode() FileMode {
	return f.ds.mode
}

// Writable reports whether the file accepts definitions and writes.
func (f *File) Writable() bool {
	return f.ds.writable()
}

// InDefineMode reports the binding's view of the define sub-state. It is a
// snapshot; another goroutine may move the file between modes at any time.
func (f *File) InDefineMode() bool {
	return f.ds.defining.Load()
}

// Redef puts the file back in define mode so new definitions can be added.
func (f *File) Redef() error {
	err := f.ds.exec(func(lib capi.Dispatch) capi.Status {
		return lib.Redef(f.ds.ncid)
	})
	if err == nil {
		f.ds.defining.Store(true)
	}
	return err
}

// EndDef commits pending definitions and enters data mode.
func (f *File) EndDef() error {
	err := f.ds.exec(func(lib capi.Dispatch) capi.Status {
		return lib.EndDef(f.ds.ncid)
	})
	if err == nil {
		f.ds.defining.Store(false)
	}
	return err
}

// Sync flushes buffered writes to storage.
func (f *File) Sync() error {
	return f.ds.exec(func(lib capi.Dispatch) capi.Status {
		return lib.Sync(f.ds.ncid)
	})
}

// Close releases the file. Every handle into it goes stale at once; a
// second Close reports ErrStaleHandle like any other use. The handle is
// dead after Close whether or not the library reported trouble.
func (f *File) Close() error {
	guard.Lock()
	defer guard.Unlock()
	if !f.ds.live.CompareAndSwap(true, false) {
		return ErrStaleHandle
	}
	f.ds.defining.Store(false)
	if st := f.ds.lib.Close(f.ds.ncid); !st.OK() {
		logger.Warnf("close of %s: %s", f.ds.path, capi.Strerror(st))
		return statusError(st)
	}
	return nil
}
