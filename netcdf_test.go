package netcdf

import (
	"errors"
	"testing"

	"github.com/netcdf-go/netcdf/capi"
	"github.com/netcdf-go/netcdf/memio"
)

func ok(t *testing.T, err error, what string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", what, err)
	}
}

func wants(t *testing.T, err error, sentinel error, what string) {
	t.Helper()
	if !errors.Is(err, sentinel) {
		t.Fatalf("%s: got %v, want %v", what, err, sentinel)
	}
}

func mustCreate(t *testing.T, lib capi.Dispatch, path string) *File {
	t.Helper()
	f, err := Create(path, WithLibrary(lib))
	if err != nil {
		t.Fatalf("Create %s: %v", path, err)
	}
	return f
}

func TestLifecycle(t *testing.T) {
	lib := memio.New()
	f := mustCreate(t, lib, "lifecycle.nc")
	if f.Path() != "lifecycle.nc" {
		t.Errorf("Path: got %q", f.Path())
	}
	if f.Mode() != ModeCreate {
		t.Errorf("Mode: got %v, want %v", f.Mode(), ModeCreate)
	}
	if !f.Writable() {
		t.Error("created file should be writable")
	}
	if !f.InDefineMode() {
		t.Error("new file should start in define mode")
	}

	_, err := f.AddDimension("x", 3)
	ok(t, err, "AddDimension")
	v, err := f.AddVariable("v", Int, []string{"x"})
	ok(t, err, "AddVariable")
	ok(t, f.EndDef(), "EndDef")
	if f.InDefineMode() {
		t.Error("still in define mode after EndDef")
	}

	ok(t, PutValues(v, []int32{1, 2, 3}), "PutValues")
	ok(t, f.Sync(), "Sync")
	got, err := GetValues[int32](v)
	ok(t, err, "GetValues")
	if len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Errorf("GetValues: got %v", got)
	}
	ok(t, f.Close(), "Close")

	// The dataset outlives the handle.
	f2, err := Open("lifecycle.nc", WithLibrary(lib))
	ok(t, err, "Open")
	if f2.Mode() != ModeReadOnly {
		t.Errorf("Mode: got %v, want %v", f2.Mode(), ModeReadOnly)
	}
	v2, err := f2.Variable("v")
	ok(t, err, "Variable")
	got, err = GetValues[int32](v2)
	ok(t, err, "GetValues after reopen")
	if len(got) != 3 || got[1] != 2 {
		t.Errorf("GetValues after reopen: got %v", got)
	}
	ok(t, f2.Close(), "Close reopened")
}

func TestCloseMakesHandlesStale(t *testing.T) {
	lib := memio.New()
	f := mustCreate(t, lib, "stale.nc")
	dim, err := f.AddDimension("x", 2)
	ok(t, err, "AddDimension")
	v, err := f.AddVariable("v", Double, []string{"x"})
	ok(t, err, "AddVariable")
	ok(t, f.AddAttribute("title", "gone soon"), "AddAttribute")
	att, err := f.Attribute("title")
	ok(t, err, "Attribute")
	sub, err := f.AddGroup("g")
	ok(t, err, "AddGroup")

	ok(t, f.Close(), "Close")
	wants(t, f.Close(), ErrStaleHandle, "second Close")

	if _, err := dim.Len(); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("Dimension.Len after close: %v", err)
	}
	if _, err := GetValues[float64](v); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("GetValues after close: %v", err)
	}
	if _, err := att.Value(); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("Attribute.Value after close: %v", err)
	}
	if _, err := sub.Name(); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("Group.Name after close: %v", err)
	}
	wants(t, f.Redef(), ErrStaleHandle, "Redef after close")

	// Reopening mints new handles; the old ones stay dead.
	f2, err := Append("stale.nc", WithLibrary(lib))
	ok(t, err, "Append")
	if f2.Mode() != ModeAppend {
		t.Errorf("Mode: got %v, want %v", f2.Mode(), ModeAppend)
	}
	if _, err := dim.Len(); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("old handle revived by reopen: %v", err)
	}
	d2, err := f2.Dimension("x")
	ok(t, err, "Dimension")
	if n, err := d2.Len(); err != nil || n != 2 {
		t.Errorf("Len: got %d, %v", n, err)
	}
	ok(t, f2.Close(), "Close")
}

func TestModeViolations(t *testing.T) {
	lib := memio.New()
	f := mustCreate(t, lib, "modes.nc")
	_, err := f.AddDimension("x", 2)
	ok(t, err, "AddDimension")
	v, err := f.AddVariable("v", Int, []string{"x"})
	ok(t, err, "AddVariable")

	if _, err := GetValues[int32](v); !errors.Is(err, ErrModeViolation) {
		t.Errorf("read in define mode: %v", err)
	}
	wants(t, f.Sync(), ErrModeViolation, "Sync in define mode")

	ok(t, f.EndDef(), "EndDef")
	wants(t, f.EndDef(), ErrModeViolation, "second EndDef")
	if _, err := f.AddDimension("y", 2); !errors.Is(err, ErrModeViolation) {
		t.Errorf("AddDimension in data mode: %v", err)
	}

	ok(t, f.Redef(), "Redef")
	wants(t, f.Redef(), ErrModeViolation, "second Redef")
	ok(t, f.EndDef(), "EndDef after Redef")
	ok(t, f.Close(), "Close")

	// Read-only files reject definition and data writes alike.
	ro, err := Open("modes.nc", WithLibrary(lib))
	ok(t, err, "Open")
	wants(t, ro.Redef(), ErrModeViolation, "Redef read-only")
	rv, err := ro.Variable("v")
	ok(t, err, "Variable")
	wants(t, PutValues(rv, []int32{9, 9}), ErrModeViolation, "PutValues read-only")
	ok(t, ro.Close(), "Close")
}

func TestNameErrors(t *testing.T) {
	lib := memio.New()
	f := mustCreate(t, lib, "names.nc")
	_, err := f.AddDimension("x", 2)
	ok(t, err, "AddDimension")

	if _, err := f.AddDimension("x", 3); !errors.Is(err, ErrNameExists) {
		t.Errorf("duplicate dimension: %v", err)
	}
	if _, err := f.Dimension("y"); !errors.Is(err, ErrNameNotFound) {
		t.Errorf("missing dimension: %v", err)
	}
	if _, err := f.Variable("v"); !errors.Is(err, ErrNameNotFound) {
		t.Errorf("missing variable: %v", err)
	}
	if _, err := f.Attribute("a"); !errors.Is(err, ErrNameNotFound) {
		t.Errorf("missing attribute: %v", err)
	}
	if _, err := f.Group.Group("g"); !errors.Is(err, ErrNameNotFound) {
		t.Errorf("missing group: %v", err)
	}

	// Name syntax failures carry only the native code.
	_, err = f.AddDimension("°C", 4)
	if err == nil {
		t.Fatal("bad name accepted")
	}
	var native *NativeError
	if !errors.As(err, &native) || native.Code != capi.NC_EBADNAME {
		t.Errorf("bad name: got %v, want NC_EBADNAME", err)
	}
	for _, sentinel := range []error{ErrStaleHandle, ErrModeViolation, ErrNameExists,
		ErrNameNotFound, ErrOutOfBounds, ErrTypeMismatch} {
		if errors.Is(err, sentinel) {
			t.Errorf("bad name classified as %v", sentinel)
		}
	}
	ok(t, f.Close(), "Close")

	if _, err := Create("names.nc", WithLibrary(lib), WithNoClobber()); !errors.Is(err, ErrNameExists) {
		t.Errorf("NoClobber over existing: %v", err)
	}
}

func TestNativeErrorCode(t *testing.T) {
	lib := memio.New()
	f := mustCreate(t, lib, "codes.nc")
	ok(t, f.EndDef(), "EndDef")
	err := f.EndDef()
	wants(t, err, ErrModeViolation, "second EndDef")
	var native *NativeError
	if !errors.As(err, &native) {
		t.Fatalf("no NativeError in %v", err)
	}
	if native.Code != capi.NC_ENOTINDEFINE {
		t.Errorf("code: got %d, want %d", native.Code, capi.NC_ENOTINDEFINE)
	}
	if native.Error() != capi.Strerror(capi.NC_ENOTINDEFINE) {
		t.Errorf("message: got %q", native.Error())
	}
	ok(t, f.Close(), "Close")
}

func TestOpenMissing(t *testing.T) {
	_, err := Open("no-such-file.nc", WithLibrary(memio.New()))
	if err == nil {
		t.Fatal("open of missing file succeeded")
	}
	var native *NativeError
	if !errors.As(err, &native) || native.Code <= 0 {
		t.Errorf("missing file: got %v, want a system error", err)
	}
}

func TestSetLibrary(t *testing.T) {
	old := Library()
	defer SetLibrary(old)

	lib := memio.New()
	SetLibrary(lib)
	if Library() != lib {
		t.Fatal("Library did not return the engine just set")
	}
	f, err := Create("default-engine.nc")
	ok(t, err, "Create")
	ok(t, f.Close(), "Close")
	// The file landed in lib, not in the previous default.
	f, err = Open("default-engine.nc", WithLibrary(lib))
	ok(t, err, "Open")
	ok(t, f.Close(), "Close")
	if _, err := Open("default-engine.nc", WithLibrary(old)); err == nil {
		t.Error("file visible through the previous engine")
	}
}
