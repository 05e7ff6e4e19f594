// Package ncwasm drives a WebAssembly build of the netCDF C library. The
// module bytes come from the caller; any wasm32/WASI build that exports the
// classic nc_* entry points and malloc/free will do.
//
// A Library is not safe for concurrent use. The netcdf package serializes
// every call through its process-wide guard; anyone else holding a Library
// must do the same.
package ncwasm

import (
	"context"
	"fmt"
	"syscall"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/netcdf-go/netcdf/capi"
	"github.com/netcdf-go/netcdf/internal"
)

var logger = internal.NewLogger()

// SetLogLevel sets the log level for this package and returns the previous
// value.
func SetLogLevel(level internal.LogLevel) internal.LogLevel {
	return logger.SetLogLevel(level)
}

// errTrap stands in when a call into the module fails outright rather than
// returning a status. Positive statuses are system errors.
const errTrap = capi.Status(syscall.EIO)

const (
	maxVarDims = 1024 // NC_MAX_VAR_DIMS
	ptrSize    = 4    // wasm32
)

// exportNames lists every entry point the library must export.
var exportNames = []string{
	"malloc",
	"free",
	"nc_open",
	"nc_create",
	"nc_close",
	"nc_redef",
	"nc_enddef",
	"nc_sync",
	"nc_def_grp",
	"nc_inq_grps",
	"nc_inq_grpname",
	"nc_inq_grp_ncid",
	"nc_def_dim",
	"nc_inq_dimids",
	"nc_inq_dim",
	"nc_inq_dimid",
	"nc_inq_unlimdims",
	"nc_def_var",
	"nc_inq_varids",
	"nc_inq_var",
	"nc_inq_varid",
	"nc_put_att",
	"nc_get_att",
	"nc_inq_att",
	"nc_inq_natts",
	"nc_inq_varnatts",
	"nc_inq_attname",
	"nc_get_vars",
	"nc_put_vars",
	"nc_get_vars_string",
	"nc_put_vars_string",
	"nc_free_string",
}

// Library hosts one instance of the wasm netCDF library and speaks the
// dispatch protocol over its linear memory.
type Library struct {
	ctx     context.Context
	runtime wazero.Runtime
	module  api.Module
	fns     map[string]api.Function
}

var _ capi.Dispatch = (*Library)(nil)

type config struct {
	dir string
}

// Option adjusts how the wasm module is instantiated.
type Option func(*config)

// WithDir mounts hostDir as the module's root directory, so dataset paths
// resolve against it. Without it the module sees no files at all and only
// diskless datasets work.
func WithDir(hostDir string) Option {
	return func(c *config) { c.dir = hostDir }
}

// New instantiates the module and resolves its exports. The context covers
// the lifetime of the instance, not just the construction.
func New(ctx context.Context, code []byte, options ...Option) (*Library, error) {
	var cfg config
	for _, o := range options {
		o(&cfg)
	}

	runtime := wazero.NewRuntime(ctx)
	wasi_snapshot_preview1.MustInstantiate(ctx, runtime)

	fsCfg := wazero.NewFSConfig()
	if cfg.dir != "" {
		fsCfg = fsCfg.WithDirMount(cfg.dir, "/")
	}
	modCfg := wazero.NewModuleConfig().
		WithFSConfig(fsCfg).
		WithStartFunctions("_initialize")

	module, err := runtime.InstantiateWithConfig(ctx, code, modCfg)
	if err != nil {
		_ = runtime.Close(ctx)
		return nil, fmt.Errorf("instantiating netcdf wasm module: %w", err)
	}

	l := &Library{
		ctx:     ctx,
		runtime: runtime,
		module:  module,
		fns:     make(map[string]api.Function, len(exportNames)),
	}
	var missing []string
	for _, name := range exportNames {
		fn := module.ExportedFunction(name)
		if fn == nil {
			missing = append(missing, name)
			continue
		}
		l.fns[name] = fn
	}
	if len(missing) > 0 {
		_ = runtime.Close(ctx)
		return nil, fmt.Errorf("wasm module is missing exports: %v", missing)
	}
	if module.Memory() == nil {
		_ = runtime.Close(ctx)
		return nil, fmt.Errorf("wasm module exports no memory")
	}
	return l, nil
}

// Shutdown tears down the wasm instance. Handles minted from this Library
// are unusable afterwards.
func (l *Library) Shutdown() error {
	return l.runtime.Close(l.ctx)
}

// status calls an nc_* function and interprets result[0] as its int return.
func (l *Library) status(name string, args ...uint64) capi.Status {
	results, err := l.fns[name].Call(l.ctx, args...)
	if err != nil {
		logger.Errorf("%s: %v", name, err)
		return errTrap
	}
	return capi.Status(int32(uint32(results[0])))
}

// alloc reserves n bytes of module memory. Zero-size requests still get a
// valid block so out-parameter pointers are never null.
func (l *Library) alloc(n uint64) (uint32, bool) {
	if n == 0 {
		n = 1
	}
	results, err := l.fns["malloc"].Call(l.ctx, n)
	if err != nil || uint32(results[0]) == 0 {
		logger.Errorf("malloc(%d) failed in module", n)
		return 0, false
	}
	return uint32(results[0]), true
}

func (l *Library) free(ptr uint32) {
	if ptr == 0 {
		return
	}
	_, _ = l.fns["free"].Call(l.ctx, uint64(ptr))
}

// bytesIn copies data into fresh module memory.
func (l *Library) bytesIn(data []byte) (uint32, bool) {
	ptr, ok := l.alloc(uint64(len(data)))
	if !ok {
		return 0, false
	}
	if !l.module.Memory().Write(ptr, data) {
		l.free(ptr)
		return 0, false
	}
	return ptr, true
}

// cstring copies s into module memory with a trailing NUL.
func (l *Library) cstring(s string) (uint32, bool) {
	buf := make([]byte, len(s)+1)
	copy(buf, s)
	return l.bytesIn(buf)
}

// readCString reads a NUL-terminated string out of a buffer of at most max
// bytes.
func (l *Library) readCString(ptr, max uint32) (string, bool) {
	mem := l.module.Memory()
	if size := mem.Size(); ptr >= size {
		return "", false
	} else if max > size-ptr {
		max = size - ptr
	}
	raw, ok := mem.Read(ptr, max)
	if !ok {
		return "", false
	}
	for i, b := range raw {
		if b == 0 {
			return string(raw[:i]), true
		}
	}
	return string(raw), true
}

// readU32 reads one little-endian uint32 out parameter.
func (l *Library) readU32(ptr uint32) (uint32, bool) {
	return l.module.Memory().ReadUint32Le(ptr)
}

// readU32s reads n consecutive uint32 values.
func (l *Library) readU32s(ptr uint32, n int) ([]uint32, bool) {
	out := make([]uint32, n)
	for i := range out {
		v, ok := l.module.Memory().ReadUint32Le(ptr + uint32(i)*4)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// writeU32s writes values as consecutive little-endian uint32s.
func (l *Library) writeU32s(ptr uint32, values []uint32) bool {
	for i, v := range values {
		if !l.module.Memory().WriteUint32Le(ptr+uint32(i)*4, v) {
			return false
		}
	}
	return true
}

// sizeArray copies values into module memory as a size_t array (uint32 on
// wasm32).
func (l *Library) sizeArray(values []uint64) (uint32, bool) {
	u := make([]uint32, len(values))
	for i, v := range values {
		u[i] = uint32(v)
	}
	ptr, ok := l.alloc(uint64(len(u)) * ptrSize)
	if !ok {
		return 0, false
	}
	if !l.writeU32s(ptr, u) {
		l.free(ptr)
		return 0, false
	}
	return ptr, true
}

// strideArray copies values into module memory as a ptrdiff_t array.
func (l *Library) strideArray(values []int64) (uint32, bool) {
	u := make([]uint32, len(values))
	for i, v := range values {
		u[i] = uint32(int32(v))
	}
	ptr, ok := l.alloc(uint64(len(u)) * ptrSize)
	if !ok {
		return 0, false
	}
	if !l.writeU32s(ptr, u) {
		l.free(ptr)
		return 0, false
	}
	return ptr, true
}
