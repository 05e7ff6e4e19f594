package netcdf

import (
	"sync/atomic"

	"github.com/netcdf-go/netcdf/capi"
)

// dataset is the state shared by a File and every handle derived from it.
// Handles carry ids, never library pointers; live and defining are the only
// mutable binding state.
type dataset struct {
	lib      capi.Dispatch
	ncid     capi.NcID // the root id, the one Close takes
	path     string
	mode     FileMode
	live     atomic.Bool
	defining atomic.Bool
}

func (ds *dataset) writable() bool {
	return ds.mode != ModeReadOnly
}

// exec runs op under the process-wide guard, provided the dataset is still
// open. The liveness check happens inside the critical section, so an
// operation can never interleave with a concurrent Close.
func (ds *dataset) exec(op func(lib capi.Dispatch) capi.Status) error {
	guard.Lock()
	defer guard.Unlock()
	if !ds.live.Load() {
		return ErrStaleHandle
	}
	return statusError(op(ds.lib))
}
