package netcdf

import "sync"

// guard serializes every native call in the process. The library behind the
// Dispatch interface keeps global state, so one lock covers all files, all
// engines, all goroutines. Nothing here is reentrant: code already holding
// the guard must not call back into the public API.
var guard sync.Mutex
