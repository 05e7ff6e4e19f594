package netcdf

import (
	"github.com/netcdf-go/netcdf/capi"
	"github.com/netcdf-go/netcdf/internal"
	"github.com/netcdf-go/netcdf/memio"
)

var logger = internal.NewLogger()

// LogLevel selects how much the netcdf packages print to stderr.
type LogLevel = internal.LogLevel

const (
	LevelError = internal.LevelError
	LevelWarn  = internal.LevelWarn
	LevelInfo  = internal.LevelInfo
)

// SetLogLevel sets the level for this package and the default engine, and
// returns the previous level.
func SetLogLevel(level LogLevel) LogLevel {
	memio.SetLogLevel(level)
	return logger.SetLogLevel(level)
}

// library is the engine new opens go through. The in-memory engine is the
// default; SetLibrary swaps in another, such as an ncwasm instance.
var library capi.Dispatch = memio.New()

// SetLibrary routes subsequent opens through lib. Files already open keep
// the engine they started with.
func SetLibrary(lib capi.Dispatch) {
	guard.Lock()
	defer guard.Unlock()
	library = lib
}

// Library returns the engine new opens currently use.
func Library() capi.Dispatch {
	guard.Lock()
	defer guard.Unlock()
	return library
}

type config struct {
	lib       capi.Dispatch
	noClobber bool
	diskless  bool
	share     bool
}

// Option adjusts how a file is opened or created.
type Option func(*config)

// WithLibrary opens the file through lib instead of the process default.
func WithLibrary(lib capi.Dispatch) Option {
	return func(c *config) { c.lib = lib }
}

// WithNoClobber makes Create fail with ErrNameExists rather than replace an
// existing dataset.
func WithNoClobber() Option {
	return func(c *config) { c.noClobber = true }
}

// WithDiskless keeps the dataset in memory, never touching storage.
func WithDiskless() Option {
	return func(c *config) { c.diskless = true }
}

// WithShare opens the file with share semantics: writes reach storage
// without buffering delays.
func WithShare() Option {
	return func(c *config) { c.share = true }
}

// Open opens an existing dataset read-only.
func Open(path string, options ...Option) (*File, error) {
	return open(path, capi.NC_NOWRITE, false, options)
}

// Append opens an existing dataset for writing. The file starts in data
// mode; use Redef to add definitions.
func Append(path string, options ...Option) (*File, error) {
	return open(path, capi.NC_WRITE, false, options)
}

// Create creates a dataset, replacing any existing one unless WithNoClobber
// says otherwise. The file starts in define mode.
func Create(path string, options ...Option) (*File, error) {
	return open(path, capi.NC_CLOBBER, true, options)
}

func open(path string, mode capi.OpenMode, create bool, options []Option) (*File, error) {
	var cfg config
	for _, o := range options {
		o(&cfg)
	}
	if cfg.noClobber {
		mode |= capi.NC_NOCLOBBER
	}
	if cfg.diskless {
		mode |= capi.NC_DISKLESS
	}
	if cfg.share {
		mode |= capi.NC_SHARE
	}

	guard.Lock()
	defer guard.Unlock()
	lib := cfg.lib
	if lib == nil {
		lib = library
	}
	var ncid capi.NcID
	var st capi.Status
	fileMode := ModeReadOnly
	if create {
		ncid, st = lib.Create(path, mode)
		fileMode = ModeCreate
	} else {
		ncid, st = lib.Open(path, mode)
		if mode&capi.NC_WRITE != 0 {
			fileMode = ModeAppend
		}
	}
	if !st.OK() {
		return nil, statusError(st)
	}
	ds := &dataset{
		lib:  lib,
		ncid: ncid,
		path: path,
		mode: fileMode,
	}
	ds.live.Store(true)
	ds.defining.Store(create)
	logger.Infof("opened %s as ncid %d", path, ncid)
	return &File{Group: &Group{ds: ds, ncid: ncid}}, nil
}
