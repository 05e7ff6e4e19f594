// Package memio is an in-memory engine for the capi.Dispatch surface. It
// keeps whole datasets in process memory, the way the C library treats
// NC_DISKLESS files, and persists them in a per-Library namespace so a
// dataset created under one path can be reopened under the same path.
//
// The engine enforces classic-model discipline: definitions require define
// mode, data transfer requires data mode, one unlimited dimension per
// dataset and only in the leading position of a variable's shape.
//
// Like the C library, a Library is not safe for concurrent use. The netcdf
// package wraps every call in its process-wide guard.
package memio

import (
	"syscall"

	"github.com/netcdf-go/netcdf/capi"
	"github.com/netcdf-go/netcdf/internal"
	"github.com/netcdf-go/netcdf/util"
)

var logger = internal.NewLogger()

// SetLogLevel sets the log level for this package and returns the previous
// one.
func SetLogLevel(level internal.LogLevel) internal.LogLevel {
	return logger.SetLogLevel(level)
}

type dim struct {
	name      string
	length    uint64 // current record count for the unlimited dimension
	unlimited bool
	owner     *group
}

type attr struct {
	t   capi.TypeCode
	val any
}

type attrMap = util.OrderedMap[*attr]

func newAttrMap() *attrMap {
	return util.NewOrderedMap[*attr]()
}

type variable struct {
	name    string
	t       capi.TypeCode
	dims    []capi.DimID
	atts    *util.OrderedMap[*attr]
	data    any // flat slice of the storage type, nil until first touch
	written bool
}

type group struct {
	name     string
	parent   *group
	children []*group
	dimids   []capi.DimID // dimensions defined in this group, in order
	vars     []*variable  // index is the VarID
	atts     *util.OrderedMap[*attr]
}

// image is one dataset: a group tree plus the file-wide dimension table.
type image struct {
	root      *group
	dims      []*dim // index is the DimID
	unlimited capi.DimID
}

func newImage() *image {
	return &image{
		root:      &group{name: "/", atts: newAttrMap()},
		unlimited: -1,
	}
}

// openFile is one open of an image. Two opens of the same path share the
// image but keep their own mode flags.
type openFile struct {
	img      *image
	path     string
	writable bool
	defining bool
	grpIDs   map[*group]capi.NcID
}

type groupRef struct {
	of *openFile
	g  *group
}

// Library implements capi.Dispatch over an in-memory dataset namespace.
type Library struct {
	fs     map[string]*image
	groups map[capi.NcID]*groupRef // every live ncid, roots included
	nextID capi.NcID
}

var _ capi.Dispatch = (*Library)(nil)

func New() *Library {
	return &Library{
		fs:     map[string]*image{},
		groups: map[capi.NcID]*groupRef{},
		nextID: 1,
	}
}

func (l *Library) register(of *openFile, g *group) capi.NcID {
	id := l.nextID
	l.nextID++
	l.groups[id] = &groupRef{of: of, g: g}
	of.grpIDs[g] = id
	return id
}

func (l *Library) registerTree(of *openFile, g *group) capi.NcID {
	id := l.register(of, g)
	for _, child := range g.children {
		l.registerTree(of, child)
	}
	return id
}

func (l *Library) ref(ncid capi.NcID) (*groupRef, capi.Status) {
	ref := l.groups[ncid]
	if ref == nil {
		return nil, capi.NC_EBADID
	}
	return ref, capi.NC_NOERR
}

// Open opens a dataset previously created in this library's namespace. A
// missing path reports the system errno, as nc_open does.
func (l *Library) Open(path string, mode capi.OpenMode) (capi.NcID, capi.Status) {
	img := l.fs[path]
	if img == nil {
		return 0, capi.Status(syscall.ENOENT)
	}
	of := &openFile{
		img:      img,
		path:     path,
		writable: mode&capi.NC_WRITE != 0,
		grpIDs:   map[*group]capi.NcID{},
	}
	return l.registerTree(of, img.root), capi.NC_NOERR
}

// Create creates a dataset and leaves it in define mode.
func (l *Library) Create(path string, mode capi.OpenMode) (capi.NcID, capi.Status) {
	if old := l.fs[path]; old != nil {
		if mode&capi.NC_NOCLOBBER != 0 {
			return 0, capi.NC_EEXIST
		}
		logger.Warnf("create clobbers existing dataset %q", path)
	}
	img := newImage()
	l.fs[path] = img
	of := &openFile{
		img:      img,
		path:     path,
		writable: true,
		defining: true,
		grpIDs:   map[*group]capi.NcID{},
	}
	return l.registerTree(of, img.root), capi.NC_NOERR
}

// Close releases the handle and every group id under it. The dataset stays
// in the namespace. Only the root id closes; group ids are rejected.
func (l *Library) Close(ncid capi.NcID) capi.Status {
	ref, st := l.ref(ncid)
	if !st.OK() {
		return st
	}
	if ref.g != ref.of.img.root {
		return capi.NC_EBADGRPID
	}
	for _, id := range ref.of.grpIDs {
		delete(l.groups, id)
	}
	return capi.NC_NOERR
}

func (l *Library) Redef(ncid capi.NcID) capi.Status {
	ref, st := l.ref(ncid)
	if !st.OK() {
		return st
	}
	if !ref.of.writable {
		return capi.NC_EPERM
	}
	if ref.of.defining {
		return capi.NC_EINDEFINE
	}
	ref.of.defining = true
	return capi.NC_NOERR
}

func (l *Library) EndDef(ncid capi.NcID) capi.Status {
	ref, st := l.ref(ncid)
	if !st.OK() {
		return st
	}
	if !ref.of.defining {
		return capi.NC_ENOTINDEFINE
	}
	ref.of.defining = false
	return capi.NC_NOERR
}

func (l *Library) Sync(ncid capi.NcID) capi.Status {
	ref, st := l.ref(ncid)
	if !st.OK() {
		return st
	}
	if ref.of.defining {
		return capi.NC_EINDEFINE
	}
	// Images live in the namespace already; there is nothing to flush.
	return capi.NC_NOERR
}

func (l *Library) DefGrp(parent capi.NcID, name string) (capi.NcID, capi.Status) {
	ref, st := l.ref(parent)
	if !st.OK() {
		return 0, st
	}
	if !ref.of.writable {
		return 0, capi.NC_EPERM
	}
	if !ref.of.defining {
		return 0, capi.NC_ENOTINDEFINE
	}
	if st := checkName(name); !st.OK() {
		return 0, st
	}
	for _, child := range ref.g.children {
		if child.name == name {
			return 0, capi.NC_ENAMEINUSE
		}
	}
	child := &group{
		name:   name,
		parent: ref.g,
		atts:   newAttrMap(),
	}
	ref.g.children = append(ref.g.children, child)
	return l.register(ref.of, child), capi.NC_NOERR
}

func (l *Library) InqGrps(ncid capi.NcID) ([]capi.NcID, capi.Status) {
	ref, st := l.ref(ncid)
	if !st.OK() {
		return nil, st
	}
	ids := make([]capi.NcID, len(ref.g.children))
	for i, child := range ref.g.children {
		ids[i] = ref.of.grpIDs[child]
	}
	return ids, capi.NC_NOERR
}

func (l *Library) InqGrpName(ncid capi.NcID) (string, capi.Status) {
	ref, st := l.ref(ncid)
	if !st.OK() {
		return "", st
	}
	return ref.g.name, capi.NC_NOERR
}

func (l *Library) InqGrpNcid(ncid capi.NcID, name string) (capi.NcID, capi.Status) {
	ref, st := l.ref(ncid)
	if !st.OK() {
		return 0, st
	}
	for _, child := range ref.g.children {
		if child.name == name {
			return ref.of.grpIDs[child], capi.NC_NOERR
		}
	}
	return 0, capi.NC_ENOGRP
}

func (l *Library) DefDim(ncid capi.NcID, name string, length uint64) (capi.DimID, capi.Status) {
	ref, st := l.ref(ncid)
	if !st.OK() {
		return 0, st
	}
	of, g := ref.of, ref.g
	if !of.writable {
		return 0, capi.NC_EPERM
	}
	if !of.defining {
		return 0, capi.NC_ENOTINDEFINE
	}
	if st := checkName(name); !st.OK() {
		return 0, st
	}
	unlimited := length == capi.Unlimited
	if unlimited && of.img.unlimited >= 0 {
		return 0, capi.NC_EUNLIMIT
	}
	for _, id := range g.dimids {
		if of.img.dims[id].name == name {
			return 0, capi.NC_ENAMEINUSE
		}
	}
	d := &dim{name: name, length: length, unlimited: unlimited, owner: g}
	if unlimited {
		d.length = 0
	}
	id := capi.DimID(len(of.img.dims))
	of.img.dims = append(of.img.dims, d)
	g.dimids = append(g.dimids, id)
	if unlimited {
		of.img.unlimited = id
	}
	return id, capi.NC_NOERR
}

func (l *Library) InqDimIDs(ncid capi.NcID, includeParents bool) ([]capi.DimID, capi.Status) {
	ref, st := l.ref(ncid)
	if !st.OK() {
		return nil, st
	}
	ids := append([]capi.DimID(nil), ref.g.dimids...)
	if includeParents {
		for p := ref.g.parent; p != nil; p = p.parent {
			ids = append(ids, p.dimids...)
		}
	}
	return ids, capi.NC_NOERR
}

func (l *Library) InqDim(ncid capi.NcID, dimid capi.DimID) (string, uint64, capi.Status) {
	ref, st := l.ref(ncid)
	if !st.OK() {
		return "", 0, st
	}
	if dimid < 0 || int(dimid) >= len(ref.of.img.dims) {
		return "", 0, capi.NC_EBADDIM
	}
	d := ref.of.img.dims[dimid]
	return d.name, d.length, capi.NC_NOERR
}

func (l *Library) InqDimID(ncid capi.NcID, name string) (capi.DimID, capi.Status) {
	ref, st := l.ref(ncid)
	if !st.OK() {
		return 0, st
	}
	for g := ref.g; g != nil; g = g.parent {
		for _, id := range g.dimids {
			if ref.of.img.dims[id].name == name {
				return id, capi.NC_NOERR
			}
		}
	}
	return 0, capi.NC_EBADDIM
}

func (l *Library) InqUnlimDims(ncid capi.NcID) ([]capi.DimID, capi.Status) {
	ref, st := l.ref(ncid)
	if !st.OK() {
		return nil, st
	}
	id := ref.of.img.unlimited
	if id < 0 {
		return nil, capi.NC_NOERR
	}
	owner := ref.of.img.dims[id].owner
	for g := ref.g; g != nil; g = g.parent {
		if g == owner {
			return []capi.DimID{id}, capi.NC_NOERR
		}
	}
	return nil, capi.NC_NOERR
}

func checkName(name string) capi.Status {
	if len(name) > capi.MaxName {
		return capi.NC_EMAXNAME
	}
	if !internal.ValidName(name) {
		return capi.NC_EBADNAME
	}
	return capi.NC_NOERR
}

// visible reports whether a dimension's owning group encloses g.
func (ref *groupRef) visible(d *dim) bool {
	for g := ref.g; g != nil; g = g.parent {
		if g == d.owner {
			return true
		}
	}
	return false
}
