package capi

// Dispatch is the set of native calls the binding needs. Each method mirrors
// one nc_* entry point and returns its raw Status; no method is safe to call
// from two goroutines at once.
//
// Bulk values cross the boundary as flat slices of the variable's storage
// type ([]int8, []uint8, ... []float64, []string) in row-major order with the
// last dimension varying fastest. Attribute values are the same, except that
// NC_CHAR attributes travel as string.
type Dispatch interface {
	// Open opens an existing dataset (nc_open).
	Open(path string, mode OpenMode) (NcID, Status)
	// Create creates a dataset and leaves it in define mode (nc_create).
	Create(path string, mode OpenMode) (NcID, Status)
	// Close writes out buffered data and releases the handle (nc_close).
	Close(ncid NcID) Status
	// Redef puts an open dataset back into define mode (nc_redef).
	Redef(ncid NcID) Status
	// EndDef commits pending definitions (nc_enddef).
	EndDef(ncid NcID) Status
	// Sync flushes buffered writes (nc_sync).
	Sync(ncid NcID) Status

	// DefGrp creates a child group (nc_def_grp).
	DefGrp(parent NcID, name string) (NcID, Status)
	// InqGrps lists the immediate child groups (nc_inq_grps).
	InqGrps(ncid NcID) ([]NcID, Status)
	// InqGrpName returns the simple name of a group (nc_inq_grpname).
	InqGrpName(ncid NcID) (string, Status)
	// InqGrpNcid looks up a child group by name (nc_inq_grp_ncid).
	InqGrpNcid(ncid NcID, name string) (NcID, Status)

	// DefDim defines a dimension; length Unlimited makes it a record
	// dimension (nc_def_dim).
	DefDim(ncid NcID, name string, length uint64) (DimID, Status)
	// InqDimIDs lists the dimensions visible in a group, optionally
	// including ancestors (nc_inq_dimids).
	InqDimIDs(ncid NcID, includeParents bool) ([]DimID, Status)
	// InqDim returns a dimension's name and current length (nc_inq_dim).
	// Record dimensions report the number of records written so far.
	InqDim(ncid NcID, dimid DimID) (string, uint64, Status)
	// InqDimID resolves a dimension name, searching enclosing groups
	// (nc_inq_dimid).
	InqDimID(ncid NcID, name string) (DimID, Status)
	// InqUnlimDims lists the unlimited dimensions visible in a group
	// (nc_inq_unlimdims).
	InqUnlimDims(ncid NcID) ([]DimID, Status)

	// DefVar defines a variable over previously defined dimensions
	// (nc_def_var).
	DefVar(ncid NcID, name string, t TypeCode, dims []DimID) (VarID, Status)
	// InqVarIDs lists the variables in a group (nc_inq_varids).
	InqVarIDs(ncid NcID) ([]VarID, Status)
	// InqVar returns a variable's name, type, dimensions and attribute
	// count (nc_inq_var).
	InqVar(ncid NcID, varid VarID) (string, TypeCode, []DimID, int, Status)
	// InqVarID looks up a variable by name (nc_inq_varid).
	InqVarID(ncid NcID, name string) (VarID, Status)

	// PutAtt writes an attribute; varid Global targets the group itself
	// (nc_put_att).
	PutAtt(ncid NcID, varid VarID, name string, t TypeCode, value any) Status
	// GetAtt reads an attribute's value and type (nc_get_att).
	GetAtt(ncid NcID, varid VarID, name string) (any, TypeCode, Status)
	// InqNAtts counts the attributes of a variable or group (nc_inq_natts,
	// nc_inq_varnatts).
	InqNAtts(ncid NcID, varid VarID) (int, Status)
	// InqAttName returns the name of attribute number n (nc_inq_attname).
	InqAttName(ncid NcID, varid VarID, n int) (string, Status)

	// GetVars reads a strided hyperslab (nc_get_vars). start, count and
	// stride all have one entry per dimension.
	GetVars(ncid NcID, varid VarID, start, count []uint64, stride []int64) (any, Status)
	// PutVars writes a strided hyperslab (nc_put_vars). Writing past the
	// current extent of a record dimension grows it.
	PutVars(ncid NcID, varid VarID, start, count []uint64, stride []int64, data any) Status
}
