// Package config holds process-wide knobs that several packages need to
// agree on without importing each other.
package config

// Version is the current specflux core version.
var Version = "0.1.0"

// IsTestMode is a process-wide test-mode flag, set once at process
// startup. No package in this module reads it; the names of quantifier-
// bound variables and comprehension iterators are not normalized by it.
var IsTestMode = false

// Reserved subprogram names. A declaration whose identifier matches one
// of these (case-insensitively) shadows a builtin and is rejected by the
// declaration environment and by the session validator.
const (
	BuiltinRead          = "Read"
	BuiltinWrite         = "Write"
	BuiltinCall          = "Call"
	BuiltinDataAvailable = "Data_Available"
	BuiltinAppend        = "Append"
	BuiltinExtend        = "Extend"
	BuiltinReset         = "Reset"
)

// ReservedNames lists every builtin subprogram name, for membership checks.
var ReservedNames = []string{
	BuiltinRead,
	BuiltinWrite,
	BuiltinCall,
	BuiltinDataAvailable,
	BuiltinAppend,
	BuiltinExtend,
	BuiltinReset,
}

// Boolean literal identifiers, reserved the same way the builtin
// subprograms are: a user declaration may not shadow them either.
const (
	LiteralTrue  = "True"
	LiteralFalse = "False"
	BooleanType  = "Boolean"
)
