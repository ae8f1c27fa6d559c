// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

package resource

// Entry is one enumerated resource table row: the numeric coordinates
// of a resource plus the symbolic names the matching algorithm joins
// on.
type Entry struct {
	// TypeID is the type field of the resource id (e.g. 0x02).
	TypeID uint8

	// TypeName is the symbolic type name (e.g. "string").
	TypeName string

	// EntryID is the entry index within the type.
	EntryID uint16

	// EntryName is the symbolic entry name (e.g. "str1").
	EntryName string
}

// ID returns the full resource id of the entry within pkg.
func (e Entry) ID(pkg uint8) ID {
	return MakeID(pkg, e.TypeID, e.EntryID)
}

// Table is the read side of a compiled resource container, as consumed
// by the construction engine. Implementations must return entries in a
// stable order so that idmap construction is deterministic.
type Table interface {
	// PackageID returns the package id all entries belong to.
	PackageID() uint8

	// Entries returns every resource declared by the container.
	Entries() []Entry
}

// Resolver resolves numeric (type, entry) coordinates back to symbolic
// names. The pretty-print visitor uses it when a live table is
// available; a parsed-from-bytes idmap has none and degrades to
// numeric output.
type Resolver interface {
	// Resolve returns the type and entry names for the coordinates,
	// or ok=false when the table does not declare them.
	Resolve(typeID uint8, entryID uint16) (typeName, entryName string, ok bool)
}
