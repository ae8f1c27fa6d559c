// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

package resource

import "fmt"

// ID is a composite resource identifier: package id (8 bits), type id
// (8 bits), entry index (16 bits). The zero ID is never a valid
// resource; the idmap wire format relies on that to encode "no
// mapping".
type ID uint32

// MakeID assembles an ID from its three fields. Arguments wider than
// the field are masked, matching how the ids are laid out on disk.
func MakeID(packageID uint8, typeID uint8, entryID uint16) ID {
	return ID(uint32(packageID)<<24 | uint32(typeID)<<16 | uint32(entryID))
}

// PackageID returns the package field (bits 31..24).
func (id ID) PackageID() uint8 {
	return uint8(id >> 24)
}

// TypeID returns the type field (bits 23..16).
func (id ID) TypeID() uint8 {
	return uint8(id >> 16)
}

// EntryID returns the entry index field (bits 15..0).
func (id ID) EntryID() uint16 {
	return uint16(id)
}

// IsValid reports whether the id denotes an actual resource. Package
// zero is reserved, so any id with a zero package field is invalid,
// including the all-zero "no mapping" sentinel.
func (id ID) IsValid() bool {
	return id.PackageID() != 0
}

// String formats the id the way resource ids appear in logs and dump
// output: 0x7f020003.
func (id ID) String() string {
	return fmt.Sprintf("0x%08x", uint32(id))
}
