// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

// Package idmap implements the idmap artifact: a compact, versioned
// binary file mapping the resource ids of a target container to the
// resource ids of an overlay container that customizes it. The
// resource-resolution runtime consults it at load time to redirect
// target lookups to overlay values.
//
// The package is organized around the artifact's lifecycle:
//
//   - idmap.go: the immutable in-memory model and id lookup
//   - encode.go / decode.go: the binary wire codec
//   - build.go: construction by symbolic-name matching of two tables
//   - verify.go: checksum-based staleness detection
//   - visitor.go, prettyprint.go, rawprint.go: read-only traversal
//     with human-readable and byte-annotated output strategies
//
// # Wire format (version 1)
//
// All integers are little-endian. Paths are exactly 256 bytes,
// NUL-padded.
//
//	idmap      := header data*
//	header     := magic(u32) version(u32) target_crc(u32) overlay_crc(u32)
//	              target_path(u8[256]) overlay_path(u8[256])
//	data       := data_header type_block*
//	data_header:= target_package_id(u16) types_count(u16)
//	type_block := target_type(u16) overlay_type(u16) entry_count(u16)
//	              entry_offset(u16) entry(u32){entry_count}
//
// Each entry holds the full overlay resource id for target entry
// entry_offset+i, or zero (NoMapping) when that slot has no overlay
// counterpart. Type blocks are ordered ascending by target type, and
// the entry run is dense: slot gaps inside the matched span are
// stored as NoMapping rather than omitted, so a lookup is a direct
// index.
//
// Version 1 stores type ids unmodified. The historical "+1" offset
// convention, if ever reintroduced, must arrive as a new version: the
// codec switches on the header version rather than assuming one
// convention.
package idmap
