// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

package idmap

import (
	"errors"
	"sort"

	"github.com/idmap-foundation/idmap/lib/resource"
)

// Wire format constants. Changing any of these breaks idmap file
// compatibility.
const (
	// Magic is the format marker. The little-endian encoding spells
	// "IDMP" on disk.
	Magic uint32 = 0x504d4449

	// Version is the current wire format version. The codec refuses
	// versions it does not understand; see decode.go.
	Version uint32 = 1

	// pathSize is the fixed on-disk width of the two path fields.
	pathSize = 256

	// headerSize is the fixed idmap header: four u32 fields plus two
	// fixed-width paths.
	headerSize = 16 + 2*pathSize

	// dataHeaderSize is target_package_id(u16) + types_count(u16).
	dataHeaderSize = 4

	// typeBlockFixedSize is the type block prelude before the entry
	// array: four u16 fields.
	typeBlockFixedSize = 8

	// entrySize is the width of one entry slot.
	entrySize = 4
)

// NoMapping is the sentinel entry value for a target slot with no
// overlay counterpart. A valid resource id always has a nonzero
// package field, so zero is unambiguous.
const NoMapping resource.ID = 0

// Sentinel errors for the decode and construction taxonomies. Callers
// match them with errors.Is; the wrapped chain carries field and
// offset context for logging.
var (
	// ErrTruncated reports a buffer shorter than a record demands.
	ErrTruncated = errors.New("unexpected end of data")

	// ErrBadMagic reports a buffer that does not start with Magic.
	ErrBadMagic = errors.New("invalid magic")

	// ErrUnsupportedVersion reports a header version outside the set
	// this codec understands.
	ErrUnsupportedVersion = errors.New("unsupported version")

	// ErrMalformed reports structurally invalid content in a buffer of
	// sufficient length (out-of-range ids, misordered blocks).
	ErrMalformed = errors.New("malformed idmap")

	// ErrNoMatchingEntries reports a construction attempt where zero
	// overlay entries matched the target. An idmap with no mappings is
	// meaningless, so this is an error rather than an empty artifact.
	ErrNoMatchingEntries = errors.New("no overlay entries match the target")
)

// Header is the fixed-size idmap file header.
type Header struct {
	Magic   uint32
	Version uint32

	// TargetCRC and OverlayCRC are checksums of the two resource
	// containers at construction time, used for staleness detection.
	TargetCRC  uint32
	OverlayCRC uint32

	// TargetPath and OverlayPath are the absolute container paths
	// recorded at construction time. On disk they occupy exactly 256
	// NUL-padded bytes each.
	TargetPath  string
	OverlayPath string
}

// DataHeader prefixes one data block.
type DataHeader struct {
	// TargetPackageID is the package field of every target resource id
	// mapped by this block.
	TargetPackageID uint8
}

// TypeBlock maps a dense run of entries of one target type to overlay
// resource ids.
type TypeBlock struct {
	// TargetType and OverlayType are the type ids that correlate to
	// the same symbolic type name on each side.
	TargetType  uint8
	OverlayType uint8

	// EntryOffset is the first target entry index covered by the run;
	// slots before it are implicitly unmapped.
	EntryOffset uint16

	// Entries[i] is the full overlay resource id for target entry
	// EntryOffset+i, or NoMapping.
	Entries []resource.ID
}

// Data is one package block: a data header plus its type blocks,
// ordered ascending by target type.
type Data struct {
	Header DataHeader
	Types  []TypeBlock
}

// Idmap is the parsed or constructed artifact. It is immutable once
// built: visitors and lookups only read it, and it lives only for the
// duration of a single create/dump/verify invocation.
type Idmap struct {
	Header Header
	Data   []Data
}

// Lookup returns the overlay resource id the target id is redirected
// to, or ok=false when the idmap does not map it (wrong package,
// unknown type, index outside the stored run, or a NoMapping slot).
func (m *Idmap) Lookup(target resource.ID) (resource.ID, bool) {
	for i := range m.Data {
		data := &m.Data[i]
		if data.Header.TargetPackageID != target.PackageID() {
			continue
		}

		// Type blocks are ordered ascending by target type.
		types := data.Types
		j := sort.Search(len(types), func(k int) bool {
			return types[k].TargetType >= target.TypeID()
		})
		if j == len(types) || types[j].TargetType != target.TypeID() {
			return 0, false
		}

		block := &types[j]
		index := int(target.EntryID()) - int(block.EntryOffset)
		if index < 0 || index >= len(block.Entries) {
			return 0, false
		}
		if block.Entries[index] == NoMapping {
			return 0, false
		}
		return block.Entries[index], true
	}
	return 0, false
}

// Mapping is one target-to-overlay id pair, as enumerated by Entries.
type Mapping struct {
	Target  resource.ID
	Overlay resource.ID
}

// Entries returns every mapping in storage order, skipping NoMapping
// slots.
func (m *Idmap) Entries() []Mapping {
	var mappings []Mapping
	for i := range m.Data {
		data := &m.Data[i]
		for j := range data.Types {
			block := &data.Types[j]
			for k, overlay := range block.Entries {
				if overlay == NoMapping {
					continue
				}
				target := resource.MakeID(data.Header.TargetPackageID,
					block.TargetType, block.EntryOffset+uint16(k))
				mappings = append(mappings, Mapping{Target: target, Overlay: overlay})
			}
		}
	}
	return mappings
}
