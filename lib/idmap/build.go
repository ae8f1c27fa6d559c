// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

package idmap

import (
	"fmt"
	"sort"

	"github.com/idmap-foundation/idmap/lib/checksum"
	"github.com/idmap-foundation/idmap/lib/resource"
)

// ChecksumFunc computes the 32-bit checksum of a container file. It
// abstracts the file-hashing collaborator so construction and
// verification can be tested without fixture files; nil means
// checksum.File.
type ChecksumFunc func(path string) (uint32, error)

// Build constructs an idmap by matching overlay resources onto target
// resources by symbolic (type name, entry name). Overlay entries with
// no target counterpart contribute nothing; an overlay may declare
// resources the target lacks. Identical inputs always produce an
// identical model (and therefore identical encoded bytes): grouping
// and ordering are fully determined by the target table.
//
// Returns ErrNoMatchingEntries when nothing matched, or a checksum
// error when either container cannot be hashed.
func Build(target, overlay resource.Table, targetPath, overlayPath string, crc ChecksumFunc) (*Idmap, error) {
	if crc == nil {
		crc = checksum.File
	}

	targetCRC, err := crc(targetPath)
	if err != nil {
		return nil, fmt.Errorf("computing target container checksum: %w", err)
	}
	overlayCRC, err := crc(overlayPath)
	if err != nil {
		return nil, fmt.Errorf("computing overlay container checksum: %w", err)
	}

	// Index the target by symbolic name.
	targetByName := make(map[string]map[string]resource.Entry)
	for _, entry := range target.Entries() {
		byEntry := targetByName[entry.TypeName]
		if byEntry == nil {
			byEntry = make(map[string]resource.Entry)
			targetByName[entry.TypeName] = byEntry
		}
		byEntry[entry.EntryName] = entry
	}

	// Collect matches grouped by target type. The type-name join makes
	// the (target type, overlay type) pairing unique per group.
	type match struct {
		targetEntry uint16
		overlayID   resource.ID
	}
	groups := make(map[uint8][]match)
	overlayTypes := make(map[uint8]uint8)
	for _, entry := range overlay.Entries() {
		byEntry, ok := targetByName[entry.TypeName]
		if !ok {
			continue
		}
		targetEntry, ok := byEntry[entry.EntryName]
		if !ok {
			continue
		}
		groups[targetEntry.TypeID] = append(groups[targetEntry.TypeID], match{
			targetEntry: targetEntry.EntryID,
			overlayID:   entry.ID(overlay.PackageID()),
		})
		overlayTypes[targetEntry.TypeID] = entry.TypeID
	}
	if len(groups) == 0 {
		return nil, ErrNoMatchingEntries
	}

	// Emit one type block per group, ordered ascending by target type,
	// spanning the minimal contiguous run of matched target entries.
	targetTypes := make([]int, 0, len(groups))
	for typeID := range groups {
		targetTypes = append(targetTypes, int(typeID))
	}
	sort.Ints(targetTypes)

	data := Data{Header: DataHeader{TargetPackageID: target.PackageID()}}
	for _, typeID := range targetTypes {
		matches := groups[uint8(typeID)]
		sort.Slice(matches, func(i, j int) bool {
			return matches[i].targetEntry < matches[j].targetEntry
		})

		first := matches[0].targetEntry
		last := matches[len(matches)-1].targetEntry
		block := TypeBlock{
			TargetType:  uint8(typeID),
			OverlayType: overlayTypes[uint8(typeID)],
			EntryOffset: first,
			Entries:     make([]resource.ID, int(last)-int(first)+1),
		}
		for _, m := range matches {
			block.Entries[m.targetEntry-first] = m.overlayID
		}
		data.Types = append(data.Types, block)
	}

	return &Idmap{
		Header: Header{
			Magic:       Magic,
			Version:     Version,
			TargetCRC:   targetCRC,
			OverlayCRC:  overlayCRC,
			TargetPath:  targetPath,
			OverlayPath: overlayPath,
		},
		Data: []Data{data},
	}, nil
}

// Create builds an idmap and encodes it in one step. This is the form
// the CLI consumes: containers in, wire bytes out.
func Create(target, overlay resource.Table, targetPath, overlayPath string, crc ChecksumFunc) ([]byte, error) {
	m, err := Build(target, overlay, targetPath, overlayPath, crc)
	if err != nil {
		return nil, err
	}
	return Encode(m)
}
