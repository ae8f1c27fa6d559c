// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

package idmap

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/idmap-foundation/idmap/lib/resource"
)

// Decode parses wire-format bytes into an Idmap. Decoding is strict:
// it fails on short buffers, wrong magic, versions outside the
// supported set, out-of-range ids, and misordered blocks, and it never
// returns a partially parsed model. Every count field is bounds-checked
// against the remaining buffer before any allocation.
func Decode(data []byte) (*Idmap, error) {
	r := &decoder{data: data}

	header, err := decodeHeader(r)
	if err != nil {
		return nil, err
	}

	m := &Idmap{Header: *header}

	// The header does not carry a data block count; blocks run to the
	// end of the buffer. An idmap with no data blocks is meaningless.
	lastPackage := -1
	for r.remaining() > 0 {
		data, err := decodeData(r)
		if err != nil {
			return nil, fmt.Errorf("data block %d: %w", len(m.Data), err)
		}
		if int(data.Header.TargetPackageID) <= lastPackage {
			return nil, fmt.Errorf("data block %d: %w: package 0x%02x not ascending",
				len(m.Data), ErrMalformed, data.Header.TargetPackageID)
		}
		lastPackage = int(data.Header.TargetPackageID)
		m.Data = append(m.Data, *data)
	}
	if len(m.Data) == 0 {
		return nil, fmt.Errorf("%w: no data blocks after header", ErrMalformed)
	}
	return m, nil
}

// DecodeHeader parses only the fixed-size header. Verification reads
// just the header of an existing idmap; parsing the data section to
// decide staleness would be wasted work.
func DecodeHeader(data []byte) (*Header, error) {
	return decodeHeader(&decoder{data: data})
}

func decodeHeader(r *decoder) (*Header, error) {
	var h Header
	var err error

	if h.Magic, err = r.uint32("magic"); err != nil {
		return nil, err
	}
	if h.Magic != Magic {
		return nil, fmt.Errorf("%w: 0x%08x, want 0x%08x", ErrBadMagic, h.Magic, Magic)
	}
	if h.Version, err = r.uint32("version"); err != nil {
		return nil, err
	}
	// Version gates interpretation of the rest of the stream. Version
	// 1 is currently the only member of the supported set; a future
	// version changing the type id convention gets its own arm here.
	switch h.Version {
	case Version:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}

	if h.TargetCRC, err = r.uint32("target crc"); err != nil {
		return nil, err
	}
	if h.OverlayCRC, err = r.uint32("overlay crc"); err != nil {
		return nil, err
	}
	if h.TargetPath, err = r.path("target path"); err != nil {
		return nil, err
	}
	if h.OverlayPath, err = r.path("overlay path"); err != nil {
		return nil, err
	}
	return &h, nil
}

func decodeData(r *decoder) (*Data, error) {
	packageID, err := r.uint16("target package id")
	if err != nil {
		return nil, err
	}
	if packageID > 0xff {
		return nil, fmt.Errorf("%w: target package id 0x%04x exceeds 8 bits", ErrMalformed, packageID)
	}
	typesCount, err := r.uint16("types count")
	if err != nil {
		return nil, err
	}

	// Each type block is at least its fixed prelude; reject counts the
	// remaining bytes cannot possibly satisfy before allocating.
	if minimum := int(typesCount) * typeBlockFixedSize; r.remaining() < minimum {
		return nil, fmt.Errorf("%w: %d type blocks need at least %d bytes, %d remain",
			ErrTruncated, typesCount, minimum, r.remaining())
	}

	d := &Data{
		Header: DataHeader{TargetPackageID: uint8(packageID)},
		Types:  make([]TypeBlock, 0, typesCount),
	}
	lastType := -1
	for i := 0; i < int(typesCount); i++ {
		block, err := decodeTypeBlock(r)
		if err != nil {
			return nil, fmt.Errorf("type block %d: %w", i, err)
		}
		if int(block.TargetType) <= lastType {
			return nil, fmt.Errorf("type block %d: %w: target type 0x%02x not ascending",
				i, ErrMalformed, block.TargetType)
		}
		lastType = int(block.TargetType)
		d.Types = append(d.Types, *block)
	}
	return d, nil
}

func decodeTypeBlock(r *decoder) (*TypeBlock, error) {
	targetType, err := r.uint16("target type")
	if err != nil {
		return nil, err
	}
	overlayType, err := r.uint16("overlay type")
	if err != nil {
		return nil, err
	}
	if targetType > 0xff || overlayType > 0xff {
		return nil, fmt.Errorf("%w: type pair 0x%04x/0x%04x exceeds 8 bits", ErrMalformed, targetType, overlayType)
	}
	entryCount, err := r.uint16("entry count")
	if err != nil {
		return nil, err
	}
	entryOffset, err := r.uint16("entry offset")
	if err != nil {
		return nil, err
	}
	if entryCount == 0 {
		return nil, fmt.Errorf("%w: empty entry run", ErrMalformed)
	}
	if int(entryOffset)+int(entryCount) > 0x10000 {
		return nil, fmt.Errorf("%w: entry run [%d, %d) overflows the 16-bit entry index space",
			ErrMalformed, entryOffset, int(entryOffset)+int(entryCount))
	}

	// Bound the allocation against the actual bytes left.
	if need := int(entryCount) * entrySize; r.remaining() < need {
		return nil, fmt.Errorf("%w: %d entries need %d bytes, %d remain",
			ErrTruncated, entryCount, need, r.remaining())
	}

	block := &TypeBlock{
		TargetType:  uint8(targetType),
		OverlayType: uint8(overlayType),
		EntryOffset: entryOffset,
		Entries:     make([]resource.ID, entryCount),
	}
	for i := range block.Entries {
		value, err := r.uint32("entry")
		if err != nil {
			return nil, err
		}
		block.Entries[i] = resource.ID(value)
	}
	return block, nil
}

// decoder is a bounds-checked cursor over the input buffer. Every read
// reports the field name and absolute offset on failure, which is the
// detail a caller needs to log a malformed artifact usefully.
type decoder struct {
	data []byte
	off  int
}

func (r *decoder) remaining() int {
	return len(r.data) - r.off
}

func (r *decoder) uint16(field string) (uint16, error) {
	if r.remaining() < 2 {
		return 0, fmt.Errorf("%w: reading %s at offset 0x%x", ErrTruncated, field, r.off)
	}
	v := binary.LittleEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v, nil
}

func (r *decoder) uint32(field string) (uint32, error) {
	if r.remaining() < 4 {
		return 0, fmt.Errorf("%w: reading %s at offset 0x%x", ErrTruncated, field, r.off)
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v, nil
}

// path reads a fixed-width NUL-padded path field and trims it at the
// first NUL for callers.
func (r *decoder) path(field string) (string, error) {
	if r.remaining() < pathSize {
		return "", fmt.Errorf("%w: reading %s at offset 0x%x", ErrTruncated, field, r.off)
	}
	raw := r.data[r.off : r.off+pathSize]
	r.off += pathSize

	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return string(raw), nil
}
