// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

package idmap

import (
	"encoding/binary"
	"fmt"
)

// Encode serializes the idmap to its wire format. Encoding fails
// rather than truncate: a header path longer than the fixed 256-byte
// field, or a block whose counts do not fit their 16-bit fields, is an
// error. A silently truncated path would make verification compare the
// wrong file forever after.
func Encode(m *Idmap) ([]byte, error) {
	size := headerSize
	for i := range m.Data {
		size += dataHeaderSize
		for j := range m.Data[i].Types {
			size += typeBlockFixedSize + entrySize*len(m.Data[i].Types[j].Entries)
		}
	}

	out := make([]byte, 0, size)

	var err error
	if out, err = appendHeader(out, &m.Header); err != nil {
		return nil, err
	}
	for i := range m.Data {
		if out, err = appendData(out, &m.Data[i]); err != nil {
			return nil, fmt.Errorf("data block %d: %w", i, err)
		}
	}
	return out, nil
}

func appendHeader(out []byte, h *Header) ([]byte, error) {
	out = binary.LittleEndian.AppendUint32(out, h.Magic)
	out = binary.LittleEndian.AppendUint32(out, h.Version)
	out = binary.LittleEndian.AppendUint32(out, h.TargetCRC)
	out = binary.LittleEndian.AppendUint32(out, h.OverlayCRC)

	var err error
	if out, err = appendPath(out, h.TargetPath, "target path"); err != nil {
		return nil, err
	}
	return appendPath(out, h.OverlayPath, "overlay path")
}

// appendPath writes a path as exactly pathSize NUL-padded bytes.
func appendPath(out []byte, path string, field string) ([]byte, error) {
	if len(path) > pathSize {
		return nil, fmt.Errorf("%s %q is %d bytes, exceeds the %d-byte header field",
			field, path, len(path), pathSize)
	}
	out = append(out, path...)
	return append(out, make([]byte, pathSize-len(path))...), nil
}

func appendData(out []byte, d *Data) ([]byte, error) {
	if len(d.Types) > 0xffff {
		return nil, fmt.Errorf("%d type blocks exceed the 16-bit types_count field", len(d.Types))
	}
	out = binary.LittleEndian.AppendUint16(out, uint16(d.Header.TargetPackageID))
	out = binary.LittleEndian.AppendUint16(out, uint16(len(d.Types)))

	for i := range d.Types {
		block := &d.Types[i]
		if len(block.Entries) > 0xffff {
			return nil, fmt.Errorf("type 0x%02x: %d entries exceed the 16-bit entry_count field",
				block.TargetType, len(block.Entries))
		}
		if int(block.EntryOffset)+len(block.Entries) > 0x10000 {
			return nil, fmt.Errorf("type 0x%02x: entry run [%d, %d) overflows the 16-bit entry index space",
				block.TargetType, block.EntryOffset, int(block.EntryOffset)+len(block.Entries))
		}

		out = binary.LittleEndian.AppendUint16(out, uint16(block.TargetType))
		out = binary.LittleEndian.AppendUint16(out, uint16(block.OverlayType))
		out = binary.LittleEndian.AppendUint16(out, uint16(len(block.Entries)))
		out = binary.LittleEndian.AppendUint16(out, block.EntryOffset)
		for _, entry := range block.Entries {
			out = binary.LittleEndian.AppendUint32(out, uint32(entry))
		}
	}
	return out, nil
}
