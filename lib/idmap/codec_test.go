// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

package idmap

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"testing"

	"github.com/idmap-foundation/idmap/lib/resource"
)

// rawFixture assembles a valid wire-format idmap by hand, independent
// of Encode, so the decoder is tested against the documented layout
// rather than against the encoder.
func rawFixture() []byte {
	out := make([]byte, 0, headerSize+dataHeaderSize+2*typeBlockFixedSize+4*entrySize)

	appendPath := func(path string) {
		out = append(out, path...)
		out = append(out, make([]byte, pathSize-len(path))...)
	}

	out = binary.LittleEndian.AppendUint32(out, Magic)
	out = binary.LittleEndian.AppendUint32(out, Version)
	out = binary.LittleEndian.AppendUint32(out, 0x1234)
	out = binary.LittleEndian.AppendUint32(out, 0x5678)
	appendPath("/data/app/target.rtbl")
	appendPath("/vendor/overlay/overlay.rtbl")

	// Data header: package 0x7f, two type blocks.
	out = binary.LittleEndian.AppendUint16(out, 0x007f)
	out = binary.LittleEndian.AppendUint16(out, 2)

	// Type 0x02: single entry at offset 0.
	out = binary.LittleEndian.AppendUint16(out, 0x0002)
	out = binary.LittleEndian.AppendUint16(out, 0x0002)
	out = binary.LittleEndian.AppendUint16(out, 1)
	out = binary.LittleEndian.AppendUint16(out, 0)
	out = binary.LittleEndian.AppendUint32(out, 0x7f020000)

	// Type 0x03: run of three starting at offset 3, middle slot unmapped.
	out = binary.LittleEndian.AppendUint16(out, 0x0003)
	out = binary.LittleEndian.AppendUint16(out, 0x0003)
	out = binary.LittleEndian.AppendUint16(out, 3)
	out = binary.LittleEndian.AppendUint16(out, 3)
	out = binary.LittleEndian.AppendUint32(out, 0x7f030000)
	out = binary.LittleEndian.AppendUint32(out, uint32(NoMapping))
	out = binary.LittleEndian.AppendUint32(out, 0x7f030001)

	return out
}

func TestDecode(t *testing.T) {
	m, err := Decode(rawFixture())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	h := m.Header
	if h.Magic != Magic || h.Version != Version {
		t.Errorf("header magic/version = 0x%08x/%d", h.Magic, h.Version)
	}
	if h.TargetCRC != 0x1234 || h.OverlayCRC != 0x5678 {
		t.Errorf("header crcs = 0x%x/0x%x, want 0x1234/0x5678", h.TargetCRC, h.OverlayCRC)
	}
	if h.TargetPath != "/data/app/target.rtbl" {
		t.Errorf("target path = %q", h.TargetPath)
	}
	if h.OverlayPath != "/vendor/overlay/overlay.rtbl" {
		t.Errorf("overlay path = %q", h.OverlayPath)
	}

	if len(m.Data) != 1 {
		t.Fatalf("got %d data blocks, want 1", len(m.Data))
	}
	data := m.Data[0]
	if data.Header.TargetPackageID != 0x7f {
		t.Errorf("target package = 0x%02x, want 0x7f", data.Header.TargetPackageID)
	}
	if len(data.Types) != 2 {
		t.Fatalf("got %d type blocks, want 2", len(data.Types))
	}

	first := data.Types[0]
	if first.TargetType != 0x02 || first.OverlayType != 0x02 || first.EntryOffset != 0 {
		t.Errorf("first block = %+v", first)
	}
	if len(first.Entries) != 1 || first.Entries[0] != 0x7f020000 {
		t.Errorf("first block entries = %v", first.Entries)
	}

	second := data.Types[1]
	if second.TargetType != 0x03 || second.EntryOffset != 3 {
		t.Errorf("second block = %+v", second)
	}
	want := []resource.ID{0x7f030000, NoMapping, 0x7f030001}
	if !reflect.DeepEqual(second.Entries, want) {
		t.Errorf("second block entries = %v, want %v", second.Entries, want)
	}
}

func TestEncodeDecodeRoundtrip(t *testing.T) {
	original, err := Decode(rawFixture())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	encoded, err := Encode(original)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(encoded, rawFixture()) {
		t.Error("Encode did not reproduce the original bytes")
	}

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode (roundtrip): %v", err)
	}
	if !reflect.DeepEqual(original, decoded) {
		t.Errorf("roundtrip mismatch:\n got %+v\nwant %+v", decoded, original)
	}
}

func TestDecodeHeaderOnly(t *testing.T) {
	h, err := DecodeHeader(rawFixture()[:headerSize])
	if err != nil {
		t.Fatalf("DecodeHeader: %v", err)
	}
	if h.TargetCRC != 0x1234 || h.TargetPath != "/data/app/target.rtbl" {
		t.Errorf("header = %+v", h)
	}
}

func TestDecodeRejectsTruncation(t *testing.T) {
	raw := rawFixture()

	// Every possible truncation point must produce an error, and in
	// particular must never read past the buffer or return a partial
	// model.
	for length := 0; length < len(raw); length++ {
		if _, err := Decode(raw[:length]); err == nil {
			t.Fatalf("Decode of %d/%d bytes succeeded, want error", length, len(raw))
		}
	}

	// A cut mid-entry-array is specifically ErrTruncated.
	_, err := Decode(raw[:len(raw)-2])
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("mid-entry truncation error = %v, want ErrTruncated", err)
	}

	_, err = Decode(raw[:10])
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("10-byte buffer error = %v, want ErrTruncated", err)
	}
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	raw := rawFixture()
	raw[0] ^= 0xff
	if _, err := Decode(raw); !errors.Is(err, ErrBadMagic) {
		t.Errorf("error = %v, want ErrBadMagic", err)
	}
}

func TestDecodeRejectsUnsupportedVersion(t *testing.T) {
	raw := rawFixture()
	binary.LittleEndian.PutUint32(raw[4:], Version+1)
	if _, err := Decode(raw); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("error = %v, want ErrUnsupportedVersion", err)
	}
}

func TestDecodeRejectsOversizedCounts(t *testing.T) {
	// A types_count demanding more bytes than remain must be rejected
	// before allocation.
	raw := rawFixture()
	binary.LittleEndian.PutUint16(raw[headerSize+2:], 0xffff)
	if _, err := Decode(raw); !errors.Is(err, ErrTruncated) {
		t.Errorf("types_count bomb error = %v, want ErrTruncated", err)
	}

	// Same for entry_count inside a type block.
	raw = rawFixture()
	binary.LittleEndian.PutUint16(raw[headerSize+dataHeaderSize+4:], 0xfff0)
	if _, err := Decode(raw); !errors.Is(err, ErrTruncated) {
		t.Errorf("entry_count bomb error = %v, want ErrTruncated", err)
	}
}

func TestDecodeRejectsMisorderedTypeBlocks(t *testing.T) {
	raw := rawFixture()
	// Swap the target type ids of the two blocks: 0x03 before 0x02.
	binary.LittleEndian.PutUint16(raw[headerSize+dataHeaderSize:], 0x0003)
	secondBlock := headerSize + dataHeaderSize + typeBlockFixedSize + entrySize
	binary.LittleEndian.PutUint16(raw[secondBlock:], 0x0002)
	if _, err := Decode(raw); !errors.Is(err, ErrMalformed) {
		t.Errorf("error = %v, want ErrMalformed", err)
	}
}

func TestDecodeRejectsTrailingGarbage(t *testing.T) {
	raw := append(rawFixture(), 0x00)
	if _, err := Decode(raw); err == nil {
		t.Error("Decode accepted a trailing byte after the last data block")
	}
}

func TestDecodeRejectsHeaderOnly(t *testing.T) {
	if _, err := Decode(rawFixture()[:headerSize]); !errors.Is(err, ErrMalformed) {
		t.Error("Decode accepted an idmap with no data blocks")
	}
}

func TestEncodeRejectsOverlongPath(t *testing.T) {
	m, err := Decode(rawFixture())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	m.Header.TargetPath = "/" + string(bytes.Repeat([]byte{'a'}, pathSize))
	if _, err := Encode(m); err == nil {
		t.Error("Encode accepted a path longer than the fixed header field")
	}
}
