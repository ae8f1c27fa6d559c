// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

package idmap

import (
	"fmt"
	"io"

	"github.com/idmap-foundation/idmap/lib/resource"
)

// RawPrintVisitor renders a byte-annotated dump: for every field, the
// absolute file offset, the raw value, and a decoded annotation. The
// traversal order matches the wire layout exactly, so the output doubles
// as a description of the codec: if the dump and the file disagree, the
// codec is wrong.
//
// Output format, per field width:
//
//	00000000: 504d4449  magic
//	00000210:     007f  target package id
//	00000010: ........  target path: /data/app/target.rtbl
type RawPrintVisitor struct {
	w        io.Writer
	resolver resource.Resolver

	offset      int
	lastPackage uint8

	// pendingTypesCount carries len(Types) from VisitData to
	// VisitDataHeader: types_count sits in the data header on disk but
	// is derived from the block slice in the model.
	pendingTypesCount int
}

// NewRawPrintVisitor creates an annotated-byte visitor writing to w.
// resolver may be nil.
func NewRawPrintVisitor(w io.Writer, resolver resource.Resolver) *RawPrintVisitor {
	return &RawPrintVisitor{w: w, resolver: resolver}
}

func (v *RawPrintVisitor) VisitIdmap(*Idmap) {}

func (v *RawPrintVisitor) VisitHeader(h *Header) {
	v.print32(h.Magic, "magic")
	v.print32(h.Version, "version")
	v.print32(h.TargetCRC, "target crc")
	v.print32(h.OverlayCRC, "overlay crc")
	v.printPath(h.TargetPath, "target path")
	v.printPath(h.OverlayPath, "overlay path")
}

func (v *RawPrintVisitor) VisitData(d *Data) {
	v.pendingTypesCount = len(d.Types)
}

func (v *RawPrintVisitor) VisitDataHeader(dh *DataHeader) {
	v.lastPackage = dh.TargetPackageID
	v.print16(uint16(dh.TargetPackageID), "target package id")
	v.print16(uint16(v.pendingTypesCount), "types count")
}

func (v *RawPrintVisitor) VisitTypeBlock(t *TypeBlock) {
	v.print16(uint16(t.TargetType), "target type")
	v.print16(uint16(t.OverlayType), "overlay type")
	v.print16(uint16(len(t.Entries)), "entry count")
	v.print16(t.EntryOffset, "entry offset")
}

func (v *RawPrintVisitor) VisitEntry(t *TypeBlock, index int, overlay resource.ID) {
	if overlay == NoMapping {
		v.print32(uint32(overlay), "no mapping")
		return
	}
	target := resource.MakeID(v.lastPackage, t.TargetType, t.EntryOffset+uint16(index))
	if v.resolver != nil {
		if typeName, entryName, ok := v.resolver.Resolve(t.TargetType, target.EntryID()); ok {
			v.print32(uint32(overlay), fmt.Sprintf("%s -> %s %s/%s", target, overlay, typeName, entryName))
			return
		}
	}
	v.print32(uint32(overlay), fmt.Sprintf("%s -> %s", target, overlay))
}

func (v *RawPrintVisitor) print16(value uint16, comment string) {
	fmt.Fprintf(v.w, "%08x:     %04x  %s\n", v.offset, value, comment)
	v.offset += 2
}

func (v *RawPrintVisitor) print32(value uint32, comment string) {
	fmt.Fprintf(v.w, "%08x: %08x  %s\n", v.offset, value, comment)
	v.offset += 4
}

func (v *RawPrintVisitor) printPath(value string, comment string) {
	fmt.Fprintf(v.w, "%08x: ........  %s: %s\n", v.offset, comment, value)
	v.offset += pathSize
}
