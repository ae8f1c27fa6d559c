// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

package idmap

import (
	"fmt"
	"io"
	"strings"

	"github.com/idmap-foundation/idmap/lib/resource"
)

// PrettyPrintVisitor renders a human-readable summary of an idmap:
// header fields, then one "target -> overlay" line per mapping. When a
// Resolver is available each line carries the symbolic type/name;
// without one (an idmap parsed from raw bytes with no live table
// backing it) output degrades to bare numeric ids.
type PrettyPrintVisitor struct {
	w        io.Writer
	resolver resource.Resolver

	// lastPackage is the package id of the data block being visited,
	// needed to reconstruct full target ids from entry slots.
	lastPackage uint8
}

// NewPrettyPrintVisitor creates a summary visitor writing to w.
// resolver may be nil.
func NewPrettyPrintVisitor(w io.Writer, resolver resource.Resolver) *PrettyPrintVisitor {
	return &PrettyPrintVisitor{w: w, resolver: resolver}
}

func (v *PrettyPrintVisitor) VisitIdmap(*Idmap) {}

func (v *PrettyPrintVisitor) VisitHeader(h *Header) {
	fmt.Fprintf(v.w, "target path:  %s\n", h.TargetPath)
	fmt.Fprintf(v.w, "overlay path: %s\n", h.OverlayPath)
	fmt.Fprintf(v.w, "target crc:   0x%08x\n", h.TargetCRC)
	fmt.Fprintf(v.w, "overlay crc:  0x%08x\n", h.OverlayCRC)
}

func (v *PrettyPrintVisitor) VisitData(*Data) {}

func (v *PrettyPrintVisitor) VisitDataHeader(dh *DataHeader) {
	v.lastPackage = dh.TargetPackageID
	fmt.Fprintf(v.w, "target package: 0x%02x\n", dh.TargetPackageID)
}

func (v *PrettyPrintVisitor) VisitTypeBlock(*TypeBlock) {}

func (v *PrettyPrintVisitor) VisitEntry(t *TypeBlock, index int, overlay resource.ID) {
	if overlay == NoMapping {
		return
	}
	target := resource.MakeID(v.lastPackage, t.TargetType, t.EntryOffset+uint16(index))
	if v.resolver != nil {
		if typeName, entryName, ok := v.resolver.Resolve(t.TargetType, target.EntryID()); ok {
			fmt.Fprintf(v.w, "%s -> %s %s/%s\n", target, overlay, typeName, entryName)
			return
		}
	}
	fmt.Fprintf(v.w, "%s -> %s\n", target, overlay)
}

// DumpOptions selects the output strategy for Dump.
type DumpOptions struct {
	// Verbose selects the byte-annotated raw dump instead of the
	// summary.
	Verbose bool

	// Resolver, when non-nil, resolves ids back to symbolic names.
	Resolver resource.Resolver
}

// Dump renders the idmap as text using the visitor selected by opts.
func Dump(m *Idmap, opts DumpOptions) string {
	var sb strings.Builder
	if opts.Verbose {
		m.Accept(NewRawPrintVisitor(&sb, opts.Resolver))
	} else {
		m.Accept(NewPrettyPrintVisitor(&sb, opts.Resolver))
	}
	return sb.String()
}
