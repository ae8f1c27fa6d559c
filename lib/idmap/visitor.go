// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

package idmap

import "github.com/idmap-foundation/idmap/lib/resource"

// Visitor receives one callback per structural node during an Accept
// traversal. Visitors are read-only strategies over the immutable
// model; the two shipped implementations are PrettyPrintVisitor and
// RawPrintVisitor.
type Visitor interface {
	VisitIdmap(m *Idmap)
	VisitHeader(h *Header)
	VisitData(d *Data)
	VisitDataHeader(dh *DataHeader)
	VisitTypeBlock(t *TypeBlock)

	// VisitEntry is called for every entry slot, including NoMapping
	// slots; index is the position within the block's entry run.
	VisitEntry(t *TypeBlock, index int, overlay resource.ID)
}

// Accept walks the model in storage order: idmap, header, then per
// data block its header, then per type block its entries. The order
// matches the wire layout exactly, which is what lets RawPrintVisitor
// reconstruct byte offsets from the traversal alone.
func (m *Idmap) Accept(v Visitor) {
	v.VisitIdmap(m)
	v.VisitHeader(&m.Header)
	for i := range m.Data {
		data := &m.Data[i]
		v.VisitData(data)
		v.VisitDataHeader(&data.Header)
		for j := range data.Types {
			block := &data.Types[j]
			v.VisitTypeBlock(block)
			for k, overlay := range block.Entries {
				v.VisitEntry(block, k, overlay)
			}
		}
	}
}
