// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

package restable

import (
	"fmt"
	"os"

	"github.com/idmap-foundation/idmap/lib/resource"
)

// Table is a loaded resource container. It satisfies both capability
// interfaces the idmap core consumes: resource.Table (enumeration, for
// construction) and resource.Resolver (id-to-name, for dump output).
// Tables are immutable after Load.
type Table struct {
	pkg     string
	pkgID   uint8
	entries []resource.Entry
	byID    map[uint32]int // typeID<<16|entryID -> index into entries
}

// Load reads and decodes a compiled container file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading container %s: %w", path, err)
	}
	table, err := fromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// FromDocument compiles and loads a document in one step, without
// touching the filesystem. Intended for tests and for callers that
// already hold a parsed document.
func FromDocument(doc *Document) (*Table, error) {
	container, err := Compile(doc, false)
	if err != nil {
		return nil, err
	}
	return fromBytes(container)
}

func fromBytes(data []byte) (*Table, error) {
	body, err := decodeContainer(data)
	if err != nil {
		return nil, err
	}

	table := &Table{
		pkg:   body.Package,
		pkgID: body.PackageID,
		byID:  make(map[uint32]int),
	}
	for _, typ := range body.Types {
		for _, entry := range typ.Entries {
			table.entries = append(table.entries, resource.Entry{
				TypeID:    typ.ID,
				TypeName:  typ.Name,
				EntryID:   entry.Index,
				EntryName: entry.Name,
			})
			table.byID[uint32(typ.ID)<<16|uint32(entry.Index)] = len(table.entries) - 1
		}
	}
	return table, nil
}

// Package returns the package name.
func (t *Table) Package() string {
	return t.pkg
}

// PackageID returns the package id of every resource in the table.
func (t *Table) PackageID() uint8 {
	return t.pkgID
}

// Entries returns all resources in container order: ascending type id,
// then ascending entry index (compilation preserves declaration order,
// which validation forces to be ascending). The slice is owned by the
// table; callers must not mutate it.
func (t *Table) Entries() []resource.Entry {
	return t.entries
}

// Resolve maps numeric (type, entry) coordinates back to symbolic
// names, satisfying resource.Resolver.
func (t *Table) Resolve(typeID uint8, entryID uint16) (typeName, entryName string, ok bool) {
	i, ok := t.byID[uint32(typeID)<<16|uint32(entryID)]
	if !ok {
		return "", "", false
	}
	return t.entries[i].TypeName, t.entries[i].EntryName, true
}
