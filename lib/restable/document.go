// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

package restable

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Document is a resource table source document. Documents are authored
// by hand, so they carry symbolic names and make numeric ids optional.
type Document struct {
	// Package is the package name (e.g. "com.example.target").
	Package string `yaml:"package" json:"package"`

	// PackageID is the package field of every resource id in this
	// table (e.g. 0x7f for an application package).
	PackageID uint8 `yaml:"package_id" json:"package_id"`

	// Types declares the resource types in table order.
	Types []TypeDecl `yaml:"types" json:"types"`
}

// TypeDecl declares one resource type and its entries.
type TypeDecl struct {
	// Name is the symbolic type name (e.g. "string").
	Name string `yaml:"name" json:"name"`

	// ID is the explicit type id. When nil, the type gets the previous
	// type's id plus one (the first type gets 1).
	ID *uint8 `yaml:"id,omitempty" json:"id,omitempty"`

	// Entries declares the type's entries in table order.
	Entries []EntryDecl `yaml:"entries" json:"entries"`
}

// EntryDecl declares one entry. An explicit Index models sparse entry
// runs; when nil, the entry gets the previous entry's index plus one
// (the first entry gets 0).
type EntryDecl struct {
	Name  string  `yaml:"name" json:"name"`
	Index *uint16 `yaml:"index,omitempty" json:"index,omitempty"`
}

// ParseDocument parses source bytes into a Document. The format is
// chosen by the file extension of name: .yaml/.yml for YAML,
// .json/.jsonc for JSONC (JSON extended with comments and trailing
// commas). The document is validated before being returned.
func ParseDocument(data []byte, name string) (*Document, error) {
	var doc Document

	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
	default:
		return nil, fmt.Errorf("%s: unsupported document format (want .yaml, .yml, .json, or .jsonc)", name)
	}

	if err := doc.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &doc, nil
}

// ReadDocument reads and parses a source document from disk.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseDocument(data, path)
}

// validate checks structural invariants: nonzero package id, unique
// strictly-increasing numeric ids, unique names. Explicit ids must not
// collide with or step backwards over assigned ones, so validation
// runs the same assignment pass Compile uses.
func (d *Document) validate() error {
	if d.Package == "" {
		return fmt.Errorf("document has no package name")
	}
	if d.PackageID == 0 {
		return fmt.Errorf("package %q: package_id 0 is reserved", d.Package)
	}
	if len(d.Types) == 0 {
		return fmt.Errorf("package %q declares no types", d.Package)
	}

	typeNames := make(map[string]bool, len(d.Types))
	nextTypeID := 1
	for _, typ := range d.Types {
		if typ.Name == "" {
			return fmt.Errorf("package %q: type with empty name", d.Package)
		}
		if typeNames[typ.Name] {
			return fmt.Errorf("package %q: duplicate type %q", d.Package, typ.Name)
		}
		typeNames[typ.Name] = true

		if typ.ID != nil {
			if int(*typ.ID) < nextTypeID {
				return fmt.Errorf("type %q: explicit id %d collides with or precedes an assigned id", typ.Name, *typ.ID)
			}
			nextTypeID = int(*typ.ID)
		}
		if nextTypeID > 0xff {
			return fmt.Errorf("type %q: type id %d exceeds 8 bits", typ.Name, nextTypeID)
		}
		nextTypeID++

		if len(typ.Entries) == 0 {
			return fmt.Errorf("type %q declares no entries", typ.Name)
		}
		entryNames := make(map[string]bool, len(typ.Entries))
		nextIndex := 0
		for _, entry := range typ.Entries {
			if entry.Name == "" {
				return fmt.Errorf("type %q: entry with empty name", typ.Name)
			}
			if entryNames[entry.Name] {
				return fmt.Errorf("type %q: duplicate entry %q", typ.Name, entry.Name)
			}
			entryNames[entry.Name] = true

			if entry.Index != nil {
				if int(*entry.Index) < nextIndex {
					return fmt.Errorf("entry %s/%s: explicit index %d collides with or precedes an assigned index",
						typ.Name, entry.Name, *entry.Index)
				}
				nextIndex = int(*entry.Index)
			}
			if nextIndex > 0xffff {
				return fmt.Errorf("entry %s/%s: entry index %d exceeds 16 bits", typ.Name, entry.Name, nextIndex)
			}
			nextIndex++
		}
	}
	return nil
}
