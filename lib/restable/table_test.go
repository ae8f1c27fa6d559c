// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

package restable

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func testDocument(t *testing.T) *Document {
	t.Helper()
	doc, err := ParseDocument([]byte(yamlDocument), "target.yaml")
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	return doc
}

func TestCompileDeterministic(t *testing.T) {
	doc := testDocument(t)

	first, err := Compile(doc, false)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	second, err := Compile(doc, false)
	if err != nil {
		t.Fatalf("Compile (again): %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("compiling the same document twice produced different bytes")
	}
}

func TestCompileLoadRoundtrip(t *testing.T) {
	doc := testDocument(t)

	for _, compress := range []bool{false, true} {
		name := "plain"
		if compress {
			name = "zstd"
		}
		t.Run(name, func(t *testing.T) {
			container, err := Compile(doc, compress)
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}

			path := filepath.Join(t.TempDir(), "target.rtbl")
			if err := os.WriteFile(path, container, 0o644); err != nil {
				t.Fatalf("writing container: %v", err)
			}

			table, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}

			if table.Package() != "com.example.target" {
				t.Errorf("Package = %q", table.Package())
			}
			if table.PackageID() != 0x7f {
				t.Errorf("PackageID = %#x, want 0x7f", table.PackageID())
			}

			entries := table.Entries()
			if len(entries) != 4 {
				t.Fatalf("got %d entries, want 4", len(entries))
			}

			// Sequential assignment: string gets type 1, entries 0 and 1.
			if entries[0].TypeID != 1 || entries[0].EntryID != 0 || entries[0].EntryName != "str1" {
				t.Errorf("entries[0] = %+v", entries[0])
			}
			// Explicit ids: integer is type 3; int1 at index 5, int2 follows at 6.
			if entries[2].TypeID != 3 || entries[2].EntryID != 5 {
				t.Errorf("entries[2] = %+v, want type 3 index 5", entries[2])
			}
			if entries[3].TypeID != 3 || entries[3].EntryID != 6 {
				t.Errorf("entries[3] = %+v, want type 3 index 6", entries[3])
			}
		})
	}
}

func TestResolve(t *testing.T) {
	table, err := FromDocument(testDocument(t))
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}

	typeName, entryName, ok := table.Resolve(1, 1)
	if !ok || typeName != "string" || entryName != "str2" {
		t.Errorf("Resolve(1, 1) = %q/%q, %v; want string/str2, true", typeName, entryName, ok)
	}

	if _, _, ok := table.Resolve(1, 99); ok {
		t.Error("Resolve(1, 99) reported ok for an undeclared entry")
	}
	if _, _, ok := table.Resolve(9, 0); ok {
		t.Error("Resolve(9, 0) reported ok for an undeclared type")
	}
}

func TestLoadRejectsBadContainers(t *testing.T) {
	dir := t.TempDir()

	write := func(name string, data []byte) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
		return path
	}

	if _, err := Load(write("garbage.rtbl", []byte("not a container at all"))); err == nil {
		t.Error("loading garbage succeeded, want magic error")
	}

	if _, err := Load(write("short.rtbl", []byte("RT"))); err == nil {
		t.Error("loading a 2-byte file succeeded, want envelope error")
	}

	future := []byte{'R', 'T', 'B', 'L', containerVersion + 1, 0, 0, 0, 0xa0}
	if _, err := Load(write("future.rtbl", future)); err == nil {
		t.Error("loading a future container version succeeded, want version error")
	}
}
