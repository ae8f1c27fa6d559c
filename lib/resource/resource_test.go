// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

package resource

import "testing"

func TestID(t *testing.T) {
	id := MakeID(0x7f, 0x02, 0x0003)
	if id != 0x7f020003 {
		t.Fatalf("MakeID = %s, want 0x7f020003", id)
	}
	if id.PackageID() != 0x7f || id.TypeID() != 0x02 || id.EntryID() != 0x0003 {
		t.Errorf("fields = 0x%02x/0x%02x/0x%04x", id.PackageID(), id.TypeID(), id.EntryID())
	}
	if id.String() != "0x7f020003" {
		t.Errorf("String = %q", id.String())
	}
}

func TestIDIsValid(t *testing.T) {
	if !MakeID(0x7f, 0x02, 0).IsValid() {
		t.Error("app package id reported invalid")
	}
	if ID(0).IsValid() {
		t.Error("zero id reported valid")
	}
	if ID(0x00020003).IsValid() {
		t.Error("package-zero id reported valid")
	}
}

func TestEntryID(t *testing.T) {
	e := Entry{TypeID: 0x02, TypeName: "string", EntryID: 3, EntryName: "str1"}
	if got := e.ID(0x7f); got != 0x7f020003 {
		t.Errorf("Entry.ID = %s, want 0x7f020003", got)
	}
}
