// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

package idmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/idmap-foundation/idmap/lib/resource"
)

func verifyFixtureHeader() *Header {
	return &Header{
		Magic:       Magic,
		Version:     Version,
		TargetCRC:   0x1234,
		OverlayCRC:  0x5678,
		TargetPath:  "/data/app/target.rtbl",
		OverlayPath: "/vendor/overlay/overlay.rtbl",
	}
}

func TestUpToDate(t *testing.T) {
	crc := fixedCRC(buildFixtureCRCs())

	if !UpToDate(verifyFixtureHeader(), "/data/app/target.rtbl", "/vendor/overlay/overlay.rtbl", crc) {
		t.Error("fresh idmap reported stale")
	}

	// Empty paths mean "check against the recorded paths".
	if !UpToDate(verifyFixtureHeader(), "", "", crc) {
		t.Error("fresh idmap reported stale with recorded paths")
	}
}

func TestUpToDateStale(t *testing.T) {
	cases := []struct {
		name                    string
		mutate                  func(h *Header)
		targetPath, overlayPath string
		crcs                    map[string]uint32
	}{
		{
			name:   "changed target content",
			mutate: func(h *Header) {},
			crcs: map[string]uint32{
				"/data/app/target.rtbl":        0x9999,
				"/vendor/overlay/overlay.rtbl": 0x5678,
			},
		},
		{
			name:   "changed overlay content",
			mutate: func(h *Header) {},
			crcs: map[string]uint32{
				"/data/app/target.rtbl":        0x1234,
				"/vendor/overlay/overlay.rtbl": 0x9999,
			},
		},
		{
			name:        "moved overlay",
			mutate:      func(h *Header) {},
			overlayPath: "/vendor/overlay/renamed.rtbl",
			crcs:        buildFixtureCRCs(),
		},
		{
			name:   "missing target",
			mutate: func(h *Header) {},
			crcs: map[string]uint32{
				"/vendor/overlay/overlay.rtbl": 0x5678,
			},
		},
		{
			name:   "wrong magic",
			mutate: func(h *Header) { h.Magic = 0 },
			crcs:   buildFixtureCRCs(),
		},
		{
			name:   "future version",
			mutate: func(h *Header) { h.Version = Version + 1 },
			crcs:   buildFixtureCRCs(),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := verifyFixtureHeader()
			tc.mutate(h)
			if UpToDate(h, tc.targetPath, tc.overlayPath, fixedCRC(tc.crcs)) {
				t.Error("stale idmap reported up to date")
			}
		})
	}
}

// TestUpToDateFiles exercises the default file checksum path end to
// end: real files, no injected ChecksumFunc.
func TestUpToDateFiles(t *testing.T) {
	dir := t.TempDir()
	targetPath := filepath.Join(dir, "target.rtbl")
	overlayPath := filepath.Join(dir, "overlay.rtbl")
	if err := os.WriteFile(targetPath, []byte("target container"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(overlayPath, []byte("overlay container"), 0o644); err != nil {
		t.Fatal(err)
	}

	target := &fakeTable{pkg: 0x7f, entries: []resource.Entry{
		{TypeID: 0x02, TypeName: "string", EntryID: 0, EntryName: "str1"},
	}}
	overlay := &fakeTable{pkg: 0x7f, entries: []resource.Entry{
		{TypeID: 0x02, TypeName: "string", EntryID: 0, EntryName: "str1"},
	}}

	m, err := Build(target, overlay, targetPath, overlayPath, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !UpToDate(&m.Header, targetPath, overlayPath, nil) {
		t.Error("freshly built idmap reported stale")
	}

	// Rewriting the target invalidates the recorded checksum.
	if err := os.WriteFile(targetPath, []byte("modified target"), 0o644); err != nil {
		t.Fatal(err)
	}
	if UpToDate(&m.Header, targetPath, overlayPath, nil) {
		t.Error("idmap reported up to date after the target changed")
	}
}
