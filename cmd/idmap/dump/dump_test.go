// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

package dump

import (
	"testing"

	"github.com/idmap-foundation/idmap/lib/idmap"
	"github.com/idmap-foundation/idmap/lib/resource"
)

func TestJSONModel(t *testing.T) {
	m := &idmap.Idmap{
		Header: idmap.Header{
			Magic:       idmap.Magic,
			Version:     idmap.Version,
			TargetCRC:   0x1234,
			OverlayCRC:  0x5678,
			TargetPath:  "/data/app/target.rtbl",
			OverlayPath: "/vendor/overlay/overlay.rtbl",
		},
		Data: []idmap.Data{{
			Header: idmap.DataHeader{TargetPackageID: 0x7f},
			Types: []idmap.TypeBlock{{
				TargetType:  0x02,
				OverlayType: 0x01,
				EntryOffset: 3,
				Entries:     []resource.ID{0x7f010000, idmap.NoMapping, 0x7f010001},
			}},
		}},
	}

	out := jsonModel(m)
	if out.Header.TargetPath != "/data/app/target.rtbl" || out.Header.TargetCRC != 0x1234 {
		t.Errorf("header = %+v", out.Header)
	}

	// NoMapping slots are omitted from the mapping list.
	if len(out.Mappings) != 2 {
		t.Fatalf("got %d mappings, want 2: %+v", len(out.Mappings), out.Mappings)
	}
	if out.Mappings[0].Target != "0x7f020003" || out.Mappings[0].Overlay != "0x7f010000" {
		t.Errorf("first mapping = %+v", out.Mappings[0])
	}
	if out.Mappings[1].Target != "0x7f020005" || out.Mappings[1].Overlay != "0x7f010001" {
		t.Errorf("second mapping = %+v", out.Mappings[1])
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	if err := run(&params{}, nil); err == nil {
		t.Error("run accepted zero arguments")
	}
	if err := run(&params{}, []string{"/nonexistent.idmap"}); err == nil {
		t.Error("run accepted a missing file")
	}
}
