// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

package verify

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/idmap-foundation/idmap/cmd/idmap/cli"
	"github.com/idmap-foundation/idmap/lib/idmap"
	"github.com/idmap-foundation/idmap/lib/restable"
	"github.com/idmap-foundation/idmap/lib/testutil"
)

const targetDocument = `
package: com.example.target
package_id: 127
types:
  - name: string
    entries:
      - name: str1
`

const overlayDocument = `
package: com.example.overlay
package_id: 127
types:
  - name: string
    entries:
      - name: str1
`

func writeIdmap(t *testing.T, dir string) (idmapPath, targetPath string) {
	t.Helper()
	compile := func(name, document string) string {
		doc, err := restable.ParseDocument([]byte(document), "doc.yaml")
		if err != nil {
			t.Fatal(err)
		}
		container, err := restable.Compile(doc, false)
		if err != nil {
			t.Fatal(err)
		}
		return testutil.WriteFile(t, dir, name, container)
	}
	targetPath = compile("target.rtbl", targetDocument)
	overlayPath := compile("overlay.rtbl", overlayDocument)

	target, err := restable.Load(targetPath)
	if err != nil {
		t.Fatal(err)
	}
	overlay, err := restable.Load(overlayPath)
	if err != nil {
		t.Fatal(err)
	}
	encoded, err := idmap.Create(target, overlay, targetPath, overlayPath, nil)
	if err != nil {
		t.Fatal(err)
	}
	return testutil.WriteFile(t, dir, "overlay.idmap", encoded), targetPath
}

func TestVerify(t *testing.T) {
	idmapPath, targetPath := writeIdmap(t, t.TempDir())

	if err := run(&params{}, []string{idmapPath}); err != nil {
		t.Errorf("fresh idmap: %v", err)
	}

	// Rewriting the target makes the idmap stale; verify signals that
	// with exit code 1, not a printed error.
	if err := os.WriteFile(targetPath, []byte("changed"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := run(&params{}, []string{idmapPath})
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Errorf("stale idmap error = %v, want ExitError{1}", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "garbage.idmap")
	if err := os.WriteFile(path, []byte("not an idmap"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := run(&params{}, []string{path})
	if err == nil {
		t.Fatal("run accepted a non-idmap file")
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		t.Error("garbage input reported as staleness instead of an error")
	}
}
