// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for idmap packages.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no idmap-internal dependencies.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes a fixture file under dir and returns its path.
// Parent directories are created as needed, so nested layouts like
// "overlay/red.rtbl" work directly.
func WriteFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating fixture directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
	return path
}

// ReadFile reads a file or fails the test.
func ReadFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return data
}
