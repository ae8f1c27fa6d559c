// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

package idmap

import (
	"path/filepath"
	"strings"
)

// CanonicalPathFor derives the idmap path for an overlay container
// inside dir: the container's absolute path with its leading slash
// dropped, every remaining slash replaced by '@', and an "@idmap"
// suffix. The scheme keeps one flat cache directory with no collisions
// between overlays from different locations:
//
//	CanonicalPathFor("/data/idmap-cache", "/vendor/overlay/red.rtbl")
//	  = "/data/idmap-cache/vendor@overlay@red.rtbl@idmap"
func CanonicalPathFor(dir, containerPath string) string {
	flattened := strings.ReplaceAll(strings.TrimPrefix(containerPath, "/"), "/", "@")
	return filepath.Join(dir, flattened+"@idmap")
}
