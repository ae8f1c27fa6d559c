// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

package idmap

import "github.com/idmap-foundation/idmap/lib/checksum"

// UpToDate reports whether an existing idmap header still describes
// the containers on disk. The targetPath/overlayPath arguments are the
// container paths currently in use; pass "" to check against the paths
// recorded in the header.
//
// Staleness is an expected, recoverable condition: a moved file, a
// missing file, a changed container, or an unhashable container all
// yield false rather than an error, prompting the caller to
// regenerate.
func UpToDate(h *Header, targetPath, overlayPath string, crc ChecksumFunc) bool {
	if crc == nil {
		crc = checksum.File
	}

	if h.Magic != Magic || h.Version != Version {
		return false
	}

	// A container that moved is stale even if its content did not
	// change: the runtime would be loading from the new path while the
	// idmap records the old one.
	if targetPath == "" {
		targetPath = h.TargetPath
	} else if targetPath != h.TargetPath {
		return false
	}
	if overlayPath == "" {
		overlayPath = h.OverlayPath
	} else if overlayPath != h.OverlayPath {
		return false
	}

	targetCRC, err := crc(targetPath)
	if err != nil || targetCRC != h.TargetCRC {
		return false
	}
	overlayCRC, err := crc(overlayPath)
	if err != nil || overlayCRC != h.OverlayCRC {
		return false
	}
	return true
}
