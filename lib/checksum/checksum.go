// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

// Package checksum computes the 32-bit container checksums stored in
// idmap headers. The idmap wire format fixes the field width at 32
// bits, so this is CRC32 (Castagnoli polynomial) rather than a
// cryptographic digest; the goal is cheap staleness detection, not
// tamper resistance.
package checksum

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

// castagnoliTable is the shared CRC32C table. Castagnoli has hardware
// support on amd64 and arm64.
var castagnoliTable = crc32.MakeTable(crc32.Castagnoli)

// Bytes returns the CRC32C of data.
func Bytes(data []byte) uint32 {
	return crc32.Checksum(data, castagnoliTable)
}

// File computes the CRC32C of the file at path. The file is streamed
// through the hash in chunks (via io.Copy) to keep memory usage
// constant regardless of container size.
func File(path string) (uint32, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	hasher := crc32.New(castagnoliTable)
	if _, err := io.Copy(hasher, file); err != nil {
		return 0, fmt.Errorf("hashing %s: %w", path, err)
	}
	return hasher.Sum32(), nil
}
