// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

// Package restable implements the resource table container consumed by
// idmap construction and verification.
//
// A table exists in two forms:
//
//   - Source documents, authored in YAML or JSONC, declaring a package
//     and its types and entries. Numeric ids may be explicit (to model
//     sparse tables) or assigned sequentially in declaration order.
//   - Compiled containers (.rtbl): an 8-byte magic/version envelope
//     followed by a deterministic-CBOR payload, optionally wrapped in a
//     zstd frame (.rtbl.zst). The container file is the unit the idmap
//     header CRC covers, so its encoding must be byte-stable.
//
// The typical flow:
//
//  1. ReadDocument parses YAML/JSONC bytes into a Document.
//  2. Compile turns a Document into container bytes.
//  3. Load reads a container file into a *Table, which satisfies both
//     resource.Table and resource.Resolver.
package restable
