// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding used by compiled resource
// containers. Encoding is Core Deterministic Encoding (RFC 8949 §4.2),
// which matters here: the idmap header stores a CRC of the container
// bytes, so the same logical resource table must always serialize to
// identical bytes or every recompile would spuriously invalidate
// existing idmaps.
package codec
