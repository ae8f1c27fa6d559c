// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

// Package resource defines the composite resource identifier and the
// narrow capability interfaces the idmap core consumes from a resource
// table implementation.
//
// A resource id packs three fields into 32 bits:
//
//	0xPPTTEEEE
//	  PP   package id (8 bits)
//	  TT   type id (8 bits)
//	  EEEE entry index (16 bits)
//
// The core never depends on a concrete resource table. Construction
// walks a [Table]; the pretty-print visitor optionally consults a
// [Resolver] to turn ids back into names. Both interfaces are
// implemented by lib/restable, and by test fakes.
package resource
