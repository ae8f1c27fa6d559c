// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

package restable

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/idmap-foundation/idmap/lib/codec"
)

// Container format constants.
const (
	// containerVersion is the compiled container format version.
	containerVersion = 1
)

// containerMagic is the 8-byte container signature: "RTBL" + version
// byte + three reserved bytes.
var containerMagic = [8]byte{'R', 'T', 'B', 'L', containerVersion, 0, 0, 0}

// zstdFrameMagic is the first four bytes of every zstd frame
// (RFC 8878). Load sniffs it to transparently handle compressed
// containers.
var zstdFrameMagic = [4]byte{0x28, 0xb5, 0x2f, 0xfd}

// payload is the CBOR body of a compiled container. Unlike Document,
// every numeric id is explicit: compilation resolves the sequential
// assignment so loaders never re-derive ids.
type payload struct {
	Package   string        `cbor:"package"`
	PackageID uint8         `cbor:"package_id"`
	Types     []payloadType `cbor:"types"`
}

type payloadType struct {
	Name    string         `cbor:"name"`
	ID      uint8          `cbor:"id"`
	Entries []payloadEntry `cbor:"entries"`
}

type payloadEntry struct {
	Name  string `cbor:"name"`
	Index uint16 `cbor:"index"`
}

// Compile serializes a validated document to container bytes. The
// payload uses deterministic CBOR, so compiling the same document
// always yields identical bytes and therefore a stable container
// CRC. With compress set, the whole container (envelope included) is
// wrapped in a single zstd frame; note that compression changes the
// bytes the idmap CRC covers, so a table must not silently move
// between compressed and plain forms.
func Compile(doc *Document, compress bool) ([]byte, error) {
	if err := doc.validate(); err != nil {
		return nil, err
	}

	body := payload{
		Package:   doc.Package,
		PackageID: doc.PackageID,
	}

	nextTypeID := uint8(1)
	for _, typ := range doc.Types {
		if typ.ID != nil {
			nextTypeID = *typ.ID
		}
		compiled := payloadType{Name: typ.Name, ID: nextTypeID}
		nextTypeID++

		nextIndex := uint16(0)
		for _, entry := range typ.Entries {
			if entry.Index != nil {
				nextIndex = *entry.Index
			}
			compiled.Entries = append(compiled.Entries, payloadEntry{
				Name:  entry.Name,
				Index: nextIndex,
			})
			nextIndex++
		}
		body.Types = append(body.Types, compiled)
	}

	encoded, err := codec.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding container payload: %w", err)
	}

	container := make([]byte, 0, len(containerMagic)+len(encoded))
	container = append(container, containerMagic[:]...)
	container = append(container, encoded...)

	if !compress {
		return container, nil
	}
	return compressContainer(container)
}

// compressContainer wraps container bytes in a single zstd frame.
// SingleSegment keeps the frame header deterministic for a given
// input, preserving the byte-stability guarantee of Compile.
func compressContainer(container []byte) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithSingleSegment(true),
	)
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	defer encoder.Close()
	return encoder.EncodeAll(container, nil), nil
}

// decodeContainer validates the envelope and decodes the CBOR payload.
// A zstd frame is decompressed first. Decoding is strict about the
// envelope: wrong magic and unsupported versions are distinct errors
// so callers can tell "not a container" from "container from the
// future".
func decodeContainer(data []byte) (*payload, error) {
	if len(data) >= len(zstdFrameMagic) && bytes.Equal(data[:4], zstdFrameMagic[:]) {
		decoder, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("creating zstd decoder: %w", err)
		}
		defer decoder.Close()

		decompressed, err := decoder.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("decompressing container: %w", err)
		}
		data = decompressed
	}

	if len(data) < len(containerMagic) {
		return nil, fmt.Errorf("container is %d bytes, shorter than the %d-byte envelope", len(data), len(containerMagic))
	}
	var magic [8]byte
	copy(magic[:], data)
	if magic != containerMagic {
		if bytes.Equal(magic[:4], containerMagic[:4]) {
			return nil, fmt.Errorf("container version %d is not supported (this code supports version %d)",
				magic[4], containerVersion)
		}
		return nil, fmt.Errorf("not a resource table container (invalid magic bytes)")
	}

	var body payload
	if err := codec.Unmarshal(data[len(containerMagic):], &body); err != nil {
		return nil, fmt.Errorf("decoding container payload: %w", err)
	}
	return &body, nil
}
