// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"
)

// CompressionTag identifies the compression algorithm used for a
// cached describe document. Tags are stored in the profile file —
// these values are format constants and changing them breaks existing
// store files.
type CompressionTag uint8

const (
	// CompressionNone indicates uncompressed data. Used when zstd
	// cannot make the document smaller (tiny or degenerate documents).
	CompressionNone CompressionTag = 0

	// CompressionZstd indicates zstd compression at the default level.
	// Describe documents are JSON and typically shrink 5-10x.
	CompressionZstd CompressionTag = 1
)

// String returns the human-readable name of a compression tag.
func (tag CompressionTag) String() string {
	switch tag {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(tag))
	}
}

// zstdEncoder and zstdDecoder are reused across calls to avoid
// repeated initialization overhead. Both are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("profile: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("profile: zstd decoder initialization failed: " + err.Error())
	}
}

// descriptionRecord is the on-disk form of a cached describe
// document: the (possibly compressed) payload, the uncompressed size,
// and a blake3 digest of the uncompressed JSON. The digest is
// verified on load; a mismatch means the store is corrupt.
type descriptionRecord struct {
	Compression uint8  `cbor:"compression"`
	Size        int    `cbor:"size"`
	Digest      []byte `cbor:"digest"`
	Data        []byte `cbor:"data"`
}

// encodeDescription compresses a describe document for storage,
// falling back to an uncompressed record when zstd does not shrink it.
func encodeDescription(raw []byte) descriptionRecord {
	digest := blake3.Sum256(raw)
	record := descriptionRecord{
		Size:   len(raw),
		Digest: digest[:],
	}

	compressed := zstdEncoder.EncodeAll(raw, nil)
	if len(compressed) < len(raw) {
		record.Compression = uint8(CompressionZstd)
		record.Data = compressed
	} else {
		record.Compression = uint8(CompressionNone)
		record.Data = raw
	}
	return record
}

// decodeDescription reverses encodeDescription, verifying the size
// and digest of the recovered document.
func decodeDescription(record descriptionRecord) ([]byte, error) {
	var raw []byte
	switch CompressionTag(record.Compression) {
	case CompressionNone:
		raw = record.Data
	case CompressionZstd:
		decompressed, err := zstdDecoder.DecodeAll(record.Data, make([]byte, 0, record.Size))
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		raw = decompressed
	default:
		return nil, fmt.Errorf("unknown compression tag %d", record.Compression)
	}

	if len(raw) != record.Size {
		return nil, fmt.Errorf("description size %d does not match recorded %d", len(raw), record.Size)
	}
	digest := blake3.Sum256(raw)
	if !bytes.Equal(digest[:], record.Digest) {
		return nil, fmt.Errorf("description digest mismatch")
	}
	return raw, nil
}

// DescriptionDigest returns the hex-ready blake3 digest of a describe
// document. The refresh command compares digests to report whether a
// refetched description actually changed.
func DescriptionDigest(raw []byte) [32]byte {
	return blake3.Sum256(raw)
}
