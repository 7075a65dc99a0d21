// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides Slipway's standard CBOR encoding configuration.
//
// Slipway uses two serialization formats with a clear boundary:
//
//   - JSON for external interfaces: the controller's REST API (token
//     issue, describe, resource actions), CLI --json output, and
//     sealed export bundles.
//   - CBOR for on-disk state: the profile store file.
//
// This package provides the shared CBOR encoding and decoding modes so
// that every package encodes identically without duplicating
// configuration. The encoder uses Core Deterministic Encoding (RFC 8949
// §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. Same logical data always produces identical
// bytes, so rewriting an unchanged store produces an unchanged file.
//
// Usage:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// Types serialized by this package carry `cbor` struct tags; types that
// also appear in JSON output carry `json` tags and rely on
// fxamacker/cbor's json-tag fallback. Never use both tags on one field.
package codec
