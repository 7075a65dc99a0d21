// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

// Package profile persists named controller identities.
//
// A [Profile] is an immutable value: one named identity for one
// controller account (endpoint URL, API key, and optionally a cached
// describe document). Fields are never mutated in place — the With
// methods produce a replacement value, so concurrent holders of an
// old Profile are never surprised by another actor's edit.
//
// A [Store] is the durable keyed collection of Profiles plus a single
// default pointer, backed by one CBOR file guarded by an advisory
// lock. Access is scoped: [Open] acquires the lock and reads the file
// into memory, mutations buffer in memory, and [Store.Close] flushes
// them back in one atomic replace (write to a temp file in the same
// directory, fsync, rename). A crash mid-write can never leave a
// half-written store, and a reader that opens after a completed close
// always observes a fully consistent state. Concurrent writers
// serialize on the lock; conflict resolution is last-write-wins at
// whole-store granularity.
//
// Cached describe documents are stored zstd-compressed with a blake3
// digest of the uncompressed JSON; a digest mismatch on load is
// treated as corruption.
package profile
