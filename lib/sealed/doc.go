// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed provides age encryption and decryption for Slipway
// profile export bundles. It wraps filippo.io/age for the specific
// operations the profile export path needs: generate x25519 keypairs,
// encrypt to multiple recipients, and decrypt with a private key.
//
// Ciphertext is base64-encoded so an exported bundle is a single
// printable token that survives copy-paste, chat, and email. Callers
// pass plaintext []byte to [Encrypt] and receive a base64 string;
// [Decrypt] accepts a base64 string and returns plaintext.
//
// Private keys and decrypted plaintext are returned as [secret.Buffer]
// values backed by mmap memory outside the Go heap (locked against
// swap, excluded from core dumps, zeroed on Close).
package sealed
