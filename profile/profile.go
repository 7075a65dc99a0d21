// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package profile

// Profile is one named controller identity: endpoint URL, credential
// material, and optionally a cached describe document. Profiles are
// immutable values — the With methods return a modified copy, and the
// Store replaces entries wholesale on Save.
//
// A Profile fresh from a login has an empty name; callers name it
// with WithName before saving.
type Profile struct {
	name        string
	url         string
	credentials string
	description []byte
}

// New creates a Profile with no cached description.
func New(name, url, credentials string) Profile {
	return Profile{name: name, url: url, credentials: credentials}
}

// Name returns the profile's name, the key it is stored under.
func (p Profile) Name() string { return p.name }

// URL returns the controller's canonical base URL.
func (p Profile) URL() string { return p.url }

// Credentials returns the API key in its "consumer:token:secret"
// string form. The result contains secret material — never log it.
func (p Profile) Credentials() string { return p.credentials }

// Description returns the cached describe document JSON, or nil when
// the profile has none cached.
func (p Profile) Description() []byte { return p.description }

// HasDescription reports whether a describe document is cached.
func (p Profile) HasDescription() bool { return len(p.description) > 0 }

// WithName returns a copy with the given name. The original is
// unchanged; saving the copy under a new name does not remove any
// entry stored under the old one.
func (p Profile) WithName(name string) Profile {
	p.name = name
	return p
}

// WithURL returns a copy with the given endpoint URL.
func (p Profile) WithURL(url string) Profile {
	p.url = url
	return p
}

// WithCredentials returns a copy with the given credential string.
func (p Profile) WithCredentials(credentials string) Profile {
	p.credentials = credentials
	return p
}

// WithDescription returns a copy with the given describe document
// cached. The bytes are copied, so later mutation of the caller's
// slice does not leak into the profile. Passing nil clears the cache.
func (p Profile) WithDescription(description []byte) Profile {
	if description == nil {
		p.description = nil
		return p
	}
	copied := make([]byte, len(description))
	copy(copied, description)
	p.description = copied
	return p
}
