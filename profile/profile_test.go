// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"bytes"
	"testing"
)

func TestProfileWithMethodsCopy(t *testing.T) {
	original := New("", "http://x/", "ck:tk:ts")

	named := original.WithName("foo")
	if original.Name() != "" {
		t.Error("WithName mutated the original")
	}
	if named.Name() != "foo" {
		t.Errorf("name: got %q", named.Name())
	}
	if named.URL() != original.URL() || named.Credentials() != original.Credentials() {
		t.Error("WithName should preserve other fields")
	}

	moved := named.WithURL("http://y/").WithCredentials("a:b:c")
	if named.URL() != "http://x/" || named.Credentials() != "ck:tk:ts" {
		t.Error("With chain mutated an earlier value")
	}
	if moved.URL() != "http://y/" || moved.Credentials() != "a:b:c" {
		t.Errorf("unexpected fields: url=%q credentials=%q", moved.URL(), moved.Credentials())
	}
}

func TestProfileWithDescriptionCopiesBytes(t *testing.T) {
	source := []byte(`{"version":"2.0"}`)
	entry := New("foo", "http://x/", "c:t:s").WithDescription(source)

	source[0] = 'X'
	if !bytes.Equal(entry.Description(), []byte(`{"version":"2.0"}`)) {
		t.Error("mutating the source slice leaked into the profile")
	}

	if !entry.HasDescription() {
		t.Error("HasDescription should be true")
	}

	cleared := entry.WithDescription(nil)
	if cleared.HasDescription() {
		t.Error("WithDescription(nil) should clear the cache")
	}
	if !entry.HasDescription() {
		t.Error("clearing a copy mutated the original")
	}
}
