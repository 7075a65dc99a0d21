// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func testStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "profiles.cbor")
}

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	store, err := OpenPath(context.Background(), path)
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}
	return store
}

func closeStore(t *testing.T, store *Store) {
	t.Helper()
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func TestStoreRoundtrip(t *testing.T) {
	path := testStorePath(t)
	description := []byte(`{"version":"2.0","resources":[{"name":"machines","path":"machines/"}]}`)

	store := openTestStore(t, path)
	entry := New("staging", "http://controller.example.com:5240/", "ck:tk:ts").
		WithDescription(description)
	if err := store.Save(entry); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.SetDefault("staging"); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}
	closeStore(t, store)

	reopened := openTestStore(t, path)
	defer closeStore(t, reopened)

	loaded, err := reopened.Get("staging")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if loaded.URL() != "http://controller.example.com:5240/" {
		t.Errorf("url: got %q", loaded.URL())
	}
	if loaded.Credentials() != "ck:tk:ts" {
		t.Errorf("credentials: got %q", loaded.Credentials())
	}
	if string(loaded.Description()) != string(description) {
		t.Error("cached description did not survive the roundtrip")
	}
	if reopened.DefaultName() != "staging" {
		t.Errorf("default: got %q", reopened.DefaultName())
	}
}

func TestStoreSave(t *testing.T) {
	t.Run("rejects an unnamed profile", func(t *testing.T) {
		store := openTestStore(t, testStorePath(t))
		defer closeStore(t, store)

		if err := store.Save(New("", "http://x/", "c:t:s")); err == nil {
			t.Fatal("expected error for empty name")
		}
	})

	t.Run("overwrite replaces the entry", func(t *testing.T) {
		path := testStorePath(t)

		store := openTestStore(t, path)
		if err := store.Save(New("foo", "http://old/", "a:a:a")); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if err := store.Save(New("foo", "http://new/", "b:b:b")); err != nil {
			t.Fatalf("overwrite failed: %v", err)
		}
		closeStore(t, store)

		reopened := openTestStore(t, path)
		defer closeStore(t, reopened)
		loaded, err := reopened.Get("foo")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if loaded.URL() != "http://new/" || loaded.Credentials() != "b:b:b" {
			t.Errorf("overwrite not persisted: url=%q credentials=%q", loaded.URL(), loaded.Credentials())
		}
	})
}

func TestStoreDelete(t *testing.T) {
	t.Run("deleting the default clears the default", func(t *testing.T) {
		path := testStorePath(t)

		store := openTestStore(t, path)
		if err := store.Save(New("foo", "http://x/", "c:t:s")); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if err := store.SetDefault("foo"); err != nil {
			t.Fatalf("SetDefault failed: %v", err)
		}
		if err := store.Delete("foo"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if store.DefaultName() != "" {
			t.Errorf("default should be cleared, got %q", store.DefaultName())
		}
		closeStore(t, store)

		reopened := openTestStore(t, path)
		defer closeStore(t, reopened)
		if got := reopened.Names(); len(got) != 0 {
			t.Errorf("expected empty store, got %v", got)
		}
		if reopened.DefaultName() != "" {
			t.Errorf("default should stay cleared, got %q", reopened.DefaultName())
		}
		if err := reopened.Delete("foo"); !errors.Is(err, ErrNotFound) {
			t.Errorf("second delete: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("deleting a non-default preserves the default", func(t *testing.T) {
		store := openTestStore(t, testStorePath(t))
		defer closeStore(t, store)

		for _, name := range []string{"foo", "bar"} {
			if err := store.Save(New(name, "http://x/", "c:t:s")); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
		}
		if err := store.SetDefault("foo"); err != nil {
			t.Fatalf("SetDefault failed: %v", err)
		}
		if err := store.Delete("bar"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if store.DefaultName() != "foo" {
			t.Errorf("default should survive, got %q", store.DefaultName())
		}
	})

	t.Run("missing name is ErrNotFound", func(t *testing.T) {
		store := openTestStore(t, testStorePath(t))
		defer closeStore(t, store)

		if err := store.Delete("ghost"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestStoreDefault(t *testing.T) {
	t.Run("set default on missing name leaves prior default", func(t *testing.T) {
		store := openTestStore(t, testStorePath(t))
		defer closeStore(t, store)

		if err := store.Save(New("foo", "http://x/", "c:t:s")); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if err := store.SetDefault("foo"); err != nil {
			t.Fatalf("SetDefault failed: %v", err)
		}
		if err := store.SetDefault("ghost"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if store.DefaultName() != "foo" {
			t.Errorf("prior default should survive, got %q", store.DefaultName())
		}
	})

	t.Run("default with no default set is ErrNotFound", func(t *testing.T) {
		store := openTestStore(t, testStorePath(t))
		defer closeStore(t, store)

		if _, err := store.Default(); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("clear default persists", func(t *testing.T) {
		path := testStorePath(t)

		store := openTestStore(t, path)
		if err := store.Save(New("foo", "http://x/", "c:t:s")); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if err := store.SetDefault("foo"); err != nil {
			t.Fatalf("SetDefault failed: %v", err)
		}
		closeStore(t, store)

		store = openTestStore(t, path)
		store.ClearDefault()
		closeStore(t, store)

		reopened := openTestStore(t, path)
		defer closeStore(t, reopened)
		if reopened.DefaultName() != "" {
			t.Errorf("default should be cleared, got %q", reopened.DefaultName())
		}
	})
}

func TestStoreSequentialScopes(t *testing.T) {
	// Two open/mutate/close cycles: the second scope must observe the
	// first's mutations, and the final state is the union of both.
	path := testStorePath(t)

	store := openTestStore(t, path)
	if err := store.Save(New("alpha", "http://a/", "a:a:a")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	closeStore(t, store)

	store = openTestStore(t, path)
	if _, err := store.Get("alpha"); err != nil {
		t.Fatalf("second scope should observe alpha: %v", err)
	}
	if err := store.Save(New("beta", "http://b/", "b:b:b")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	closeStore(t, store)

	final := openTestStore(t, path)
	defer closeStore(t, final)
	if got, want := final.Names(), []string{"alpha", "beta"}; !reflect.DeepEqual(got, want) {
		t.Errorf("names: got %v, want %v", got, want)
	}
}

func TestStoreCloseWithoutMutationLeavesFileAlone(t *testing.T) {
	path := testStorePath(t)

	store := openTestStore(t, path)
	if err := store.Save(New("foo", "http://x/", "c:t:s")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	closeStore(t, store)

	before, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}

	// Read-only scope: no flush, so the inode must not be replaced.
	store = openTestStore(t, path)
	if _, err := store.Get("foo"); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	closeStore(t, store)

	after, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if !os.SameFile(before, after) {
		t.Error("read-only close replaced the store file")
	}
}

func TestStoreCloseIdempotent(t *testing.T) {
	store := openTestStore(t, testStorePath(t))
	closeStore(t, store)
	closeStore(t, store)

	if err := store.Save(New("foo", "http://x/", "c:t:s")); err == nil {
		t.Error("Save on a closed store should fail")
	}
	if err := store.Delete("foo"); err == nil {
		t.Error("Delete on a closed store should fail")
	}
	if err := store.SetDefault("foo"); err == nil {
		t.Error("SetDefault on a closed store should fail")
	}
}

func TestStoreLockContention(t *testing.T) {
	path := testStorePath(t)

	holder := openTestStore(t, path)
	defer closeStore(t, holder)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := OpenPath(ctx, path)
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("lock wait was not bounded by the context deadline (%v)", elapsed)
	}
}

func TestStoreCorrupt(t *testing.T) {
	t.Run("undecodable content", func(t *testing.T) {
		path := testStorePath(t)
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("not cbor at all"), 0600); err != nil {
			t.Fatal(err)
		}

		if _, err := OpenPath(context.Background(), path); !errors.Is(err, ErrStoreCorrupt) {
			t.Errorf("expected ErrStoreCorrupt, got %v", err)
		}
	})

	t.Run("corrupt store leaves the file untouched", func(t *testing.T) {
		path := testStorePath(t)
		garbage := []byte("not cbor at all")
		if err := os.WriteFile(path, garbage, 0600); err != nil {
			t.Fatal(err)
		}

		_, err := OpenPath(context.Background(), path)
		if err == nil {
			t.Fatal("expected open to fail")
		}

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(content) != string(garbage) {
			t.Error("failed open modified the store file")
		}
	})

	t.Run("truncated description digest", func(t *testing.T) {
		path := testStorePath(t)

		store := openTestStore(t, path)
		entry := New("foo", "http://x/", "c:t:s").
			WithDescription([]byte(strings.Repeat(`{"resources":[]}`, 64)))
		if err := store.Save(entry); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		closeStore(t, store)

		// Flip the last byte of the file. Whichever field it lands in,
		// the load either fails to decode or fails the digest check.
		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		content[len(content)-1] ^= 0xFF
		if err := os.WriteFile(path, content, 0600); err != nil {
			t.Fatal(err)
		}

		if _, err := OpenPath(context.Background(), path); !errors.Is(err, ErrStoreCorrupt) {
			t.Errorf("expected ErrStoreCorrupt, got %v", err)
		}
	})
}

func TestStoreFilePermissions(t *testing.T) {
	path := testStorePath(t)

	store := openTestStore(t, path)
	if err := store.Save(New("foo", "http://x/", "c:t:s")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	closeStore(t, store)

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("store file mode: got %o, want 0600", mode)
	}
}

func TestStoreCreatesMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "profiles.cbor")

	store, err := OpenPath(context.Background(), path)
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}
	closeStore(t, store)

	info, err := os.Stat(filepath.Dir(path))
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0700 {
		t.Errorf("directory mode: got %o, want 0700", mode)
	}
}
