// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sys/unix"

	"github.com/slipway-systems/slipway/lib/codec"
)

// Sentinel errors for the failure modes callers branch on. Wrapped
// errors carry the operation detail; match with errors.Is.
var (
	// ErrStoreUnavailable indicates the store file could not be opened
	// or its lock could not be acquired within the bounded wait.
	ErrStoreUnavailable = errors.New("profile store unavailable")

	// ErrStoreCorrupt indicates the persisted content could not be
	// parsed into valid profile records, or a cached description
	// failed its digest check.
	ErrStoreCorrupt = errors.New("profile store corrupt")

	// ErrNotFound indicates a referenced profile name is absent.
	ErrNotFound = errors.New("profile not found")
)

// DefaultLockTimeout bounds the wait for the store lock when the
// caller's context carries no deadline.
const DefaultLockTimeout = 5 * time.Second

// lockPollInterval is how often Open retries a contended lock.
const lockPollInterval = 50 * time.Millisecond

// storeFormatVersion is the on-disk format version. Bumped only for
// incompatible layout changes; unknown fields in records are ignored
// by the decoder, so additive changes don't need a bump.
const storeFormatVersion = 1

// storeFile is the CBOR document persisted on disk.
type storeFile struct {
	Version  int                      `cbor:"version"`
	Default  string                   `cbor:"default,omitempty"`
	Profiles map[string]profileRecord `cbor:"profiles"`
}

// profileRecord is the on-disk form of one Profile. The name is the
// map key, not a record field.
type profileRecord struct {
	URL         string             `cbor:"url"`
	Credentials string             `cbor:"credentials"`
	Description *descriptionRecord `cbor:"description,omitempty"`
}

// Store is a scoped handle on the profile store: the backing file,
// its exclusive lock, and the decoded profiles. Mutations buffer in
// memory; Close flushes them atomically and releases the lock.
//
// A Store is not safe for concurrent use by multiple goroutines — it
// models one open/mutate/close bracket. Cross-process safety comes
// from the file lock.
type Store struct {
	path        string
	file        *os.File
	profiles    map[string]Profile
	defaultName string
	dirty       bool
	closed      bool
	logger      *slog.Logger
}

// Open acquires the store at the default path. See OpenPath.
func Open(ctx context.Context) (*Store, error) {
	return OpenPath(ctx, DefaultPath())
}

// OpenPath opens (creating if absent) and exclusively locks the store
// file at path, then decodes it into memory. The parent directory is
// created with mode 0700 and the file with mode 0600 — the store
// holds credentials.
//
// The lock wait is bounded: by the context's deadline when it has
// one, otherwise by DefaultLockTimeout. A lock or open failure is
// ErrStoreUnavailable; undecodable content is ErrStoreCorrupt. The
// caller must Close the returned Store to flush mutations and release
// the lock.
func OpenPath(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("profile: creating store directory: %w: %w", ErrStoreUnavailable, err)
	}

	file, err := openLocked(ctx, path)
	if err != nil {
		return nil, err
	}

	store := &Store{
		path:     path,
		file:     file,
		profiles: make(map[string]Profile),
		logger:   slog.Default(),
	}
	if err := store.load(); err != nil {
		unlockAndClose(file)
		return nil, err
	}
	return store, nil
}

// openLocked opens the store file and acquires its exclusive lock.
// After the lock lands it re-checks that the path still names the
// locked inode: a concurrent Close replaces the file by rename, and a
// lock acquired on the replaced inode would read stale content. On a
// mismatch the stale handle is dropped and the open retried.
func openLocked(ctx context.Context, path string) (*os.File, error) {
	for {
		file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
		if err != nil {
			return nil, fmt.Errorf("profile: opening store %s: %w: %w", path, ErrStoreUnavailable, err)
		}
		if err := lockFile(ctx, file); err != nil {
			file.Close()
			return nil, err
		}

		pathInfo, err := os.Stat(path)
		if err == nil {
			fileInfo, statErr := file.Stat()
			if statErr == nil && os.SameFile(pathInfo, fileInfo) {
				return file, nil
			}
		}
		// The file was replaced (or removed) while we waited for the
		// lock. Retry against the current inode.
		unlockAndClose(file)
	}
}

// lockFile acquires an exclusive advisory lock with a bounded,
// polling wait. Polling LOCK_EX|LOCK_NB rather than blocking in
// flock(2) keeps the wait cancellable by the caller's context.
func lockFile(ctx context.Context, file *os.File) error {
	deadline := time.Now().Add(DefaultLockTimeout)
	if contextDeadline, ok := ctx.Deadline(); ok {
		deadline = contextDeadline
	}

	for {
		err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EINTR) {
			return fmt.Errorf("profile: locking store: %w: %w", ErrStoreUnavailable, err)
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("profile: store locked by another process: %w", ErrStoreUnavailable)
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("profile: waiting for store lock: %w: %w", ErrStoreUnavailable, ctx.Err())
		case <-time.After(lockPollInterval):
		}
	}
}

func unlockAndClose(file *os.File) {
	unix.Flock(int(file.Fd()), unix.LOCK_UN)
	file.Close()
}

// load decodes the store file into memory. An empty file is an empty
// store (the common first-run case, since Open creates the file).
func (s *Store) load() error {
	data, err := io.ReadAll(s.file)
	if err != nil {
		return fmt.Errorf("profile: reading store: %w: %w", ErrStoreUnavailable, err)
	}
	if len(data) == 0 {
		return nil
	}

	var decoded storeFile
	if err := codec.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("profile: decoding store %s: %w: %w", s.path, ErrStoreCorrupt, err)
	}
	if decoded.Version != storeFormatVersion {
		return fmt.Errorf("profile: store %s has format version %d (want %d): %w",
			s.path, decoded.Version, storeFormatVersion, ErrStoreCorrupt)
	}

	for name, record := range decoded.Profiles {
		if name == "" {
			return fmt.Errorf("profile: store %s contains an unnamed entry: %w", s.path, ErrStoreCorrupt)
		}
		entry := New(name, record.URL, record.Credentials)
		if record.Description != nil {
			raw, err := decodeDescription(*record.Description)
			if err != nil {
				return fmt.Errorf("profile: cached description for %q: %w: %w", name, ErrStoreCorrupt, err)
			}
			entry = entry.WithDescription(raw)
		}
		s.profiles[name] = entry
	}

	if decoded.Default != "" {
		if _, present := s.profiles[decoded.Default]; !present {
			return fmt.Errorf("profile: store %s default %q names a missing entry: %w",
				s.path, decoded.Default, ErrStoreCorrupt)
		}
		s.defaultName = decoded.Default
	}
	return nil
}

// Path returns the store file path.
func (s *Store) Path() string { return s.path }

// Save inserts or overwrites the entry keyed by the profile's name.
// It does not change the default pointer.
func (s *Store) Save(entry Profile) error {
	if s.closed {
		return fmt.Errorf("profile: save on closed store")
	}
	if entry.Name() == "" {
		return fmt.Errorf("profile: cannot save a profile with no name")
	}
	s.profiles[entry.Name()] = entry
	s.dirty = true
	return nil
}

// Get returns the named profile, or ErrNotFound.
func (s *Store) Get(name string) (Profile, error) {
	entry, present := s.profiles[name]
	if !present {
		return Profile{}, fmt.Errorf("profile: %q: %w", name, ErrNotFound)
	}
	return entry, nil
}

// Delete removes the named entry. Deleting the current default clears
// the default pointer. Fails with ErrNotFound if the name is absent.
func (s *Store) Delete(name string) error {
	if s.closed {
		return fmt.Errorf("profile: delete on closed store")
	}
	if _, present := s.profiles[name]; !present {
		return fmt.Errorf("profile: %q: %w", name, ErrNotFound)
	}
	delete(s.profiles, name)
	if s.defaultName == name {
		s.defaultName = ""
	}
	s.dirty = true
	return nil
}

// Names returns all stored profile names, sorted.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultName returns the name of the default profile, or "" when no
// default is set.
func (s *Store) DefaultName() string { return s.defaultName }

// SetDefault marks the named profile as the default. Fails with
// ErrNotFound (leaving the prior default unchanged) if the name is
// absent.
func (s *Store) SetDefault(name string) error {
	if s.closed {
		return fmt.Errorf("profile: set default on closed store")
	}
	if _, present := s.profiles[name]; !present {
		return fmt.Errorf("profile: %q: %w", name, ErrNotFound)
	}
	s.defaultName = name
	s.dirty = true
	return nil
}

// ClearDefault unsets the default pointer.
func (s *Store) ClearDefault() {
	if s.defaultName == "" {
		return
	}
	s.defaultName = ""
	s.dirty = true
}

// Default returns the default profile, or ErrNotFound when no default
// is set.
func (s *Store) Default() (Profile, error) {
	if s.defaultName == "" {
		return Profile{}, fmt.Errorf("profile: no default profile: %w", ErrNotFound)
	}
	return s.Get(s.defaultName)
}

// Close flushes buffered mutations (if any) and releases the lock.
// The flush is atomic: the new content is written to a temp file in
// the store's directory, fsynced, and renamed over the store path, so
// a crash mid-write leaves the previous content intact. Close is
// idempotent; after Close the Store rejects mutations.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	defer unlockAndClose(s.file)

	if !s.dirty {
		return nil
	}

	document := storeFile{
		Version:  storeFormatVersion,
		Default:  s.defaultName,
		Profiles: make(map[string]profileRecord, len(s.profiles)),
	}
	for name, entry := range s.profiles {
		record := profileRecord{
			URL:         entry.URL(),
			Credentials: entry.Credentials(),
		}
		if entry.HasDescription() {
			encoded := encodeDescription(entry.Description())
			record.Description = &encoded
		}
		document.Profiles[name] = record
	}

	data, err := codec.Marshal(document)
	if err != nil {
		return fmt.Errorf("profile: encoding store: %w", err)
	}

	directory := filepath.Dir(s.path)
	temp, err := os.CreateTemp(directory, ".profiles-*")
	if err != nil {
		return fmt.Errorf("profile: creating temp file: %w", err)
	}
	tempPath := temp.Name()
	defer os.Remove(tempPath) // no-op after a successful rename

	if err := temp.Chmod(0600); err != nil {
		temp.Close()
		return fmt.Errorf("profile: setting temp file mode: %w", err)
	}
	if _, err := temp.Write(data); err != nil {
		temp.Close()
		return fmt.Errorf("profile: writing store: %w", err)
	}
	if err := temp.Sync(); err != nil {
		temp.Close()
		return fmt.Errorf("profile: syncing store: %w", err)
	}
	if err := temp.Close(); err != nil {
		return fmt.Errorf("profile: closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		return fmt.Errorf("profile: replacing store: %w", err)
	}

	s.logger.Debug("profile store flushed",
		"path", s.path,
		"profiles", len(s.profiles),
	)
	return nil
}
