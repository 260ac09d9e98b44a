// Copyright (c) 2026 Kavomjer. All rights reserved.
// Author: dario.vukelic.dev@gmail.com

/*
Package jsonstore persists catalog collections as flat JSON files.

Each collection maps to one file under the configured data directory
(e.g. coffees.json). Reads decode the whole file; writes marshal the whole
collection and replace the file atomically via a temp file + rename, so a
crash mid-write can never leave a half-written collection behind.

A per-store mutex serializes file access. The catalog is small (hundreds of
records) and write traffic is admin-only and rate limited, so whole-file
rewrites are a deliberate simplicity trade-off, not a bottleneck.
*/
package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/dvukelic/kavomjer/internal/platform/constants"
)

// Store reads and writes JSON collection files in a single directory.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("jsonstore: failed to create data directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the root data directory.
func (store *Store) Dir() string { return store.dir }

// Read decodes the named collection into target.
//
// A missing file is not an error: target is left untouched, matching the
// semantics of an empty collection on first boot.
func (store *Store) Read(collection string, target any) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	data, err := os.ReadFile(store.path(collection))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("jsonstore: failed to read collection %s: %w", collection, err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("jsonstore: corrupt collection %s: %w", collection, err)
	}
	return nil
}

// Write marshals value and atomically replaces the named collection file.
func (store *Store) Write(collection string, value any) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("jsonstore: failed to marshal collection %s: %w", collection, err)
	}

	finalPath := store.path(collection)
	tempFile, err := os.CreateTemp(store.dir, collection+".tmp-*")
	if err != nil {
		return fmt.Errorf("jsonstore: failed to create temp file for %s: %w", collection, err)
	}

	tempPath := tempFile.Name()
	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return fmt.Errorf("jsonstore: failed to write collection %s: %w", collection, err)
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("jsonstore: failed to close temp file for %s: %w", collection, err)
	}

	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("jsonstore: failed to replace collection %s: %w", collection, err)
	}
	return nil
}

// Ping verifies the data directory is still writable, for readiness probes.
func (store *Store) Ping() error {
	probe, err := os.CreateTemp(store.dir, ".probe-*")
	if err != nil {
		return fmt.Errorf("jsonstore: data directory not writable: %w", err)
	}
	probePath := probe.Name()
	probe.Close()
	return os.Remove(probePath)
}

func (store *Store) path(collection string) string {
	return filepath.Join(store.dir, collection+constants.CollectionExtension)
}
