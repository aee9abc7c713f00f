// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	badgerdb "github.com/dgraph-io/badger/v4"

	storage "github.com/AleutianAI/depgraph/services/depgraph/storage/badger"
)

// keyPrefix namespaces project keys in the shared database.
const keyPrefix = "project:"

// Store persists project definitions in BadgerDB.
//
// Keys are "project:<name>", values JSON-encoded Specs. Every write
// validates the spec first, so the store never holds a definition the
// builder cannot compile.
//
// Thread Safety: Safe for concurrent use; BadgerDB transactions provide the
// isolation.
type Store struct {
	db     *storage.DB
	closed atomic.Bool
}

// NewStore opens a project store over the given database configuration.
func NewStore(cfg storage.Config) (*Store, error) {
	db, err := storage.OpenDB(cfg)
	if err != nil {
		return nil, fmt.Errorf("open project store: %w", err)
	}
	return &Store{db: db}, nil
}

// NewInMemoryStore opens a store that keeps nothing on disk. Used by tests
// and by deployments that treat spec files as the source of truth.
func NewInMemoryStore() (*Store, error) {
	return NewStore(storage.InMemoryConfig())
}

// Close releases the underlying database. Subsequent operations return
// ErrStoreClosed.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

func specKey(name string) []byte {
	return []byte(keyPrefix + name)
}

// Put validates and upserts a project definition.
func (s *Store) Put(ctx context.Context, spec Spec) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}
	if err := spec.Validate(); err != nil {
		return err
	}

	value, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("encode spec %s: %w", spec.Name, err)
	}

	return s.db.WithTxn(ctx, func(txn *badgerdb.Txn) error {
		return txn.Set(specKey(spec.Name), value)
	})
}

// Get returns the project definition with the given name.
func (s *Store) Get(ctx context.Context, name string) (Spec, error) {
	if s.closed.Load() {
		return Spec{}, ErrStoreClosed
	}

	var spec Spec
	err := s.db.WithReadTxn(ctx, func(txn *badgerdb.Txn) error {
		item, err := txn.Get(specKey(name))
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrProjectNotFound, name)
		}
		if err != nil {
			return fmt.Errorf("read spec %s: %w", name, err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &spec)
		})
	})
	if err != nil {
		return Spec{}, err
	}
	return spec, nil
}

// Delete removes a project definition. Deleting an absent project returns
// ErrProjectNotFound.
func (s *Store) Delete(ctx context.Context, name string) error {
	if s.closed.Load() {
		return ErrStoreClosed
	}

	return s.db.WithTxn(ctx, func(txn *badgerdb.Txn) error {
		if _, err := txn.Get(specKey(name)); errors.Is(err, badgerdb.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrProjectNotFound, name)
		} else if err != nil {
			return fmt.Errorf("read spec %s: %w", name, err)
		}
		return txn.Delete(specKey(name))
	})
}

// List returns all project definitions sorted by name.
func (s *Store) List(ctx context.Context) ([]Spec, error) {
	if s.closed.Load() {
		return nil, ErrStoreClosed
	}

	var specs []Spec
	err := s.db.WithReadTxn(ctx, func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var spec Spec
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &spec)
			})
			if err != nil {
				return fmt.Errorf("decode spec %s: %w", it.Item().Key(), err)
			}
			specs = append(specs, spec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs, nil
}

// Count returns the number of stored project definitions.
func (s *Store) Count(ctx context.Context) (int, error) {
	if s.closed.Load() {
		return 0, ErrStoreClosed
	}

	count := 0
	err := s.db.WithReadTxn(ctx, func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
